package emitter

import (
	"fmt"
	"strings"
)

// Mangler maps B identifiers to C identifiers, one form per distinct
// name per translation unit. Runtime and interop names are recognised
// ahead of mangling and returned unchanged (callers dispatch those
// separately; see Emitter.calleeName).
type Mangler struct {
	table map[string]string
	used  map[string]bool
}

// NewMangler creates an empty mangler.
func NewMangler() *Mangler {
	return &Mangler{table: make(map[string]string), used: make(map[string]bool)}
}

// Mangle returns name's C spelling, computing and caching it on first
// use so the same B name always maps to the same C name.
func (m *Mangler) Mangle(name string) string {
	if mangled, ok := m.table[name]; ok {
		return mangled
	}
	base := escapeIdent(name)
	if cReserved[base] || runtimeNames["b_"+base] {
		base = "b_" + base
	}
	candidate := base
	for n := 1; m.used[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
	m.table[name] = candidate
	m.used[candidate] = true
	return candidate
}

// Synthetic reserves a unique C identifier derived from base, going
// through the same used-name collision table as Mangle so a
// compiler-generated name (a vector's backing array, a nested list
// initializer's edge array) can never collide with a mangled B
// identifier or another synthetic name.
func (m *Mangler) Synthetic(base string) string {
	candidate := base
	for n := 1; m.used[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
	m.used[candidate] = true
	return candidate
}

// escapeIdent hex-escapes any byte in name that isn't a valid C
// identifier character, since B's lexer accepts identifiers C wouldn't.
func escapeIdent(name string) string {
	var out strings.Builder
	for i, r := range name {
		valid := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
		if valid {
			out.WriteRune(r)
			continue
		}
		fmt.Fprintf(&out, "_x%02x", r)
	}
	if out.Len() == 0 {
		return "_"
	}
	return out.String()
}
