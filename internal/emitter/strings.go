package emitter

import (
	"fmt"
	"strings"

	"github.com/bthompson/bcc/internal/config"
)

const eot = 0x04

// StringPool assigns each distinct B string literal an integer id in
// first-encounter order and packs its bytes, little-endian, into
// word-sized C initialisers terminated by an EOT byte.
type StringPool struct {
	order []string
	ids   map[string]int
}

// NewStringPool creates an empty pool.
func NewStringPool() *StringPool {
	return &StringPool{ids: make(map[string]int)}
}

// Intern records value if it hasn't been seen and returns its id.
func (sp *StringPool) Intern(value string) int {
	if id, ok := sp.ids[value]; ok {
		return id
	}
	id := len(sp.order)
	sp.ids[value] = id
	sp.order = append(sp.order, value)
	return id
}

// Name returns the C symbol holding the id'th literal's packed words.
func Name(id int) string {
	return fmt.Sprintf("__b_str%d", id)
}

// Emit renders every interned literal as a statically initialised word
// array declaration, in first-encounter id order.
func (sp *StringPool) Emit(w config.WordWidth) string {
	if len(sp.order) == 0 {
		return ""
	}
	wordBytes := w.Bits() / 8
	var out strings.Builder
	for id, value := range sp.order {
		words := packWords(value, wordBytes)
		fmt.Fprintf(&out, "static const word %s[%d] = {", Name(id), len(words))
		for i, word := range words {
			if i > 0 {
				out.WriteString(", ")
			}
			fmt.Fprintf(&out, "(word)0x%xULL", word)
		}
		out.WriteString("};\n")
	}
	return out.String()
}

// packWords packs value's bytes little-endian into wordBytes-sized
// words, appends an EOT byte, and zero-pads the final word so every
// literal occupies a whole number of words.
func packWords(value string, wordBytes int) []uint64 {
	data := append([]byte(value), eot)
	n := (len(data) + wordBytes - 1) / wordBytes
	words := make([]uint64, n)
	for i, b := range data {
		word := i / wordBytes
		shift := uint((i % wordBytes) * 8)
		words[word] |= uint64(b) << shift
	}
	return words
}
