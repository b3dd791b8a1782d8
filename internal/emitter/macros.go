package emitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bthompson/bcc/internal/config"
)

// runtimeDecls renders an extern declaration for every name in the
// runtime contract, in sorted order for determinism. The declarations
// are deliberately un-prototyped (old-style K&R empty parens): the
// runtime's actual argument counts vary per call site (e.g. b_printf),
// and this repo never defines these bodies, only calls them.
func runtimeDecls() string {
	names := make([]string, 0, len(runtimeNames))
	for name := range runtimeNames {
		names = append(names, name)
	}
	sort.Strings(names)
	var out strings.Builder
	for _, name := range names {
		fmt.Fprintf(&out, "extern word %s();\n", name)
	}
	return out.String()
}

// interopDecls declares the runtime's C-string conversion helpers with
// their real signatures; they return or accept const char *, unlike
// every other runtime entry point, so they can't share runtimeDecls's
// uniform "extern word NAME();" form.
const interopDecls = `extern const char *__b_cstr(word);
extern word __b_pack_cstr(const char *);
extern const char *__b_bstr_to_cstr(word, word);
`

// preamble renders the fixed C header block: includes, the word/uword
// typedefs, the sign-mask macro for the selected width, the pointer-
// model macros, and the word-arithmetic macros. Everything below this
// point in the output depends only on opts, never on the program being
// compiled.
func preamble(opts config.Options) string {
	bits := opts.Word.Bits()
	var mask string
	if bits >= 64 {
		mask = "WVAL(x) ((word)(x))"
	} else {
		maskBits := fmt.Sprintf("((((uword)1)<<%dU)-1)", bits)
		signBit := fmt.Sprintf("(((uword)1)<<%dU)", bits-1)
		mask = fmt.Sprintf("WVAL(x) ((word)((((uword)(x) & %s) ^ %s) - %s))", maskBits, signBit, signBit)
	}

	var derefMacros string
	if opts.Pointer == config.PointerByte {
		derefMacros = `
#define B_DEREF(p)      (*(word *)(p))
#define B_ADDR(lv)      ((word)(intptr_t)&(lv))
#define B_INDEX(p, i)   (*(word *)((char *)(p) + (intptr_t)(i) * (intptr_t)sizeof(word)))
#define B_PTR(sym)      ((word)(intptr_t)(sym))
#define B_CPTR(p)       ((void *)(intptr_t)(p))
#define B_STR(p)        ((const char *)(intptr_t)(p))
`
	} else {
		derefMacros = `
#define B_DEREF(p)      (*(word *)((char *)0 + (intptr_t)(p) * (intptr_t)sizeof(word)))
#define B_ADDR(lv)      ((word)(((char *)&(lv) - (char *)0) / (intptr_t)sizeof(word)))
#define B_INDEX(p, i)   (*(word *)((char *)0 + ((intptr_t)(p) + (intptr_t)(i)) * (intptr_t)sizeof(word)))
#define B_PTR(sym)      ((word)(((char *)(sym) - (char *)0) / (intptr_t)sizeof(word)))
#define B_CPTR(p)       ((void *)((char *)0 + (intptr_t)(p) * (intptr_t)sizeof(word)))
#define B_STR(p)        ((const char *)((char *)0 + (intptr_t)(p) * (intptr_t)sizeof(word)))
`
	}

	return fmt.Sprintf(`/* generated by bcc, do not edit by hand */
#include <stdint.h>
#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <unistd.h>
#include <fcntl.h>
#include <termios.h>
#include <dlfcn.h>
#include <math.h>

typedef intptr_t  word;
typedef uintptr_t uword;

#define SHIFT_MASK %d
#define %s
#define WADD(a, b)  WVAL((uword)(a) + (uword)(b))
#define WSUB(a, b)  WVAL((uword)(a) - (uword)(b))
#define WMUL(a, b)  WVAL((uword)(a) * (uword)(b))
#define WDIV(a, b)  WVAL((uword)(a) / (uword)(b))
#define WMOD(a, b)  WVAL((uword)(a) %% (uword)(b))
#define WSHL(a, b)  WVAL((uword)(a) << ((uword)(b) & SHIFT_MASK))
#define WSHR(a, b)  WVAL((uword)(a) >> ((uword)(b) & SHIFT_MASK))
#define WAND(a, b)  WVAL((uword)(a) & (uword)(b))
#define WOR(a, b)   WVAL((uword)(a) | (uword)(b))
#define WXOR(a, b)  WVAL((uword)(a) ^ (uword)(b))
#define WNEG(a)     WVAL(-(uword)(a))
%s
%s
%s`, bits-1, mask, derefMacros, runtimeDecls(), interopDecls)
}
