package emitter

// runtimeNames is the fixed set of entry points the runtime library
// provides. A call whose callee mangles to one of these is emitted as a
// direct call to the name itself rather than run through the ordinary
// user-identifier mangler, since the runtime's surface is part of the
// wire contract, not a user name that can collide or need escaping.
var runtimeNames = map[string]bool{
	// I/O
	"b_putchar": true, "b_getchar": true, "b_putchr": true, "b_getchr": true,
	"b_putstr": true, "b_getstr": true, "b_flush": true, "b_print": true,
	"b_printf": true, "b_printn": true, "b_putnum": true,

	// Files
	"b_open": true, "b_openr": true, "b_openw": true, "b_close": true,
	"b_read": true, "b_write": true, "b_creat": true, "b_seek": true,

	// Memory & strings
	"b_alloc": true, "b_char": true, "b_lchar": true, "b_load": true,
	"b_store": true,

	// Process
	"b_fork": true, "b_wait": true, "b_execl": true, "b_execv": true,
	"b_system": true, "b_exit": true, "b_abort": true, "b_usleep": true,

	// System
	"b_chdir": true, "b_chmod": true, "b_chown": true, "b_link": true,
	"b_unlink": true, "b_stat": true, "b_fstat": true, "b_makdir": true,
	"b_getuid": true, "b_setuid": true, "b_time": true, "b_ctime": true,
	"b_gtty": true, "b_stty": true, "b_intr": true,

	// Dynamic dispatch
	"b_callf_dispatch": true,

	// Arg vector
	"__b_setargs": true, "b_argc": true, "b_argv": true, "b_reread": true,

	// Assignment helpers
	"b_preinc": true, "b_predec": true, "b_postinc": true, "b_postdec": true,
	"b_add_assign": true, "b_sub_assign": true, "b_mul_assign": true,
	"b_div_assign": true, "b_mod_assign": true, "b_lsh_assign": true,
	"b_rsh_assign": true, "b_and_assign": true, "b_or_assign": true,
	"b_xor_assign": true,
}

// interopNames are host C-library functions the emitter wraps with
// B-pointer/B-string argument conversions rather than calling directly;
// they are recognised the same way runtimeNames are.
var interopNames = map[string]bool{
	"malloc": true, "memcpy": true, "strlen": true, "printf": true,
}

// builtinAliases maps the bare names B source actually calls (K&R B's
// historic library function names, e.g. "putchar") to the runtime entry
// point they're recognised as, ahead of the general mangler. Most are
// derived mechanically by stripping the "b_" prefix; a handful of
// runtime names don't correspond to a bare B spelling at all (the
// "__b_"-prefixed interop/argv helpers are never called directly from B
// source) and a few use a different bare spelling than their runtime
// name (callf, reread's source alias is the same as its runtime name so
// no override needed there).
var builtinAliases = buildBuiltinAliases()

func buildBuiltinAliases() map[string]string {
	aliases := make(map[string]string)
	for name := range runtimeNames {
		if len(name) > 2 && name[:2] == "b_" {
			aliases[name[2:]] = name
		}
	}
	aliases["callf"] = "b_callf_dispatch"
	return aliases
}

// cReserved lists C99 keywords (plus main and a few libc macro names
// commonly defined via system headers) that collide with an otherwise legal B
// identifier and must be escaped by the mangler.
var cReserved = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true,
	"else": true, "enum": true, "extern": true, "float": true, "for": true,
	"goto": true, "if": true, "inline": true, "int": true, "long": true,
	"register": true, "restrict": true, "return": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "struct": true,
	"switch": true, "typedef": true, "union": true, "unsigned": true,
	"void": true, "volatile": true, "while": true, "main": true,
	"stdin": true, "stdout": true, "stderr": true, "errno": true,
}
