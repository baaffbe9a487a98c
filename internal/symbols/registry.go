// Package symbols implements the foreign-function-interface bridge: a
// registry mapping source-visible names to host-provided C symbols and their
// signatures. It is grounded on the registry the original otterlang runtime
// exposes (runtime::ffi::bootstrap_stdlib / runtime::symbol_registry), re-cast
// in the teacher's symbol-table idiom (vslc's ir/llvm symTab, ir/symtab.go).
package symbols

import "sync"

// FfiType is isomorphic to codegen.SemanticType; it is kept as a distinct
// type so the registry has no import-time dependency on the codegen package.
type FfiType int

// Recognized FFI types (spec §3).
const (
	FfiUnit FfiType = iota
	FfiBool
	FfiI32
	FfiI64
	FfiF64
	FfiStr
)

func (t FfiType) String() string {
	switch t {
	case FfiUnit:
		return "unit"
	case FfiBool:
		return "bool"
	case FfiI32:
		return "i32"
	case FfiI64:
		return "i64"
	case FfiF64:
		return "f64"
	case FfiStr:
		return "str"
	default:
		return "unknown"
	}
}

// FfiSignature is the ordered parameter list and result type of a registered
// host function. Unit is allowed only as Result, never in Params.
type FfiSignature struct {
	Params []FfiType
	Result FfiType
}

// Entry is a resolved registry record.
type Entry struct {
	Symbol    string // ASCII name of the host-provided C symbol.
	Signature FfiSignature
}

// Registry resolves source-visible names — simple (`print`) or dotted
// (`std.time.now`) — to Entry records. It is process-long and normally
// read-only after Bootstrap; Resolve takes a read lock and Register a write
// lock, so lookups stay safe even when a caller registers additional symbols
// after bootstrap (e.g. in tests).
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New returns an empty registry. Most callers want Bootstrap instead.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry, 16)}
}

// Register adds or replaces the entry for name.
func (r *Registry) Register(name string, e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = e
}

// Resolve looks up name, returning ok=false if no such symbol is registered.
func (r *Registry) Resolve(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// modulePrefixes maps a source-level module prefix to its registry prefix,
// e.g. source `time.now` canonicalizes to registry name `std.time.now`. The
// original otterlang hard-codes this single mapping inline; kept declarative
// here per the design note in spec §9 ("an implementer should consider
// representing this mapping declaratively").
var modulePrefixes = map[string]string{
	"time": "std.time",
	"io":   "std.io",
}

// Canonicalize turns a source-level `module.field` reference into the dotted
// registry name used to Resolve it.
func Canonicalize(module, field string) string {
	if prefix, ok := modulePrefixes[module]; ok {
		return prefix + "." + field
	}
	return module + "." + field
}

// Bootstrap returns the registry of symbols the embedded C runtime shim
// (spec §4.7) provides. Unit ("void") results are legal; Unit parameters are
// never registered, matching the FfiSignature invariant.
func Bootstrap() *Registry {
	r := New()
	r.Register("print", Entry{
		Symbol:    "otter_std_io_println",
		Signature: FfiSignature{Params: []FfiType{FfiStr}, Result: FfiUnit},
	})
	r.Register("println", Entry{
		Symbol:    "otter_std_io_println",
		Signature: FfiSignature{Params: []FfiType{FfiStr}, Result: FfiUnit},
	})
	r.Register("std.io.print", Entry{
		Symbol:    "otter_std_io_print",
		Signature: FfiSignature{Params: []FfiType{FfiStr}, Result: FfiUnit},
	})
	r.Register("std.io.println", Entry{
		Symbol:    "otter_std_io_println",
		Signature: FfiSignature{Params: []FfiType{FfiStr}, Result: FfiUnit},
	})
	r.Register("std.io.read_line", Entry{
		Symbol:    "otter_std_io_read_line",
		Signature: FfiSignature{Params: nil, Result: FfiStr},
	})
	r.Register("std.io.free_string", Entry{
		Symbol:    "otter_std_io_free_string",
		Signature: FfiSignature{Params: []FfiType{FfiStr}, Result: FfiUnit},
	})
	r.Register("std.time.now", Entry{
		Symbol:    "otter_std_time_now_ms",
		Signature: FfiSignature{Params: nil, Result: FfiI64},
	})
	return r
}
