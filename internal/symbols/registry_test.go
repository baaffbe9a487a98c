package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		name, module, field, want string
	}{
		{"known prefix time", "time", "now", "std.time.now"},
		{"known prefix io", "io", "println", "std.io.println"},
		{"unknown prefix passes through", "math", "sqrt", "math.sqrt"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Canonicalize(c.module, c.field))
		})
	}
}

func TestBootstrapResolvesStdlibSymbols(t *testing.T) {
	r := Bootstrap()

	cases := []struct {
		name   string
		symbol string
		params []FfiType
		result FfiType
	}{
		{"print", "otter_std_io_println", []FfiType{FfiStr}, FfiUnit},
		{"println", "otter_std_io_println", []FfiType{FfiStr}, FfiUnit},
		{"std.io.print", "otter_std_io_print", []FfiType{FfiStr}, FfiUnit},
		{"std.io.println", "otter_std_io_println", []FfiType{FfiStr}, FfiUnit},
		{"std.io.read_line", "otter_std_io_read_line", nil, FfiStr},
		{"std.io.free_string", "otter_std_io_free_string", []FfiType{FfiStr}, FfiUnit},
		{"std.time.now", "otter_std_time_now_ms", nil, FfiI64},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			entry, ok := r.Resolve(c.name)
			require.True(t, ok, "expected %q to resolve", c.name)
			assert.Equal(t, c.symbol, entry.Symbol)
			assert.Equal(t, c.params, entry.Signature.Params)
			assert.Equal(t, c.result, entry.Signature.Result)
		})
	}
}

func TestResolveUnknownFails(t *testing.T) {
	r := Bootstrap()
	_, ok := r.Resolve("nonexistent.symbol")
	assert.False(t, ok)
}

func TestRegisterOverridesExistingEntry(t *testing.T) {
	r := New()
	r.Register("greet", Entry{Symbol: "otter_greet", Signature: FfiSignature{Params: []FfiType{FfiStr}, Result: FfiUnit}})
	entry, ok := r.Resolve("greet")
	require.True(t, ok)
	assert.Equal(t, "otter_greet", entry.Symbol)

	r.Register("greet", Entry{Symbol: "otter_greet_v2", Signature: FfiSignature{Result: FfiI64}})
	entry, ok = r.Resolve("greet")
	require.True(t, ok)
	assert.Equal(t, "otter_greet_v2", entry.Symbol)
}

func TestFfiTypeString(t *testing.T) {
	cases := map[FfiType]string{
		FfiUnit: "unit",
		FfiBool: "bool",
		FfiI32:  "i32",
		FfiI64:  "i64",
		FfiF64:  "f64",
		FfiStr:  "str",
		FfiType(99): "unknown",
	}
	for ty, want := range cases {
		assert.Equal(t, want, ty.String())
	}
}
