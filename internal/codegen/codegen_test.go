package codegen

import (
	"tinygo.org/x/go-llvm"

	"otterc/internal/symbols"
)

// newTestCompiler builds a Compiler with a fresh context/module/builder for
// unit tests that exercise lowering helpers directly, mirroring the session
// BuildExecutable itself constructs (spec §4.1).
func newTestCompiler() (*Compiler, func()) {
	ctx := llvm.NewContext()
	module := ctx.NewModule("otter_test")
	builder := ctx.NewBuilder()

	c := &Compiler{
		ctx:      ctx,
		module:   module,
		builder:  builder,
		registry: symbols.Bootstrap(),
		declared: make(map[string]llvm.Value, 8),
	}

	cleanup := func() {
		builder.Dispose()
		module.Dispose()
		ctx.Dispose()
	}
	return c, cleanup
}
