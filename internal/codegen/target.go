package codegen

import (
	"tinygo.org/x/go-llvm"
)

// toLLVMOptLevel converts our OptLevel into the go-llvm codegen level passed
// to CreateTargetMachine. Aggressive and Default currently select the same
// scalar pass list (run via runDefaultPasses below) and only differ here, in
// the target machine's own inlining/codegen-time decisions — the gap named
// in spec §9.
func toLLVMOptLevel(level OptLevel) llvm.CodeGenOptLevel {
	switch level {
	case OptNone:
		return llvm.CodeGenLevelNone
	case OptAggressive:
		return llvm.CodeGenLevelAggressive
	default:
		return llvm.CodeGenLevelDefault
	}
}

// llvmVersion is the version of the LLVM library tinygo.org/x/go-llvm is
// built against in this module's pinned revision. The original compiler's
// current_llvm_version() reads this out of the linked library at runtime;
// the Go binding has no equivalent introspection call, so the version is
// recorded here instead (spec §4, supplemented feature).
const llvmVersion = "LLVM 13"

// LLVMVersion reports the LLVM version this build was linked against, for
// the CLI's version banner (spec §4 supplemented feature).
func LLVMVersion() string {
	return llvmVersion
}

// createTargetMachine initializes the native target and builds a
// TargetMachine for the host's default triple (spec §4.7: only the host's
// default triple is ever targeted — cross-compilation is a non-goal).
func createTargetMachine(level OptLevel) (llvm.TargetMachine, error) {
	llvm.InitializeNativeTarget()
	llvm.InitializeNativeAsmPrinter()

	triple := llvm.DefaultTargetTriple()
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return llvm.TargetMachine{}, wrapErr(KindToolchain, err, "failed to create target from triple %q", triple)
	}

	tm := target.CreateTargetMachine(
		triple,
		"generic",
		"",
		toLLVMOptLevel(level),
		llvm.RelocDefault,
		llvm.CodeModelDefault,
	)
	return tm, nil
}

// runDefaultPasses runs the canned scalar optimisation pipeline (spec §4.7):
// instruction combining, reassociation, global value numbering, control-flow
// simplification, instruction simplification. None skips the pass manager
// entirely; Default and Aggressive currently share this same pass list.
func runDefaultPasses(m llvm.Module, level OptLevel) {
	if level == OptNone {
		return
	}

	pm := llvm.NewPassManager()
	defer pm.Dispose()

	pm.AddInstructionCombiningPass()
	pm.AddReassociatePass()
	pm.AddGVNPass()
	pm.AddCFGSimplificationPass()
	pm.AddInstructionSimplifyPass()
	pm.Run(m)
}
