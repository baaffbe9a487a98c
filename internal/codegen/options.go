package codegen

// OptLevel selects the scalar optimisation pipeline run before object
// emission (spec §4.7). None skips the pass list entirely; Aggressive runs
// the same pass list as Default and differs only in the target machine's
// codegen level — see runDefaultPasses and toLLVMOptLevel in target.go and
// the recognized gap in spec §9.
type OptLevel int

// Recognized optimisation levels.
const (
	OptNone OptLevel = iota
	OptDefault
	OptAggressive
)

func (l OptLevel) String() string {
	switch l {
	case OptNone:
		return "none"
	case OptDefault:
		return "default"
	case OptAggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// ParseOptLevel maps a CLI/config opt-level name onto an OptLevel.
func ParseOptLevel(name string) (OptLevel, error) {
	switch name {
	case "", "none":
		return OptNone, nil
	case "default":
		return OptDefault, nil
	case "aggressive":
		return OptAggressive, nil
	default:
		return OptNone, newErr(KindInputProgram, "unknown opt level %q", name)
	}
}

// Options configures one build session (spec §4.1).
type Options struct {
	// EmitIR captures a textual IR snapshot before optimisation may rewrite
	// the module.
	EmitIR bool
	// OptLevel selects the pass pipeline and target machine codegen level.
	OptLevel OptLevel
	// EnableLTO passes -flto to the final linker invocation.
	EnableLTO bool
}
