package codegen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	e := newErr(KindTypeCheck, "bad thing %d", 7)
	assert.Equal(t, "type check: bad thing 7", e.Error())
	assert.Nil(t, e.Unwrap())
}

func TestWrapErrPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	e := wrapErr(KindToolchain, cause, "link failed")
	assert.Equal(t, "toolchain: link failed: boom", e.Error())
	assert.Same(t, cause, e.Unwrap())
	require.True(t, errors.Is(e, cause))
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindInputProgram:      "input program",
		KindNameResolution:    "name resolution",
		KindTypeCheck:         "type check",
		KindUnsupportedFeature: "unsupported feature",
		KindIRVerification:    "IR verification",
		KindToolchain:         "toolchain",
		Kind(99):              "unknown",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}
