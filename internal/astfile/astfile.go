// Package astfile reads the validated program tree the driver consumes. The
// tree itself is produced by an external lexer/parser/type-checker pipeline
// and handed to this compiler as JSON; astfile only decodes it.
package astfile

import (
	"encoding/json"
	"fmt"
	"os"

	"otterc/internal/ast"
)

// Load reads and decodes the Program at path. It does not validate the
// program beyond what encoding/json enforces structurally — semantic
// validation (unknown types, undeclared names, ...) is the code generator's
// job, not this package's.
func Load(path string) (*ast.Program, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("astfile: could not read %q: %w", path, err)
	}

	var prog ast.Program
	if err := json.Unmarshal(b, &prog); err != nil {
		return nil, fmt.Errorf("astfile: could not decode program from %q: %w", path, err)
	}
	return &prog, nil
}
