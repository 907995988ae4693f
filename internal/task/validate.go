package task

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

// schemaCUE is the task-file schema. YAML task files are unified with
// #Task before decoding; constraint violations surface as field-level
// diagnostics.
const schemaCUE = `
#Loop: {
	var:    string & !=""
	extent: int & >0
}

#Block: {
	name:  string & !=""
	loops: [...#Loop] & [_, ...]
}

#Task: {
	name:            string & !=""
	target?:         string & !=""
	seed?:           int
	strategy?:       "rule_prune" | "random_prune"
	sketch_count?:   int & >0
	sketch_depth?:   int & >=0
	use_cost_model?: bool
	blocks:          [...#Block] & [_, ...]
	outputs?:        [...string]
}
`

// Validate checks a decoded task document against the embedded schema.
func Validate(doc map[string]any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		// The schema is a compile-time constant; failing to compile it is
		// a programming error, not a bad task file.
		panic(fmt.Sprintf("task: embedded schema invalid: %v", err))
	}

	val := ctx.Encode(doc)
	if err := val.Err(); err != nil {
		return fmt.Errorf("task: encode document: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Task")).Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("task: invalid task file:\n%s", errors.Details(err, nil))
	}
	return nil
}
