package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// namedTriggers are the shorthand trigger names used by the data files.
// Anything else is compiled as an expr expression against RollEnv.
var namedTriggers = map[string]string{
	"hasDuplicates": `HasDuplicates()`,
	"noDuplicates":  `!HasDuplicates()`,
	"allIdentical":  `AllEqual()`,
	"allEqual":      `AllEqual()`,
}

// Trigger is a named boolean predicate over a roll, compiled once.
type Trigger struct {
	Name    string      // as written in the data
	Src     string      // expr source
	program *vm.Program // compiled bytecode
}

// CompileTrigger compiles a named shorthand or an expr condition such as
// `Count(6) >= 2 || Total > 10`.
func CompileTrigger(name string) (*Trigger, error) {
	src := name
	if s, ok := namedTriggers[name]; ok {
		src = s
	}
	prog, err := expr.Compile(src, expr.Env(RollEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile trigger %q: %w", name, err)
	}
	return &Trigger{Name: name, Src: src, program: prog}, nil
}

// Eval runs the trigger against env.
func (t *Trigger) Eval(env RollEnv) (bool, error) {
	out, err := vm.Run(t.program, env)
	if err != nil {
		return false, fmt.Errorf("trigger %q: %w", t.Name, err)
	}
	fired, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("trigger %q returned %T, want bool", t.Name, out)
	}
	return fired, nil
}
