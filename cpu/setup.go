package cpu

import (
	"errors"
	"log"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// evaluate computes a setup expression. Machine constants and the current
// register values (by lower case name) are predeclared.
func (m *Machine) evaluate(expr string) (value uint64, err error) {
	thread := starlark.Thread{Name: "setup"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, val := range m.Defines() {
		pred[key] = starlark.MakeUint64(val)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "setup", prog, pred)
	if err != nil {
		err = errors.Join(ErrSetupExpression, err)
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrSetupExpression
		return
	}

	if u64, ok := st_int.Uint64(); ok {
		value = u64
		return
	}

	i64, ok := st_int.Int64()
	if !ok {
		err = ErrSetupExpression
		return
	}
	value = uint64(i64)

	return
}

// Setup applies `register=expression` assignments in order, so later
// assignments may refer to registers set by earlier ones.
func (m *Machine) Setup(assigns ...string) (err error) {
	for _, assign := range assigns {
		name, expr, found := strings.Cut(assign, "=")
		name = strings.TrimSpace(name)
		expr = strings.TrimSpace(expr)
		if !found || len(name) == 0 || len(expr) == 0 {
			err = &ErrSetup{Assign: assign, Err: ErrSetupSyntax}
			return
		}

		reg, ok := LookupRegister("%" + strings.TrimPrefix(name, "%"))
		if !ok {
			err = &ErrSetup{Assign: assign, Err: ErrSetupRegister}
			return
		}

		var value uint64
		value, err = m.evaluate(expr)
		if err != nil {
			err = &ErrSetup{Assign: assign, Err: err}
			return
		}

		if m.Verbose {
			log.Printf("cpu: setup %v", assign)
		}
		m.Set(reg, value)
	}

	return
}
