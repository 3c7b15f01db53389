// Package eval executes ir programs directly, without compiling the Go
// source the printer produces. Both paths call the same rt helpers, so a
// program behaves identically either way.
package eval

import (
	"context"
	"fmt"

	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/ir"
	"github.com/wippyai/canon-abi/rt"
	"go.uber.org/zap"
)

// Run executes fn with args against cx and returns the values of its Return
// statement. On failure every call scope opened during the run is unwound
// and the guest allocations it made are freed.
func Run(ctx context.Context, fn *ir.Func, cx *rt.Context, args ...any) (results []any, err error) {
	if fn == nil || cx == nil {
		return nil, errors.InvalidInput(errors.PhaseGenerate, "nil function or context")
	}
	if len(args) != len(fn.Params) {
		return nil, errors.InvalidInput(errors.PhaseGenerate,
			fmt.Sprintf("%s takes %d arguments, got %d", fn.Name, len(fn.Params), len(args)))
	}
	if ctx != nil && ctx != cx.Ctx {
		c := *cx
		c.Ctx = ctx
		cx = &c
	}
	if cx.Ctx == nil {
		cx.Ctx = context.Background()
	}

	frame := rt.Begin(cx)
	defer rt.End(cx, frame, &err)

	root := newScope(nil)
	for i, name := range fn.Params {
		root.define(name, args[i])
	}

	m := &machine{cx: cx}
	out, done, err := m.exec(fn.Body, root)
	if err == nil && !done {
		err = errors.InvalidInput(errors.PhaseGenerate, fn.Name+": missing return")
	}
	if err != nil {
		Logger().Debug("evaluation failed", zap.String("func", fn.Name), zap.Error(err))
		return nil, err
	}
	return out, nil
}

type scope struct {
	vars   map[string]any
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]any), parent: parent}
}

func (s *scope) define(name string, v any) {
	if name != "_" {
		s.vars[name] = v
	}
}

func (s *scope) lookup(name string) (any, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// set assigns to the innermost existing variable.
func (s *scope) set(name string, v any) error {
	if name == "_" {
		return nil
	}
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.vars[name]; ok {
			sc.vars[name] = v
			return nil
		}
	}
	return undefined(name)
}

type machine struct {
	cx *rt.Context
}

// exec runs list in sc. done reports that a Return was reached.
func (m *machine) exec(list []ir.Stmt, sc *scope) (out []any, done bool, err error) {
	for _, s := range list {
		switch s := s.(type) {
		case ir.Assign:
			err = m.assign(s, sc)
		case ir.Let:
			var v any
			if v, err = m.eval(s.Value, sc); err == nil {
				sc.define(s.Name, v)
			}
		case ir.Set:
			var v any
			if v, err = m.eval(s.Value, sc); err == nil {
				err = sc.set(s.Name, v)
			}
		case ir.Declare:
			for _, name := range s.Names {
				sc.define(name, nil)
			}
		case ir.Switch:
			out, done, err = m.switchStmt(s, sc)
		case ir.Loop:
			out, done, err = m.loop(s, sc)
		case ir.Fail:
			var disc any
			if disc, err = m.eval(s.Disc, sc); err == nil {
				err = rt.InvalidDiscriminant(m.cx, disc, s.Cases)
			}
		case ir.Return:
			out, err = m.evalAll(s.Values, sc)
			if err == nil {
				if out == nil {
					out = []any{}
				}
				return out, true, nil
			}
		default:
			err = errors.Unsupported(errors.PhaseGenerate, fmt.Sprintf("statement %T", s))
		}
		if err != nil || done {
			return out, done, err
		}
	}
	return nil, false, nil
}

func (m *machine) assign(s ir.Assign, sc *scope) error {
	args, err := m.evalAll(s.Call.Args, sc)
	if err != nil {
		return err
	}
	impl, ok := rt.Lookup(s.Call.Op)
	if !ok {
		return errors.Unsupported(errors.PhaseGenerate, "op "+string(s.Call.Op))
	}
	if err := rt.Check(s.Call.Op, args); err != nil {
		return err
	}
	if err := m.cx.Ctx.Err(); err != nil {
		return errors.Wrap(errors.PhaseCall, errors.KindInvalidInput, err, "evaluation cancelled")
	}

	res, err := impl(m.cx, args)
	if err != nil {
		return err
	}
	if len(s.Names) == 0 {
		return nil
	}

	// calls return their whole result list as one value
	if s.Call.Op == ir.OpCallWasm || s.Call.Op == ir.OpCallHost {
		res = []any{res}
	}
	if len(res) < len(s.Names) {
		return errors.InvalidInput(errors.PhaseGenerate,
			fmt.Sprintf("%s returned %d values, %d bound", s.Call.Op, len(res), len(s.Names)))
	}
	for i, name := range s.Names {
		if s.Define && !allBlank(s.Names) {
			sc.define(name, res[i])
		} else if err := sc.set(name, res[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *machine) switchStmt(s ir.Switch, sc *scope) ([]any, bool, error) {
	tag, err := m.eval(s.Tag, sc)
	if err != nil {
		return nil, false, err
	}
	body := s.Default
	if n, ok := tag.(int32); ok {
		for _, c := range s.Cases {
			if c.Value == n {
				body = c.Body
				break
			}
		}
	}
	return m.exec(body, newScope(sc))
}

func (m *machine) loop(s ir.Loop, sc *scope) ([]any, bool, error) {
	v, err := m.eval(s.Count, sc)
	if err != nil {
		return nil, false, err
	}
	n, ok := v.(int32)
	if !ok {
		return nil, false, errors.TypeMismatch(errors.PhaseGenerate, nil, fmt.Sprintf("%T", v), "s32")
	}
	for i := int32(0); i < n; i++ {
		if err := m.cx.Ctx.Err(); err != nil {
			return nil, false, errors.Wrap(errors.PhaseCall, errors.KindInvalidInput, err, "evaluation cancelled")
		}
		inner := newScope(sc)
		inner.define(s.Index, i)
		out, done, err := m.exec(s.Body, inner)
		if err != nil || done {
			return out, done, err
		}
	}
	return nil, false, nil
}

func (m *machine) eval(e ir.Expr, sc *scope) (any, error) {
	switch e := e.(type) {
	case ir.Var:
		v, ok := sc.lookup(e.Name)
		if !ok {
			return nil, undefined(e.Name)
		}
		return v, nil
	case ir.Const:
		return e.Value, nil
	case ir.Index:
		x, err := m.eval(e.X, sc)
		if err != nil {
			return nil, err
		}
		list, ok := x.([]any)
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseGenerate, nil, fmt.Sprintf("%T", x), "result list")
		}
		if e.I < 0 || e.I >= len(list) {
			return nil, errors.OutOfBounds(errors.PhaseCall, nil, e.I, len(list))
		}
		return list[e.I], nil
	}
	return nil, errors.Unsupported(errors.PhaseGenerate, fmt.Sprintf("expression %T", e))
}

func (m *machine) evalAll(list []ir.Expr, sc *scope) ([]any, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]any, len(list))
	for i, e := range list {
		v, err := m.eval(e, sc)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func undefined(name string) error {
	return errors.NotFound(errors.PhaseGenerate, "variable", name)
}

func allBlank(names []string) bool {
	for _, n := range names {
		if n != "_" {
			return false
		}
	}
	return true
}
