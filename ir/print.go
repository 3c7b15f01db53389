package ir

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
)

// Print renders fn as a gofmt-formatted Go function calling package rt.
func Print(fn *Func) ([]byte, error) {
	p := &printer{}
	p.printf("func %s(cx *rt.Context", fn.Name)
	if len(fn.Params) > 0 {
		p.printf(", %s any", strings.Join(fn.Params, ", "))
	}
	p.printf(") (results []any, err error) {\n")
	p.printf("frame := rt.Begin(cx)\ndefer rt.End(cx, frame, &err)\n")
	p.stmts(fn.Body)
	p.printf("}\n")

	out, err := format.Source(p.buf.Bytes())
	if err != nil {
		return p.buf.Bytes(), fmt.Errorf("format %s: %w", fn.Name, err)
	}
	return out, nil
}

type printer struct {
	buf bytes.Buffer
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(&p.buf, format, args...)
}

func (p *printer) stmts(list []Stmt) {
	for _, s := range list {
		p.stmt(s)
	}
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case Assign:
		call := p.call(s.Call)
		if len(s.Names) == 0 {
			p.printf("if err := %s; err != nil {\nreturn nil, err\n}\n", call)
			return
		}
		op := "="
		if s.Define && !allBlank(s.Names) {
			op = ":="
		}
		p.printf("%s, err %s %s\nif err != nil {\nreturn nil, err\n}\n", strings.Join(s.Names, ", "), op, call)
	case Let:
		p.printf("%s := %s\n", s.Name, p.expr(s.Value))
	case Set:
		p.printf("%s = %s\n", s.Name, p.expr(s.Value))
	case Declare:
		p.printf("var %s any\n", strings.Join(s.Names, ", "))
	case Switch:
		p.printf("switch %s {\n", p.expr(s.Tag))
		for _, c := range s.Cases {
			p.printf("case int32(%d):\n", c.Value)
			p.stmts(c.Body)
		}
		if s.Default != nil {
			p.printf("default:\n")
			p.stmts(s.Default)
		}
		p.printf("}\n")
	case Loop:
		count := p.expr(s.Count) + ".(int32)"
		if _, ok := s.Count.(Const); ok {
			count = p.expr(s.Count)
		}
		p.printf("for %s := int32(0); %s < %s; %s++ {\n", s.Index, s.Index, count, s.Index)
		p.stmts(s.Body)
		p.printf("}\n")
	case Fail:
		p.printf("return nil, rt.InvalidDiscriminant(cx, %s, %d)\n", p.expr(s.Disc), s.Cases)
	case Return:
		vals := make([]string, len(s.Values))
		for i, v := range s.Values {
			vals[i] = p.expr(v)
		}
		p.printf("return []any{%s}, nil\n", strings.Join(vals, ", "))
	}
}

func (p *printer) call(c Call) string {
	args := make([]string, 0, len(c.Args)+1)
	args = append(args, "cx")
	for _, a := range c.Args {
		args = append(args, p.expr(a))
	}
	return "rt." + string(c.Op) + "(" + strings.Join(args, ", ") + ")"
}

func (p *printer) expr(e Expr) string {
	switch e := e.(type) {
	case Var:
		return e.Name
	case Index:
		return fmt.Sprintf("%s[%d]", p.expr(e.X), e.I)
	case Const:
		return Literal(e.Value)
	}
	return "nil"
}

// Literal renders a constant as a Go expression of the same type.
func Literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return fmt.Sprintf("int32(%d)", v)
	case int64:
		return fmt.Sprintf("int64(%d)", v)
	case uint32:
		return fmt.Sprintf("uint32(%d)", v)
	case float32:
		return fmt.Sprintf("float32(%v)", v)
	case float64:
		return fmt.Sprintf("float64(%v)", v)
	case string:
		return strconv.Quote(v)
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = strconv.Quote(s)
		}
		return "[]string{" + strings.Join(quoted, ", ") + "}"
	}
	return fmt.Sprintf("%#v", v)
}

func allBlank(names []string) bool {
	for _, n := range names {
		if n != "_" {
			return false
		}
	}
	return true
}
