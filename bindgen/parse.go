package bindgen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wippyai/canon-abi/abi"
	"github.com/wippyai/canon-abi/errors"
	"go.bytecodealliance.org/wit"
)

// [export] name: func(params) [-> result];
var funcPattern = regexp.MustCompile(`(?:export\s+|import\s+)?([a-zA-Z_][a-zA-Z0-9_-]*)\s*:\s*func\s*\(([^)]*)\)(?:\s*->\s*([^;\n]+))?`)

// ParseFunctions extracts function signatures from WIT text in source order.
// Own and borrow handles naming the same resource share one type.
func ParseFunctions(text string) ([]*abi.Func, error) {
	resources := make(map[string]*wit.TypeDef)
	seen := make(map[string]bool)
	var funcs []*abi.Func

	for _, m := range funcPattern.FindAllStringSubmatch(text, -1) {
		fn := &abi.Func{Name: m[1]}
		if seen[fn.Name] {
			return nil, errors.InvalidInput(errors.PhaseParse, "duplicate function "+fn.Name)
		}
		seen[fn.Name] = true

		for i, p := range splitParams(m[2]) {
			name, typ, ok := strings.Cut(p, ":")
			if !ok {
				name, typ = fmt.Sprintf("p%d", i), p
			}
			t, err := parseType(typ, resources)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "parse param type "+typ)
			}
			fn.Params = append(fn.Params, abi.Param{Name: strings.TrimSpace(name), Type: t})
		}

		results, err := parseResults(strings.TrimSpace(m[3]), resources)
		if err != nil {
			return nil, err
		}
		fn.Results = results
		funcs = append(funcs, fn)
	}

	if len(funcs) == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "no functions found in WIT text")
	}
	return funcs, nil
}

// ParseType parses a single WIT type expression.
func ParseType(s string) (wit.Type, error) {
	return parseType(s, make(map[string]*wit.TypeDef))
}

func parseResults(s string, resources map[string]*wit.TypeDef) ([]wit.Type, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ";")
	if s == "" || s == "()" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "(") {
		t, err := parseType(s, resources)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "parse result type "+s)
		}
		return []wit.Type{t}, nil
	}

	var results []wit.Type
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	for _, part := range splitParams(inner) {
		if _, typ, ok := strings.Cut(part, ":"); ok {
			part = typ
		}
		t, err := parseType(part, resources)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "parse result type "+part)
		}
		results = append(results, t)
	}
	return results, nil
}

// splitParams splits a comma separated list, ignoring commas nested in
// parentheses or angle brackets.
func splitParams(s string) []string {
	var result []string
	var current strings.Builder
	depth := 0

	for _, ch := range s {
		switch ch {
		case '(', '<':
			depth++
			current.WriteRune(ch)
		case ')', '>':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				if str := strings.TrimSpace(current.String()); str != "" {
					result = append(result, str)
				}
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}

	if str := strings.TrimSpace(current.String()); str != "" {
		result = append(result, str)
	}
	return result
}

type typeParser struct {
	resources map[string]*wit.TypeDef
	src       string
	pos       int
}

func parseType(s string, resources map[string]*wit.TypeDef) (wit.Type, error) {
	p := &typeParser{src: s, resources: resources}
	t, err := p.typ()
	if err != nil {
		return nil, err
	}
	p.space()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return t, nil
}

func (p *typeParser) errorf(format string, args ...any) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidInput).
		Value(p.src).
		Detail("col %d: %s", p.pos+1, fmt.Sprintf(format, args...)).
		Build()
}

func (p *typeParser) space() {
	for p.pos < len(p.src) && strings.ContainsRune(" \t\r\n", rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) peek(c byte) bool {
	p.space()
	return p.pos < len(p.src) && p.src[p.pos] == c
}

func (p *typeParser) expect(c byte) error {
	if !p.peek(c) {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *typeParser) ident() string {
	p.space()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *typeParser) typ() (wit.Type, error) {
	name := p.ident()
	switch name {
	case "":
		return nil, p.errorf("expected a type")
	case "list":
		args, err := p.args(false)
		if err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, p.errorf("list takes one type")
		}
		return &wit.TypeDef{Kind: &wit.List{Type: args[0]}}, nil
	case "option":
		args, err := p.args(false)
		if err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, p.errorf("option takes one type")
		}
		return &wit.TypeDef{Kind: &wit.Option{Type: args[0]}}, nil
	case "result":
		if !p.peek('<') {
			return &wit.TypeDef{Kind: &wit.Result{}}, nil
		}
		args, err := p.args(true)
		if err != nil {
			return nil, err
		}
		switch len(args) {
		case 1:
			return &wit.TypeDef{Kind: &wit.Result{OK: args[0]}}, nil
		case 2:
			return &wit.TypeDef{Kind: &wit.Result{OK: args[0], Err: args[1]}}, nil
		}
		return nil, p.errorf("result takes one or two types")
	case "tuple":
		args, err := p.args(false)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.Tuple{Types: args}}, nil
	case "own", "borrow":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		res := p.ident()
		if res == "" {
			return nil, p.errorf("expected a resource name")
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		td := p.resource(res)
		if name == "own" {
			return &wit.TypeDef{Kind: &wit.Own{Type: td}}, nil
		}
		return &wit.TypeDef{Kind: &wit.Borrow{Type: td}}, nil
	}

	t, err := wit.ParseType(name)
	if err != nil {
		return nil, p.errorf("unknown type %q", name)
	}
	if _, ok := t.(wit.ErrorContext); ok {
		return nil, p.errorf("%s is not supported", name)
	}
	return t, nil
}

// args parses <T, ...>. With blank, "_" stands for an absent type.
func (p *typeParser) args(blank bool) ([]wit.Type, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var out []wit.Type
	for {
		t, err := p.arg(blank)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if p.peek(',') {
			p.pos++
			continue
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func (p *typeParser) arg(blank bool) (wit.Type, error) {
	if blank && p.peek('_') {
		save := p.pos
		if p.ident() == "_" {
			return nil, nil
		}
		p.pos = save
	}
	return p.typ()
}

func (p *typeParser) resource(name string) *wit.TypeDef {
	if td, ok := p.resources[name]; ok {
		return td
	}
	n := name
	td := &wit.TypeDef{Name: &n, Kind: &wit.Resource{}}
	p.resources[name] = td
	return td
}
