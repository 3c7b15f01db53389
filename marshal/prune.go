package marshal

import "github.com/wippyai/canon-abi/ir"

// prune removes bindings nothing reads so the printed program compiles:
// unread call results become _, and unread Lets, Declares and the Sets into
// them are dropped. Removing one binding can orphan another, so it repeats
// until nothing changes.
func prune(body []ir.Stmt) []ir.Stmt {
	for {
		uses := make(map[string]int)
		countStmts(body, uses)
		var changed bool
		body, changed = rewrite(body, uses)
		if !changed {
			return body
		}
	}
}

func countStmts(list []ir.Stmt, uses map[string]int) {
	for _, s := range list {
		switch s := s.(type) {
		case ir.Assign:
			countExprs(s.Call.Args, uses)
		case ir.Let:
			countExpr(s.Value, uses)
		case ir.Set:
			countExpr(s.Value, uses)
		case ir.Switch:
			countExpr(s.Tag, uses)
			for _, c := range s.Cases {
				countStmts(c.Body, uses)
			}
			countStmts(s.Default, uses)
		case ir.Loop:
			countExpr(s.Count, uses)
			countStmts(s.Body, uses)
		case ir.Fail:
			countExpr(s.Disc, uses)
		case ir.Return:
			countExprs(s.Values, uses)
		}
	}
}

func countExprs(list []ir.Expr, uses map[string]int) {
	for _, e := range list {
		countExpr(e, uses)
	}
}

func countExpr(e ir.Expr, uses map[string]int) {
	switch e := e.(type) {
	case ir.Var:
		uses[e.Name]++
	case ir.Index:
		countExpr(e.X, uses)
	}
}

func rewrite(list []ir.Stmt, uses map[string]int) ([]ir.Stmt, bool) {
	out := make([]ir.Stmt, 0, len(list))
	changed := false
	for _, s := range list {
		switch s := s.(type) {
		case ir.Assign:
			var names []string
			for i, name := range s.Names {
				if name != "_" && uses[name] == 0 {
					if names == nil {
						names = append([]string(nil), s.Names...)
					}
					names[i] = "_"
				}
			}
			if names != nil {
				s.Names = names
				changed = true
			}
			out = append(out, s)
		case ir.Let:
			if uses[s.Name] == 0 {
				changed = true
				continue
			}
			out = append(out, s)
		case ir.Set:
			if uses[s.Name] == 0 {
				changed = true
				continue
			}
			out = append(out, s)
		case ir.Declare:
			var names []string
			for _, name := range s.Names {
				if uses[name] > 0 {
					names = append(names, name)
				}
			}
			if len(names) != len(s.Names) {
				changed = true
			}
			if len(names) > 0 {
				out = append(out, ir.Declare{Names: names})
			}
		case ir.Switch:
			cases := make([]ir.Case, len(s.Cases))
			for i, c := range s.Cases {
				body, ch := rewrite(c.Body, uses)
				cases[i] = ir.Case{Value: c.Value, Body: body}
				changed = changed || ch
			}
			s.Cases = cases
			if s.Default != nil {
				def, ch := rewrite(s.Default, uses)
				s.Default = def
				changed = changed || ch
			}
			out = append(out, s)
		case ir.Loop:
			body, ch := rewrite(s.Body, uses)
			s.Body = body
			changed = changed || ch
			out = append(out, s)
		default:
			out = append(out, s)
		}
	}
	return out, changed
}
