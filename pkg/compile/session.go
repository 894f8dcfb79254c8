package compile

import (
	"gosal/pkg/diag"
	"gosal/pkg/hir"
	"gosal/pkg/syntax"
)

// Session is an incremental constant-evaluation context: each accepted
// `def NAME = expr` line extends it, and bare expressions evaluate against
// everything defined so far. It backs the interactive REPL; batch
// compilation builds its context from a whole file instead.
type Session struct {
	context ConstexprContext
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{context: ConstexprContext{}}
}

// Names returns every name defined in the session, for completion.
func (s *Session) Names() []string {
	out := make([]string, 0, len(s.context))
	for name := range s.context {
		out = append(out, name)
	}
	return out
}

// EvalLine processes one input line: a `def NAME = expr` extends the
// session, anything else evaluates as an expression. The returned value is
// meaningful only when ok is true; diagnostics are resolved to spans within
// the line.
func (s *Session) EvalLine(text string) (ConstexprValue, []Diag, bool) {
	if isDefLine(text) {
		return s.defineAlias(text)
	}
	return s.evalExpr(text)
}

func isDefLine(text string) bool {
	trimmed := text
	for len(trimmed) > 0 && (trimmed[0] == ' ' || trimmed[0] == '\t') {
		trimmed = trimmed[1:]
	}
	return len(trimmed) >= 4 && trimmed[:4] == "def " || trimmed == "def"
}

func (s *Session) defineAlias(text string) (ConstexprValue, []Diag, bool) {
	var result Result
	parse := syntax.ParseSourceFile(text)
	for _, e := range parse.Errors() {
		result.Diagnostics = append(result.Diagnostics, Diag{Message: e.Message, Range: e.Range})
	}

	defs := parse.Tree().AliasDefs()
	if len(defs) == 0 {
		return ConstexprValue{}, result.Diagnostics, false
	}
	def := defs[0]
	name := def.Name()
	if name == nil {
		return ConstexprValue{}, result.Diagnostics, false
	}
	if name.Kind() == syntax.REGISTER {
		result.Diagnostics = append(result.Diagnostics, Diag{
			Message: "register aliases are not supported here",
			Range:   name.Range(),
		})
		return ConstexprValue{}, result.Diagnostics, false
	}

	value, diags, ok := s.evalStandalone(def.Value())
	result.Diagnostics = append(result.Diagnostics, diags...)
	s.context[name.Text()] = ValueEntry(value, ok).WithDefinition(name.Range())
	return value, result.Diagnostics, ok && len(result.Diagnostics) == 0
}

func (s *Session) evalExpr(text string) (ConstexprValue, []Diag, bool) {
	var result Result
	parse := syntax.ParseExpr(text)
	for _, e := range parse.Errors() {
		result.Diagnostics = append(result.Diagnostics, Diag{Message: e.Message, Range: e.Range})
	}

	e := parse.Tree().Expr()
	if e == nil {
		return ConstexprValue{}, result.Diagnostics, false
	}
	value, diags, ok := s.evalStandalone(e)
	result.Diagnostics = append(result.Diagnostics, diags...)
	return value, result.Diagnostics, ok && len(result.Diagnostics) == 0
}

// evalStandalone lowers and evaluates one expression against the session
// context, patching unresolved names with failed placeholder entries so the
// evaluator's every-name-present precondition holds.
func (s *Session) evalStandalone(e syntax.Expr) (ConstexprValue, []Diag, bool) {
	body, m, root, lowDiags := hir.LowerStandaloneExpr(e)
	all := resolveDiags(lowDiags, m)

	var patched []string
	for _, id := range collectNameRefs(body, root) {
		name := body.Expr(id).(hir.NameRef).Name
		if _, present := s.context[name]; present {
			continue
		}
		loc := hir.SpanLoc(m.Resolve(hir.ExprLoc(id)))
		d := diag.New(loc, "`%s` is not defined", name)
		if suggestion, ok := suggestName(name, s.Names()); ok {
			d = diag.New(loc, "`%s` is not defined (did you mean `%s`?)", name, suggestion)
		}
		all = append(all, d)
		s.context[name] = ValueEntry(ConstexprValue{}, false)
		patched = append(patched, name)
	}

	value, evalDiags, ok := Evaluate(s.context, body, root)
	all = append(all, resolveDiags(evalDiags, m)...)
	for _, name := range patched {
		delete(s.context, name)
	}

	var result Result
	result.appendResolved(all)
	return value, result.Diagnostics, ok
}
