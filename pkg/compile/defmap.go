package compile

import (
	"github.com/lithammer/fuzzysearch/fuzzy"

	"gosal/pkg/diag"
	"gosal/pkg/hir"
	"gosal/pkg/scenario"
	"gosal/pkg/syntax"
)

// DefKind classifies what a defined name resolves to.
type DefKind int

const (
	DefValueAlias DefKind = iota
	DefRegisterAlias
	DefBlock
)

func (k DefKind) String() string {
	switch k {
	case DefValueAlias:
		return "value alias"
	case DefRegisterAlias:
		return "register alias"
	case DefBlock:
		return "block"
	}
	return "unknown"
}

// Definition is one resolved name: its kind and defining source range.
type Definition struct {
	Kind  DefKind
	Range syntax.TextRange
}

// DefMap is the name-resolution result for one compilation unit. Value
// aliases and labels share the bare-identifier namespace; register aliases
// live behind the '$' sigil in their own. The map is built once per unit
// and read-only afterwards.
type DefMap struct {
	defs            map[string]Definition
	registerAliases map[string]scenario.Register
	valueAliases    []syntax.AliasDef // declaration order, for context building
}

// Lookup returns the definition of a bare name.
func (m *DefMap) Lookup(name string) (Definition, bool) {
	d, ok := m.defs[name]
	return d, ok
}

// ResolveRegister resolves a register name (without its '$') to a concrete
// register: a direct cell like "v12", or a register alias defined with
// `def`.
func (m *DefMap) ResolveRegister(name string) (scenario.Register, bool) {
	if scenario.IsDirectRegisterName(name) {
		reg, err := scenario.ParseRegister("$" + name)
		return reg, err == nil
	}
	reg, ok := m.registerAliases[name]
	return reg, ok
}

// names returns every defined bare name, for "did you mean" ranking.
func (m *DefMap) names() []string {
	out := make([]string, 0, len(m.defs))
	for name := range m.defs {
		out = append(out, name)
	}
	return out
}

// BuildDefMap scans a source file and resolves every declared name. Duplicate
// declarations were already reported by syntax validation; the first
// declaration wins here. Diagnostics carry span locations.
func BuildDefMap(file syntax.SourceFile) (*DefMap, []hir.Diagnostic) {
	m := &DefMap{
		defs:            map[string]Definition{},
		registerAliases: map[string]scenario.Register{},
	}
	var sink diag.Sink[hir.Location]

	for _, def := range file.AliasDefs() {
		name := def.Name()
		if name == nil {
			continue
		}
		if name.Kind() == syntax.REGISTER {
			m.addRegisterAlias(&sink, def, name)
			continue
		}
		if _, dup := m.defs[name.Text()]; dup {
			continue
		}
		m.defs[name.Text()] = Definition{Kind: DefValueAlias, Range: name.Range()}
		m.valueAliases = append(m.valueAliases, def)
	}

	for _, set := range file.BlockSets() {
		for _, block := range set.Blocks() {
			for _, label := range block.Labels() {
				name := label.Name()
				if name == nil {
					continue
				}
				if _, dup := m.defs[name.Text()]; dup {
					continue
				}
				m.defs[name.Text()] = Definition{Kind: DefBlock, Range: name.Range()}
			}
		}
	}

	return m, sink.List()
}

// addRegisterAlias handles `def $NAME = $vN`. The right side must be a
// direct register; alias-to-alias chains are not supported.
func (m *DefMap) addRegisterAlias(sink *diag.Sink[hir.Location], def syntax.AliasDef, name *syntax.Token) {
	aliasName := name.Text()[1:]
	if aliasName == "" {
		return // lexer already reported the missing name
	}
	if scenario.IsDirectRegisterName(aliasName) {
		sink.Emit(hir.SpanLoc(name.Range()), "cannot redefine register `$%s`", aliasName)
		return
	}
	if _, dup := m.registerAliases[aliasName]; dup {
		return
	}

	value := def.Value()
	ref, ok := value.(syntax.RegisterRef)
	if !ok || !scenario.IsDirectRegisterName(ref.Name()) {
		r := name.Range()
		if value != nil {
			r = value.ExprNode().Range()
		}
		sink.Emit(hir.SpanLoc(r), "register alias `$%s` must be defined as a direct register like `$v0`", aliasName)
		return
	}
	reg, err := scenario.ParseRegister("$" + ref.Name())
	if err != nil {
		sink.Emit(hir.SpanLoc(ref.ExprNode().Range()), "%s", err.Error())
		return
	}
	m.registerAliases[aliasName] = reg
}

// BuildConstexprContext evaluates every value alias in declaration order and
// assembles the unit's constant context: an evaluated (possibly failed)
// entry per value alias plus a block marker per label. An alias expression
// may reference only aliases declared before it. All returned diagnostics
// carry span locations.
func BuildConstexprContext(defs *DefMap) (ConstexprContext, []hir.Diagnostic) {
	context := ConstexprContext{}
	var all []hir.Diagnostic

	// Labels are code, not values: visible everywhere regardless of order.
	for name, d := range defs.defs {
		if d.Kind == DefBlock {
			context[name] = BlockEntry(d.Range)
		}
	}

	for _, def := range defs.valueAliases {
		name := def.Name()
		body, m, root, lowDiags := hir.LowerStandaloneExpr(def.Value())
		all = append(all, resolveDiags(lowDiags, m)...)

		// Names the evaluator would not find get placeholder entries and an
		// unresolved-reference diagnostic, keeping the evaluate boundary
		// (every name present) intact.
		restore := patchUnresolved(context, defs, body, root, m, &all)

		value, evalDiags, ok := Evaluate(context, body, root)
		all = append(all, resolveDiags(evalDiags, m)...)
		restore()

		context[name.Text()] = ValueEntry(value, ok).WithDefinition(name.Range())
	}

	return context, all
}

// patchUnresolved walks the expression for names absent from context,
// reports them, and inserts temporary failed entries so evaluation can
// proceed. The returned function removes the temporaries.
func patchUnresolved(context ConstexprContext, defs *DefMap, body *hir.BlockBody, root hir.ExprId, m *hir.SourceMap, all *[]hir.Diagnostic) func() {
	var patched []string
	for _, id := range collectNameRefs(body, root) {
		name := body.Expr(id).(hir.NameRef).Name
		if _, present := context[name]; present {
			continue
		}
		loc := hir.SpanLoc(m.Resolve(hir.ExprLoc(id)))
		if def, declared := defs.Lookup(name); declared {
			d := diag.New(loc, "`%s` is not defined at this point", name)
			d = d.WithLabel(hir.SpanLoc(def.Range), "`%s` is defined here, after its use", name)
			*all = append(*all, d)
		} else {
			d := diag.New(loc, "`%s` is not defined", name)
			if suggestion, ok := suggestName(name, defs.names()); ok {
				d = diag.New(loc, "`%s` is not defined (did you mean `%s`?)", name, suggestion)
			}
			*all = append(*all, d)
		}
		context[name] = ValueEntry(ConstexprValue{}, false)
		patched = append(patched, name)
	}
	return func() {
		for _, name := range patched {
			delete(context, name)
		}
	}
}

// collectNameRefs returns the ids of every NameRef in the subtree at root.
func collectNameRefs(body *hir.BlockBody, root hir.ExprId) []hir.ExprId {
	var out []hir.ExprId
	var walk func(id hir.ExprId)
	walk = func(id hir.ExprId) {
		switch e := body.Expr(id).(type) {
		case hir.NameRef:
			out = append(out, id)
		case hir.Array:
			for _, el := range e.Elements {
				walk(el)
			}
		case hir.Mapping:
			for _, p := range e.Pairs {
				walk(p.Key)
				walk(p.Value)
			}
		case hir.Unary:
			walk(e.Operand)
		case hir.Binary:
			walk(e.Lhs)
			walk(e.Rhs)
		case hir.Call:
			for _, a := range e.Args {
				walk(a)
			}
		}
	}
	walk(root)
	return out
}

// suggestName ranks the known names against a misspelled one and returns the
// closest match, if any ranks at all.
func suggestName(name string, candidates []string) (string, bool) {
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return "", false
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best.Target, true
}

// resolveDiags rewrites expression-anchored locations into span locations
// using the source map, leaving span locations untouched.
func resolveDiags(diags []hir.Diagnostic, m *hir.SourceMap) []hir.Diagnostic {
	out := make([]hir.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, diag.Map(d, func(l hir.Location) hir.Location {
			return hir.SpanLoc(m.Resolve(l))
		}))
	}
	return out
}
