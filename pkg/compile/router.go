package compile

import (
	"fmt"

	"gosal/pkg/diag"
	"gosal/pkg/hir"
	"gosal/pkg/scenario"
	"gosal/pkg/syntax"
)

// LowerCtx carries the read-only inputs of instruction lowering: the block's
// arenas and source map, the unit's constant context, and the def map for
// register alias resolution.
type LowerCtx struct {
	Block   *hir.BlockBody
	Map     *hir.SourceMap
	Context ConstexprContext
	Defs    *DefMap
}

// HandlerFunc lowers one matched instruction: it extracts and type-checks
// the arguments and encodes the final instruction. A false result means the
// handler reported diagnostics and produced nothing; compilation continues.
type HandlerFunc func(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool)

// Router dispatches instruction mnemonics to their lowering handlers. It is
// built once from a fixed registration list, is immutable afterwards, and
// may be read concurrently from independent compilation units.
type Router struct {
	handlers map[string]HandlerFunc
	names    []string // registration order, also the suggestion candidates
}

// RouterBuilder assembles a Router from (mnemonic, handler) registrations.
type RouterBuilder struct {
	handlers map[string]HandlerFunc
	names    []string
}

func NewRouterBuilder() *RouterBuilder {
	return &RouterBuilder{handlers: map[string]HandlerFunc{}}
}

// Add registers a handler under a mnemonic. Mnemonics must be unique across
// all registrations; a duplicate is a construction bug and panics rather
// than silently shadowing.
func (b *RouterBuilder) Add(name string, handler HandlerFunc) *RouterBuilder {
	if _, dup := b.handlers[name]; dup {
		panic(fmt.Sprintf("compile: duplicate router registration for %q", name))
	}
	b.handlers[name] = handler
	b.names = append(b.names, name)
	return b
}

// Build finalizes the router. The builder must not be reused afterwards.
func (b *RouterBuilder) Build() *Router {
	return &Router{handlers: b.handlers, names: b.names}
}

// Names returns the registered mnemonics in registration order.
func (r *Router) Names() []string { return r.names }

// Lower dispatches the instruction with the given mnemonic. Matching is
// exact and case-sensitive. An unrecognized mnemonic yields no instruction
// and exactly one diagnostic naming it, with a "did you mean" label when a
// registered mnemonic ranks close; the caller continues compiling.
func (r *Router) Lower(sink *diag.Sink[hir.Location], ctx *LowerCtx, name string, instr hir.InstrId) (scenario.Instruction, bool) {
	if handler, ok := r.handlers[name]; ok {
		return handler(sink, ctx, instr)
	}

	loc := hir.SpanLoc(instrRange(ctx, instr))
	d := diag.New(loc, "Unrecognized instruction: `%s`", name)
	if suggestion, ok := suggestName(name, r.names); ok {
		d = d.WithLabel(loc, "did you mean `%s`?", suggestion)
	}
	sink.Report(d)
	return nil, false
}

// instrRange returns the source range of an instruction's mnemonic.
func instrRange(ctx *LowerCtx, instr hir.InstrId) (r syntax.TextRange) {
	if ctx.Map != nil {
		r, _ = ctx.Map.InstrRange(instr)
	}
	return r
}
