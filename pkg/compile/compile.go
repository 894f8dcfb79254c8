package compile

import (
	"gosal/pkg/diag"
	"gosal/pkg/hir"
	"gosal/pkg/scenario"
	"gosal/pkg/syntax"
)

// Diag is a fully resolved diagnostic: every location has been turned into
// a source range, ready for rendering by a CLI or IDE layer.
type Diag struct {
	Message string
	Range   syntax.TextRange
	Labels  []DiagLabel
}

// DiagLabel is a resolved secondary label, e.g. "Code reference defined at".
type DiagLabel struct {
	Message string
	Range   syntax.TextRange
}

// Result is the outcome of compiling one unit: the encoded instruction
// stream in source order and every diagnostic from every stage, also in
// source/stage order. Instructions that failed to lower contribute nothing
// to the stream but never abort the unit.
type Result struct {
	Instructions []scenario.Instruction
	Diagnostics  []Diag
}

// HasErrors reports whether any stage produced a diagnostic.
func (r Result) HasErrors() bool { return len(r.Diagnostics) > 0 }

// CompileUnit runs the whole pipeline over one compilation unit: parse,
// validate, resolve names, evaluate value aliases, and lower every
// instruction through the catalogue router. It never fails as a whole;
// problems surface only as diagnostics.
func CompileUnit(text string) Result {
	return compileWith(DefaultRouter(), text)
}

func compileWith(router *Router, text string) Result {
	var result Result

	parse := syntax.ParseSourceFile(text)
	for _, e := range parse.Errors() {
		result.Diagnostics = append(result.Diagnostics, Diag{Message: e.Message, Range: e.Range})
	}
	file := parse.Tree()

	defs, defDiags := BuildDefMap(file)
	result.appendResolved(defDiags)

	context, ctxDiags := BuildConstexprContext(defs)
	result.appendResolved(ctxDiags)

	for _, set := range file.BlockSets() {
		for _, block := range set.Blocks() {
			body, m, lowDiags := hir.LowerBlock(block)
			result.appendResolved(resolveDiags(lowDiags, m))

			ctx := &LowerCtx{Block: body, Map: m, Context: context, Defs: defs}
			for _, id := range body.InstrIds() {
				var sink diag.Sink[hir.Location]
				instr, ok := router.Lower(&sink, ctx, body.Instr(id).Name, id)
				result.appendResolved(resolveDiags(sink.List(), m))
				if ok {
					result.Instructions = append(result.Instructions, instr)
				}
			}
		}
	}

	return result
}

// appendResolved converts span-located diagnostics into rendered ones.
// Every location must already be a span; expression locations are resolved
// by the callers that own the matching source map.
func (r *Result) appendResolved(diags []hir.Diagnostic) {
	for _, d := range diags {
		out := Diag{Message: d.Message}
		if span, ok := d.Location.Span(); ok {
			out.Range = span
		}
		for _, l := range d.Labels {
			label := DiagLabel{Message: l.Message}
			if span, ok := l.Location.Span(); ok {
				label.Range = span
			}
			out.Labels = append(out.Labels, label)
		}
		r.Diagnostics = append(r.Diagnostics, out)
	}
}
