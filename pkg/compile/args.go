package compile

import (
	"gosal/pkg/diag"
	"gosal/pkg/hir"
	"gosal/pkg/scenario"
)

// argReader extracts an instruction's arguments positionally, checking
// arity and per-argument types and ranges. Every mismatch is reported to
// the sink and marks the reader failed; extraction keeps going so that one
// bad argument does not hide problems with the ones after it.
type argReader struct {
	sink   *diag.Sink[hir.Location]
	ctx    *LowerCtx
	name   string
	id     hir.InstrId
	args   []hir.ExprId
	pos    int
	failed bool
}

func newArgReader(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) *argReader {
	in := ctx.Block.Instr(instr)
	return &argReader{sink: sink, ctx: ctx, name: in.Name, id: instr, args: in.Args}
}

// instrLoc anchors arity diagnostics to the instruction's mnemonic.
func (r *argReader) instrLoc() hir.Location {
	return hir.SpanLoc(instrRange(r.ctx, r.id))
}

// fail reports a diagnostic and marks the reader failed.
func (r *argReader) fail(loc hir.Location, format string, args ...any) {
	r.sink.Emit(loc, format, args...)
	r.failed = true
}

// next takes the next argument expression, reporting missing ones.
func (r *argReader) next(what string) (hir.ExprId, bool) {
	if r.pos >= len(r.args) {
		r.fail(r.instrLoc(), "not enough arguments to `%s`: missing %s", r.name, what)
		return 0, false
	}
	id := r.args[r.pos]
	r.pos++
	return id, true
}

// finish checks that every argument was consumed. It reports extras and
// returns true only if the whole extraction succeeded.
func (r *argReader) finish() bool {
	if r.pos < len(r.args) {
		r.fail(hir.ExprLoc(r.args[r.pos]), "too many arguments to `%s`: expected %d, found %d",
			r.name, r.pos, len(r.args))
	}
	return !r.failed
}

// describeExpr names an expression kind for type-mismatch messages.
func describeExpr(e hir.Expr) string {
	switch e.(type) {
	case hir.IntLit:
		return "int"
	case hir.RationalLit:
		return "float"
	case hir.StringLit:
		return "string"
	case hir.NameRef:
		return "name"
	case hir.RegisterRef:
		return "register"
	case hir.Array:
		return "array"
	case hir.Mapping:
		return "mapping"
	case hir.Call:
		return "call"
	case hir.Unary, hir.Binary:
		return "expression"
	}
	return "nothing"
}

// number extracts a numeric operand: an immediate (int or rational literal,
// or a value alias) or a register read.
func (r *argReader) number(what string) scenario.NumberSpec {
	id, ok := r.next(what)
	if !ok {
		return scenario.NumberSpec{}
	}
	return r.numberAt(id)
}

func (r *argReader) numberAt(id hir.ExprId) scenario.NumberSpec {
	switch e := r.ctx.Block.Expr(id).(type) {
	case hir.Missing:
		r.failed = true // parse error already reported
		return scenario.NumberSpec{}

	case hir.IntLit:
		return scenario.Constant(e.Value)

	case hir.RationalLit:
		return scenario.Constant(e.Value.Raw())

	case hir.NameRef:
		value, ok := r.aliasValue(id, e.Name, "a number")
		if !ok {
			return scenario.NumberSpec{}
		}
		return scenario.Constant(value.Value())

	case hir.RegisterRef:
		reg, ok := r.resolveRegister(id, e.Name)
		if !ok {
			return scenario.NumberSpec{}
		}
		return scenario.FromRegister(reg)

	case hir.Unary, hir.Binary, hir.Call:
		// Arguments are not const-folded: only alias definitions evaluate
		// expressions.
		r.fail(hir.ExprLoc(id), "expressions are not supported in instruction arguments")
		return scenario.NumberSpec{}

	default:
		r.fail(hir.ExprLoc(id), "Type mismatch: expected a number, found %s", describeExpr(r.ctx.Block.Expr(id)))
		return scenario.NumberSpec{}
	}
}

// aliasValue resolves a name used as an instruction argument to its
// constant value.
func (r *argReader) aliasValue(id hir.ExprId, name, expected string) (ConstexprValue, bool) {
	entry, present := r.ctx.Context[name]
	if !present {
		d := diag.New(hir.ExprLoc(id), "`%s` is not defined", name)
		if r.ctx.Defs != nil {
			if suggestion, ok := suggestName(name, r.ctx.Defs.names()); ok {
				d = diag.New(hir.ExprLoc(id), "`%s` is not defined (did you mean `%s`?)", name, suggestion)
			}
		}
		r.sink.Report(d)
		r.failed = true
		return ConstexprValue{}, false
	}
	if entry.IsBlock() {
		d := diag.New(hir.ExprLoc(id), "Type mismatch: expected %s, found code reference", expected)
		if def, ok := entry.Definition(); ok {
			d = d.WithLabel(hir.SpanLoc(def), "Code reference defined at")
		}
		r.sink.Report(d)
		r.failed = true
		return ConstexprValue{}, false
	}
	value, ok := entry.Value()
	if !ok {
		r.failed = true // the alias's own evaluation already reported
		return ConstexprValue{}, false
	}
	return value, true
}

func (r *argReader) resolveRegister(id hir.ExprId, name string) (scenario.Register, bool) {
	if r.ctx.Defs == nil {
		if scenario.IsDirectRegisterName(name) {
			reg, err := scenario.ParseRegister("$" + name)
			return reg, err == nil
		}
		r.fail(hir.ExprLoc(id), "register alias `$%s` is not defined", name)
		return 0, false
	}
	reg, ok := r.ctx.Defs.ResolveRegister(name)
	if !ok {
		r.fail(hir.ExprLoc(id), "register alias `$%s` is not defined", name)
		return 0, false
	}
	return reg, true
}

// register extracts a register operand, e.g. an instruction destination.
func (r *argReader) register(what string) scenario.Register {
	id, ok := r.next(what)
	if !ok {
		return 0
	}
	switch e := r.ctx.Block.Expr(id).(type) {
	case hir.Missing:
		r.failed = true
		return 0
	case hir.RegisterRef:
		reg, _ := r.resolveRegister(id, e.Name)
		return reg
	default:
		r.fail(hir.ExprLoc(id), "Type mismatch: expected a register, found %s", describeExpr(r.ctx.Block.Expr(id)))
		return 0
	}
}

// str extracts a string literal operand.
func (r *argReader) str(what string) string {
	id, ok := r.next(what)
	if !ok {
		return ""
	}
	switch e := r.ctx.Block.Expr(id).(type) {
	case hir.Missing:
		r.failed = true
		return ""
	case hir.StringLit:
		return e.Value
	default:
		r.fail(hir.ExprLoc(id), "Type mismatch: expected a string, found %s", describeExpr(r.ctx.Block.Expr(id)))
		return ""
	}
}

// constInt extracts an operand that must be a compile-time integer: an int
// literal or a value alias.
func (r *argReader) constInt(what string) (int32, hir.ExprId, bool) {
	id, ok := r.next(what)
	if !ok {
		return 0, 0, false
	}
	switch e := r.ctx.Block.Expr(id).(type) {
	case hir.Missing:
		r.failed = true
		return 0, id, false
	case hir.IntLit:
		return e.Value, id, true
	case hir.NameRef:
		value, ok := r.aliasValue(id, e.Name, "an int")
		if !ok {
			return 0, id, false
		}
		return value.Value(), id, true
	default:
		r.fail(hir.ExprLoc(id), "Type mismatch: expected an int, found %s", describeExpr(r.ctx.Block.Expr(id)))
		return 0, id, false
	}
}

// u8 extracts a compile-time integer checked to fit a byte.
func (r *argReader) u8(what string) uint8 {
	v, id, ok := r.constInt(what)
	if !ok {
		return 0
	}
	if v < 0 || v > 255 {
		r.fail(hir.ExprLoc(id), "%s of `%s` must be in 0..255, got %d", what, r.name, v)
		return 0
	}
	return uint8(v)
}

// u16 extracts a compile-time integer checked to fit 16 bits.
func (r *argReader) u16(what string) uint16 {
	v, id, ok := r.constInt(what)
	if !ok {
		return 0
	}
	if v < 0 || v > 0xFFFF {
		r.fail(hir.ExprLoc(id), "%s of `%s` must be in 0..65535, got %d", what, r.name, v)
		return 0
	}
	return uint16(v)
}

// messageId extracts a non-negative compile-time integer as a message id.
func (r *argReader) messageId(what string) scenario.MessageId {
	v, id, ok := r.constInt(what)
	if !ok {
		return 0
	}
	if v < 0 {
		r.fail(hir.ExprLoc(id), "%s of `%s` must not be negative, got %d", what, r.name, v)
		return 0
	}
	return scenario.MessageId(v)
}

// numberList consumes every remaining argument as a numeric operand.
func (r *argReader) numberList(what string) scenario.NumberList {
	var list scenario.NumberList
	for r.pos < len(r.args) {
		id := r.args[r.pos]
		r.pos++
		list = append(list, r.numberAt(id))
	}
	if len(list) > scenario.MaxNumberListLen {
		r.fail(r.instrLoc(), "%s of `%s` holds %d entries, the limit is %d",
			what, r.name, len(list), scenario.MaxNumberListLen)
	}
	return list
}

// bitmaskArray extracts an optional `[...]` argument of up to eight numeric
// operands; absent entries stay zero constants.
func (r *argReader) bitmaskArray(what string) scenario.BitmaskNumberArray {
	var out scenario.BitmaskNumberArray
	if r.pos >= len(r.args) {
		return out
	}
	id := r.args[r.pos]
	r.pos++
	array, ok := r.ctx.Block.Expr(id).(hir.Array)
	if !ok {
		if _, missing := r.ctx.Block.Expr(id).(hir.Missing); missing {
			r.failed = true
			return out
		}
		r.fail(hir.ExprLoc(id), "Type mismatch: expected an array, found %s", describeExpr(r.ctx.Block.Expr(id)))
		return out
	}
	if len(array.Elements) > len(out) {
		r.fail(hir.ExprLoc(id), "%s of `%s` holds %d entries, the limit is %d",
			what, r.name, len(array.Elements), len(out))
		return out
	}
	for i, el := range array.Elements {
		out[i] = r.numberAt(el)
	}
	return out
}

// stringArray extracts a `[...]` argument of string literals.
func (r *argReader) stringArray(what string) scenario.StringArray {
	id, ok := r.next(what)
	if !ok {
		return nil
	}
	array, isArray := r.ctx.Block.Expr(id).(hir.Array)
	if !isArray {
		if _, missing := r.ctx.Block.Expr(id).(hir.Missing); missing {
			r.failed = true
			return nil
		}
		r.fail(hir.ExprLoc(id), "Type mismatch: expected an array of strings, found %s", describeExpr(r.ctx.Block.Expr(id)))
		return nil
	}
	var out scenario.StringArray
	for _, el := range array.Elements {
		switch e := r.ctx.Block.Expr(el).(type) {
		case hir.Missing:
			r.failed = true
		case hir.StringLit:
			out = append(out, e.Value)
		default:
			r.fail(hir.ExprLoc(el), "Type mismatch: expected a string, found %s", describeExpr(r.ctx.Block.Expr(el)))
		}
	}
	return out
}
