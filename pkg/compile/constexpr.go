// Package compile runs the semantic stages of the pipeline: name
// resolution over a parsed file, constant evaluation of value aliases, and
// the routing of each instruction to its typed lowering handler.
package compile

import (
	"fmt"
	"math"

	"gosal/pkg/diag"
	"gosal/pkg/hir"
	"gosal/pkg/syntax"
)

// ConstexprValue is an evaluated compile-time constant. The wrapper type
// keeps constants from being confused with raw instruction operands;
// equality is value equality.
type ConstexprValue struct {
	value int32
}

// Constant wraps an int32 as a constexpr value.
func Constant(value int32) ConstexprValue {
	return ConstexprValue{value: value}
}

// Value returns the wrapped integer.
func (v ConstexprValue) Value() int32 { return v.value }

func (v ConstexprValue) String() string { return fmt.Sprint(v.value) }

// ContextValue is one entry of a ConstexprContext: either the (possibly
// failed) evaluation result of a value alias, or a marker that the name
// denotes a code block. Block entries carry no value; they exist so that
// using a label in a constant expression is a type error rather than an
// unknown name.
type ContextValue struct {
	isBlock bool
	value   ConstexprValue
	ok      bool
	defined syntax.TextRange
	hasDef  bool
}

// ValueEntry builds a context entry for an evaluated value alias. A failed
// evaluation (ok=false) still enters the context so later uses propagate the
// failure without re-reporting it.
func ValueEntry(value ConstexprValue, ok bool) ContextValue {
	return ContextValue{value: value, ok: ok}
}

// WithDefinition attaches the defining source range to an entry.
func (c ContextValue) WithDefinition(r syntax.TextRange) ContextValue {
	c.defined = r
	c.hasDef = true
	return c
}

// BlockEntry builds a context entry for a code block defined at r.
func BlockEntry(r syntax.TextRange) ContextValue {
	return ContextValue{isBlock: true, defined: r, hasDef: true}
}

// IsBlock reports whether the entry marks a code block.
func (c ContextValue) IsBlock() bool { return c.isBlock }

// Value returns the entry's evaluation result for a value entry.
func (c ContextValue) Value() (ConstexprValue, bool) { return c.value, c.ok && !c.isBlock }

// Definition returns the entry's defining source range, if known.
func (c ContextValue) Definition() (syntax.TextRange, bool) { return c.defined, c.hasDef }

// ConstexprContext maps every name visible to a constant expression to its
// entry. It is built once per compilation unit, before any expression that
// uses it is evaluated, and is read-only afterwards.
type ConstexprContext map[string]ContextValue

// Evaluate computes the integer value of the expression at id. The context
// must contain an entry for every name the expression references; a missing
// entry is a violation of the name-resolution boundary and panics. The
// returned diagnostics cover every newly reported failure in the subtree;
// a false result with no diagnostics means the failure was already reported
// (a Missing expression or a propagated alias failure).
func Evaluate(context ConstexprContext, block *hir.BlockBody, id hir.ExprId) (ConstexprValue, []hir.Diagnostic, bool) {
	ctx := &evalCtx{context: context, block: block}
	value, ok := ctx.eval(id)
	return value, ctx.sink.List(), ok
}

type evalCtx struct {
	context ConstexprContext
	block   *hir.BlockBody
	sink    diag.Sink[hir.Location]
}

// fail records a diagnostic at the expression and reports failure.
func (ctx *evalCtx) fail(id hir.ExprId, format string, args ...any) (ConstexprValue, bool) {
	ctx.sink.Emit(hir.ExprLoc(id), format, args...)
	return ConstexprValue{}, false
}

func (ctx *evalCtx) typeMismatch(id hir.ExprId, found string) (ConstexprValue, bool) {
	return ctx.fail(id, "Type mismatch: expected int or float, found %s", found)
}

func (ctx *evalCtx) eval(id hir.ExprId) (ConstexprValue, bool) {
	switch e := ctx.block.Expr(id).(type) {
	case hir.Missing:
		// The parse error was already reported.
		return ConstexprValue{}, false

	case hir.IntLit:
		return Constant(e.Value), true

	case hir.RationalLit:
		// A rational folds to its raw milli-unit encoding, not a float
		// conversion: 1.5 contributes 1500.
		return Constant(e.Value.Raw()), true

	case hir.StringLit:
		return ctx.typeMismatch(id, "string")

	case hir.NameRef:
		entry, present := ctx.context[e.Name]
		if !present {
			panic(fmt.Sprintf("compile: name %q missing from constexpr context", e.Name))
		}
		if entry.IsBlock() {
			d := diag.New(hir.ExprLoc(id), "Type mismatch: expected int or float, found code reference")
			if def, ok := entry.Definition(); ok {
				d = d.WithLabel(hir.SpanLoc(def), "Code reference defined at")
			}
			ctx.sink.Report(d)
			return ConstexprValue{}, false
		}
		// A failed alias propagates without a new diagnostic; its own
		// evaluation already reported the cause.
		return entry.Value()

	case hir.RegisterRef:
		return ctx.fail(id, "Registers cannot be used in const context")

	case hir.Array:
		return ctx.typeMismatch(id, "array")

	case hir.Mapping:
		return ctx.typeMismatch(id, "mapping")

	case hir.Unary:
		return ctx.evalUnary(id, e)

	case hir.Binary:
		return ctx.evalBinary(id, e)

	case hir.Call:
		return ctx.fail(id, "Call expressions are not supported in const context")
	}
	panic(fmt.Sprintf("compile: unhandled expression %T", ctx.block.Expr(id)))
}

func (ctx *evalCtx) evalUnary(id hir.ExprId, e hir.Unary) (ConstexprValue, bool) {
	operand, ok := ctx.eval(e.Operand)
	if !ok {
		return ConstexprValue{}, false
	}
	v := operand.Value()
	switch e.Op {
	case hir.Negate:
		if v == math.MinInt32 {
			return ctx.fail(id, "Overflow in constant expression")
		}
		return Constant(-v), true
	case hir.LogicalNot:
		if v == 0 {
			return Constant(1), true
		}
		return Constant(0), true
	case hir.BitwiseNot:
		return Constant(^v), true
	}
	panic(fmt.Sprintf("compile: unhandled unary operator %d", e.Op))
}

// evalBinary evaluates both operands before deciding the outcome so that
// diagnostics from both sides surface even when one fails. A failed operand
// fails the whole expression without a new diagnostic.
func (ctx *evalCtx) evalBinary(id hir.ExprId, e hir.Binary) (ConstexprValue, bool) {
	lhs, lhsOK := ctx.eval(e.Lhs)
	rhs, rhsOK := ctx.eval(e.Rhs)
	if !lhsOK || !rhsOK {
		return ConstexprValue{}, false
	}
	a, b := int64(lhs.Value()), int64(rhs.Value())

	var result int64
	switch e.Op {
	case hir.Add:
		result = a + b
	case hir.Subtract:
		result = a - b
	case hir.Multiply:
		result = a * b
	case hir.Divide:
		if b == 0 {
			return ctx.fail(id, "Division by zero")
		}
		result = a / b
	case hir.Modulo:
		if b == 0 {
			return ctx.fail(id, "Division by zero")
		}
		if a == math.MinInt32 && b == -1 {
			return ctx.fail(id, "Overflow in constant expression")
		}
		result = a % b
	case hir.BitAnd:
		result = a & b
	case hir.BitOr:
		result = a | b
	case hir.BitXor:
		result = a ^ b
	case hir.ShiftLeft, hir.ShiftRight:
		if b < 0 || b > 31 {
			return ctx.fail(id, "Overflow in constant expression")
		}
		if e.Op == hir.ShiftLeft {
			// The shifted-out bits are discarded; only the count is checked,
			// matching the machine shift the VM performs.
			return Constant(lhs.Value() << uint(b)), true
		}
		return Constant(lhs.Value() >> uint(b)), true
	default:
		panic(fmt.Sprintf("compile: unhandled binary operator %v", e.Op))
	}

	if result < math.MinInt32 || result > math.MaxInt32 {
		return ctx.fail(id, "Overflow in constant expression")
	}
	return Constant(int32(result)), true
}
