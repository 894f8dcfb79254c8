// Package hir holds the resolved intermediate representation lowered from
// the syntax tree: an arena of expressions addressed by ExprId, the
// instructions that reference them, and the location sum type that later
// stages anchor their diagnostics to.
package hir

import (
	"fmt"

	"gosal/pkg/diag"
	"gosal/pkg/scenario"
	"gosal/pkg/syntax"
)

// ExprId addresses one expression in a block's arena. The zero value is
// invalid; ids are index+1 so an uninitialized id is never mistaken for the
// first expression.
type ExprId uint32

// InstrId addresses one instruction in a block's arena. Zero is invalid.
type InstrId uint32

// UnaryOp is the operator of a Unary expression.
type UnaryOp uint8

const (
	Negate UnaryOp = iota
	LogicalNot
	BitwiseNot
)

// BinaryOp is the operator of a Binary expression.
type BinaryOp uint8

const (
	Add BinaryOp = iota
	Subtract
	Multiply
	Divide
	Modulo
	BitAnd
	BitOr
	BitXor
	ShiftLeft
	ShiftRight
)

var binaryOpNames = [...]string{
	Add:        "+",
	Subtract:   "-",
	Multiply:   "*",
	Divide:     "/",
	Modulo:     "%",
	BitAnd:     "&",
	BitOr:      "|",
	BitXor:     "^",
	ShiftLeft:  "<<",
	ShiftRight: ">>",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", uint8(op))
}

// Expr is one arena-stored expression. The variant set is sealed: only the
// types below implement it.
type Expr interface{ isExpr() }

// Missing stands in for source the parser could not produce an expression
// for. Its parse error has already been reported, so consumers fail on it
// silently.
type Missing struct{}

// IntLit is an integer literal, range-checked during lowering.
type IntLit struct{ Value int32 }

// RationalLit is a fixed-point literal carried in its raw milli-unit encoding.
type RationalLit struct{ Value scenario.Rational }

// StringLit is a string literal with its escapes decoded.
type StringLit struct{ Value string }

// NameRef references a value alias or block label by name.
type NameRef struct{ Name string }

// RegisterRef references a register by its source name without the '$':
// a direct cell like "v12" or a register alias defined with `def`.
type RegisterRef struct{ Name string }

// Array is `[a, b, c]`.
type Array struct{ Elements []ExprId }

// Mapping is `{k => v, ...}`.
type Mapping struct{ Pairs []MappingPair }

// MappingPair is one key/value entry of a Mapping.
type MappingPair struct {
	Key   ExprId
	Value ExprId
}

// Unary is a unary operator application.
type Unary struct {
	Op      UnaryOp
	Operand ExprId
}

// Binary is a binary operator application.
type Binary struct {
	Op  BinaryOp
	Lhs ExprId
	Rhs ExprId
}

// Call is `name(args)`.
type Call struct {
	Name string
	Args []ExprId
}

func (Missing) isExpr()     {}
func (IntLit) isExpr()      {}
func (RationalLit) isExpr() {}
func (StringLit) isExpr()   {}
func (NameRef) isExpr()     {}
func (RegisterRef) isExpr() {}
func (Array) isExpr()       {}
func (Mapping) isExpr()     {}
func (Unary) isExpr()       {}
func (Binary) isExpr()      {}
func (Call) isExpr()        {}

// Instr is one lowered instruction: a mnemonic plus argument expression ids.
type Instr struct {
	Name string
	Args []ExprId
}

// BlockBody owns the append-only arenas of one block's expressions and
// instructions. Expressions never outlive their block. A BlockBody is
// mutated only during lowering; afterwards it is read-only and freely
// shareable.
type BlockBody struct {
	exprs  []Expr
	instrs []Instr
}

// AddExpr appends an expression and returns its id.
func (b *BlockBody) AddExpr(e Expr) ExprId {
	b.exprs = append(b.exprs, e)
	return ExprId(len(b.exprs))
}

// Expr returns the expression with the given id. It panics on an id that was
// not produced by this block's AddExpr; that is an indexing bug, not input
// dependent.
func (b *BlockBody) Expr(id ExprId) Expr {
	if id == 0 || int(id) > len(b.exprs) {
		panic(fmt.Sprintf("hir: expression id %d out of range", id))
	}
	return b.exprs[id-1]
}

// AddInstr appends an instruction and returns its id.
func (b *BlockBody) AddInstr(in Instr) InstrId {
	b.instrs = append(b.instrs, in)
	return InstrId(len(b.instrs))
}

// Instr returns the instruction with the given id.
func (b *BlockBody) Instr(id InstrId) Instr {
	if id == 0 || int(id) > len(b.instrs) {
		panic(fmt.Sprintf("hir: instruction id %d out of range", id))
	}
	return b.instrs[id-1]
}

// InstrIds returns the ids of every instruction in arena order.
func (b *BlockBody) InstrIds() []InstrId {
	out := make([]InstrId, len(b.instrs))
	for i := range b.instrs {
		out[i] = InstrId(i + 1)
	}
	return out
}

// NumExprs returns the number of expressions in the arena.
func (b *BlockBody) NumExprs() int { return len(b.exprs) }

// Location anchors a diagnostic to either a lowered expression or a raw
// source range. Exactly one side is active.
type Location struct {
	expr   ExprId
	span   syntax.TextRange
	isSpan bool
}

// ExprLoc anchors to a lowered expression.
func ExprLoc(id ExprId) Location { return Location{expr: id} }

// SpanLoc anchors to a raw source range.
func SpanLoc(r syntax.TextRange) Location { return Location{span: r, isSpan: true} }

// Expr returns the expression id if that side is active.
func (l Location) Expr() (ExprId, bool) {
	if l.isSpan {
		return 0, false
	}
	return l.expr, true
}

// Span returns the source range if that side is active.
func (l Location) Span() (syntax.TextRange, bool) {
	if !l.isSpan {
		return syntax.TextRange{}, false
	}
	return l.span, true
}

func (l Location) String() string {
	if l.isSpan {
		return l.span.String()
	}
	return fmt.Sprintf("expr#%d", l.expr)
}

// Diagnostic is the diagnostic type of every stage past parsing.
type Diagnostic = diag.Diagnostic[Location]

// SourceMap records where each lowered expression and instruction came from.
// It is the collaborator that turns ExprId-anchored diagnostics back into
// renderable source ranges.
type SourceMap struct {
	exprRanges  map[ExprId]syntax.TextRange
	instrRanges map[InstrId]syntax.TextRange
}

// NewSourceMap returns an empty source map.
func NewSourceMap() *SourceMap {
	return &SourceMap{
		exprRanges:  map[ExprId]syntax.TextRange{},
		instrRanges: map[InstrId]syntax.TextRange{},
	}
}

// SetExprRange records the source range of a lowered expression.
func (m *SourceMap) SetExprRange(id ExprId, r syntax.TextRange) { m.exprRanges[id] = r }

// SetInstrRange records the source range of a lowered instruction.
func (m *SourceMap) SetInstrRange(id InstrId, r syntax.TextRange) { m.instrRanges[id] = r }

// ExprRange returns the source range of a lowered expression.
func (m *SourceMap) ExprRange(id ExprId) (syntax.TextRange, bool) {
	r, ok := m.exprRanges[id]
	return r, ok
}

// InstrRange returns the source range of a lowered instruction.
func (m *SourceMap) InstrRange(id InstrId) (syntax.TextRange, bool) {
	r, ok := m.instrRanges[id]
	return r, ok
}

// Resolve turns a location into a source range. Expressions without a
// recorded range (synthesized Missing nodes) resolve to an empty range.
func (m *SourceMap) Resolve(l Location) syntax.TextRange {
	if r, ok := l.Span(); ok {
		return r
	}
	id, _ := l.Expr()
	return m.exprRanges[id]
}
