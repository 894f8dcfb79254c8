package hir

import (
	"strconv"
	"strings"

	"gosal/pkg/diag"
	"gosal/pkg/scenario"
	"gosal/pkg/syntax"
)

// LowerBlock walks one syntax block and produces its expression and
// instruction arenas, the source map back to the tree, and any lowering
// diagnostics. Malformed sub-expressions lower to Missing so that every
// syntactic argument keeps its position.
func LowerBlock(block syntax.Block) (*BlockBody, *SourceMap, []Diagnostic) {
	ctx := newLowerCtx()
	for _, instr := range block.Instructions() {
		name := instr.Name()
		if name == nil {
			continue
		}
		var args []ExprId
		for _, arg := range instr.Args() {
			args = append(args, ctx.lowerExpr(arg))
		}
		id := ctx.body.AddInstr(Instr{Name: name.Text(), Args: args})
		ctx.m.SetInstrRange(id, name.Range())
	}
	return ctx.body, ctx.m, ctx.sink.List()
}

// LowerStandaloneExpr lowers one expression outside any block, e.g. a value
// alias body or a REPL line. The expression gets its own single-use arena.
func LowerStandaloneExpr(e syntax.Expr) (*BlockBody, *SourceMap, ExprId, []Diagnostic) {
	ctx := newLowerCtx()
	id := ctx.lowerExpr(e)
	return ctx.body, ctx.m, id, ctx.sink.List()
}

type lowerCtx struct {
	body *BlockBody
	m    *SourceMap
	sink *diag.Sink[Location]
}

func newLowerCtx() *lowerCtx {
	return &lowerCtx{body: &BlockBody{}, m: NewSourceMap(), sink: &diag.Sink[Location]{}}
}

// add interns an expression and records its source range.
func (ctx *lowerCtx) add(e Expr, r syntax.TextRange) ExprId {
	id := ctx.body.AddExpr(e)
	ctx.m.SetExprRange(id, r)
	return id
}

// missing interns a Missing expression. No diagnostic: the parse error for
// the broken source has already been recorded at the syntax stage.
func (ctx *lowerCtx) missing() ExprId {
	return ctx.body.AddExpr(Missing{})
}

func (ctx *lowerCtx) lowerExpr(e syntax.Expr) ExprId {
	if e == nil {
		return ctx.missing()
	}
	r := e.ExprNode().Range()
	switch e := e.(type) {
	case syntax.Literal:
		return ctx.lowerLiteral(e)

	case syntax.NameRef:
		if e.Name() == "" {
			return ctx.missing()
		}
		return ctx.add(NameRef{Name: e.Name()}, r)

	case syntax.RegisterRef:
		return ctx.lowerRegister(e)

	case syntax.ArrayExpr:
		var elements []ExprId
		for _, el := range e.Elements() {
			elements = append(elements, ctx.lowerExpr(el))
		}
		return ctx.add(Array{Elements: elements}, r)

	case syntax.MappingExpr:
		var pairs []MappingPair
		for _, p := range e.Pairs() {
			pairs = append(pairs, MappingPair{
				Key:   ctx.lowerExpr(p.Key()),
				Value: ctx.lowerExpr(p.Value()),
			})
		}
		return ctx.add(Mapping{Pairs: pairs}, r)

	case syntax.UnaryExpr:
		return ctx.lowerUnary(e)

	case syntax.BinExpr:
		op, ok := binaryOpFromKind(e.OpKind())
		if !ok {
			return ctx.missing()
		}
		lhs := ctx.lowerExpr(e.Lhs())
		rhs := ctx.lowerExpr(e.Rhs())
		return ctx.add(Binary{Op: op, Lhs: lhs, Rhs: rhs}, r)

	case syntax.CallExpr:
		if e.Name() == "" {
			return ctx.missing()
		}
		var args []ExprId
		for _, a := range e.Args() {
			args = append(args, ctx.lowerExpr(a))
		}
		return ctx.add(Call{Name: e.Name(), Args: args}, r)

	case syntax.ParenExpr:
		// Parentheses leave no trace in the HIR.
		return ctx.lowerExpr(e.Inner())
	}
	return ctx.missing()
}

func (ctx *lowerCtx) lowerLiteral(lit syntax.Literal) ExprId {
	tok := lit.Token()
	if tok == nil {
		return ctx.missing()
	}
	r := tok.Range()
	switch tok.Kind() {
	case syntax.INT_NUMBER:
		value, ok := decodeIntLiteral(tok.Text(), false)
		if !ok {
			// Out of range; the validation pass reported it.
			return ctx.missing()
		}
		return ctx.add(IntLit{Value: value}, r)

	case syntax.RATIONAL_NUMBER:
		raw, ok := decodeRationalLiteral(tok.Text())
		if !ok {
			ctx.emitAt(r, "rational literal `%s` out of range", tok.Text())
			return ctx.missing()
		}
		return ctx.add(RationalLit{Value: scenario.RationalFromRaw(raw)}, r)

	case syntax.STRING:
		return ctx.add(StringLit{Value: decodeStringLiteral(tok.Text())}, r)
	}
	return ctx.missing()
}

func (ctx *lowerCtx) lowerRegister(e syntax.RegisterRef) ExprId {
	name := e.Name()
	if name == "" {
		return ctx.missing()
	}
	r := e.ExprNode().Range()
	if scenario.IsDirectRegisterName(name) {
		if _, err := scenario.ParseRegister("$" + name); err != nil {
			ctx.emitAt(r, "%s", err.Error())
			return ctx.missing()
		}
	}
	return ctx.add(RegisterRef{Name: name}, r)
}

func (ctx *lowerCtx) lowerUnary(e syntax.UnaryExpr) ExprId {
	r := e.ExprNode().Range()
	var op UnaryOp
	switch e.OpKind() {
	case syntax.MINUS:
		op = Negate
	case syntax.BANG:
		op = LogicalNot
	case syntax.TILDE:
		op = BitwiseNot
	default:
		return ctx.missing()
	}

	// Fold a minus applied directly to an integer literal so that the most
	// negative value is writable as `-2147483648`. When only the negation
	// overflows (`-0x80000000`) the fold is skipped and the constant
	// evaluator reports the overflow on the unfolded Unary.
	if op == Negate {
		if lit, ok := e.Operand().(syntax.Literal); ok {
			if tok := lit.Token(); tok != nil && tok.Kind() == syntax.INT_NUMBER {
				if value, ok := decodeIntLiteral(tok.Text(), true); ok {
					return ctx.add(IntLit{Value: value}, r)
				}
				if _, ok := decodeIntLiteral(tok.Text(), false); !ok {
					// The literal itself is out of range; validation
					// reported it.
					return ctx.missing()
				}
			}
		}
	}

	operand := ctx.lowerExpr(e.Operand())
	return ctx.add(Unary{Op: op, Operand: operand}, r)
}

func (ctx *lowerCtx) emitAt(r syntax.TextRange, format string, args ...any) {
	ctx.sink.Emit(SpanLoc(r), format, args...)
}

func binaryOpFromKind(kind syntax.Kind) (BinaryOp, bool) {
	switch kind {
	case syntax.PLUS:
		return Add, true
	case syntax.MINUS:
		return Subtract, true
	case syntax.STAR:
		return Multiply, true
	case syntax.SLASH:
		return Divide, true
	case syntax.PERCENT:
		return Modulo, true
	case syntax.AMP:
		return BitAnd, true
	case syntax.PIPE:
		return BitOr, true
	case syntax.CARET:
		return BitXor, true
	case syntax.SHL:
		return ShiftLeft, true
	case syntax.SHR:
		return ShiftRight, true
	}
	return 0, false
}

// decodeIntLiteral parses an integer literal into its int32 value. Decimal
// literals are sign-magnitude: 2147483648 fits only under a folded minus.
// Hex and binary literals are 32-bit patterns reinterpreted as two's
// complement; a minus then negates the reinterpreted value, overflowing for
// patterns at or past 0x80000000.
func decodeIntLiteral(text string, negated bool) (int32, bool) {
	var (
		value uint64
		err   error
		bits  bool
	)
	switch {
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0X"):
		if len(text) == 2 {
			return 0, false
		}
		value, err = strconv.ParseUint(text[2:], 16, 64)
		bits = true
	case strings.HasPrefix(text, "0b"), strings.HasPrefix(text, "0B"):
		if len(text) == 2 {
			return 0, false
		}
		value, err = strconv.ParseUint(text[2:], 2, 64)
		bits = true
	default:
		value, err = strconv.ParseUint(text, 10, 64)
	}
	if err != nil {
		return 0, false
	}

	if bits {
		if value > 1<<32-1 {
			return 0, false
		}
		v := int32(uint32(value))
		if !negated {
			return v, true
		}
		if v == -1<<31 {
			return 0, false
		}
		return -v, true
	}

	if negated {
		if value > 1<<31 {
			return 0, false
		}
		return int32(-int64(value)), true
	}
	if value >= 1<<31 {
		return 0, false
	}
	return int32(value), true
}

// decodeRationalLiteral parses "units.frac" into the milli-unit raw
// encoding. More than three fractional digits cannot be represented.
func decodeRationalLiteral(text string) (int32, bool) {
	units, frac, ok := strings.Cut(text, ".")
	if !ok || len(frac) == 0 || len(frac) > 3 {
		return 0, false
	}
	u, err := strconv.ParseUint(units, 10, 64)
	if err != nil {
		return 0, false
	}
	f, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0, false
	}
	for i := len(frac); i < 3; i++ {
		f *= 10
	}
	raw := u*scenario.RationalDenominator + f
	if raw > 1<<31-1 {
		return 0, false
	}
	return int32(raw), true
}

// decodeStringLiteral strips the quotes and decodes the escape sequences of
// a string literal. Unknown escapes were reported by validation and are
// passed through verbatim; an unterminated literal decodes best-effort.
func decodeStringLiteral(text string) string {
	var sb strings.Builder
	i := 1 // skip the opening quote
	for i < len(text) {
		ch := text[i]
		if ch == '"' {
			break
		}
		if ch == '\\' && i+1 < len(text) {
			switch text[i+1] {
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '0':
				sb.WriteByte(0)
			default:
				sb.WriteByte('\\')
				sb.WriteByte(text[i+1])
			}
			i += 2
			continue
		}
		sb.WriteByte(ch)
		i++
	}
	return sb.String()
}
