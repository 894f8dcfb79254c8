package syntax

// Typed views over syntax nodes. Each view wraps a red node whose kind was
// checked by CastFrom; accessors walk the children and return zero values
// where the source was malformed, so callers never see a panic for bad input.

// SourceFile is the root view: (newline | item)*.
type SourceFile struct{ node *Node }

func (SourceFile) CastFrom(n *Node) (SourceFile, bool) {
	if n.Kind() == SOURCE_FILE {
		return SourceFile{node: n}, true
	}
	return SourceFile{}, false
}

func (f SourceFile) Node() *Node { return f.node }

// AliasDefs returns the file's alias definitions in source order.
func (f SourceFile) AliasDefs() []AliasDef {
	var out []AliasDef
	for _, n := range f.node.ChildNodes() {
		if d, ok := Cast[AliasDef](n); ok {
			out = append(out, d)
		}
	}
	return out
}

// BlockSets returns the file's instruction block sets in source order.
func (f SourceFile) BlockSets() []InstrBlockSet {
	var out []InstrBlockSet
	for _, n := range f.node.ChildNodes() {
		if s, ok := Cast[InstrBlockSet](n); ok {
			out = append(out, s)
		}
	}
	return out
}

// AliasDef is `def NAME = expr` or `def $NAME = expr`.
type AliasDef struct{ node *Node }

func (AliasDef) CastFrom(n *Node) (AliasDef, bool) {
	if n.Kind() == ALIAS_DEF {
		return AliasDef{node: n}, true
	}
	return AliasDef{}, false
}

func (d AliasDef) Node() *Node { return d.node }

// Name returns the defined name token (IDENT for a value alias, REGISTER for
// a register alias), or nil if the definition is malformed.
func (d AliasDef) Name() *Token {
	if t := d.node.firstToken(IDENT); t != nil {
		return t
	}
	return d.node.firstToken(REGISTER)
}

// Value returns the defining expression, or nil if it is missing.
func (d AliasDef) Value() Expr {
	for _, n := range d.node.ChildNodes() {
		if e, ok := ExprFromNode(n); ok {
			return e
		}
	}
	return nil
}

// InstrBlockSet is a run of consecutive labelled blocks.
type InstrBlockSet struct{ node *Node }

func (InstrBlockSet) CastFrom(n *Node) (InstrBlockSet, bool) {
	if n.Kind() == INSTR_BLOCK_SET {
		return InstrBlockSet{node: n}, true
	}
	return InstrBlockSet{}, false
}

func (s InstrBlockSet) Node() *Node { return s.node }

// Blocks returns the set's blocks in source order.
func (s InstrBlockSet) Blocks() []Block {
	var out []Block
	for _, n := range s.node.ChildNodes() {
		if b, ok := Cast[Block](n); ok {
			out = append(out, b)
		}
	}
	return out
}

// Block is label+ instruction*.
type Block struct{ node *Node }

func (Block) CastFrom(n *Node) (Block, bool) {
	if n.Kind() == BLOCK {
		return Block{node: n}, true
	}
	return Block{}, false
}

func (b Block) Node() *Node { return b.node }

// Labels returns the block's labels in source order.
func (b Block) Labels() []Label {
	var out []Label
	for _, n := range b.node.ChildNodes() {
		if l, ok := Cast[Label](n); ok {
			out = append(out, l)
		}
	}
	return out
}

// Instructions returns the block's instructions in source order.
func (b Block) Instructions() []Instruction {
	var out []Instruction
	for _, n := range b.node.ChildNodes() {
		if i, ok := Cast[Instruction](n); ok {
			out = append(out, i)
		}
	}
	return out
}

// Label is `NAME ":"`.
type Label struct{ node *Node }

func (Label) CastFrom(n *Node) (Label, bool) {
	if n.Kind() == LABEL {
		return Label{node: n}, true
	}
	return Label{}, false
}

func (l Label) Node() *Node { return l.node }

// Name returns the label's name token, or nil if malformed.
func (l Label) Name() *Token { return l.node.firstToken(IDENT) }

// Instruction is `NAME [expr ("," expr)*]`.
type Instruction struct{ node *Node }

func (Instruction) CastFrom(n *Node) (Instruction, bool) {
	if n.Kind() == INSTRUCTION {
		return Instruction{node: n}, true
	}
	return Instruction{}, false
}

func (i Instruction) Node() *Node { return i.node }

// Name returns the mnemonic token, or nil if malformed.
func (i Instruction) Name() *Token { return i.node.firstToken(IDENT) }

// Args returns the argument expressions in source order.
func (i Instruction) Args() []Expr {
	var out []Expr
	for _, n := range i.node.ChildNodes() {
		if e, ok := ExprFromNode(n); ok {
			out = append(out, e)
		}
	}
	return out
}

// ExprLine is the root of a standalone expression parse (ParseExpr).
type ExprLine struct{ node *Node }

func (ExprLine) CastFrom(n *Node) (ExprLine, bool) {
	if n.Kind() == EXPR_LINE {
		return ExprLine{node: n}, true
	}
	return ExprLine{}, false
}

func (l ExprLine) Node() *Node { return l.node }

// Expr returns the line's expression, or nil if the input held none.
func (l ExprLine) Expr() Expr {
	for _, n := range l.node.ChildNodes() {
		if e, ok := ExprFromNode(n); ok {
			return e
		}
	}
	return nil
}

// Expr is the common view over expression nodes.
type Expr interface {
	ExprNode() *Node
}

// ExprFromNode views n as an expression if its kind is an expression kind.
func ExprFromNode(n *Node) (Expr, bool) {
	switch n.Kind() {
	case LITERAL:
		return Literal{node: n}, true
	case NAME_REF:
		return NameRef{node: n}, true
	case REGISTER_REF:
		return RegisterRef{node: n}, true
	case ARRAY_EXPR:
		return ArrayExpr{node: n}, true
	case MAPPING_EXPR:
		return MappingExpr{node: n}, true
	case UNARY_EXPR:
		return UnaryExpr{node: n}, true
	case BIN_EXPR:
		return BinExpr{node: n}, true
	case CALL_EXPR:
		return CallExpr{node: n}, true
	case PAREN_EXPR:
		return ParenExpr{node: n}, true
	}
	return nil, false
}

// Literal wraps one INT_NUMBER, RATIONAL_NUMBER or STRING token.
type Literal struct{ node *Node }

func (Literal) CastFrom(n *Node) (Literal, bool) {
	if n.Kind() == LITERAL {
		return Literal{node: n}, true
	}
	return Literal{}, false
}

func (l Literal) ExprNode() *Node { return l.node }

// Token returns the literal's token, or nil if malformed.
func (l Literal) Token() *Token {
	for _, c := range l.node.Children() {
		if c.Token != nil && !c.Token.Kind().isTrivia() {
			return c.Token
		}
	}
	return nil
}

// NameRef is a bare IDENT used as an expression.
type NameRef struct{ node *Node }

func (NameRef) CastFrom(n *Node) (NameRef, bool) {
	if n.Kind() == NAME_REF {
		return NameRef{node: n}, true
	}
	return NameRef{}, false
}

func (r NameRef) ExprNode() *Node { return r.node }

// Name returns the referenced name, or "" if malformed.
func (r NameRef) Name() string {
	if t := r.node.firstToken(IDENT); t != nil {
		return t.Text()
	}
	return ""
}

// RegisterRef is a REGISTER token used as an expression.
type RegisterRef struct{ node *Node }

func (RegisterRef) CastFrom(n *Node) (RegisterRef, bool) {
	if n.Kind() == REGISTER_REF {
		return RegisterRef{node: n}, true
	}
	return RegisterRef{}, false
}

func (r RegisterRef) ExprNode() *Node { return r.node }

// Name returns the register name without its leading '$', or "" if malformed.
func (r RegisterRef) Name() string {
	if t := r.node.firstToken(REGISTER); t != nil {
		return t.Text()[1:]
	}
	return ""
}

// ArrayExpr is `[a, b, c]`.
type ArrayExpr struct{ node *Node }

func (ArrayExpr) CastFrom(n *Node) (ArrayExpr, bool) {
	if n.Kind() == ARRAY_EXPR {
		return ArrayExpr{node: n}, true
	}
	return ArrayExpr{}, false
}

func (a ArrayExpr) ExprNode() *Node { return a.node }

// Elements returns the array's element expressions in source order.
func (a ArrayExpr) Elements() []Expr {
	var out []Expr
	for _, n := range a.node.ChildNodes() {
		if e, ok := ExprFromNode(n); ok {
			out = append(out, e)
		}
	}
	return out
}

// MappingExpr is `{k => v, ...}`.
type MappingExpr struct{ node *Node }

func (MappingExpr) CastFrom(n *Node) (MappingExpr, bool) {
	if n.Kind() == MAPPING_EXPR {
		return MappingExpr{node: n}, true
	}
	return MappingExpr{}, false
}

func (m MappingExpr) ExprNode() *Node { return m.node }

// Pairs returns the mapping's entries in source order.
func (m MappingExpr) Pairs() []MappingPair {
	var out []MappingPair
	for _, n := range m.node.ChildNodes() {
		if n.Kind() == MAPPING_PAIR {
			out = append(out, MappingPair{node: n})
		}
	}
	return out
}

// MappingPair is one `k => v` entry.
type MappingPair struct{ node *Node }

func (p MappingPair) Node() *Node { return p.node }

// Key returns the entry's key expression, or nil if malformed.
func (p MappingPair) Key() Expr {
	exprs := p.exprs()
	if len(exprs) > 0 {
		return exprs[0]
	}
	return nil
}

// Value returns the entry's value expression, or nil if malformed.
func (p MappingPair) Value() Expr {
	exprs := p.exprs()
	if len(exprs) > 1 {
		return exprs[1]
	}
	return nil
}

func (p MappingPair) exprs() []Expr {
	var out []Expr
	for _, n := range p.node.ChildNodes() {
		if e, ok := ExprFromNode(n); ok {
			out = append(out, e)
		}
	}
	return out
}

// UnaryExpr is `-x`, `!x` or `~x`.
type UnaryExpr struct{ node *Node }

func (UnaryExpr) CastFrom(n *Node) (UnaryExpr, bool) {
	if n.Kind() == UNARY_EXPR {
		return UnaryExpr{node: n}, true
	}
	return UnaryExpr{}, false
}

func (u UnaryExpr) ExprNode() *Node { return u.node }

// OpKind returns the operator token kind, or EOF if malformed.
func (u UnaryExpr) OpKind() Kind {
	for _, c := range u.node.Children() {
		if c.Token != nil && !c.Token.Kind().isTrivia() {
			return c.Token.Kind()
		}
	}
	return EOF
}

// Operand returns the operand expression, or nil if missing.
func (u UnaryExpr) Operand() Expr {
	for _, n := range u.node.ChildNodes() {
		if e, ok := ExprFromNode(n); ok {
			return e
		}
	}
	return nil
}

// BinExpr is `a op b`.
type BinExpr struct{ node *Node }

func (BinExpr) CastFrom(n *Node) (BinExpr, bool) {
	if n.Kind() == BIN_EXPR {
		return BinExpr{node: n}, true
	}
	return BinExpr{}, false
}

func (b BinExpr) ExprNode() *Node { return b.node }

// OpKind returns the operator token kind, or EOF if malformed.
func (b BinExpr) OpKind() Kind {
	for _, c := range b.node.Children() {
		if c.Token != nil && binaryBindingPower(c.Token.Kind()) != 0 {
			return c.Token.Kind()
		}
	}
	return EOF
}

// Lhs returns the left operand, or nil if missing.
func (b BinExpr) Lhs() Expr {
	exprs := b.exprs()
	if len(exprs) > 0 {
		return exprs[0]
	}
	return nil
}

// Rhs returns the right operand, or nil if missing.
func (b BinExpr) Rhs() Expr {
	exprs := b.exprs()
	if len(exprs) > 1 {
		return exprs[1]
	}
	return nil
}

func (b BinExpr) exprs() []Expr {
	var out []Expr
	for _, n := range b.node.ChildNodes() {
		if e, ok := ExprFromNode(n); ok {
			out = append(out, e)
		}
	}
	return out
}

// CallExpr is `name(args)`.
type CallExpr struct{ node *Node }

func (CallExpr) CastFrom(n *Node) (CallExpr, bool) {
	if n.Kind() == CALL_EXPR {
		return CallExpr{node: n}, true
	}
	return CallExpr{}, false
}

func (c CallExpr) ExprNode() *Node { return c.node }

// Name returns the callee name, or "" if malformed.
func (c CallExpr) Name() string {
	if t := c.node.firstToken(IDENT); t != nil {
		return t.Text()
	}
	return ""
}

// Args returns the call's argument expressions in source order.
func (c CallExpr) Args() []Expr {
	var out []Expr
	for _, n := range c.node.ChildNodes() {
		if e, ok := ExprFromNode(n); ok {
			out = append(out, e)
		}
	}
	return out
}

// ParenExpr is `(expr)`.
type ParenExpr struct{ node *Node }

func (ParenExpr) CastFrom(n *Node) (ParenExpr, bool) {
	if n.Kind() == PAREN_EXPR {
		return ParenExpr{node: n}, true
	}
	return ParenExpr{}, false
}

func (p ParenExpr) ExprNode() *Node { return p.node }

// Inner returns the wrapped expression, or nil if missing.
func (p ParenExpr) Inner() Expr {
	for _, n := range p.node.ChildNodes() {
		if e, ok := ExprFromNode(n); ok {
			return e
		}
	}
	return nil
}
