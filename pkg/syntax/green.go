package syntax

// The tree is stored in two layers. Green nodes and tokens are
// position-independent: they hold only a kind, text (for tokens) and
// children (for nodes), so identical subtrees can be shared freely and a
// whole tree is immutable once built. Red cursors (Node, Token) wrap greens
// with absolute offsets and parent links and are built on demand.

// greenToken is a leaf: a kind plus its exact source text.
type greenToken struct {
	kind Kind
	text string
}

// greenNode is an interior node: a kind plus its children in source order.
type greenNode struct {
	kind     Kind
	children []greenChild
	textLen  uint32
}

// greenChild points at either a node or a token; exactly one field is set.
type greenChild struct {
	node  *greenNode
	token *greenToken
}

func (c greenChild) textLen() uint32 {
	if c.node != nil {
		return c.node.textLen
	}
	return uint32(len(c.token.text))
}

// writeText appends the subtree's source text to buf.
func (c greenChild) writeText(buf *[]byte) {
	if c.token != nil {
		*buf = append(*buf, c.token.text...)
		return
	}
	for _, gc := range c.node.children {
		gc.writeText(buf)
	}
}

// builderFrame is one unfinished node on the builder stack.
type builderFrame struct {
	kind     Kind
	children []greenChild
}

// treeBuilder assembles a green tree from parser events.
type treeBuilder struct {
	stack []builderFrame
}

func (b *treeBuilder) startNode(kind Kind) {
	b.stack = append(b.stack, builderFrame{kind: kind})
}

// startNodeAt retroactively opens a node that adopts every child added to the
// current frame since the given checkpoint. It is how infix expressions pick
// up their already-parsed left operand.
func (b *treeBuilder) startNodeAt(checkpoint int, kind Kind) {
	top := &b.stack[len(b.stack)-1]
	adopted := append([]greenChild(nil), top.children[checkpoint:]...)
	top.children = top.children[:checkpoint]
	b.stack = append(b.stack, builderFrame{kind: kind, children: adopted})
}

// checkpoint marks the current position in the open node's child list.
func (b *treeBuilder) checkpoint() int {
	return len(b.stack[len(b.stack)-1].children)
}

func (b *treeBuilder) token(kind Kind, text string) {
	top := &b.stack[len(b.stack)-1]
	top.children = append(top.children, greenChild{token: &greenToken{kind: kind, text: text}})
}

func (b *treeBuilder) finishNode() {
	frame := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	var textLen uint32
	for _, c := range frame.children {
		textLen += c.textLen()
	}
	node := &greenNode{kind: frame.kind, children: frame.children, textLen: textLen}

	if len(b.stack) == 0 {
		// Root: keep it as a single-frame stack entry for finish.
		b.stack = append(b.stack, builderFrame{children: []greenChild{{node: node}}})
		return
	}
	top := &b.stack[len(b.stack)-1]
	top.children = append(top.children, greenChild{node: node})
}

// finish returns the completed root. The builder must hold exactly the
// finished root at this point; anything else is a parser bug.
func (b *treeBuilder) finish() *greenNode {
	if len(b.stack) != 1 || len(b.stack[0].children) != 1 || b.stack[0].children[0].node == nil {
		panic("syntax: unbalanced tree builder")
	}
	return b.stack[0].children[0].node
}
