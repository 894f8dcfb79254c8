// Package syntax turns SAL source text into a lossless syntax tree.
//
// Parsing is total: every input, including empty strings and binary garbage,
// produces a tree whose text round-trips byte-for-byte. Problems are recorded
// as SyntaxError values attached to the parse result, never thrown.
package syntax

import (
	"fmt"
	"strings"
)

// TextRange is a half-open byte range [Start, End) into the source text.
type TextRange struct {
	Start uint32
	End   uint32
}

// Len returns the number of bytes the range covers.
func (r TextRange) Len() uint32 { return r.End - r.Start }

func (r TextRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// SyntaxError is a grammar-level problem recorded while producing a tree.
type SyntaxError struct {
	Message string
	Range   TextRange
}

// Node is a red cursor over a green node: it adds the absolute byte offset
// and a parent link to the position-independent green layer. Nodes are
// created on demand and are cheap to discard.
type Node struct {
	green  *greenNode
	parent *Node
	offset uint32
}

// Token is a red cursor over a green token.
type Token struct {
	green  *greenToken
	parent *Node
	offset uint32
}

// Child points at either a node or a token; exactly one field is non-nil.
type Child struct {
	Node  *Node
	Token *Token
}

// Kind returns the child's kind regardless of which side is set.
func (c Child) Kind() Kind {
	if c.Node != nil {
		return c.Node.Kind()
	}
	return c.Token.Kind()
}

// Range returns the child's source range regardless of which side is set.
func (c Child) Range() TextRange {
	if c.Node != nil {
		return c.Node.Range()
	}
	return c.Token.Range()
}

func (n *Node) Kind() Kind { return n.green.kind }

func (n *Node) Range() TextRange {
	return TextRange{Start: n.offset, End: n.offset + n.green.textLen}
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Text reconstructs the exact source text the node covers.
func (n *Node) Text() string {
	buf := make([]byte, 0, n.green.textLen)
	for _, c := range n.green.children {
		c.writeText(&buf)
	}
	return string(buf)
}

// Children returns the node's direct children in source order.
func (n *Node) Children() []Child {
	out := make([]Child, 0, len(n.green.children))
	off := n.offset
	for _, gc := range n.green.children {
		if gc.node != nil {
			out = append(out, Child{Node: &Node{green: gc.node, parent: n, offset: off}})
		} else {
			out = append(out, Child{Token: &Token{green: gc.token, parent: n, offset: off}})
		}
		off += gc.textLen()
	}
	return out
}

// ChildNodes returns the direct child nodes, skipping tokens.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for _, c := range n.Children() {
		if c.Node != nil {
			out = append(out, c.Node)
		}
	}
	return out
}

// firstChildNode returns the first direct child node of the given kind.
func (n *Node) firstChildNode(kind Kind) *Node {
	for _, c := range n.Children() {
		if c.Node != nil && c.Node.Kind() == kind {
			return c.Node
		}
	}
	return nil
}

// firstToken returns the first direct child token of the given kind.
func (n *Node) firstToken(kind Kind) *Token {
	for _, c := range n.Children() {
		if c.Token != nil && c.Token.Kind() == kind {
			return c.Token
		}
	}
	return nil
}

func (t *Token) Kind() Kind { return t.green.kind }

func (t *Token) Range() TextRange {
	return TextRange{Start: t.offset, End: t.offset + uint32(len(t.green.text))}
}

// Parent returns the node the token belongs to.
func (t *Token) Parent() *Node { return t.parent }

// Text returns the token's exact source text.
func (t *Token) Text() string { return t.green.text }

// AstNode is a typed view over a syntax node. CastFrom is called on the zero
// value: it checks the node's kind and wraps it, or reports false. The type
// parameter ties each view to its own constructor so Cast can be generic.
type AstNode[T any] interface {
	CastFrom(n *Node) (T, bool)
}

// Cast attempts to view n as the typed node T. This is a capability check on
// the node's kind, not a re-parse: it never fails for a node of the right kind.
func Cast[T AstNode[T]](n *Node) (T, bool) {
	var zero T
	return zero.CastFrom(n)
}

// Parse wraps the result of a parser run: the immutable tree plus every
// syntax error recorded while producing and validating it. Copying a Parse
// is O(1); copies share the green tree and the error list, neither of which
// is ever mutated after the parse returns.
type Parse[T AstNode[T]] struct {
	root   *greenNode
	errors []SyntaxError
}

// Root returns a fresh red cursor over the tree's root.
func (p Parse[T]) Root() *Node {
	return &Node{green: p.root}
}

// Tree returns the typed view over the root. The root kind is guaranteed by
// construction; a mismatch is a parser bug.
func (p Parse[T]) Tree() T {
	t, ok := Cast[T](p.Root())
	if !ok {
		panic(fmt.Sprintf("syntax: parse root has kind %v, cannot view as %T", p.root.kind, t))
	}
	return t
}

// Errors returns the recorded syntax errors in source order.
// The returned slice is shared; callers must not modify it.
func (p Parse[T]) Errors() []SyntaxError { return p.errors }

// CastParse re-views a parse result as a different root type if the root
// kind allows it. The tree and error list are shared, not copied.
func CastParse[N AstNode[N], T AstNode[T]](p Parse[T]) (Parse[N], bool) {
	var zero N
	if _, ok := zero.CastFrom(p.Root()); !ok {
		return Parse[N]{}, false
	}
	return Parse[N]{root: p.root, errors: p.errors}, true
}

// DebugDump renders the tree structure with kinds, ranges and token text,
// one element per line. Intended for tests and the -dump-syntax CLI flag.
func DebugDump(n *Node) string {
	var sb strings.Builder
	dumpInto(&sb, Child{Node: n}, 0)
	return sb.String()
}

func dumpInto(sb *strings.Builder, c Child, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString("  ")
	}
	if c.Token != nil {
		fmt.Fprintf(sb, "%v@%v %q\n", c.Token.Kind(), c.Token.Range(), c.Token.Text())
		return
	}
	fmt.Fprintf(sb, "%v@%v\n", c.Node.Kind(), c.Node.Range())
	for _, child := range c.Node.Children() {
		dumpInto(sb, child, depth+1)
	}
}
