package syntax

import (
	"reflect"
	"strings"
	"testing"
)

// parse never fails to produce a tree, and the tree's text reproduces the
// input byte-for-byte.
func TestParseTotalAndLossless(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"def X = 1 + 2\n",
		"def $pos = $v7\n",
		"main:\n    WAIT 0, 120\n",
		"main:\nother:\n    EXIT 0, 0\n",
		"a: WIPE 1, 2, 3, [4, 5]\n",
		"// only a comment\n",
		"def broken = \n",
		"WAIT 1\n", // instruction without a label
		"}{)(\n",
		"\x00\xff binary garbage \xfe",
		"def X = (1 + \n",
		"\"unterminated",
	}
	for _, input := range inputs {
		p := ParseSourceFile(input)
		root := p.Root()
		if root.Kind() != SOURCE_FILE {
			t.Errorf("ParseSourceFile(%q) root kind = %v; want SOURCE_FILE", input, root.Kind())
		}
		if got := root.Text(); got != input {
			t.Errorf("ParseSourceFile(%q) text round-trip = %q", input, got)
		}
	}
}

// Parsing the same text twice yields structurally equal trees and equal
// error lists.
func TestParseIdempotent(t *testing.T) {
	inputs := []string{
		"def X = 1 + 2 * 3\nmain:\n    WAIT 0, X\n",
		"broken ( def ] input",
		"",
	}
	for _, input := range inputs {
		a := ParseSourceFile(input)
		b := ParseSourceFile(input)
		if DebugDump(a.Root()) != DebugDump(b.Root()) {
			t.Errorf("ParseSourceFile(%q) trees differ between runs", input)
		}
		if !reflect.DeepEqual(a.Errors(), b.Errors()) {
			t.Errorf("ParseSourceFile(%q) errors differ: %v vs %v", input, a.Errors(), b.Errors())
		}
	}
}

func TestParseStructure(t *testing.T) {
	p := ParseSourceFile("def X = 1\nmain:\n    WAIT 0, X\n")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	file := p.Tree()

	defs := file.AliasDefs()
	if len(defs) != 1 {
		t.Fatalf("AliasDefs = %d; want 1", len(defs))
	}
	if name := defs[0].Name(); name == nil || name.Text() != "X" {
		t.Errorf("alias name = %v; want X", name)
	}
	if _, ok := defs[0].Value().(Literal); !ok {
		t.Errorf("alias value = %T; want Literal", defs[0].Value())
	}

	sets := file.BlockSets()
	if len(sets) != 1 {
		t.Fatalf("BlockSets = %d; want 1", len(sets))
	}
	blocks := sets[0].Blocks()
	if len(blocks) != 1 {
		t.Fatalf("Blocks = %d; want 1", len(blocks))
	}
	labels := blocks[0].Labels()
	if len(labels) != 1 || labels[0].Name().Text() != "main" {
		t.Fatalf("labels = %v; want [main]", labels)
	}
	instrs := blocks[0].Instructions()
	if len(instrs) != 1 {
		t.Fatalf("instructions = %d; want 1", len(instrs))
	}
	if instrs[0].Name().Text() != "WAIT" {
		t.Errorf("mnemonic = %q; want WAIT", instrs[0].Name().Text())
	}
	args := instrs[0].Args()
	if len(args) != 2 {
		t.Fatalf("args = %d; want 2", len(args))
	}
	if _, ok := args[0].(Literal); !ok {
		t.Errorf("arg0 = %T; want Literal", args[0])
	}
	if ref, ok := args[1].(NameRef); !ok || ref.Name() != "X" {
		t.Errorf("arg1 = %#v; want NameRef X", args[1])
	}
}

func TestParsePrecedence(t *testing.T) {
	// 2 + 3 * 4 parses as 2 + (3 * 4): the root BIN_EXPR's operator is +
	// and its right operand is itself a BIN_EXPR.
	p := ParseExpr("2 + 3 * 4")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	root, ok := p.Tree().Expr().(BinExpr)
	if !ok {
		t.Fatalf("root expr = %T; want BinExpr", p.Tree().Expr())
	}
	if root.OpKind() != PLUS {
		t.Errorf("root op = %v; want PLUS", root.OpKind())
	}
	if _, ok := root.Lhs().(Literal); !ok {
		t.Errorf("lhs = %T; want Literal", root.Lhs())
	}
	rhs, ok := root.Rhs().(BinExpr)
	if !ok {
		t.Fatalf("rhs = %T; want BinExpr", root.Rhs())
	}
	if rhs.OpKind() != STAR {
		t.Errorf("rhs op = %v; want STAR", rhs.OpKind())
	}
}

func TestParseParenAndUnary(t *testing.T) {
	p := ParseExpr("-( X + 1 )")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	unary, ok := p.Tree().Expr().(UnaryExpr)
	if !ok {
		t.Fatalf("root = %T; want UnaryExpr", p.Tree().Expr())
	}
	if unary.OpKind() != MINUS {
		t.Errorf("op = %v; want MINUS", unary.OpKind())
	}
	paren, ok := unary.Operand().(ParenExpr)
	if !ok {
		t.Fatalf("operand = %T; want ParenExpr", unary.Operand())
	}
	if _, ok := paren.Inner().(BinExpr); !ok {
		t.Errorf("inner = %T; want BinExpr", paren.Inner())
	}
}

func TestParseArrayAndMapping(t *testing.T) {
	p := ParseExpr("[1, 2, 3]")
	array, ok := p.Tree().Expr().(ArrayExpr)
	if !ok {
		t.Fatalf("root = %T; want ArrayExpr", p.Tree().Expr())
	}
	if got := len(array.Elements()); got != 3 {
		t.Errorf("array elements = %d; want 3", got)
	}

	p = ParseExpr("{1 => 2, 3 => 4}")
	mapping, ok := p.Tree().Expr().(MappingExpr)
	if !ok {
		t.Fatalf("root = %T; want MappingExpr", p.Tree().Expr())
	}
	pairs := mapping.Pairs()
	if len(pairs) != 2 {
		t.Fatalf("mapping pairs = %d; want 2", len(pairs))
	}
	if pairs[0].Key() == nil || pairs[0].Value() == nil {
		t.Errorf("pair 0 incomplete: key=%v value=%v", pairs[0].Key(), pairs[0].Value())
	}
}

func TestParseCall(t *testing.T) {
	p := ParseExpr("clamp(1, 2, 3)")
	call, ok := p.Tree().Expr().(CallExpr)
	if !ok {
		t.Fatalf("root = %T; want CallExpr", p.Tree().Expr())
	}
	if call.Name() != "clamp" {
		t.Errorf("callee = %q; want clamp", call.Name())
	}
	if got := len(call.Args()); got != 3 {
		t.Errorf("call args = %d; want 3", got)
	}
}

// Copies of a Parse share the same green tree: the copy is O(1), not a
// re-parse or deep clone.
func TestParseCopyShares(t *testing.T) {
	a := ParseSourceFile("def X = 1\n")
	b := a
	if a.root != b.root {
		t.Error("copy does not share the green root")
	}
	if len(a.Errors()) != len(b.Errors()) {
		t.Error("copy does not share the error list")
	}
}

func TestCast(t *testing.T) {
	p := ParseSourceFile("def X = 1\n")

	if _, ok := Cast[SourceFile](p.Root()); !ok {
		t.Error("Cast[SourceFile] on a source file root failed")
	}
	if _, ok := Cast[AliasDef](p.Root()); ok {
		t.Error("Cast[AliasDef] on a source file root succeeded")
	}

	defNode := p.Root().ChildNodes()[0]
	if _, ok := Cast[AliasDef](defNode); !ok {
		t.Errorf("Cast[AliasDef] on %v failed", defNode.Kind())
	}
}

func TestParseErrorRecovery(t *testing.T) {
	// The broken first line must not prevent the later block from parsing.
	p := ParseSourceFile("def = junk )( \nmain:\n    EXIT 0, 0\n")
	if len(p.Errors()) == 0 {
		t.Fatal("expected errors for the malformed definition")
	}
	file := p.Tree()
	sets := file.BlockSets()
	if len(sets) != 1 || len(sets[0].Blocks()) != 1 {
		t.Fatalf("block after broken line was not parsed: %s", DebugDump(p.Root()))
	}
	instrs := sets[0].Blocks()[0].Instructions()
	if len(instrs) != 1 || instrs[0].Name().Text() != "EXIT" {
		t.Errorf("instructions after broken line = %v", instrs)
	}
}

func TestDebugDumpMentionsKinds(t *testing.T) {
	p := ParseSourceFile("main:\n    WAIT 1\n")
	dump := DebugDump(p.Root())
	for _, want := range []string{"SOURCE_FILE", "BLOCK", "LABEL", "INSTRUCTION", "LITERAL"} {
		if !strings.Contains(dump, want) {
			t.Errorf("DebugDump missing %s:\n%s", want, dump)
		}
	}
}
