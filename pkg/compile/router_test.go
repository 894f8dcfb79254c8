package compile

import (
	"reflect"
	"strings"
	"testing"

	"gosal/pkg/diag"
	"gosal/pkg/hir"
	"gosal/pkg/scenario"
)

// singleInstrCtx builds a one-instruction lowering context without going
// through the parser.
func singleInstrCtx(name string, args ...hir.Expr) (*LowerCtx, hir.InstrId) {
	body := &hir.BlockBody{}
	var ids []hir.ExprId
	for _, a := range args {
		ids = append(ids, body.AddExpr(a))
	}
	id := body.AddInstr(hir.Instr{Name: name, Args: ids})
	return &LowerCtx{Block: body, Map: hir.NewSourceMap(), Context: ConstexprContext{}}, id
}

func nopHandler(sink *diag.Sink[hir.Location], ctx *LowerCtx, instr hir.InstrId) (scenario.Instruction, bool) {
	return scenario.Exit{}, true
}

func TestRouterExactMatch(t *testing.T) {
	router := NewRouterBuilder().Add("NOP", nopHandler).Build()
	ctx, id := singleInstrCtx("NOP")

	var sink diag.Sink[hir.Location]
	instr, ok := router.Lower(&sink, ctx, "NOP", id)
	if !ok || instr == nil {
		t.Fatalf("Lower(NOP) = %v, %v; want instruction", instr, ok)
	}
	if sink.Len() != 0 {
		t.Errorf("diagnostics = %v; want none", sink.List())
	}
}

func TestRouterUnrecognized(t *testing.T) {
	router := NewRouterBuilder().Add("NOP", nopHandler).Build()
	ctx, id := singleInstrCtx("JMP")

	var sink diag.Sink[hir.Location]
	instr, ok := router.Lower(&sink, ctx, "JMP", id)
	if ok || instr != nil {
		t.Fatalf("Lower(JMP) = %v, %v; want nil, false", instr, ok)
	}
	if sink.Len() != 1 {
		t.Fatalf("diagnostics = %v; want exactly 1", sink.List())
	}
	if got := sink.List()[0].Message; got != "Unrecognized instruction: `JMP`" {
		t.Errorf("message = %q", got)
	}
}

// Matching is case-sensitive: the catalogue mnemonics are upper-case only.
func TestRouterCaseSensitive(t *testing.T) {
	ctx, id := singleInstrCtx("wait")
	var sink diag.Sink[hir.Location]
	if _, ok := DefaultRouter().Lower(&sink, ctx, "wait", id); ok {
		t.Fatal("lower-case mnemonic matched")
	}
	if sink.Len() != 1 || !strings.HasPrefix(sink.List()[0].Message, "Unrecognized instruction") {
		t.Errorf("diagnostics = %v", sink.List())
	}
}

func TestRouterSuggestion(t *testing.T) {
	ctx, id := singleInstrCtx("WAI")
	var sink diag.Sink[hir.Location]
	DefaultRouter().Lower(&sink, ctx, "WAI", id)
	if sink.Len() != 1 {
		t.Fatalf("diagnostics = %v; want exactly 1", sink.List())
	}
	d := sink.List()[0]
	if d.Message != "Unrecognized instruction: `WAI`" {
		t.Errorf("message = %q", d.Message)
	}
	if len(d.Labels) != 1 || d.Labels[0].Message != "did you mean `WAIT`?" {
		t.Errorf("labels = %v; want a WAIT suggestion", d.Labels)
	}
}

// A mnemonic nothing ranks against gets the bare message, no label.
func TestRouterNoSuggestion(t *testing.T) {
	ctx, id := singleInstrCtx("XQZJVK")
	var sink diag.Sink[hir.Location]
	DefaultRouter().Lower(&sink, ctx, "XQZJVK", id)
	if sink.Len() != 1 {
		t.Fatalf("diagnostics = %v; want exactly 1", sink.List())
	}
	if labels := sink.List()[0].Labels; len(labels) != 0 {
		t.Errorf("labels = %v; want none", labels)
	}
}

func TestRouterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("second Add under the same mnemonic did not panic")
		}
	}()
	NewRouterBuilder().Add("NOP", nopHandler).Add("NOP", nopHandler)
}

func TestDefaultRouterCatalogue(t *testing.T) {
	names := DefaultRouter().Names()
	if len(names) != 59 {
		t.Errorf("catalogue size = %d; want 59", len(names))
	}
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			t.Errorf("mnemonic %q registered twice", name)
		}
		seen[name] = true
	}
	for _, want := range []string{"EXIT", "WAIT", "MSGSET", "SELECT", "LAYERCTRL", "DEBUGOUT"} {
		if !seen[want] {
			t.Errorf("catalogue is missing %q", want)
		}
	}
}

// The registration list is identical across builds, so suggestion ranking
// never depends on map iteration order.
func TestDefaultRouterDeterministic(t *testing.T) {
	if !reflect.DeepEqual(buildDefaultRouter().Names(), buildDefaultRouter().Names()) {
		t.Error("two router builds registered in different orders")
	}
}
