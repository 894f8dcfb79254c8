package compile

import (
	"strings"
	"testing"

	"gosal/pkg/hir"
	"gosal/pkg/syntax"
)

// evalString lowers and evaluates a standalone expression against context.
func evalString(t *testing.T, context ConstexprContext, src string) (ConstexprValue, []hir.Diagnostic, bool) {
	t.Helper()
	p := syntax.ParseExpr(src)
	if len(p.Errors()) != 0 {
		t.Fatalf("parse(%q) errors: %v", src, p.Errors())
	}
	e := p.Tree().Expr()
	if e == nil {
		t.Fatalf("parse(%q) produced no expression", src)
	}
	body, _, id, lowDiags := hir.LowerStandaloneExpr(e)
	if len(lowDiags) != 0 {
		t.Fatalf("lower(%q) diagnostics: %v", src, lowDiags)
	}
	return Evaluate(context, body, id)
}

func diagMessages(diags []hir.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Message)
	}
	return out
}

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want int32
	}{
		{"42", 42},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 - 4 - 3", 3}, // left associative
		{"7 / 2", 3},
		{"-7 / 2", -3}, // truncates toward zero
		{"7 % 3", 1},
		{"-7 % 3", -1},
		{"0xFF & 0x0F", 0x0F},
		{"0xF0 | 0x0F", 0xFF},
		{"0xFF ^ 0x0F", 0xF0},
		{"1 << 4", 16},
		{"256 >> 4", 16},
		{"-8 >> 1", -4}, // arithmetic shift
		{"1 << 31", -1 << 31},
		{"-1", -1},
		{"-(3)", -3},
		{"--5", 5},
		{"!0", 1},
		{"!7", 0},
		{"~0", -1},
		{"~5", -6},
		{"1.5 + 1", 1501}, // rationals contribute their raw milli-units
		{"-2147483648", -1 << 31},
		{"2147483647", 1<<31 - 1},
		{"1 + 2 & 3", 3}, // & binds looser than +
	}
	for _, tt := range tests {
		got, diags, ok := evalString(t, ConstexprContext{}, tt.src)
		if !ok {
			t.Errorf("eval(%q) failed: %v", tt.src, diags)
			continue
		}
		if len(diags) != 0 {
			t.Errorf("eval(%q) diagnostics: %v", tt.src, diags)
		}
		if got.Value() != tt.want {
			t.Errorf("eval(%q) = %d; want %d", tt.src, got.Value(), tt.want)
		}
	}
}

func TestEvaluateNames(t *testing.T) {
	context := ConstexprContext{
		"WIDTH":  ValueEntry(Constant(640), true),
		"HEIGHT": ValueEntry(Constant(480), true),
	}
	got, diags, ok := evalString(t, context, "WIDTH + HEIGHT")
	if !ok || len(diags) != 0 {
		t.Fatalf("eval failed: ok=%v diags=%v", ok, diags)
	}
	if got.Value() != 1120 {
		t.Errorf("WIDTH + HEIGHT = %d; want 1120", got.Value())
	}
}

func TestEvaluateFailures(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"10 / 0", "Division by zero"},
		{"10 % 0", "Division by zero"},
		{"2147483647 + 1", "Overflow in constant expression"},
		{"-2147483648 - 1", "Overflow in constant expression"},
		{"65536 * 65536", "Overflow in constant expression"},
		{"-(-2147483648)", "Overflow in constant expression"},
		{"-0x80000000", "Overflow in constant expression"},
		{"-2147483648 % -1", "Overflow in constant expression"},
		{"1 << 32", "Overflow in constant expression"},
		{"1 >> 32", "Overflow in constant expression"},
		{"1 << -1", "Overflow in constant expression"},
		{"$v1 + 1", "Registers cannot be used in const context"},
		{`"text"`, "Type mismatch: expected int or float, found string"},
		{"[1, 2]", "Type mismatch: expected int or float, found array"},
		{"{1 => 2}", "Type mismatch: expected int or float, found mapping"},
		{"clamp(1, 2, 3)", "Call expressions are not supported in const context"},
	}
	for _, tt := range tests {
		_, diags, ok := evalString(t, ConstexprContext{}, tt.src)
		if ok {
			t.Errorf("eval(%q) succeeded; want failure", tt.src)
			continue
		}
		got := diagMessages(diags)
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("eval(%q) diagnostics = %v; want [%s]", tt.src, got, tt.want)
		}
	}
}

// Both operands of a binary expression evaluate even when one fails, so
// problems on both sides surface in one pass.
func TestEvaluateBothOperands(t *testing.T) {
	_, diags, ok := evalString(t, ConstexprContext{}, "$v0 + $v1")
	if ok {
		t.Fatal("eval($v0 + $v1) succeeded")
	}
	got := diagMessages(diags)
	if len(got) != 2 {
		t.Fatalf("diagnostics = %v; want 2 register reports", got)
	}
	for _, msg := range got {
		if msg != "Registers cannot be used in const context" {
			t.Errorf("unexpected diagnostic %q", msg)
		}
	}
}

func TestEvaluateBlockReference(t *testing.T) {
	def := syntax.TextRange{Start: 5, End: 9}
	context := ConstexprContext{"main": BlockEntry(def)}
	_, diags, ok := evalString(t, context, "main + 1")
	if ok {
		t.Fatal("eval(main + 1) succeeded")
	}
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v; want exactly 1", diags)
	}
	d := diags[0]
	if d.Message != "Type mismatch: expected int or float, found code reference" {
		t.Errorf("message = %q", d.Message)
	}
	if len(d.Labels) != 1 || d.Labels[0].Message != "Code reference defined at" {
		t.Fatalf("labels = %v; want one definition label", d.Labels)
	}
	if span, ok := d.Labels[0].Location.Span(); !ok || span != def {
		t.Errorf("label location = %v; want span %v", d.Labels[0].Location, def)
	}
}

// A failed alias propagates without a second report: its own evaluation
// already explained the failure.
func TestEvaluateFailedAliasPropagates(t *testing.T) {
	context := ConstexprContext{"BAD": ValueEntry(ConstexprValue{}, false)}
	_, diags, ok := evalString(t, context, "BAD + 1")
	if ok {
		t.Fatal("eval(BAD + 1) succeeded")
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v; want none", diags)
	}
}

// Missing expressions fail silently: the parse error was already reported.
func TestEvaluateMissingIsSilent(t *testing.T) {
	body := &hir.BlockBody{}
	id := body.AddExpr(hir.Missing{})
	_, diags, ok := Evaluate(ConstexprContext{}, body, id)
	if ok {
		t.Fatal("Evaluate(Missing) succeeded")
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v; want none", diags)
	}
}

// A name absent from the context is a violation of the name-resolution
// boundary, not user input, and panics.
func TestEvaluatePanicsOnUnknownName(t *testing.T) {
	body := &hir.BlockBody{}
	id := body.AddExpr(hir.NameRef{Name: "GHOST"})
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Evaluate did not panic on a name missing from the context")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "GHOST") {
			t.Errorf("panic value = %v; want message naming GHOST", r)
		}
	}()
	Evaluate(ConstexprContext{}, body, id)
}
