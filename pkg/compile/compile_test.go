package compile

import (
	"reflect"
	"strings"
	"testing"

	"gosal/pkg/scenario"
)

func messages(result Result) []string {
	var out []string
	for _, d := range result.Diagnostics {
		out = append(out, d.Message)
	}
	return out
}

func TestCompileUnit(t *testing.T) {
	result := CompileUnit("def DELAY = 60 + 60\nmain:\n    WAIT 0, DELAY\n    EXIT 0, 0\n")
	if result.HasErrors() {
		t.Fatalf("diagnostics: %v", messages(result))
	}
	want := []scenario.Instruction{
		scenario.Wait{AllowInterrupt: 0, WaitAmount: scenario.Constant(120)},
		scenario.Exit{Arg1: 0, Arg2: scenario.Constant(0)},
	}
	if !reflect.DeepEqual(result.Instructions, want) {
		t.Errorf("instructions = %#v; want %#v", result.Instructions, want)
	}
}

func TestCompileRegisterOperands(t *testing.T) {
	result := CompileUnit("def $pos = $v7\nmain:\n    SGET $pos, 1\n    WAIT 0, $v3\n")
	if result.HasErrors() {
		t.Fatalf("diagnostics: %v", messages(result))
	}
	want := []scenario.Instruction{
		scenario.Sget{Dest: scenario.RegularRegister(7), SlotNumber: scenario.Constant(1)},
		scenario.Wait{AllowInterrupt: 0, WaitAmount: scenario.FromRegister(scenario.RegularRegister(3))},
	}
	if !reflect.DeepEqual(result.Instructions, want) {
		t.Errorf("instructions = %#v; want %#v", result.Instructions, want)
	}
}

func TestCompileMsgSet(t *testing.T) {
	result := CompileUnit("main:\n    MSGSET 10, 1, \"@rHello.\"\n")
	if result.HasErrors() {
		t.Fatalf("diagnostics: %v", messages(result))
	}
	want := []scenario.Instruction{
		scenario.MsgSet{MsgId: 10, AutoWait: 1, Text: "@rHello."},
	}
	if !reflect.DeepEqual(result.Instructions, want) {
		t.Errorf("instructions = %#v; want %#v", result.Instructions, want)
	}
}

func TestCompileSelect(t *testing.T) {
	result := CompileUnit("main:\n    SELECT 0, 1, $v0, 3, \"Pick one\", [\"yes\", \"no\"]\n")
	if result.HasErrors() {
		t.Fatalf("diagnostics: %v", messages(result))
	}
	want := []scenario.Instruction{
		scenario.Select{
			ChoiceSetBase:        0,
			ChoiceIndex:          1,
			Dest:                 scenario.RegularRegister(0),
			ChoiceVisibilityMask: scenario.Constant(3),
			ChoiceTitle:          "Pick one",
			Variants:             scenario.StringArray{"yes", "no"},
		},
	}
	if !reflect.DeepEqual(result.Instructions, want) {
		t.Errorf("instructions = %#v; want %#v", result.Instructions, want)
	}
}

func TestCompileBitmaskArray(t *testing.T) {
	result := CompileUnit("main:\n    LAYERCTRL 1, 2, [100, $v5]\n    LAYERCTRL 1, 2\n")
	if result.HasErrors() {
		t.Fatalf("diagnostics: %v", messages(result))
	}
	var withParams scenario.BitmaskNumberArray
	withParams[0] = scenario.Constant(100)
	withParams[1] = scenario.FromRegister(scenario.RegularRegister(5))
	want := []scenario.Instruction{
		scenario.LayerCtrl{LayerId: scenario.Constant(1), PropertyId: scenario.Constant(2), Params: withParams},
		scenario.LayerCtrl{LayerId: scenario.Constant(1), PropertyId: scenario.Constant(2)},
	}
	if !reflect.DeepEqual(result.Instructions, want) {
		t.Errorf("instructions = %#v; want %#v", result.Instructions, want)
	}
}

func TestCompileNumberList(t *testing.T) {
	result := CompileUnit("main:\n    UNLOCK 1, 10, 20, 30\n    TIPSGET\n")
	if result.HasErrors() {
		t.Fatalf("diagnostics: %v", messages(result))
	}
	want := []scenario.Instruction{
		scenario.Unlock{
			UnlockType: 1,
			UnlockIndices: scenario.NumberList{
				scenario.Constant(10), scenario.Constant(20), scenario.Constant(30),
			},
		},
		scenario.TipsGet{},
	}
	if !reflect.DeepEqual(result.Instructions, want) {
		t.Errorf("instructions = %#v; want %#v", result.Instructions, want)
	}
}

// One bad instruction never takes the rest of the unit down with it.
func TestCompileFailureIsolation(t *testing.T) {
	result := CompileUnit("main:\n    FROB 1\n    EXIT 0, 0\n")
	if len(result.Instructions) != 1 {
		t.Fatalf("instructions = %#v; want just the EXIT", result.Instructions)
	}
	if _, ok := result.Instructions[0].(scenario.Exit); !ok {
		t.Errorf("surviving instruction = %#v; want Exit", result.Instructions[0])
	}
	got := messages(result)
	if len(got) != 1 || got[0] != "Unrecognized instruction: `FROB`" {
		t.Errorf("diagnostics = %v", got)
	}
}

func TestCompileArityErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"main:\n    EXIT 0\n", "not enough arguments to `EXIT`: missing arg2"},
		{"main:\n    MSGCLOSE 1, 2\n", "too many arguments to `MSGCLOSE`: expected 1, found 2"},
		{"main:\n    EXIT 300, 0\n", "arg1 of `EXIT` must be in 0..255, got 300"},
		{"main:\n    MSGSET 10, 1, 5\n", "Type mismatch: expected a string, found int"},
		{"main:\n    SGET 1, 2\n", "Type mismatch: expected a register, found int"},
		{"main:\n    WAIT 0, 1 + 2\n", "expressions are not supported in instruction arguments"},
	}
	for _, tt := range tests {
		result := CompileUnit(tt.src)
		if len(result.Instructions) != 0 {
			t.Errorf("CompileUnit(%q) produced instructions %#v", tt.src, result.Instructions)
		}
		got := messages(result)
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("CompileUnit(%q) diagnostics = %v; want [%s]", tt.src, got, tt.want)
		}
	}
}

func TestCompileLabelAsNumber(t *testing.T) {
	result := CompileUnit("main:\n    WAIT 0, main\n")
	got := messages(result)
	if len(got) != 1 || got[0] != "Type mismatch: expected a number, found code reference" {
		t.Fatalf("diagnostics = %v", got)
	}
	labels := result.Diagnostics[0].Labels
	if len(labels) != 1 || labels[0].Message != "Code reference defined at" {
		t.Errorf("labels = %v; want the definition label", labels)
	}
	if labels[0].Range.Start != 0 || labels[0].Range.End != 4 {
		t.Errorf("label range = %v; want the `main` label at [0,4)", labels[0].Range)
	}
}

func TestCompileUndefinedNameSuggestion(t *testing.T) {
	result := CompileUnit("def DELAY = 60\nmain:\n    WAIT 0, DELA\n")
	got := messages(result)
	want := "`DELA` is not defined (did you mean `DELAY`?)"
	if len(got) != 1 || got[0] != want {
		t.Errorf("diagnostics = %v; want [%s]", got, want)
	}
}

// A failed alias silences its uses: the definition carries the only report.
func TestCompileFailedAliasReportsOnce(t *testing.T) {
	result := CompileUnit("def BAD = 1 / 0\nmain:\n    WAIT 0, BAD\n    EXIT 0, BAD\n")
	got := messages(result)
	if len(got) != 1 || got[0] != "Division by zero" {
		t.Errorf("diagnostics = %v; want just the division report", got)
	}
	if len(result.Instructions) != 0 {
		t.Errorf("instructions = %#v; want none", result.Instructions)
	}
}

func TestCompileParseErrorsSurface(t *testing.T) {
	result := CompileUnit("def = 1\n")
	if !result.HasErrors() {
		t.Fatal("no diagnostics for a malformed definition")
	}
	var found bool
	for _, msg := range messages(result) {
		if strings.Contains(msg, "expected alias name") {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %v; want the parser's alias-name report", messages(result))
	}
}

func TestCompileMultipleBlocks(t *testing.T) {
	result := CompileUnit("intro:\n    MSGINIT 0\nbody:\nending:\n    EXIT 0, 0\n")
	if result.HasErrors() {
		t.Fatalf("diagnostics: %v", messages(result))
	}
	want := []scenario.Instruction{
		scenario.MsgInit{MessageboxStyle: scenario.Constant(0)},
		scenario.Exit{Arg1: 0, Arg2: scenario.Constant(0)},
	}
	if !reflect.DeepEqual(result.Instructions, want) {
		t.Errorf("instructions = %#v; want %#v", result.Instructions, want)
	}
}

func TestSession(t *testing.T) {
	s := NewSession()

	value, diags, ok := s.EvalLine("1 + 2 * 3")
	if !ok || len(diags) != 0 || value.Value() != 7 {
		t.Fatalf("EvalLine(1 + 2 * 3) = %v, %v, %v", value, diags, ok)
	}

	value, diags, ok = s.EvalLine("def X = 10")
	if !ok || len(diags) != 0 || value.Value() != 10 {
		t.Fatalf("EvalLine(def X = 10) = %v, %v, %v", value, diags, ok)
	}

	value, diags, ok = s.EvalLine("X * 4")
	if !ok || len(diags) != 0 || value.Value() != 40 {
		t.Fatalf("EvalLine(X * 4) = %v, %v, %v", value, diags, ok)
	}

	// Redefinition replaces the entry.
	if _, _, ok := s.EvalLine("def X = 1"); !ok {
		t.Fatal("redefinition rejected")
	}
	if value, _, _ := s.EvalLine("X"); value.Value() != 1 {
		t.Errorf("X after redefinition = %d; want 1", value.Value())
	}

	names := s.Names()
	if len(names) != 1 || names[0] != "X" {
		t.Errorf("Names() = %v; want [X]", names)
	}
}

func TestSessionErrors(t *testing.T) {
	s := NewSession()

	_, diags, ok := s.EvalLine("Y + 1")
	if ok {
		t.Fatal("EvalLine(Y + 1) succeeded")
	}
	if len(diags) != 1 || diags[0].Message != "`Y` is not defined" {
		t.Errorf("diagnostics = %v", diags)
	}

	_, diags, ok = s.EvalLine("def $r = $v0")
	if ok {
		t.Fatal("register alias accepted")
	}
	if len(diags) != 1 || diags[0].Message != "register aliases are not supported here" {
		t.Errorf("diagnostics = %v", diags)
	}

	// A failed definition still enters the context, so later uses fail
	// silently instead of re-reporting.
	if _, _, ok := s.EvalLine("def BAD = 1 / 0"); ok {
		t.Fatal("EvalLine(def BAD = 1 / 0) succeeded")
	}
	_, diags, ok = s.EvalLine("BAD")
	if ok {
		t.Fatal("EvalLine(BAD) succeeded")
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v; want silent propagation", diags)
	}
}
