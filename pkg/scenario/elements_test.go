package scenario

import "testing"

func TestParseRegister(t *testing.T) {
	tests := []struct {
		text string
		want Register
		ok   bool
	}{
		{"$v0", RegularRegister(0), true},
		{"$v12", RegularRegister(12), true},
		{"$v4095", RegularRegister(4095), true},
		{"$a0", ArgumentRegister(0), true},
		{"$a15", ArgumentRegister(15), true},
		{"$v4096", 0, false},
		{"$a16", 0, false},
		{"$x0", 0, false},
		{"$v", 0, false},
		{"v0", 0, false},
		{"$vx", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseRegister(tt.text)
		if tt.ok {
			if err != nil {
				t.Errorf("ParseRegister(%q) error: %v", tt.text, err)
				continue
			}
			if got != tt.want {
				t.Errorf("ParseRegister(%q) = %v; want %v", tt.text, got, tt.want)
			}
		} else if err == nil {
			t.Errorf("ParseRegister(%q) = %v; want error", tt.text, got)
		}
	}
}

func TestRegisterStringRoundTrip(t *testing.T) {
	for _, text := range []string{"$v0", "$v4095", "$a0", "$a15"} {
		reg, err := ParseRegister(text)
		if err != nil {
			t.Fatalf("ParseRegister(%q) error: %v", text, err)
		}
		if got := reg.String(); got != text {
			t.Errorf("ParseRegister(%q).String() = %q", text, got)
		}
	}
}

func TestRegisterBanksDisjoint(t *testing.T) {
	if RegularRegister(0) == ArgumentRegister(0) {
		t.Error("$v0 and $a0 share a raw encoding")
	}
	if !ArgumentRegister(0).Valid() || !RegularRegister(4095).Valid() {
		t.Error("bank boundary registers report invalid")
	}
	if Register(0x1FFF).Valid() {
		t.Error("encoding past the argument bank reports valid")
	}
}

func TestIsDirectRegisterName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"v0", true},
		{"v4096", true}, // direct shape, range-checked later
		{"a15", true},
		{"pos", false},
		{"v", false},
		{"a", false},
		{"vx1", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsDirectRegisterName(tt.name); got != tt.want {
			t.Errorf("IsDirectRegisterName(%q) = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestNumberSpec(t *testing.T) {
	c := Constant(-5)
	if c.IsRegister() {
		t.Error("Constant(-5).IsRegister() = true")
	}
	if v, ok := c.ConstantValue(); !ok || v != -5 {
		t.Errorf("ConstantValue() = %d, %v; want -5, true", v, ok)
	}
	if _, ok := c.RegisterValue(); ok {
		t.Error("Constant(-5).RegisterValue() reported a register")
	}
	if c.String() != "-5" {
		t.Errorf("Constant(-5).String() = %q", c.String())
	}

	r := FromRegister(RegularRegister(7))
	if !r.IsRegister() {
		t.Error("FromRegister.IsRegister() = false")
	}
	if reg, ok := r.RegisterValue(); !ok || reg != RegularRegister(7) {
		t.Errorf("RegisterValue() = %v, %v; want $v7, true", reg, ok)
	}
	if r.String() != "$v7" {
		t.Errorf("FromRegister($v7).String() = %q", r.String())
	}
}

func TestRationalString(t *testing.T) {
	tests := []struct {
		raw  int32
		want string
	}{
		{0, "0.000"},
		{1500, "1.500"},
		{12500, "12.500"},
		{1, "0.001"},
		{-1500, "-1.500"},
		{-500, "-0.500"},
	}
	for _, tt := range tests {
		if got := RationalFromRaw(tt.raw).String(); got != tt.want {
			t.Errorf("RationalFromRaw(%d).String() = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpEXIT, "EXIT"},
		{OpWAIT, "WAIT"},
		{OpDEBUGOUT, "DEBUGOUT"},
		{Opcode(0x42), "Opcode(0x42)"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Opcode(0x%02X).String() = %q; want %q", uint8(tt.op), got, tt.want)
		}
	}
}
