package scenario

import (
	"fmt"
	"strconv"
	"strings"
)

// Register addresses one cell of the VM's register file. The raw encoding
// packs the bank into the upper bits: regular registers $v0..$v4095 occupy
// 0x0000..0x0FFF and argument registers $a0..$a15 occupy 0x1000..0x100F.
type Register uint16

const (
	regularRegisterCount  = 4096
	argumentRegisterCount = 16
	argumentRegisterBase  = 0x1000
)

// RegularRegister returns the register $v<index>.
// It panics if index is outside 0..4095; parse user input with ParseRegister.
func RegularRegister(index int) Register {
	if index < 0 || index >= regularRegisterCount {
		panic(fmt.Sprintf("scenario: regular register index %d out of range", index))
	}
	return Register(index)
}

// ArgumentRegister returns the register $a<index>.
// It panics if index is outside 0..15; parse user input with ParseRegister.
func ArgumentRegister(index int) Register {
	if index < 0 || index >= argumentRegisterCount {
		panic(fmt.Sprintf("scenario: argument register index %d out of range", index))
	}
	return Register(argumentRegisterBase + index)
}

// ParseRegister parses the source form of a register, e.g. "$v12" or "$a3".
func ParseRegister(text string) (Register, error) {
	body, ok := strings.CutPrefix(text, "$")
	if !ok {
		return 0, fmt.Errorf("register must start with '$': %q", text)
	}
	if len(body) < 2 {
		return 0, fmt.Errorf("invalid register %q", text)
	}
	index, err := strconv.ParseUint(body[1:], 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid register %q", text)
	}
	switch body[0] {
	case 'v':
		if index >= regularRegisterCount {
			return 0, fmt.Errorf("register %q out of range: regular registers go up to $v%d", text, regularRegisterCount-1)
		}
		return Register(index), nil
	case 'a':
		if index >= argumentRegisterCount {
			return 0, fmt.Errorf("register %q out of range: argument registers go up to $a%d", text, argumentRegisterCount-1)
		}
		return Register(argumentRegisterBase + index), nil
	default:
		return 0, fmt.Errorf("unknown register bank %q in %q", body[:1], text)
	}
}

// IsDirectRegisterName reports whether name (the register token text without
// its '$') addresses a concrete register cell like "v12" or "a0", as opposed
// to a register alias defined with `def`.
func IsDirectRegisterName(name string) bool {
	if len(name) < 2 || (name[0] != 'v' && name[0] != 'a') {
		return false
	}
	for i := 1; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return true
}

// Valid reports whether the raw encoding names an existing register.
func (r Register) Valid() bool {
	return uint16(r) < regularRegisterCount ||
		(uint16(r) >= argumentRegisterBase && uint16(r) < argumentRegisterBase+argumentRegisterCount)
}

func (r Register) String() string {
	if uint16(r) < regularRegisterCount {
		return fmt.Sprintf("$v%d", uint16(r))
	}
	if uint16(r) >= argumentRegisterBase && uint16(r) < argumentRegisterBase+argumentRegisterCount {
		return fmt.Sprintf("$a%d", uint16(r)-argumentRegisterBase)
	}
	return fmt.Sprintf("$invalid(0x%04X)", uint16(r))
}

// NumberSpec is a numeric instruction operand: either an immediate constant
// or a register read resolved by the VM at execution time.
type NumberSpec struct {
	isRegister bool
	constant   int32
	register   Register
}

// Constant returns a NumberSpec holding an immediate value.
func Constant(value int32) NumberSpec {
	return NumberSpec{constant: value}
}

// FromRegister returns a NumberSpec that reads reg at execution time.
func FromRegister(reg Register) NumberSpec {
	return NumberSpec{isRegister: true, register: reg}
}

// IsRegister reports whether the spec reads a register.
func (n NumberSpec) IsRegister() bool { return n.isRegister }

// ConstantValue returns the immediate value, if the spec holds one.
func (n NumberSpec) ConstantValue() (int32, bool) {
	if n.isRegister {
		return 0, false
	}
	return n.constant, true
}

// RegisterValue returns the register, if the spec reads one.
func (n NumberSpec) RegisterValue() (Register, bool) {
	if !n.isRegister {
		return 0, false
	}
	return n.register, true
}

func (n NumberSpec) String() string {
	if n.isRegister {
		return n.register.String()
	}
	return strconv.FormatInt(int64(n.constant), 10)
}

// MessageId identifies a message for the "already seen" tracking in the backlog.
type MessageId uint32

// RationalDenominator is the fixed denominator of Rational values.
const RationalDenominator = 1000

// Rational is a fixed-point number in milli-units: the raw value 1500 means 1.5.
// The raw encoding is what instruction operands carry; no float conversion is
// ever performed on it.
type Rational struct {
	raw int32
}

// RationalFromRaw wraps an already-encoded milli-unit value.
func RationalFromRaw(raw int32) Rational {
	return Rational{raw: raw}
}

// Raw returns the milli-unit encoding.
func (r Rational) Raw() int32 { return r.raw }

func (r Rational) String() string {
	units := r.raw / RationalDenominator
	milli := r.raw % RationalDenominator
	if milli < 0 {
		milli = -milli
	}
	sign := ""
	if r.raw < 0 && units == 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%03d", sign, units, milli)
}

// BitmaskNumberArray is a run of up to eight numeric operands whose binary
// form records only the entries that differ from the default. Unset trailing
// entries are zero constants.
type BitmaskNumberArray [8]NumberSpec

// NumberList is a short list of numeric operands with a one-byte length prefix
// in the binary form; it holds at most 255 entries.
type NumberList []NumberSpec

// MaxNumberListLen is the largest entry count NumberList can carry.
const MaxNumberListLen = 255

// StringArray is a list of string operands, e.g. the variants of a choice menu.
type StringArray []string
