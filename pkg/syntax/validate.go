package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// validate runs the post-parse checks that the grammar alone cannot express:
// escape sequences in string literals, integer literal range, and duplicate
// declarations. Findings append to the parse's error list; the tree itself
// is never altered.
func validate(root *Node) []SyntaxError {
	var errors []SyntaxError
	walkTokens(root, func(t *Token) {
		switch t.Kind() {
		case STRING:
			errors = append(errors, validateString(t)...)
		case INT_NUMBER:
			errors = append(errors, validateInt(t)...)
		}
	})
	if file, ok := Cast[SourceFile](root); ok {
		errors = append(errors, validateDuplicates(file)...)
	}
	return errors
}

func walkTokens(n *Node, visit func(*Token)) {
	for _, c := range n.Children() {
		if c.Token != nil {
			visit(c.Token)
			continue
		}
		walkTokens(c.Node, visit)
	}
}

// validateString checks the escape sequences of a string literal. The lexer
// has already reported unterminated literals; only escapes are checked here.
func validateString(t *Token) []SyntaxError {
	var errors []SyntaxError
	text := t.Text()
	base := t.Range().Start
	i := 1 // skip opening quote
	for i < len(text)-1 {
		if text[i] != '\\' {
			i++
			continue
		}
		if i+1 >= len(text)-1 {
			break
		}
		switch text[i+1] {
		case '\\', '"', 'n', 't', '0':
		default:
			errors = append(errors, SyntaxError{
				Message: fmt.Sprintf("unknown escape sequence `\\%c`", text[i+1]),
				Range:   TextRange{Start: base + uint32(i), End: base + uint32(i+2)},
			})
		}
		i += 2
	}
	return errors
}

// Decimal literals may reach 2147483648 so that the negative bound is
// writable as `-2147483648`; a bare 2147483648 is rejected during HIR
// lowering instead. Hex and binary literals cover the full 32-bit pattern
// and are reinterpreted as two's complement.
const (
	maxDecimalLiteral = 1 << 31
	maxBitsLiteral    = 1<<32 - 1
)

func validateInt(t *Token) []SyntaxError {
	text := t.Text()
	var (
		value uint64
		err   error
	)
	switch {
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0X"):
		if len(text) == 2 {
			return nil // lexer already reported the missing digits
		}
		value, err = strconv.ParseUint(text[2:], 16, 64)
		if err == nil && value <= maxBitsLiteral {
			return nil
		}
	case strings.HasPrefix(text, "0b"), strings.HasPrefix(text, "0B"):
		if len(text) == 2 {
			return nil
		}
		value, err = strconv.ParseUint(text[2:], 2, 64)
		if err == nil && value <= maxBitsLiteral {
			return nil
		}
	default:
		value, err = strconv.ParseUint(text, 10, 64)
		if err == nil && value <= maxDecimalLiteral {
			return nil
		}
	}
	return []SyntaxError{{
		Message: fmt.Sprintf("integer literal `%s` out of range", text),
		Range:   t.Range(),
	}}
}

// validateDuplicates reports alias and label names declared more than once.
// Value aliases, register aliases and labels live in one namespace-per-sigil:
// `def X` and a label `X:` collide, `def $x` does not collide with `def x`.
func validateDuplicates(file SourceFile) []SyntaxError {
	var errors []SyntaxError
	seen := map[string]TextRange{}
	declare := func(name string, r TextRange) {
		if _, dup := seen[name]; dup {
			errors = append(errors, SyntaxError{
				Message: fmt.Sprintf("duplicate definition of `%s`", name),
				Range:   r,
			})
			return
		}
		seen[name] = r
	}
	for _, d := range file.AliasDefs() {
		if t := d.Name(); t != nil {
			declare(t.Text(), t.Range())
		}
	}
	for _, set := range file.BlockSets() {
		for _, b := range set.Blocks() {
			for _, l := range b.Labels() {
				if t := l.Name(); t != nil {
					declare(t.Text(), t.Range())
				}
			}
		}
	}
	return errors
}
