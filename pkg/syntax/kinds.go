package syntax

import "fmt"

// Kind identifies the category of a token or tree node. Token kinds and node
// kinds share one space because both appear as children in the syntax tree.
type Kind int

const (
	EOF Kind = iota // sentinel: end of input, never stored in the tree

	// Trivia
	WHITESPACE // spaces and tabs
	COMMENT    // // line or /* block */ comment

	NEWLINE // \n or \r\n; significant: terminates definitions and instructions

	// Literals and names
	IDENT           // alias, label or instruction name
	INT_NUMBER      // 10, 0x1F, 0b101
	RATIONAL_NUMBER // 12.5 (fixed point, milli-units)
	STRING          // "..." including the quotes
	REGISTER        // $v0, $a15, or a register alias like $speed

	DEF_KW // "def", contextual: only recognized at item position

	// Paired delimiters
	L_PAREN   // (
	R_PAREN   // )
	L_BRACKET // [
	R_BRACKET // ]
	L_BRACE   // {
	R_BRACE   // }

	// Punctuation
	COMMA     // ,
	COLON     // :
	EQ        // =
	FAT_ARROW // =>

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	AMP     // &
	PIPE    // |
	CARET   // ^
	SHL     // <<
	SHR     // >>
	BANG    // !
	TILDE   // ~

	ERROR_TOKEN // anything the lexer cannot classify

	// Nodes
	SOURCE_FILE     // root: (newline | item)*
	ALIAS_DEF       // def NAME = expr
	INSTR_BLOCK_SET // consecutive labelled blocks
	BLOCK           // label+ instruction*
	LABEL           // NAME ":"
	INSTRUCTION     // NAME expr ("," expr)*
	LITERAL         // one INT_NUMBER, RATIONAL_NUMBER or STRING token
	NAME_REF        // reference to an alias or label
	REGISTER_REF    // one REGISTER token used as an expression
	ARRAY_EXPR      // [a, b, c]
	MAPPING_EXPR    // {k => v, ...}
	MAPPING_PAIR    // k => v
	UNARY_EXPR      // -x, !x, ~x
	BIN_EXPR        // a + b
	CALL_EXPR       // name(args)
	PAREN_EXPR      // (expr)
	EXPR_LINE       // root for a standalone expression line
	ERROR_NODE      // skipped tokens from error recovery
)

var kindNames = [...]string{
	EOF:             "EOF",
	WHITESPACE:      "WHITESPACE",
	COMMENT:         "COMMENT",
	NEWLINE:         "NEWLINE",
	IDENT:           "IDENT",
	INT_NUMBER:      "INT_NUMBER",
	RATIONAL_NUMBER: "RATIONAL_NUMBER",
	STRING:          "STRING",
	REGISTER:        "REGISTER",
	DEF_KW:          "DEF_KW",
	L_PAREN:         "L_PAREN",
	R_PAREN:         "R_PAREN",
	L_BRACKET:       "L_BRACKET",
	R_BRACKET:       "R_BRACKET",
	L_BRACE:         "L_BRACE",
	R_BRACE:         "R_BRACE",
	COMMA:           "COMMA",
	COLON:           "COLON",
	EQ:              "EQ",
	FAT_ARROW:       "FAT_ARROW",
	PLUS:            "PLUS",
	MINUS:           "MINUS",
	STAR:            "STAR",
	SLASH:           "SLASH",
	PERCENT:         "PERCENT",
	AMP:             "AMP",
	PIPE:            "PIPE",
	CARET:           "CARET",
	SHL:             "SHL",
	SHR:             "SHR",
	BANG:            "BANG",
	TILDE:           "TILDE",
	ERROR_TOKEN:     "ERROR_TOKEN",
	SOURCE_FILE:     "SOURCE_FILE",
	ALIAS_DEF:       "ALIAS_DEF",
	INSTR_BLOCK_SET: "INSTR_BLOCK_SET",
	BLOCK:           "BLOCK",
	LABEL:           "LABEL",
	INSTRUCTION:     "INSTRUCTION",
	LITERAL:         "LITERAL",
	NAME_REF:        "NAME_REF",
	REGISTER_REF:    "REGISTER_REF",
	ARRAY_EXPR:      "ARRAY_EXPR",
	MAPPING_EXPR:    "MAPPING_EXPR",
	MAPPING_PAIR:    "MAPPING_PAIR",
	UNARY_EXPR:      "UNARY_EXPR",
	BIN_EXPR:        "BIN_EXPR",
	CALL_EXPR:       "CALL_EXPR",
	PAREN_EXPR:      "PAREN_EXPR",
	EXPR_LINE:       "EXPR_LINE",
	ERROR_NODE:      "ERROR_NODE",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// isTrivia reports whether k is whitespace or a comment, i.e. a token the
// grammar ignores but the lossless tree still stores.
func (k Kind) isTrivia() bool {
	return k == WHITESPACE || k == COMMENT
}

// isExpr reports whether k is an expression node kind.
func (k Kind) isExpr() bool {
	switch k {
	case LITERAL, NAME_REF, REGISTER_REF, ARRAY_EXPR, MAPPING_EXPR,
		UNARY_EXPR, BIN_EXPR, CALL_EXPR, PAREN_EXPR:
		return true
	}
	return false
}
