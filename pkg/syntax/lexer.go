package syntax

import (
	"unicode"
	"unicode/utf8"
)

// lexedToken is one raw token produced by the lexer, before tree construction.
type lexedToken struct {
	kind Kind
	text string
	off  uint32 // byte offset of the first character
}

// lexer holds all mutable state for a single scanning pass over src.
// Lexing is total: input that fits no token class becomes ERROR_TOKEN tokens
// with a recorded SyntaxError, so a token stream is always produced.
type lexer struct {
	src    string
	pos    int // byte index of the next character to consume
	toks   []lexedToken
	errors []SyntaxError
}

// lex tokenises src. The concatenated token texts always equal src exactly.
func lex(src string) ([]lexedToken, []SyntaxError) {
	l := &lexer{src: src}
	for l.pos < len(l.src) {
		l.next()
	}
	return l.toks, l.errors
}

// peek returns the byte at the current position, or 0 at end of input.
func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the byte one position ahead of the current position.
func (l *lexer) peek2() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// emit records a token spanning [start, l.pos).
func (l *lexer) emit(kind Kind, start int) {
	l.toks = append(l.toks, lexedToken{kind: kind, text: l.src[start:l.pos], off: uint32(start)})
}

// errorAt records a syntax error for the byte range [start, end).
func (l *lexer) errorAt(start, end int, msg string) {
	l.errors = append(l.errors, SyntaxError{Message: msg, Range: TextRange{Start: uint32(start), End: uint32(end)}})
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (l *lexer) next() {
	start := l.pos
	ch := l.peek()

	switch {
	case ch == ' ' || ch == '\t':
		for l.peek() == ' ' || l.peek() == '\t' {
			l.pos++
		}
		l.emit(WHITESPACE, start)
		return

	case ch == '\n':
		l.pos++
		l.emit(NEWLINE, start)
		return

	case ch == '\r':
		l.pos++
		if l.peek() == '\n' {
			l.pos++
		}
		l.emit(NEWLINE, start)
		return

	case ch == '/' && l.peek2() == '/':
		for l.pos < len(l.src) && l.peek() != '\n' && l.peek() != '\r' {
			l.pos++
		}
		l.emit(COMMENT, start)
		return

	case ch == '/' && l.peek2() == '*':
		l.scanBlockComment(start)
		return

	case isDigit(ch):
		l.scanNumber(start)
		return

	case ch == '"':
		l.scanString(start)
		return

	case ch == '$':
		l.scanRegister(start)
		return
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	if isIdentStart(r) {
		l.pos += size
		l.scanIdentTail()
		l.emit(IDENT, start)
		return
	}

	l.pos += size
	switch ch {
	case '(':
		l.emit(L_PAREN, start)
	case ')':
		l.emit(R_PAREN, start)
	case '[':
		l.emit(L_BRACKET, start)
	case ']':
		l.emit(R_BRACKET, start)
	case '{':
		l.emit(L_BRACE, start)
	case '}':
		l.emit(R_BRACE, start)
	case ',':
		l.emit(COMMA, start)
	case ':':
		l.emit(COLON, start)
	case '=':
		if l.peek() == '>' {
			l.pos++
			l.emit(FAT_ARROW, start)
		} else {
			l.emit(EQ, start)
		}
	case '+':
		l.emit(PLUS, start)
	case '-':
		l.emit(MINUS, start)
	case '*':
		l.emit(STAR, start)
	case '/':
		l.emit(SLASH, start)
	case '%':
		l.emit(PERCENT, start)
	case '&':
		l.emit(AMP, start)
	case '|':
		l.emit(PIPE, start)
	case '^':
		l.emit(CARET, start)
	case '!':
		l.emit(BANG, start)
	case '~':
		l.emit(TILDE, start)
	case '<':
		if l.peek() == '<' {
			l.pos++
			l.emit(SHL, start)
		} else {
			l.scanUnknownTail(start)
		}
	case '>':
		if l.peek() == '>' {
			l.pos++
			l.emit(SHR, start)
		} else {
			l.scanUnknownTail(start)
		}
	default:
		l.scanUnknownTail(start)
	}
}

// scanIdentTail consumes the remaining identifier characters.
func (l *lexer) scanIdentTail() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentPart(r) {
			return
		}
		l.pos += size
	}
}

// scanUnknownTail extends an unclassifiable character into a single
// ERROR_TOKEN covering the whole run, so binary garbage yields one error
// per run instead of one per byte. The first character is already consumed.
func (l *lexer) scanUnknownTail(start int) {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if r == '\n' || r == '\r' || tokenStartClass(l.src[l.pos]) || isIdentStart(r) {
			break
		}
		l.pos += size
	}
	l.emit(ERROR_TOKEN, start)
	l.errorAt(start, l.pos, "unexpected character(s)")
}

// tokenStartClass reports whether b can begin a recognized token.
func tokenStartClass(b byte) bool {
	switch b {
	case ' ', '\t', '"', '$', '(', ')', '[', ']', '{', '}', ',', ':', '=',
		'+', '-', '*', '/', '%', '&', '|', '^', '!', '~':
		return true
	}
	if isDigit(b) {
		return true
	}
	if b == '<' || b == '>' {
		return true
	}
	return false
}

func (l *lexer) scanBlockComment(start int) {
	l.pos += 2 // consume /*
	for l.pos < len(l.src) {
		if l.peek() == '*' && l.peek2() == '/' {
			l.pos += 2
			l.emit(COMMENT, start)
			return
		}
		l.pos++
	}
	l.emit(COMMENT, start)
	l.errorAt(start, l.pos, "unterminated block comment")
}

// scanNumber consumes an integer (decimal, 0x hex, 0b binary) or a rational
// literal in digits.digits form.
func (l *lexer) scanNumber(start int) {
	if l.peek() == '0' && (l.peek2() == 'x' || l.peek2() == 'X') {
		l.pos += 2
		digits := 0
		for isHexDigit(l.peek()) {
			l.pos++
			digits++
		}
		l.emit(INT_NUMBER, start)
		if digits == 0 {
			l.errorAt(start, l.pos, "hexadecimal literal has no digits")
		}
		return
	}
	if l.peek() == '0' && (l.peek2() == 'b' || l.peek2() == 'B') {
		l.pos += 2
		digits := 0
		for l.peek() == '0' || l.peek() == '1' {
			l.pos++
			digits++
		}
		l.emit(INT_NUMBER, start)
		if digits == 0 {
			l.errorAt(start, l.pos, "binary literal has no digits")
		}
		return
	}

	for isDigit(l.peek()) {
		l.pos++
	}
	if l.peek() == '.' && isDigit(l.peek2()) {
		l.pos++ // consume '.'
		for isDigit(l.peek()) {
			l.pos++
		}
		l.emit(RATIONAL_NUMBER, start)
		return
	}
	l.emit(INT_NUMBER, start)
}

// scanString consumes a double-quoted string literal including both quotes.
// Escape sequence validity is checked by the validation pass, not here; the
// lexer only needs to know that \" does not terminate the literal.
func (l *lexer) scanString(start int) {
	l.pos++ // consume opening "
	for l.pos < len(l.src) {
		ch := l.peek()
		if ch == '"' {
			l.pos++
			l.emit(STRING, start)
			return
		}
		if ch == '\n' || ch == '\r' {
			break
		}
		if ch == '\\' && l.pos+1 < len(l.src) && l.peek2() != '\n' && l.peek2() != '\r' {
			l.pos += 2
			continue
		}
		l.pos++
	}
	l.emit(STRING, start)
	l.errorAt(start, l.pos, "unterminated string literal")
}

// scanRegister consumes '$' plus the register or register-alias name.
func (l *lexer) scanRegister(start int) {
	l.pos++ // consume $
	nameStart := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	l.emit(REGISTER, start)
	if l.pos == nameStart {
		l.errorAt(start, l.pos, "expected register name after `$`")
	}
}
