package syntax

// The parser consumes the lexer's token stream and drives a treeBuilder.
// It never fails: unexpected tokens are wrapped in ERROR_NODE with a
// recorded SyntaxError and parsing resynchronizes at the next newline or
// closing delimiter. Trivia tokens are attached to the tree at the point
// where the next meaningful token is consumed, keeping the tree lossless.

// ParseSourceFile parses one compilation unit. A tree is always produced;
// grammar problems and post-parse validation findings are attached as errors.
func ParseSourceFile(text string) Parse[SourceFile] {
	toks, errors := lex(text)
	p := &parser{toks: toks, srcLen: uint32(len(text)), errors: errors}
	p.parseSourceFile()
	root := p.b.finish()
	p.errors = append(p.errors, validate(&Node{green: root})...)
	return Parse[SourceFile]{root: root, errors: p.errors}
}

// ParseExpr parses a standalone expression line, e.g. a REPL input. The root
// is an EXPR_LINE node holding one expression.
func ParseExpr(text string) Parse[ExprLine] {
	toks, errors := lex(text)
	p := &parser{toks: toks, srcLen: uint32(len(text)), errors: errors}
	p.b.startNode(EXPR_LINE)
	p.skipNewlines()
	p.parseExpr(0)
	p.skipNewlines()
	for !p.atEOF() {
		p.errorNode("expected end of expression")
	}
	p.flushTrivia()
	p.b.finishNode()
	return Parse[ExprLine]{root: p.b.finish(), errors: p.errors}
}

type parser struct {
	toks   []lexedToken
	pos    int // index of the next unconsumed token, may point at trivia
	srcLen uint32
	b      treeBuilder
	errors []SyntaxError
}

// nth returns the kind of the n-th meaningful (non-trivia) token ahead.
func (p *parser) nth(n int) Kind {
	i := p.pos
	for i < len(p.toks) {
		if p.toks[i].kind.isTrivia() {
			i++
			continue
		}
		if n == 0 {
			return p.toks[i].kind
		}
		n--
		i++
	}
	return EOF
}

func (p *parser) at(kind Kind) bool { return p.nth(0) == kind }

func (p *parser) atEOF() bool { return p.nth(0) == EOF }

// currentRange returns the source range of the next meaningful token, or an
// empty range at end of input.
func (p *parser) currentRange() TextRange {
	i := p.pos
	for i < len(p.toks) && p.toks[i].kind.isTrivia() {
		i++
	}
	if i >= len(p.toks) {
		return TextRange{Start: p.srcLen, End: p.srcLen}
	}
	t := p.toks[i]
	return TextRange{Start: t.off, End: t.off + uint32(len(t.text))}
}

// currentText returns the text of the next meaningful token.
func (p *parser) currentText() string {
	i := p.pos
	for i < len(p.toks) && p.toks[i].kind.isTrivia() {
		i++
	}
	if i >= len(p.toks) {
		return ""
	}
	return p.toks[i].text
}

// flushTrivia emits any pending trivia tokens into the current node.
func (p *parser) flushTrivia() {
	for p.pos < len(p.toks) && p.toks[p.pos].kind.isTrivia() {
		t := p.toks[p.pos]
		p.b.token(t.kind, t.text)
		p.pos++
	}
}

// bump consumes the next meaningful token into the current node.
func (p *parser) bump() {
	p.bumpRemap(0)
}

// bumpRemap consumes the next meaningful token, overriding its kind when
// remap is nonzero. Used to turn a contextual IDENT "def" into DEF_KW.
func (p *parser) bumpRemap(remap Kind) {
	p.flushTrivia()
	if p.pos >= len(p.toks) {
		panic("syntax: bump at end of input")
	}
	t := p.toks[p.pos]
	kind := t.kind
	if remap != 0 {
		kind = remap
	}
	p.b.token(kind, t.text)
	p.pos++
}

// expect consumes a token of the given kind or records an error in place.
func (p *parser) expect(kind Kind, msg string) bool {
	if p.at(kind) {
		p.bump()
		return true
	}
	p.errorAt(p.currentRange(), msg)
	return false
}

func (p *parser) errorAt(r TextRange, msg string) {
	p.errors = append(p.errors, SyntaxError{Message: msg, Range: r})
}

// errorNode records an error at the next token and consumes it into an
// ERROR_NODE so the tree stays lossless. At end of input it only records.
func (p *parser) errorNode(msg string) {
	p.errorAt(p.currentRange(), msg)
	if p.atEOF() {
		return
	}
	p.b.startNode(ERROR_NODE)
	p.bump()
	p.b.finishNode()
}

// syncToNewline consumes tokens into an ERROR_NODE until a newline or EOF.
func (p *parser) syncToNewline() {
	if p.atEOF() || p.at(NEWLINE) {
		return
	}
	p.b.startNode(ERROR_NODE)
	for !p.atEOF() && !p.at(NEWLINE) {
		p.bump()
	}
	p.b.finishNode()
}

func (p *parser) skipNewlines() {
	for p.at(NEWLINE) {
		p.bump()
	}
}

// atDef reports whether the next token is the contextual "def" keyword.
func (p *parser) atDef() bool {
	return p.at(IDENT) && p.currentText() == "def"
}

// atLabel reports whether the next tokens form a label (IDENT ":").
func (p *parser) atLabel() bool {
	return p.at(IDENT) && !p.atDef() && p.nth(1) == COLON
}

func (p *parser) parseSourceFile() {
	p.b.startNode(SOURCE_FILE)
	for !p.atEOF() {
		switch {
		case p.at(NEWLINE):
			p.bump()
		case p.atDef():
			p.parseAliasDef()
		case p.atLabel():
			p.parseInstrBlockSet()
		case p.at(IDENT):
			p.errorAt(p.currentRange(), "instructions must appear under a label")
			p.syncToNewline()
		default:
			p.errorAt(p.currentRange(), "expected a definition or a labelled block")
			p.syncToNewline()
		}
	}
	p.flushTrivia()
	p.b.finishNode()
}

// parseAliasDef parses `def NAME = expr` or `def $NAME = expr`.
func (p *parser) parseAliasDef() {
	p.b.startNode(ALIAS_DEF)
	p.bumpRemap(DEF_KW)
	if p.at(IDENT) || p.at(REGISTER) {
		p.bump()
	} else {
		p.errorAt(p.currentRange(), "expected alias name after `def`")
	}
	p.expect(EQ, "expected `=` in alias definition")
	if p.at(NEWLINE) || p.atEOF() {
		p.errorAt(p.currentRange(), "expected expression after `=`")
	} else {
		p.parseExpr(0)
	}
	p.endLine()
	p.b.finishNode()
}

// endLine consumes the terminating newline, resynchronizing first if the
// line has trailing junk.
func (p *parser) endLine() {
	if !p.atEOF() && !p.at(NEWLINE) {
		p.errorAt(p.currentRange(), "expected end of line")
		p.syncToNewline()
	}
	if p.at(NEWLINE) {
		p.bump()
	}
}

// parseInstrBlockSet parses consecutive labelled blocks as one set.
func (p *parser) parseInstrBlockSet() {
	p.b.startNode(INSTR_BLOCK_SET)
	for p.atLabel() {
		p.parseBlock()
	}
	p.b.finishNode()
}

// parseBlock parses label+ instruction*. The block ends at the next label
// (which starts a sibling block), the next `def`, or end of input.
func (p *parser) parseBlock() {
	p.b.startNode(BLOCK)
	for p.atLabel() {
		p.b.startNode(LABEL)
		p.bump() // IDENT
		p.bump() // COLON
		p.b.finishNode()
		p.skipNewlines()
	}
	for !p.atEOF() && !p.atLabel() && !p.atDef() {
		if p.at(NEWLINE) {
			p.bump()
			continue
		}
		if p.at(IDENT) {
			p.parseInstruction()
			continue
		}
		p.errorAt(p.currentRange(), "expected an instruction")
		p.syncToNewline()
	}
	p.b.finishNode()
}

// parseInstruction parses `NAME [expr ("," expr)*]` up to end of line.
func (p *parser) parseInstruction() {
	p.b.startNode(INSTRUCTION)
	p.bump() // mnemonic IDENT
	if !p.at(NEWLINE) && !p.atEOF() {
		p.parseExpr(0)
		for p.at(COMMA) {
			p.bump()
			if p.at(NEWLINE) || p.atEOF() {
				p.errorAt(p.currentRange(), "expected expression after `,`")
				break
			}
			p.parseExpr(0)
		}
	}
	p.endLine()
	p.b.finishNode()
}

// binaryBindingPower returns the left binding power of a binary operator
// kind, or 0 if the kind is not a binary operator. C-like precedence.
func binaryBindingPower(kind Kind) int {
	switch kind {
	case PIPE:
		return 1
	case CARET:
		return 2
	case AMP:
		return 3
	case SHL, SHR:
		return 4
	case PLUS, MINUS:
		return 5
	case STAR, SLASH, PERCENT:
		return 6
	}
	return 0
}

// parseExpr parses an expression with precedence climbing. Infix nodes are
// opened retroactively at a checkpoint so the left operand is adopted.
func (p *parser) parseExpr(minBP int) {
	cp := p.b.checkpoint()
	p.parsePrimary()
	for {
		bp := binaryBindingPower(p.nth(0))
		if bp == 0 || bp < minBP {
			return
		}
		p.b.startNodeAt(cp, BIN_EXPR)
		p.bump() // operator
		if p.at(NEWLINE) || p.atEOF() {
			p.errorAt(p.currentRange(), "expected right operand")
		} else {
			p.parseExpr(bp + 1)
		}
		p.b.finishNode()
	}
}

func (p *parser) parsePrimary() {
	switch p.nth(0) {
	case INT_NUMBER, RATIONAL_NUMBER, STRING:
		p.b.startNode(LITERAL)
		p.bump()
		p.b.finishNode()

	case REGISTER:
		p.b.startNode(REGISTER_REF)
		p.bump()
		p.b.finishNode()

	case IDENT:
		if p.nth(1) == L_PAREN {
			p.parseCall()
			return
		}
		p.b.startNode(NAME_REF)
		p.bump()
		p.b.finishNode()

	case MINUS, BANG, TILDE:
		p.b.startNode(UNARY_EXPR)
		p.bump()
		if p.at(NEWLINE) || p.atEOF() {
			p.errorAt(p.currentRange(), "expected operand")
		} else {
			p.parseExpr(unaryBindingPower)
		}
		p.b.finishNode()

	case L_PAREN:
		p.b.startNode(PAREN_EXPR)
		p.bump()
		p.parseExpr(0)
		p.expect(R_PAREN, "expected `)`")
		p.b.finishNode()

	case L_BRACKET:
		p.parseArray()

	case L_BRACE:
		p.parseMapping()

	default:
		p.errorNode("expected expression")
	}
}

// unaryBindingPower binds tighter than every binary operator.
const unaryBindingPower = 7

func (p *parser) parseCall() {
	p.b.startNode(CALL_EXPR)
	p.bump() // IDENT
	p.bump() // L_PAREN
	if !p.at(R_PAREN) && !p.at(NEWLINE) && !p.atEOF() {
		p.parseExpr(0)
		for p.at(COMMA) {
			p.bump()
			if p.at(R_PAREN) || p.at(NEWLINE) || p.atEOF() {
				break
			}
			p.parseExpr(0)
		}
	}
	p.expect(R_PAREN, "expected `)` to close call")
	p.b.finishNode()
}

func (p *parser) parseArray() {
	p.b.startNode(ARRAY_EXPR)
	p.bump() // L_BRACKET
	p.skipNewlines()
	if !p.at(R_BRACKET) && !p.atEOF() {
		p.parseExpr(0)
		p.skipNewlines()
		for p.at(COMMA) {
			p.bump()
			p.skipNewlines()
			if p.at(R_BRACKET) || p.atEOF() {
				break
			}
			p.parseExpr(0)
			p.skipNewlines()
		}
	}
	p.expect(R_BRACKET, "expected `]` to close array")
	p.b.finishNode()
}

func (p *parser) parseMapping() {
	p.b.startNode(MAPPING_EXPR)
	p.bump() // L_BRACE
	p.skipNewlines()
	if !p.at(R_BRACE) && !p.atEOF() {
		p.parseMappingPair()
		p.skipNewlines()
		for p.at(COMMA) {
			p.bump()
			p.skipNewlines()
			if p.at(R_BRACE) || p.atEOF() {
				break
			}
			p.parseMappingPair()
			p.skipNewlines()
		}
	}
	p.expect(R_BRACE, "expected `}` to close mapping")
	p.b.finishNode()
}

func (p *parser) parseMappingPair() {
	p.b.startNode(MAPPING_PAIR)
	p.parseExpr(0)
	p.expect(FAT_ARROW, "expected `=>` in mapping entry")
	if p.at(R_BRACE) || p.at(NEWLINE) || p.atEOF() {
		p.errorAt(p.currentRange(), "expected value after `=>`")
	} else {
		p.parseExpr(0)
	}
	p.b.finishNode()
}
