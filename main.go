package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"

	"gosal/pkg/compile"
	"gosal/pkg/syntax"
)

func main() {
	inPath := flag.String("in", "", "input scenario assembly file path")
	checkOnly := flag.Bool("check", false, "report diagnostics only, print no listing")
	dumpSyntax := flag.Bool("dump-syntax", false, "print the syntax tree instead of compiling")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: salc -in file.sal [-check] [-dump-syntax]")
		os.Exit(2)
	}

	source, err := readSource(*inPath)
	if err != nil {
		log.Fatalf("salc: %v", err)
	}

	if *dumpSyntax {
		parse := syntax.ParseSourceFile(source)
		fmt.Print(syntax.DebugDump(parse.Root()))
		for _, e := range parse.Errors() {
			renderDiag(os.Stderr, *inPath, source, compile.Diag{Message: e.Message, Range: e.Range})
		}
		if len(parse.Errors()) > 0 {
			os.Exit(1)
		}
		return
	}

	result := compile.CompileUnit(source)
	for _, d := range result.Diagnostics {
		renderDiag(os.Stderr, *inPath, source, d)
	}
	if !*checkOnly {
		for _, instr := range result.Instructions {
			fmt.Printf("%-12v %+v\n", instr.Opcode(), instr)
		}
	}
	if result.HasErrors() {
		os.Exit(1)
	}
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(data), nil
}

// renderDiag prints one diagnostic with a caret snippet:
//
//	file.sal:3:9: error: Division by zero
//	  def X = 1 / 0
//	          ^^^^^
func renderDiag(w io.Writer, path, source string, d compile.Diag) {
	printLocated(w, path, source, d.Range, "error: "+d.Message)
	for _, l := range d.Labels {
		printLocated(w, path, source, l.Range, "note: "+l.Message)
	}
}

func printLocated(w io.Writer, path, source string, r syntax.TextRange, msg string) {
	line, col := lineCol(source, r.Start)
	fmt.Fprintf(w, "%s:%d:%d: %s\n", path, line, col, msg)

	text, lineStart := lineText(source, r.Start)
	if text == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", text)

	indent := int(r.Start) - lineStart
	carets := int(r.End) - int(r.Start)
	if max := len(text) - indent; carets > max {
		carets = max
	}
	if carets < 1 {
		carets = 1
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", indent), strings.Repeat("^", carets))
}

// lineCol converts a byte offset to 1-based line and column numbers.
func lineCol(source string, offset uint32) (line, col int) {
	line, col = 1, 1
	for i := 0; i < int(offset) && i < len(source); i++ {
		if source[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// lineText returns the full source line containing the offset and the
// byte offset of its first character.
func lineText(source string, offset uint32) (string, int) {
	if len(source) == 0 {
		return "", 0
	}
	pos := int(offset)
	if pos > len(source) {
		pos = len(source)
	}
	start := strings.LastIndexByte(source[:pos], '\n') + 1
	end := strings.IndexByte(source[start:], '\n')
	if end < 0 {
		end = len(source)
	} else {
		end += start
	}
	return strings.TrimRight(source[start:end], "\r"), start
}
