// salrepl is an interactive constant-expression evaluator: `def NAME = expr`
// lines extend the session, bare expressions print their value.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"gosal/pkg/compile"
)

const historyFile = ".salrepl_history"

func main() {
	fmt.Println("salrepl: constant expression evaluator (Ctrl+D to exit)")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	session := compile.NewSession()
	ln.SetCompleter(func(line string) []string {
		var out []string
		for _, name := range session.Names() {
			if strings.HasPrefix(name, line) {
				out = append(out, name)
			}
		}
		return out
	})

	for {
		input, err := ln.Prompt("sal> ")
		if err != nil { // Ctrl+D or Ctrl+C
			fmt.Println()
			break
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		ln.AppendHistory(input)

		value, diags, ok := session.EvalLine(input)
		for _, d := range diags {
			printDiag(input, d)
		}
		if ok {
			fmt.Println(value.Value())
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

// printDiag renders a diagnostic inline, with a caret line under the input.
func printDiag(input string, d compile.Diag) {
	fmt.Printf("error: %s\n", d.Message)
	if d.Range.End > d.Range.Start && int(d.Range.Start) < len(input) {
		carets := int(d.Range.End - d.Range.Start)
		if max := len(input) - int(d.Range.Start); carets > max {
			carets = max
		}
		fmt.Printf("  %s\n", input)
		fmt.Printf("  %s%s\n", strings.Repeat(" ", int(d.Range.Start)), strings.Repeat("^", carets))
	}
	for _, l := range d.Labels {
		fmt.Printf("note: %s\n", l.Message)
	}
}
