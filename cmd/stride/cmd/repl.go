package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.stride.dev/pkg"
	"go.stride.dev/pkg/codegen"
)

const (
	promptMain  = "stride> "
	promptCont  = "   ...> "
	historyFile = ".stride_history"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Parse statements interactively",
	Long: `Read statements and print their syntax tree.

A line ending in ':' opens a block that is closed by an empty line.
Commands:
  :ir    toggle printing LLVM IR for each input
  :quit  leave`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, _ []string) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	out := cmd.OutOrStdout()
	fe := frontend()
	showIR := false

	for {
		code, ok := readByParseProbe(ln, fe)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}

		switch strings.TrimSpace(code) {
		case "":
			continue
		case ":quit":
			return nil
		case ":ir":
			showIR = !showIR
			fmt.Fprintf(out, "IR output %s\n", onOff(showIR))
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		evalInput(out, fe, code, showIR)
	}
}

func evalInput(out io.Writer, fe *stride.Frontend, code string, showIR bool) {
	ast, err := fe.ParseString(code)
	if err != nil {
		fmt.Fprintln(out, stride.FormatError(err, code))
		return
	}

	if len(ast.Statements) > 0 {
		fmt.Fprintln(out, ast)
	}

	if !showIR {
		return
	}

	mod, err := codegen.Generate(ast, codegen.Options{TargetTriple: cfg.Codegen.TargetTriple})
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}

	fmt.Fprint(out, mod.String())
}

func readByParseProbe(ln *liner.State, fe *stride.Frontend) (string, bool) {
	var buf replBuffer

	for {
		prompt := promptMain
		if !buf.empty() {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if buf.add(line, fe) {
			return buf.String(), true
		}
	}
}

// replBuffer collects the lines of one REPL input.
type replBuffer struct {
	lines []string
	block bool // Inside a block opened by a trailing ':'
}

// add appends line and reports whether the input is complete. A block is
// complete at the first empty line; anything else is complete unless the
// parser ran out of tokens.
func (b *replBuffer) add(line string, fe *stride.Frontend) bool {
	if b.block {
		if strings.TrimSpace(line) == "" {
			return true
		}

		b.lines = append(b.lines, line)
		return false
	}

	b.lines = append(b.lines, line)

	if strings.HasSuffix(strings.TrimSpace(line), ":") {
		b.block = true
		return false
	}

	_, err := fe.ParseString(b.String())
	return !stride.IsIncomplete(err)
}

func (b *replBuffer) empty() bool {
	return len(b.lines) == 0
}

func (b *replBuffer) String() string {
	return strings.Join(b.lines, "\n")
}

func onOff(v bool) string {
	if v {
		return "on"
	}

	return "off"
}
