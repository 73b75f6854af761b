package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.stride.dev/internal/config"
	"go.stride.dev/pkg"
)

var (
	cfgFile string
	verbose bool

	cfg    = config.Default()
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

var rootCmd = &cobra.Command{
	Use:   "stride",
	Short: "stride - scanner, parser and LLVM IR generator",
	Long: `stride reads programs written in a small indentation based language
and shows them at each stage of the front end.

Commands:
  tokens   - token stream
  parse    - abstract syntax tree
  ir       - LLVM IR
  repl     - interactive parser`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}

	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	logger.Debug("config loaded", "file", cfgFile, "tab_width", cfg.Lexer.TabWidth)

	return nil
}

func frontend() *stride.Frontend {
	return stride.NewFrontend(cfg.LexerOptions()...)
}

// sourceError keeps the source of a failed file so lexical and syntax
// errors can be printed with a caret snippet.
type sourceError struct {
	err  error
	file string
	src  string
}

func (e *sourceError) Error() string {
	return e.file + ": " + e.err.Error()
}

func (e *sourceError) Unwrap() error {
	return e.err
}

func readSource(file string) (string, error) {
	var (
		src []byte
		err error
	)

	if file == "-" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(file)
	}

	if err != nil {
		return "", errors.Wrapf(err, "read %s", file)
	}

	return string(src), nil
}

func parseFile(file string) (*stride.AST, error) {
	src, err := readSource(file)
	if err != nil {
		return nil, err
	}

	ast, err := frontend().ParseString(src)
	if err != nil {
		return nil, &sourceError{err: err, file: file, src: src}
	}

	logger.Debug("parsed", "file", file, "statements", len(ast.Statements))

	return ast, nil
}

func printError(w io.Writer, err error) {
	var srcErr *sourceError
	if errors.As(err, &srcErr) {
		fmt.Fprintf(w, "%s: %s\n", srcErr.file, stride.FormatError(srcErr.err, srcErr.src))
		return
	}

	fmt.Fprintf(w, "error: %v\n", err)
}
