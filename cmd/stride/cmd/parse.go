package cmd

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.stride.dev/internal/config"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the syntax tree of a source file",
	Long: `Print the syntax tree of a source file.

Formats:
  sexpr - one S-expression per top-level statement
  go    - Go syntax dump of the tree nodes`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: sexpr or go (default from config)")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	format := parseFormat
	if format == "" {
		format = cfg.Output.Format
	}

	ast, err := parseFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case config.FormatSExpr:
		if len(ast.Statements) > 0 {
			fmt.Fprintln(out, ast)
		}
	case config.FormatGo:
		pretty.Fprintf(out, "%# v\n", ast)
	default:
		return errors.Errorf("unknown format %q", format)
	}

	return nil
}
