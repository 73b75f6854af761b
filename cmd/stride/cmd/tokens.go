package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Print the token stream of a source file",
	Long: `Print one token per line with its line:column position.
Use - to read the source from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	file := args[0]

	src, err := readSource(file)
	if err != nil {
		return err
	}

	toks, err := frontend().Tokenize(src)
	if err != nil {
		return &sourceError{err: err, file: file, src: src}
	}

	logger.Debug("tokenized", "file", file, "tokens", len(toks))

	out := cmd.OutOrStdout()
	for _, tok := range toks {
		fmt.Fprintf(out, "%-8s %s\n", tok.Pos, tok)
	}

	return nil
}
