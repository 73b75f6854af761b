package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.stride.dev/pkg/codegen"
)

var irOutput string

var irCmd = &cobra.Command{
	Use:   "ir FILE",
	Short: "Compile a source file to LLVM IR",
	Args:  cobra.ExactArgs(1),
	RunE:  runIR,
}

func init() {
	irCmd.Flags().StringVarP(&irOutput, "output", "o", "", "write the IR to this file instead of stdout")
	rootCmd.AddCommand(irCmd)
}

func runIR(cmd *cobra.Command, args []string) error {
	file := args[0]

	ast, err := parseFile(file)
	if err != nil {
		return err
	}

	mod, err := codegen.Generate(ast, codegen.Options{
		TargetTriple:   cfg.Codegen.TargetTriple,
		SourceFilename: filepath.Base(file),
	})
	if err != nil {
		return errors.Wrap(err, file)
	}

	logger.Debug("generated", "file", file, "funcs", len(mod.Funcs))

	if irOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), mod.String())
		return nil
	}

	if err := os.WriteFile(irOutput, []byte(mod.String()), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", irOutput)
	}

	logger.Info("wrote IR", "file", irOutput)

	return nil
}
