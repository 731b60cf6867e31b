// Command cherryparse parses a cherry source file and prints a summary of
// the module (its name, its import paths, and one line per declaration with
// its span), or the structured parse error if parsing failed.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cherry-script/cherry-compiler/cherry/ast"
	"github.com/cherry-script/cherry-compiler/cherry/parser"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cherryparse <file>",
		Short:         "parse a cherry source file and print a module summary",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runParse,
	}
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	mod, err := parser.Parse(name, string(src))
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return errSilent{}
	}
	printModule(cmd.OutOrStdout(), mod)
	return nil
}

// errSilent carries a non-zero exit status without cobra re-printing an
// error already written to stderr by runParse.
type errSilent struct{}

func (errSilent) Error() string { return "" }

func printModule(w io.Writer, mod ast.Module) {
	fmt.Fprintf(w, "module %s\n", mod.Name)
	for _, imp := range mod.Imports {
		fmt.Fprintf(w, "  import %s\n", imp.Specifier.Path())
	}
	for _, d := range mod.Declarations {
		fmt.Fprintf(w, "  decl %T @ %s\n", d, d.Span())
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
