package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "minic",
	Short: "A compiler for a small C subset",
	Long: `minic compiles a small subset of C — integers, arithmetic and logical
expressions, conditionals, loops, and multi-function programs — to
x86-64 assembly text.

It runs as three stages: lex, parse, and compile. Each stage is
exposed as its own subcommand so the pipeline can be inspected at any
point.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func readInput(evalExpr string, args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, readErr := readFile(args[0])
		if readErr != nil {
			return "", "", readErr
		}
		return content, args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}
