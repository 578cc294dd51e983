package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-minic/minic/internal/ccerrors"
	"github.com/go-minic/minic/internal/codegen"
	"github.com/go-minic/minic/internal/lexer"
	"github.com/go-minic/minic/internal/parser"
	"github.com/go-minic/minic/internal/semantic"
	"github.com/spf13/cobra"
)

var (
	outputFile     string
	skipAnalysis   bool
	gnuStackNote   bool
	compileVerbose bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a source file to x86-64 assembly",
	Long: `Compile a minic program through all three stages — lex, parse,
analyse — and emit x86-64 AT&T-syntax assembly text.

Examples:
  # Compile to program.s (the default output file)
  minic compile program.c

  # Compile to a named output file
  minic compile program.c -o program.s

  # Skip the semantic analysis stage (faster but less safe)
  minic compile program.c --skip-analysis`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: <input>.s)")
	compileCmd.Flags().BoolVar(&skipAnalysis, "skip-analysis", false, "skip semantic analysis (faster but less safe)")
	compileCmd.Flags().BoolVar(&gnuStackNote, "gnu-stack-note", false, "emit a .note.GNU-stack section marking the stack non-executable")
	compileCmd.Flags().BoolVarP(&compileVerbose, "verbose", "v", false, "verbose output")
}

func runCompile(_ *cobra.Command, args []string) error {
	filename := args[0]

	input, err := readFile(filename)
	if err != nil {
		return err
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	tokens, lexErr := lexer.Lex(input)
	if lexErr != nil {
		cerr := ccerrors.New(lexErr.Pos.Line, lexErr.Pos.Column, lexErr.Message, input, filename)
		fmt.Fprintln(os.Stderr, cerr.Format(true))
		return fmt.Errorf("lexing failed")
	}

	program, parseErr := parser.ParseProgram(tokens)
	if parseErr != nil {
		cerr := ccerrors.New(parseErr.Pos.Line, parseErr.Pos.Column, parseErr.Error(), input, filename)
		fmt.Fprintln(os.Stderr, cerr.Format(true))
		return fmt.Errorf("parsing failed")
	}

	if !skipAnalysis {
		if semErr := semantic.Analyze(program); semErr != nil {
			fmt.Fprintln(os.Stderr, semErr.ToCompilerError(input, filename).Format(true))
			return fmt.Errorf("semantic analysis failed")
		}
	} else if compileVerbose {
		fmt.Fprintln(os.Stderr, "Semantic analysis skipped")
	}

	var opts []codegen.Option
	if gnuStackNote {
		opts = append(opts, codegen.WithGNUStackNote(true))
	}

	asm, genErr := codegen.Generate(program, opts...)
	if genErr != nil {
		cerr := ccerrors.New(genErr.Pos.Line, genErr.Pos.Column, genErr.Error(), input, filename)
		fmt.Fprintln(os.Stderr, cerr.Format(true))
		return fmt.Errorf("code generation failed")
	}

	outFile := outputFile
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".s"
		} else {
			outFile = filename + ".s"
		}
	}

	if err := os.WriteFile(outFile, []byte(asm), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Assembly written to %s (%d bytes)\n", outFile, len(asm))
	} else {
		fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	}

	return nil
}
