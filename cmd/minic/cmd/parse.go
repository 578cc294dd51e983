package cmd

import (
	"fmt"
	"os"

	"github.com/go-minic/minic/internal/ccerrors"
	"github.com/go-minic/minic/internal/lexer"
	"github.com/go-minic/minic/internal/parser"
	"github.com/spf13/cobra"
)

var parseEvalExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a source file and print its AST",
	Long: `Parse a minic program and print the resulting Abstract Syntax Tree.

Use -e to parse inline code from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, filename, err := readInput(parseEvalExpr, args)
	if err != nil {
		return err
	}

	tokens, lexErr := lexer.Lex(input)
	if lexErr != nil {
		fmt.Fprintln(os.Stderr, ccerrors.New(lexErr.Pos.Line, lexErr.Pos.Column, lexErr.Message, input, filename).Format(true))
		return fmt.Errorf("lexing failed")
	}

	program, parseErr := parser.ParseProgram(tokens)
	if parseErr != nil {
		fmt.Fprintln(os.Stderr, ccerrors.New(parseErr.Pos.Line, parseErr.Pos.Column, parseErr.Error(), input, filename).Format(true))
		return fmt.Errorf("parsing failed")
	}

	fmt.Println(program.String())
	return nil
}
