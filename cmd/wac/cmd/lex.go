package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-wac/internal/ast"
	"github.com/cwbudde/go-wac/internal/lexer"
	"github.com/cwbudde/go-wac/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexEval    string
	showPos    bool
	showKind   bool
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a wac source file or inline expression",
	Long: `Tokenize a wac program and print the resulting tokens, one per line.

Useful for debugging the lexer and understanding how source text is
scanned: keywords are not recognized here, every
[A-Za-z_][A-Za-z0-9_]* run comes out as IDENT.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline code instead of reading from a file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showKind, "show-kind", false, "show token kind names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal tokens")
}

func runLex(cmd *cobra.Command, args []string) error {
	var input, name string
	switch {
	case lexEval != "":
		input, name = lexEval, "<eval>"
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		input, name = string(data), args[0]
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	src := &ast.Source{Name: name, Data: input}
	l := lexer.New(src, name)

	count, errCount := 0, 0
	for {
		tok := l.Next()
		isErr := tok.Kind == token.ILLEGAL
		if onlyErrors && !isErr {
			if tok.Kind == token.EOF {
				break
			}
			continue
		}
		count++
		if isErr {
			errCount++
		}
		printToken(tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		fmt.Fprintf(os.Stderr, "---\ntokens: %d, errors: %d\n", count, errCount)
	}
	if onlyErrors && errCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errCount)
	}
	return nil
}

func printToken(tok lexer.Token) {
	var out string
	if showKind {
		out = fmt.Sprintf("[%-10s]", tok.Kind)
	}
	switch {
	case tok.Kind == token.EOF:
		out += " EOF"
	case tok.Literal == "":
		out += fmt.Sprintf(" %s", tok.Kind)
	default:
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if showPos {
		pos := tok.Span.Pos()
		out += fmt.Sprintf(" @%d:%d", pos.Line, pos.Column)
	}
	fmt.Println(out)
}
