package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cwbudde/go-wac/internal/ast"
	"github.com/cwbudde/go-wac/internal/lexer"
	"github.com/cwbudde/go-wac/internal/parser"
	"github.com/spf13/cobra"
)

var parseExpression bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse wac source and dump its declaration tree",
	Long: `Parse a wac program and print its top-level declarations.

If no file is given, reads from stdin. Use -e to parse a single inline
expression-as-function-body instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVarP(&parseExpression, "expression", "e", false, "wrap the argument as `fn f() void { ARG }` before parsing")
}

func runParse(_ *cobra.Command, args []string) error {
	var input, name string
	switch {
	case parseExpression:
		if len(args) == 0 {
			return fmt.Errorf("no expression provided")
		}
		input, name = fmt.Sprintf("fn f() void { %s }", args[0]), "<eval>"
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input, name = string(data), args[0]
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input, name = string(data), "<stdin>"
	}

	src := &ast.Source{Name: name, Data: input}
	l := lexer.New(src, name)
	p := parser.New(l, name, input)
	program := p.ParseProgram()

	if err := p.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return fmt.Errorf("parsing failed")
	}

	for _, decl := range program.Decls {
		dumpDecl(decl, 0)
	}
	return nil
}

func dumpDecl(decl ast.TopDecl, indent int) {
	pad := strings.Repeat("  ", indent)
	switch d := decl.(type) {
	case *ast.ImportDecl:
		fmt.Printf("%simport %s.%s as %s\n", pad, d.Module, d.Extern, d.Alias)
	case *ast.VarDecl:
		fmt.Printf("%svar %s (pub=%v)\n", pad, d.Name, d.Pub)
		dumpExpr(d.Value, indent+1)
	case *ast.FuncDecl:
		fmt.Printf("%sfn %s (pub=%v, %d param(s))\n", pad, d.Name, d.Pub, len(d.Params))
		dumpExpr(d.Body, indent+1)
	default:
		fmt.Printf("%s%T\n", pad, decl)
	}
}

func dumpExpr(e ast.Expr, indent int) {
	pad := strings.Repeat("  ", indent)
	switch n := e.(type) {
	case *ast.Block:
		fmt.Printf("%sBlock (%d)\n", pad, len(n.Exprs))
		for _, sub := range n.Exprs {
			dumpExpr(sub, indent+1)
		}
	case *ast.BoolLit:
		fmt.Printf("%sBoolLit %v\n", pad, n.Value)
	case *ast.IntLit:
		fmt.Printf("%sIntLit %d\n", pad, n.Value)
	case *ast.FloatLit:
		fmt.Printf("%sFloatLit %g\n", pad, n.Value)
	case *ast.StringLit:
		fmt.Printf("%sStringLit %q\n", pad, n.Value)
	case *ast.Get:
		fmt.Printf("%sGet %s\n", pad, n.Name)
	case *ast.Set:
		fmt.Printf("%sSet %s\n", pad, n.Name)
		dumpExpr(n.Value, indent+1)
	case *ast.Decl:
		fmt.Printf("%sDecl %s\n", pad, n.Name)
		dumpExpr(n.Value, indent+1)
	case *ast.Call:
		fmt.Printf("%sCall %s (%d arg(s))\n", pad, n.Name, len(n.Args))
		for _, a := range n.Args {
			dumpExpr(a, indent+1)
		}
	case *ast.If:
		fmt.Printf("%sIf (%d branch(es))\n", pad, len(n.Branches))
		for _, b := range n.Branches {
			dumpExpr(b.Cond, indent+1)
			dumpExpr(b.Body, indent+1)
		}
		dumpExpr(n.Else, indent+1)
	case *ast.While:
		fmt.Printf("%sWhile\n", pad)
		dumpExpr(n.Cond, indent+1)
		dumpExpr(n.Body, indent+1)
	case *ast.BinOp:
		fmt.Printf("%sBinOp %s\n", pad, n.Op)
		dumpExpr(n.Left, indent+1)
		dumpExpr(n.Right, indent+1)
	case *ast.UnOp:
		fmt.Printf("%sUnOp %s\n", pad, n.Op)
		dumpExpr(n.Operand, indent+1)
	default:
		fmt.Printf("%s%T\n", pad, e)
	}
}
