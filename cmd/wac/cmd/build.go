package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/go-wac/pkg/wac"
	"github.com/spf13/cobra"
)

var (
	outputFile  string
	callTracing bool
	buildVerbose bool
)

var buildCmd = &cobra.Command{
	Use:   "build [files...]",
	Short: "Compile one or more wac source files to a WebAssembly text module",
	Long: `Compile translates every given source file, in order, into a single
WebAssembly Text Format (.wat) module.

Globals and functions may reference each other across files regardless of
declaration order; global initializers still run in file/declaration order.

Examples:
  # Compile a single file, printing WAT to stdout
  wac build main.wac

  # Compile several files into one module
  wac build lib.wac main.wac -o out.wat

  # Include the call-tracing trap function and stack region
  wac build main.wac --call-tracing`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout, or <first-input>.wat with -o -)")
	buildCmd.Flags().BoolVar(&callTracing, "call-tracing", false, "embed the call-tracing trap function and reserve its stack region (calls are not instrumented)")
	buildCmd.Flags().BoolVarP(&buildVerbose, "verbose", "v", false, "verbose output")
}

func runBuild(_ *cobra.Command, args []string) error {
	var opts []wac.Option
	if callTracing {
		opts = append(opts, wac.WithCallTracing(true))
	}

	if buildVerbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", strings.Join(args, ", "))
	}

	out, err := wac.CompileFiles(args, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return fmt.Errorf("compilation failed")
	}

	outFile := outputFile
	if outFile == "" {
		fmt.Print(out)
		return nil
	}
	if outFile == "-" {
		ext := filepath.Ext(args[0])
		outFile = strings.TrimSuffix(args[0], ext) + ".wat"
	}
	if err := os.WriteFile(outFile, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}
	if buildVerbose {
		fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", outFile, len(out))
	}
	return nil
}
