// Package main implements the snek command-line interface.
//
// snek is a tree-walking interpreter for a small indentation-sensitive
// scripting language. It provides a complete lexer, parser, and evaluator
// supporting:
//
//   - Arithmetic, comparison and short-circuit boolean expressions
//   - Int, float, string, boolean and None literals
//   - Lists and insertion-ordered dicts with built-in methods
//   - Function definitions, lambdas and closures
//   - Classes with single inheritance, __init__ and bound methods
//   - if/elif/else, while and for with break/continue
//   - A print statement as the output surface
//
// The CLI supports three modes of operation:
//   - File evaluation mode (positional argument)
//   - Expression evaluation mode (-e flag)
//   - Interactive REPL mode (-i flag, or no arguments)
//
// Examples:
//
//	snek script.py                  # Run a script
//	snek -e 'print(1 + 2 * 3)'      # Evaluate an expression
//	snek -i                         # Start the REPL
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/snek/pkg/eval"
	"github.com/conneroisu/snek/pkg/lexer"
	"github.com/conneroisu/snek/pkg/parser"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the snek command. Errors surface on stderr in their
// "<phase> error at line N: ..." form and exit non-zero.
func newRootCmd() *cobra.Command {
	var (
		expression  string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "snek [file]",
		Short: "A tree-walking interpreter for a small scripting language",
		Long: "snek interprets an indentation-sensitive, dynamically-typed\n" +
			"scripting language. With a file argument it runs the file; with -e it\n" +
			"evaluates a single expression or statement; with -i (or no arguments)\n" +
			"it opens an interactive REPL.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case expression != "":
				return runSource(expression)
			case interactive || len(args) == 0:
				startREPL()

				return nil
			default:
				return runFile(args[0])
			}
		},
	}

	cmd.Flags().StringVarP(&expression, "eval", "e", "", "evaluate the given source text")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "interactive REPL mode")

	return cmd
}

// runSource pushes source text through the full pipeline against a fresh
// evaluator writing to stdout.
func runSource(source string) error {
	e := eval.New(os.Stdout)

	return runWith(e, source)
}

// runWith tokenizes, parses and executes source text on an existing
// evaluator.
func runWith(e *eval.Evaluator, source string) error {
	tokens, err := lexer.New(source).Tokenize()
	if err != nil {
		return err
	}

	program, err := parser.New(tokens).Parse()
	if err != nil {
		return err
	}

	return e.Run(program)
}

// runFile reads a script and executes it.
func runFile(filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	return runSource(string(content))
}

// startREPL runs an interactive Read-Eval-Print Loop. The evaluator is
// shared across lines, so bindings persist; bare expressions echo their
// value. The loop ends on :quit, :q or EOF (Ctrl+D).
func startREPL() {
	fmt.Println("snek repl - Type :quit to exit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)

	e := eval.New(os.Stdout)
	e.Interactive = true

	for {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ":quit" || line == ":q" {
			break
		}
		if strings.HasPrefix(line, ":") {
			handleReplCommand(line)

			continue
		}

		if err := runWith(e, scanner.Text()); err != nil {
			fmt.Println(err)
		}
	}
}

// handleReplCommand processes the ':' meta commands.
func handleReplCommand(cmd string) {
	switch cmd {
	case ":help", ":h":
		fmt.Println("Available commands:")
		fmt.Println("  :help, :h    Show this help")
		fmt.Println("  :quit, :q    Exit the REPL")
	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		fmt.Println("Type :help for available commands")
	}
}
