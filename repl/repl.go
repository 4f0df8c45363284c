// Package repl is an interactive scenario shell in the shape of the
// teacher's line-oriented REPL: each line names a scenario and an optional
// integer argument instead of a program to parse — bailey has no surface
// syntax, so there is nothing to lex here, only a line split on whitespace.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bailey/internal/ast"
	"bailey/internal/errors"
	"bailey/internal/interp"
	"bailey/internal/ir"
	"bailey/internal/scenario"
)

const PROMPT = ">> "

// Start reads scenario lines from in until EOF, printing each scenario's
// result (or a diagnostic) to out before reading the next line.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		name, arg, err := parseLine(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		expr, ok := scenario.Build(name, arg)
		if !ok {
			fmt.Fprintf(out, "unrecognized scenario %q (want one of: %s)\n", name, strings.Join(scenario.Names, ", "))
			continue
		}

		runLine(out, expr)
	}
}

// parseLine splits a REPL line into a scenario name and an optional integer
// argument (used only by "fib"; every other scenario ignores it).
func parseLine(line string) (string, int32, error) {
	fields := strings.Fields(line)
	name := fields[0]
	if len(fields) == 1 {
		return name, 0, nil
	}
	if len(fields) > 2 {
		return "", 0, fmt.Errorf("too many fields: expected \"<scenario> [arg]\", got %q", line)
	}
	n, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("invalid integer argument %q: %w", fields[1], err)
	}
	return name, int32(n), nil
}

// runLine normalizes and runs expr, printing its result or a diagnostic.
// Runtime faults are recovered per line so one bad scenario argument
// doesn't end the session.
func runLine(out io.Writer, expr ast.Expr) {
	program, buildErrs := ir.Normalize(expr)
	if len(buildErrs) > 0 {
		for _, e := range buildErrs {
			e.Report(out)
		}
		return
	}

	func() {
		in := interp.New(program)
		defer func() {
			if r := recover(); r != nil {
				errors.Recover(r).Report(out)
			}
		}()
		fmt.Fprintln(out, in.FormatValue(in.Run()))
	}()
}
