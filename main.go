// SPDX-License-Identifier: Apache-2.0

// Command bailey is the literal reference driver: it builds the
// tail-recursive Fibonacci scenario (fib_helper/fib) hard-coded in
// internal/scenario, normalizes it, runs it, and prints the result.
// It takes no arguments; cmd/bailey is the configurable entry point for
// every other scenario.
package main

import (
	"fmt"
	"os"

	"bailey/internal/errors"
	"bailey/internal/interp"
	"bailey/internal/ir"
	"bailey/internal/scenario"
)

func main() {
	program, buildErrs := ir.Normalize(scenario.FibHelper(10))
	if len(buildErrs) > 0 {
		for _, e := range buildErrs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		os.Exit(1)
	}

	fmt.Printf("fib(10) = %s\n", run(program))
}

// run drives the interpreter to completion, recovering exactly once so a
// runtime fault prints a diagnostic instead of an uncaught panic.
func run(program *ir.Program) (formatted string) {
	in := interp.New(program)
	defer func() {
		if r := recover(); r != nil {
			errors.Recover(r).Report(os.Stderr)
			os.Exit(1)
		}
	}()
	formatted = in.FormatValue(in.Run())
	return formatted
}
