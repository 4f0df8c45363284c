// SPDX-License-Identifier: Apache-2.0

// Command bailey is the configurable command-line front end: it selects a
// named scenario either by flag or by a YAML config file, then normalizes
// and runs it, printing the resulting value.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"bailey/internal/config"
	"bailey/internal/errors"
	"bailey/internal/interp"
	"bailey/internal/ir"
	"bailey/internal/scenario"
	"bailey/repl"
)

func main() {
	scenarioFlag := flag.String("scenario", "", "scenario to run: "+strings.Join(scenario.Names, ", "))
	argFlag := flag.Int("arg", 10, "integer argument for scenarios that take one (fib)")
	configFlag := flag.String("config", "", "path to a YAML config naming a scenario, instead of -scenario/-arg")
	replFlag := flag.Bool("repl", false, "start an interactive scenario shell instead of running once")
	flag.Parse()

	if *replFlag {
		repl.Start(os.Stdin, os.Stdout)
		return
	}

	name, arg, err := resolveScenario(*scenarioFlag, int32(*argFlag), *configFlag)
	if err != nil {
		color.Red("%s", err)
		os.Exit(1)
	}

	expr, ok := scenario.Build(name, arg)
	if !ok {
		color.Red("unrecognized scenario %q (want one of: %s)", name, strings.Join(scenario.Names, ", "))
		os.Exit(1)
	}

	program, buildErrs := ir.Normalize(expr)
	if len(buildErrs) > 0 {
		for _, e := range buildErrs {
			e.Report(os.Stderr)
		}
		os.Exit(1)
	}

	fmt.Println(runScenario(program))
	color.Green("✅ ran scenario %q", name)
}

// resolveScenario picks the scenario name and argument from -config if
// given, otherwise from -scenario/-arg.
func resolveScenario(scenarioFlag string, arg int32, configPath string) (string, int32, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return "", 0, err
		}
		return cfg.Scenario, cfg.Arg, nil
	}
	if scenarioFlag == "" {
		return "", 0, fmt.Errorf("must pass -scenario <name> or -config <path>")
	}
	return scenarioFlag, arg, nil
}

// runScenario drives the interpreter to completion, recovering exactly once
// so a runtime fault prints a diagnostic instead of an uncaught panic.
func runScenario(program *ir.Program) (formatted string) {
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
