package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/testbootstrap/bootstrap-harness/framework/harness"
	"github.com/testbootstrap/bootstrap-harness/framework/runner"
)

type commandParams struct {
	filters         runner.RegexFilters
	skipFile        string
	recordFailures  string
	repeat          int
	failFast        bool
	alsoRunDisabled bool
	resourceDir     string
	suiteFile       string
	jUnitFile       string
	progress        bool
	summary         bool
	metricsFile     string
	debug           bool
	debugAll        bool
}

func (c *commandParams) Read(args []string, errOut io.Writer) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.StringVar(&c.skipFile, "skip-file", "", "file containing test IDs to skip, one per line")
	fs.StringVar(&c.recordFailures, "record-failures", "", "write the IDs of failed tests to this file")
	fs.IntVar(&c.repeat, "repeat", 1, "run the whole suite this many times")
	fs.BoolVar(&c.failFast, "fail-fast", false, "skip all remaining tests after the first failure")
	fs.BoolVar(&c.alsoRunDisabled, "also-run-disabled", false, "also run tests named with the "+runner.DisabledPrefix+" prefix")
	fs.StringVar(&c.resourceDir, "resources", harness.DefaultResourceDir, "directory containing "+harness.LogConfigFileName)
	fs.StringVar(&c.suiteFile, "config", "", "YAML file with default settings for this run")
	fs.StringVar(&c.jUnitFile, "junit", "", "write JUnit XML output to the specified path")
	fs.BoolVar(&c.progress, "progress", false, "show a progress bar instead of one line per test")
	fs.BoolVar(&c.summary, "summary", false, "print a table of results per top-level scope at the end")
	fs.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics for this run to the specified path")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(errOut, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return false
	}
	if c.repeat < 1 {
		fmt.Fprintln(errOut, "-repeat must be at least 1")
		fs.Usage()
		return false
	}

	if c.suiteFile != "" {
		suite, err := readSuiteFile(c.suiteFile)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return false
		}
		explicit := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		if err := suite.applyTo(c, explicit); err != nil {
			fmt.Fprintln(errOut, err)
			return false
		}
	}
	return true
}
