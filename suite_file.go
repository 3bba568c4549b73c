package main

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// suiteFile holds defaults for a run, so that CI jobs don't have to repeat long flag lists. Any
// flag given on the command line overrides the corresponding setting; run and skip patterns from
// both sources are combined.
type suiteFile struct {
	Run       []string `yaml:"run"`
	Skip      []string `yaml:"skip"`
	Repeat    int      `yaml:"repeat"`
	FailFast  bool     `yaml:"failFast"`
	JUnit     string   `yaml:"junit"`
	Resources string   `yaml:"resources"`
}

func readSuiteFile(path string) (suiteFile, error) {
	var s suiteFile
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("cannot read suite file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("invalid suite file %s: %w", path, err)
	}
	return s, nil
}

func (s suiteFile) applyTo(c *commandParams, explicit map[string]bool) error {
	for _, p := range s.Run {
		if err := c.filters.MustMatch.Set(p); err != nil {
			return fmt.Errorf("invalid run pattern %q in suite file: %w", p, err)
		}
	}
	for _, p := range s.Skip {
		if err := c.filters.MustNotMatch.Set(p); err != nil {
			return fmt.Errorf("invalid skip pattern %q in suite file: %w", p, err)
		}
	}
	if s.Repeat != 0 && !explicit["repeat"] {
		if s.Repeat < 1 {
			return fmt.Errorf("repeat in suite file must be at least 1, got %d", s.Repeat)
		}
		c.repeat = s.Repeat
	}
	if s.FailFast && !explicit["fail-fast"] {
		c.failFast = true
	}
	if s.JUnit != "" && !explicit["junit"] {
		c.jUnitFile = s.JUnit
	}
	if s.Resources != "" && !explicit["resources"] {
		c.resourceDir = s.Resources
	}
	return nil
}
