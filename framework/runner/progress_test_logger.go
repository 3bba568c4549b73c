package runner

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/testbootstrap/bootstrap-harness/framework"
)

// ProgressTestLogger shows a spinner with running pass/fail/skip counts instead of a line per
// test, and prints the failures at the end. The total number of tests is not known in advance.
type ProgressTestLogger struct {
	bar     *progressbar.ProgressBar
	out     io.Writer
	passed  int
	failed  int
	skipped int
	errors  map[string][]error
	lock    sync.Mutex
}

// NewProgressTestLogger creates a ProgressTestLogger that draws on out, or on standard error if
// out is nil.
func NewProgressTestLogger(out io.Writer) *ProgressTestLogger {
	if out == nil {
		out = os.Stderr
	}
	p := &ProgressTestLogger{out: out, errors: make(map[string][]error)}
	p.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(p.description()),
		progressbar.OptionSetWriter(out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(out, "\n")
		}),
	)
	return p
}

func (p *ProgressTestLogger) description() string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", p.passed) + " | " +
		color.RedString("failed: %d", p.failed) + " | " +
		color.BlueString("skipped: %d]", p.skipped)
}

func (p *ProgressTestLogger) advance() {
	p.bar.Describe(p.description())
	_ = p.bar.Add(1)
}

func (p *ProgressTestLogger) TestStarted(TestID) {}

func (p *ProgressTestLogger) TestError(id TestID, err error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.errors[id.String()] = append(p.errors[id.String()], err)
}

func (p *ProgressTestLogger) TestFinished(id TestID, result TestResult, _ framework.CapturedOutput) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if result.Failed {
		p.failed++
	} else {
		p.passed++
	}
	p.advance()
}

func (p *ProgressTestLogger) TestSkipped(TestID, string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.skipped++
	p.advance()
}

func (p *ProgressTestLogger) EndLog(results Results) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if err := p.bar.Finish(); err != nil {
		return err
	}
	for _, f := range results.Failures {
		_, _ = consoleTestFailedColor.Fprintf(p.out, "[%s]\n", f.TestID)
		for _, err := range p.errors[f.TestID.String()] {
			_, _ = consoleTestErrorColor.Fprintf(p.out, "  %s\n", err)
		}
	}
	PrintResults(p.out, results)
	return nil
}
