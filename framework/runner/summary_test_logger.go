package runner

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/testbootstrap/bootstrap-harness/framework"
)

// SummaryTestLogger counts outcomes per top-level scope and renders them as a table when the
// run ends. It is meant to be combined with another logger through MultiTestLogger.
type SummaryTestLogger struct {
	out    io.Writer
	start  time.Time
	groups []*summaryGroup
	byName map[string]*summaryGroup
	lock   sync.Mutex
}

type summaryGroup struct {
	name    string
	passed  int
	failed  int
	skipped int
}

func NewSummaryTestLogger(out io.Writer) *SummaryTestLogger {
	if out == nil {
		out = os.Stdout
	}
	return &SummaryTestLogger{out: out, byName: make(map[string]*summaryGroup)}
}

// group returns the counters for id's top-level scope, or nil for the top-level scope itself,
// which is not counted as a test.
func (s *SummaryTestLogger) group(id TestID, countTopLevel bool) *summaryGroup {
	if len(id) == 0 {
		return nil
	}
	g, ok := s.byName[id[0]]
	if !ok {
		g = &summaryGroup{name: id[0]}
		s.groups = append(s.groups, g)
		s.byName[id[0]] = g
	}
	if len(id) == 1 && !countTopLevel {
		return nil
	}
	return g
}

func (s *SummaryTestLogger) TestStarted(id TestID) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.start.IsZero() {
		s.start = time.Now()
	}
	s.group(id, false)
}

func (s *SummaryTestLogger) TestError(TestID, error) {}

func (s *SummaryTestLogger) TestFinished(id TestID, result TestResult, _ framework.CapturedOutput) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if g := s.group(id, false); g != nil && result.counted() {
		if result.Failed {
			g.failed++
		} else {
			g.passed++
		}
	}
}

func (s *SummaryTestLogger) TestSkipped(id TestID, _ string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if g := s.group(id, true); g != nil {
		g.skipped++
	}
}

func (s *SummaryTestLogger) EndLog(results Results) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	var duration time.Duration
	if !s.start.IsZero() {
		duration = time.Since(s.start)
	}

	t := table.NewWriter()
	t.SetOutputMirror(s.out)
	t.SetTitle(fmt.Sprintf("Test results (%s)", duration.Round(time.Millisecond)))
	t.AppendHeader(table.Row{"Scope", "Passed", "Failed", "Skipped", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Scope", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
	})

	var total summaryGroup
	for _, g := range s.groups {
		t.AppendRow(table.Row{g.name, g.passed, g.failed, g.skipped, summaryStatus(g)})
		total.passed += g.passed
		total.failed += g.failed
		total.skipped += g.skipped
	}

	status := summaryStatus(&total)
	switch {
	case results.StartupError != nil:
		status = "not started"
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case !results.OK():
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case total.passed == 0 && total.skipped > 0:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}
	t.AppendFooter(table.Row{"TOTAL", total.passed, total.failed, total.skipped, status})

	t.Render()
	fmt.Fprintf(s.out, "Run ID: %s\n", results.RunID)
	return nil
}

func summaryStatus(g *summaryGroup) string {
	switch {
	case g.failed > 0:
		return "fail"
	case g.passed == 0 && g.skipped > 0:
		return "skip"
	default:
		return "pass"
	}
}
