package runner

import (
	"fmt"

	"github.com/testbootstrap/bootstrap-harness/framework"
)

type recordingTestLogger struct {
	events []string
}

func (r *recordingTestLogger) TestStarted(id TestID) {
	r.events = append(r.events, fmt.Sprintf("start %s", id))
}

func (r *recordingTestLogger) TestError(id TestID, err error) {
	r.events = append(r.events, fmt.Sprintf("error %s %s", id, err))
}

func (r *recordingTestLogger) TestFinished(id TestID, result TestResult, _ framework.CapturedOutput) {
	r.events = append(r.events, fmt.Sprintf("finish %s failed=%t", id, result.Failed))
}

func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	r.events = append(r.events, fmt.Sprintf("skip %s %s", id, reason))
}

func (r *recordingTestLogger) EndLog(Results) error { return nil }
