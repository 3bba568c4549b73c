package framework

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func messages(output CapturedOutput) []string {
	var ret []string
	for _, m := range output {
		ret = append(ret, m.Message)
	}
	return ret
}

func TestCapturingLoggerRecordsMessages(t *testing.T) {
	var l CapturingLogger
	l.Println("a", "b")
	l.Printf("c=%d", 1)
	assert.Equal(t, []string{"a b", "c=1"}, messages(l.Output()))
}

func TestCapturingLoggerChildSeesParentOutput(t *testing.T) {
	var parent, child CapturingLogger
	parent.Println("before")
	parent.AddChildLogger(&child)
	parent.Println("during")
	child.Println("own")
	parent.RemoveChildLogger(&child)
	parent.Println("after")

	assert.Equal(t, []string{"before", "during", "own"}, messages(child.Output()))
	assert.Equal(t, []string{"before", "after"}, messages(parent.Output()))
}

func TestCapturedOutputToString(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 6000000, time.UTC)
	output := CapturedOutput{{Time: ts, Message: "x"}, {Time: ts, Message: "y"}}
	assert.Equal(t, "> [2026-01-02 03:04:05.006] x\n> [2026-01-02 03:04:05.006] y", output.ToString("> "))
	assert.Equal(t, "", CapturedOutput(nil).ToString("> "))
}

func TestLoggerWithPrefix(t *testing.T) {
	var l CapturingLogger
	p := LoggerWithPrefix(&l, "[env] ")
	p.Printf("loaded %s", "x")
	p.Println("done", 2)
	assert.Equal(t, []string{"[env] loaded x", "[env] done 2"}, messages(l.Output()))
}
