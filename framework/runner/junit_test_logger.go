package runner

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/testbootstrap/bootstrap-harness/framework"
)

// JUnitTestLogger collects results and writes them as JUnit XML when EndLog is called. Tests are
// grouped into one test suite per top-level scope.
type JUnitTestLogger struct {
	filePath  string
	suiteName string
	filters   RegexFilters
	entries   []*jUnitTestStatus // in the order the tests were started
	latest    map[string]*jUnitTestStatus
	lock      sync.Mutex
}

type jUnitTestStatus struct {
	id         TestID
	failures   []error
	skipped    bool
	skipReason string
	output     string
	startTime  time.Time
	duration   time.Duration
}

// Struct definitions for the JUnit XML schema - see https://github.com/jstemmer/go-junit-report

type jUnitXMLDocument struct {
	XMLName xml.Name            `xml:"testsuites"`
	Suites  []jUnitXMLTestSuite `xml:"testsuite"`
}

type jUnitXMLTestSuite struct {
	XMLName    xml.Name           `xml:"testsuite"`
	Tests      int                `xml:"tests,attr"`
	Failures   int                `xml:"failures,attr"`
	Skipped    int                `xml:"skipped,attr"`
	Time       string             `xml:"time,attr"`
	Name       string             `xml:"name,attr"`
	Properties []jUnitXMLProperty `xml:"properties>property,omitempty"`
	TestCases  []jUnitXMLTestCase `xml:"testcase"`
}

type jUnitXMLTestCase struct {
	XMLName     xml.Name             `xml:"testcase"`
	Classname   string               `xml:"classname,attr"`
	Name        string               `xml:"name,attr"`
	Time        string               `xml:"time,attr"`
	SkipMessage *jUnitXMLSkipMessage `xml:"skipped,omitempty"`
	Failure     *jUnitXMLFailure     `xml:"failure,omitempty"`
}

type jUnitXMLSkipMessage struct {
	Message string `xml:"message,attr"`
}

type jUnitXMLProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type jUnitXMLFailure struct {
	Message  string `xml:"message,attr"`
	Type     string `xml:"type,attr"`
	Contents string `xml:",chardata"`
}

func NewJUnitTestLogger(filePath, suiteName string, filters RegexFilters) *JUnitTestLogger {
	return &JUnitTestLogger{
		filePath:  filePath,
		suiteName: suiteName,
		filters:   filters,
		latest:    make(map[string]*jUnitTestStatus),
	}
}

func (j *JUnitTestLogger) TestStarted(id TestID) {
	j.lock.Lock()
	defer j.lock.Unlock()
	status := &jUnitTestStatus{id: id, startTime: time.Now()}
	j.entries = append(j.entries, status)
	j.latest[id.String()] = status
}

func (j *JUnitTestLogger) status(id TestID) *jUnitTestStatus {
	if s, ok := j.latest[id.String()]; ok {
		return s
	}
	// errors can be reported for the root scope, which is never started
	s := &jUnitTestStatus{id: id, startTime: time.Now()}
	j.latest[id.String()] = s
	return s
}

func (j *JUnitTestLogger) TestError(id TestID, err error) {
	j.lock.Lock()
	defer j.lock.Unlock()
	s := j.status(id)
	s.failures = append(s.failures, err)
}

func (j *JUnitTestLogger) TestFinished(id TestID, result TestResult, debugOutput framework.CapturedOutput) {
	j.lock.Lock()
	defer j.lock.Unlock()
	s := j.status(id)
	s.output = debugOutput.ToString("")
	s.duration = time.Since(s.startTime)
}

func (j *JUnitTestLogger) TestSkipped(id TestID, reason string) {
	j.lock.Lock()
	defer j.lock.Unlock()
	s := j.status(id)
	s.skipped = true
	s.skipReason = reason
}

func (j *JUnitTestLogger) EndLog(results Results) error {
	j.lock.Lock()
	defer j.lock.Unlock()

	bytes, err := xml.MarshalIndent(j.document(results), "", "  ")
	if err != nil {
		return err
	}
	bytes = append([]byte(xml.Header), bytes...)
	bytes = append(bytes, '\n')

	if err := os.WriteFile(j.filePath, bytes, 0644); err != nil { //nolint:gosec
		return fmt.Errorf("cannot write JUnit data to %s: %w", j.filePath, err)
	}
	return nil
}

func (j *JUnitTestLogger) document(results Results) jUnitXMLDocument {
	var doc jUnitXMLDocument

	properties := []jUnitXMLProperty{
		{Name: "tests.runId", Value: results.RunID},
		{Name: "tests.filter.mustMatch", Value: j.filters.MustMatch.String()},
		{Name: "tests.filter.mustNotMatch", Value: j.filters.MustNotMatch.String()},
	}
	if results.StartupError != nil {
		properties = append(properties, jUnitXMLProperty{Name: "tests.startupError", Value: results.StartupError.Error()})
	}

	for _, topLevelName := range j.topLevelNames() {
		suite := jUnitXMLTestSuite{
			Name:       fmt.Sprintf("%s: %s", j.suiteName, topLevelName),
			Properties: properties,
		}
		suiteTotalDuration := time.Duration(0)
		for _, status := range j.entries {
			if len(status.id) == 0 || status.id[0] != topLevelName {
				continue
			}
			suite.Tests++
			suiteTotalDuration += status.duration

			testCase := jUnitXMLTestCase{
				Classname: topLevelName,
				Name:      status.id.String(),
				Time:      jUnitDurationString(status.duration),
			}
			if status.skipped {
				suite.Skipped++
				testCase.SkipMessage = &jUnitXMLSkipMessage{Message: status.skipReason}
			}
			if len(status.failures) != 0 {
				suite.Failures++
				testCase.Failure = &jUnitXMLFailure{
					Message:  failureMessage(status.failures),
					Contents: status.output,
				}
			}
			suite.TestCases = append(suite.TestCases, testCase)
		}
		suite.Time = jUnitDurationString(suiteTotalDuration)
		doc.Suites = append(doc.Suites, suite)
	}
	if len(doc.Suites) == 0 {
		// nothing ran, but the properties still have to reach the report
		doc.Suites = append(doc.Suites, jUnitXMLTestSuite{
			Name:       j.suiteName,
			Time:       jUnitDurationString(0),
			Properties: properties,
		})
	}
	return doc
}

func failureMessage(failures []error) string {
	messages := make([]string, 0, len(failures))
	for _, e := range failures {
		message := e.Error()
		if es, ok := e.(ErrorWithStacktrace); ok {
			message += "\n  Stacktrace:"
			for _, s := range es.Stacktrace {
				message += "\n    " + s.String()
			}
		}
		messages = append(messages, message)
	}
	return strings.Join(messages, "\n")
}

func (j *JUnitTestLogger) topLevelNames() []string {
	var ret []string
	seen := make(map[string]bool)
	for _, s := range j.entries {
		if len(s.id) != 0 && !seen[s.id[0]] {
			ret = append(ret, s.id[0])
			seen[s.id[0]] = true
		}
	}
	return ret
}

func jUnitDurationString(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
