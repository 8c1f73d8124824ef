// pkg/report/outcome.go

package report

import (
	"fmt"
	"time"
)

// CheckOutcome is the verdict of one check function
type CheckOutcome struct {
	// Name is the human-readable name of the inspected property
	Name string `json:"name"`

	// Passed is true when the property matches the expected baseline
	Passed bool `json:"passed"`

	// Messages are the diagnostics collected while checking
	Messages []string `json:"messages,omitempty"`
}

// Pass creates a passing outcome
func Pass(name string, messages ...string) CheckOutcome {
	return CheckOutcome{Name: name, Passed: true, Messages: messages}
}

// Fail creates a failing outcome
func Fail(name string, messages ...string) CheckOutcome {
	return CheckOutcome{Name: name, Passed: false, Messages: messages}
}

// Failf creates a failing outcome with one formatted message
func Failf(name, format string, args ...interface{}) CheckOutcome {
	return Fail(name, fmt.Sprintf(format, args...))
}

// Verdict creates an outcome that passes only when no problems were found.
// Problems become the messages of the outcome.
func Verdict(name string, problems []string) CheckOutcome {
	if len(problems) == 0 {
		return Pass(name)
	}
	return Fail(name, problems...)
}

// GroupOutcome is the verdict of one check group
type GroupOutcome struct {
	// Name is the stable identifier used by --include/--skip
	Name string `json:"name"`

	// Title is the label printed in the console header
	Title string `json:"title"`

	// Passed is the AND of every member check
	Passed bool `json:"passed"`

	// Messages lists the failing checks followed by their diagnostics
	Messages []string `json:"messages,omitempty"`

	// Checks are the member outcomes in execution order
	Checks []CheckOutcome `json:"checks"`
}

// NewGroupOutcome folds member outcomes into a group verdict
func NewGroupOutcome(name, title string, checks []CheckOutcome) GroupOutcome {
	group := GroupOutcome{Name: name, Title: title, Passed: true, Checks: checks}
	for _, check := range checks {
		if check.Passed {
			continue
		}
		group.Passed = false
		group.Messages = append(group.Messages, fmt.Sprintf("检查%s时，%s 检查结果异常", title, check.Name))
		for _, msg := range check.Messages {
			group.Messages = append(group.Messages, "  - "+msg)
		}
	}
	return group
}

// InspectionReport is the result of a complete inspection run
type InspectionReport struct {
	Hostname      string         `json:"hostname"`
	StartedAt     time.Time      `json:"startedAt"`
	FinishedAt    time.Time      `json:"finishedAt"`
	Groups        []GroupOutcome `json:"groups"`
	OverallPassed bool           `json:"overallPassed"`
	LogName       string         `json:"logName,omitempty"`

	// Skipped holds the titles of groups left out by the selection
	Skipped []string `json:"skipped,omitempty"`
}

// NewInspectionReport folds group outcomes in execution order
func NewInspectionReport(hostname string, startedAt time.Time, groups []GroupOutcome) InspectionReport {
	r := InspectionReport{
		Hostname:      hostname,
		StartedAt:     startedAt,
		FinishedAt:    time.Now(),
		Groups:        groups,
		OverallPassed: true,
	}
	for _, g := range groups {
		r.OverallPassed = r.OverallPassed && g.Passed
	}
	return r
}

// Failures returns the flat list of failure messages across all groups
func (r InspectionReport) Failures() []string {
	var failures []string
	for _, g := range r.Groups {
		failures = append(failures, g.Messages...)
	}
	return failures
}

// Duration is the wall time of the run
func (r InspectionReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
