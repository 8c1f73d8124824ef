// pkg/inspect/orchestrator.go

package inspect

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cosan-storage/vsdscsm-inspect/pkg/checks"
	"github.com/cosan-storage/vsdscsm-inspect/pkg/report"
)

// ErrInspectionFailed is returned when at least one group did not pass
var ErrInspectionFailed = errors.New("inspection found problems")

// State is the lifecycle position of an Orchestrator
type State int

const (
	Running State = iota
	Complete
)

func (s State) String() string {
	if s == Complete {
		return "complete"
	}
	return "running"
}

// Selection narrows the groups to run. Include wins over Skip.
type Selection struct {
	Include []string
	Skip    []string
}

// Enabled reports whether the named group should run
func (s Selection) Enabled(group string) bool {
	// If include list is specified, only run groups in that list
	if len(s.Include) > 0 {
		return contains(s.Include, group)
	}

	// Otherwise, run all groups except those in skip list
	return !contains(s.Skip, group)
}

// Validate rejects group names that do not exist
func (s Selection) Validate() error {
	var unknown []string
	for _, name := range append(append([]string{}, s.Include...), s.Skip...) {
		if !contains(checks.GroupNames, name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown group(s) %s, valid groups are %s",
			strings.Join(unknown, ", "), strings.Join(checks.GroupNames, ", "))
	}
	return nil
}

// Orchestrator runs the check groups of one node in their fixed order and
// folds the outcomes into a report. Every selected group runs, whatever the
// verdict of the groups before it.
type Orchestrator struct {
	Inspector *checks.Inspector
	Logger    logrus.FieldLogger

	// Progress, when set, is called after each group completes
	Progress func(outcome report.GroupOutcome)

	state State
}

// NewOrchestrator creates an orchestrator for the given inspector
func NewOrchestrator(inspector *checks.Inspector, logger logrus.FieldLogger) *Orchestrator {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Orchestrator{Inspector: inspector, Logger: logger}
}

// SelectedGroups returns the groups enabled by sel in execution order
func (o *Orchestrator) SelectedGroups(sel Selection) []checks.Group {
	var groups []checks.Group
	for _, group := range o.Inspector.Groups() {
		if sel.Enabled(group.Name) {
			groups = append(groups, group)
		}
	}
	return groups
}

// Run executes every selected group and returns the finished report
func (o *Orchestrator) Run(sel Selection) report.InspectionReport {
	startedAt := time.Now()
	o.state = Running

	var outcomes []report.GroupOutcome
	var skipped []string
	for _, group := range o.Inspector.Groups() {
		if !sel.Enabled(group.Name) {
			skipped = append(skipped, group.Title)
			continue
		}

		log := o.Logger.WithField("group", group.Name)
		log.Infof("———— 检查 %s ————", group.Title)

		outcome := group.Run()
		if outcome.Passed {
			log.Info("group passed")
		} else {
			log.Errorf("ERROR - group failed: %s", strings.Join(outcome.Messages, " | "))
		}

		outcomes = append(outcomes, outcome)
		if o.Progress != nil {
			o.Progress(outcome)
		}
	}

	o.state = Complete
	r := report.NewInspectionReport(o.Inspector.Hostname(), startedAt, outcomes)
	r.Skipped = skipped
	return r
}

// State returns where the orchestrator is in its lifecycle
func (o *Orchestrator) State() State {
	return o.state
}

// Verdict maps a report to the error driving the exit code
func Verdict(r report.InspectionReport) error {
	if r.OverallPassed {
		return nil
	}
	return ErrInspectionFailed
}

// contains checks if a string is present in a slice of strings
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
