// pkg/checks/pacemaker.go

package checks

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cosan-storage/vsdscsm-inspect/pkg/parse"
	"github.com/cosan-storage/vsdscsm-inspect/pkg/report"
)

const (
	NameMembership         = "集群成员"
	NameResourceStickiness = "resource-stickiness"
	NameBootstrapOptions   = "cib-bootstrap-options"
	NameClusterResources   = "集群资源"
)

// controllerResources must exist for the LINSTOR controller to fail over
var controllerResources = []string{"vip_ctl", "p_fs_linstordb", "p_linstor-controller"}

var (
	startedPattern = regexp.MustCompile(`Started\s(\S+)`)

	// Pacemaker 2.1 renamed Masters to Promoted
	mastersPattern = regexp.MustCompile(`\* (?:Masters|Promoted):\s*\[\s*(.*?)\s*\]`)
)

// ExpectedQuorumPolicy returns the no-quorum-policy a cluster of nodeCount
// nodes must use
func ExpectedQuorumPolicy(nodeCount int) string {
	if nodeCount < 3 {
		return "ignore"
	}
	return "stop"
}

// CheckMembership verifies the online node list equals the configured nodes
func (i *Inspector) CheckMembership() report.CheckOutcome {
	online := i.onlineNodes()

	expected := make(map[string]bool)
	for _, name := range i.cfg.AllHostnames() {
		expected[name] = true
	}
	actual := make(map[string]bool)
	for _, name := range online {
		actual[name] = true
	}

	var problems []string
	for _, name := range sortedKeys(expected) {
		if !actual[name] {
			problems = append(problems, fmt.Sprintf("node %s is not online", name))
		}
	}
	for _, name := range sortedKeys(actual) {
		if !expected[name] {
			problems = append(problems, fmt.Sprintf("online node %s is not in the configuration", name))
		}
	}
	if len(problems) > 0 {
		i.log.Errorf("ERROR - online nodes %v do not match configured nodes %v", online, i.cfg.AllHostnames())
	}
	return report.Verdict(NameMembership, problems)
}

// onlineNodes reads the bracketed node list from the Online: line that
// follows "Node List:" in crm status
func (i *Inspector) onlineNodes() []string {
	out := i.run("crm status | cat").Stdout

	var online []string
	state := parse.MarkerScan{
		IsMarker: func(line string) bool { return strings.HasPrefix(line, "Node List:") },
		Inspect: func(line string) bool {
			if !strings.Contains(line, "Online:") || !strings.Contains(line, "[") {
				return true
			}
			_, rest, _ := strings.Cut(line, "[")
			inner, _, _ := strings.Cut(rest, "]")
			online = strings.Fields(inner)
			return false
		},
	}.Run(parse.Lines(out))

	if state == parse.Seeking {
		i.log.Error("ERROR - Node List not found")
	}
	i.log.Infof("online nodes: %v", online)
	return online
}

// CheckResourceStickiness verifies resources stay where they run
func (i *Inspector) CheckResourceStickiness() report.CheckOutcome {
	out := i.run("crm conf show rsc-options").Stdout
	if strings.Contains(out, "resource-stickiness=1000") {
		return report.Pass(NameResourceStickiness)
	}
	i.log.Error("ERROR - resource-stickiness is not 1000")
	return report.Fail(NameResourceStickiness, "rsc-options does not set resource-stickiness=1000")
}

// CheckBootstrapOptions verifies the cluster-wide properties, including the
// quorum policy expected for the configured node count
func (i *Inspector) CheckBootstrapOptions() report.CheckOutcome {
	out := i.run("crm conf show cib-bootstrap-options").Stdout

	required := []string{
		"have-watchdog=false",
		"cluster-infrastructure=corosync",
		"stonith-enabled=false",
		"no-quorum-policy=" + ExpectedQuorumPolicy(i.cfg.NodeCount()),
	}

	var problems []string
	for _, option := range required {
		if !strings.Contains(out, option) {
			i.log.Errorf("ERROR - %s not set", option)
			problems = append(problems, fmt.Sprintf("cib-bootstrap-options does not set %s", option))
		}
	}
	return report.Verdict(NameBootstrapOptions, problems)
}

// CheckClusterResources verifies the controller resources exist, run on a
// single node and that every promoted node runs them. It returns the
// promoted nodes in the order crm reports them.
func (i *Inspector) CheckClusterResources() (report.CheckOutcome, []string) {
	out := i.run("crm status | cat").Stdout

	var problems []string
	for _, resource := range controllerResources {
		if !strings.Contains(out, resource) {
			problems = append(problems, fmt.Sprintf("resource %s not found", resource))
		}
	}

	var started []string
	for _, m := range startedPattern.FindAllStringSubmatch(out, -1) {
		started = append(started, m[1])
	}

	var masters []string
	if m := mastersPattern.FindStringSubmatch(out); m != nil {
		masters = strings.Fields(m[1])
	} else {
		problems = append(problems, "no Masters/Promoted line in crm status")
	}

	if len(started) == 0 {
		problems = append(problems, "no started resources in crm status")
	}
	for _, node := range started {
		if node != started[0] {
			problems = append(problems, fmt.Sprintf("resources started on different nodes: %s", strings.Join(started, ", ")))
			break
		}
	}

	for _, master := range masters {
		if !contains(started, master) {
			problems = append(problems, fmt.Sprintf("master %s does not run the controller resources", master))
		}
	}

	if len(problems) > 0 {
		i.log.Errorf("ERROR - cluster resources: %s", strings.Join(problems, "; "))
	} else {
		i.log.Infof("controller resources started on %s, masters %v", started[0], masters)
	}
	return report.Verdict(NameClusterResources, problems), masters
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
