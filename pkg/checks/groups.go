// pkg/checks/groups.go

package checks

import (
	"github.com/cosan-storage/vsdscsm-inspect/pkg/report"
)

// Group names accepted by --include and --skip
const (
	GroupSoftware     = "software"
	GroupNetwork      = "network"
	GroupCorosync     = "corosync"
	GroupPacemaker    = "pacemaker"
	GroupControllerHA = "controller-ha"
	GroupLinstor      = "linstor"
	GroupManager      = "manager"
)

// GroupNames lists every group in execution order
var GroupNames = []string{
	GroupSoftware,
	GroupNetwork,
	GroupCorosync,
	GroupPacemaker,
	GroupControllerHA,
	GroupLinstor,
	GroupManager,
}

// Group is a named set of checks sharing one verdict
type Group struct {
	Name   string
	Title  string
	Checks []func() report.CheckOutcome
}

// Run executes every check of the group, never stopping early
func (g Group) Run() report.GroupOutcome {
	outcomes := make([]report.CheckOutcome, 0, len(g.Checks))
	for _, check := range g.Checks {
		outcomes = append(outcomes, check())
	}
	return report.NewGroupOutcome(g.Name, g.Title, outcomes)
}

// Groups returns the inspection groups in their fixed order
func (i *Inspector) Groups() []Group {
	managerChecks := []func() report.CheckOutcome{}
	if i.cfg.IsManagerController() {
		managerChecks = append(managerChecks, i.CheckManagerPods)
	}
	managerChecks = append(managerChecks, i.CheckManagerGUI)

	return []Group{
		{
			Name:   GroupSoftware,
			Title:  "软件",
			Checks: []func() report.CheckOutcome{i.CheckServicesDisabled, i.CheckUnattendedUpgrades, i.CheckAPTPeriodic},
		},
		{
			Name:   GroupNetwork,
			Title:  "网络",
			Checks: []func() report.CheckOutcome{i.CheckBondSpeed, i.CheckBondMode, i.CheckClusterNetwork},
		},
		{
			Name:   GroupCorosync,
			Title:  "Corosync",
			Checks: []func() report.CheckOutcome{i.CheckCorosyncLinks},
		},
		{
			Name:   GroupPacemaker,
			Title:  "pacemaker 集群",
			Checks: []func() report.CheckOutcome{i.CheckMembership, i.CheckResourceStickiness, i.CheckBootstrapOptions},
		},
		{
			Name:   GroupControllerHA,
			Title:  "LINSTOR Controller HA",
			Checks: []func() report.CheckOutcome{i.CheckControllerDatabase},
		},
		{
			Name:   GroupLinstor,
			Title:  "LINSTOR",
			Checks: []func() report.CheckOutcome{i.CheckLinstorNodes, i.CheckStoragePools, i.CheckAutoEviction},
		},
		{
			Name:   GroupManager,
			Title:  "CoSAN Manager",
			Checks: managerChecks,
		},
	}
}
