// pkg/checks/linstor.go

package checks

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/cosan-storage/vsdscsm-inspect/pkg/parse"
	"github.com/cosan-storage/vsdscsm-inspect/pkg/report"
)

const (
	NameControllerDatabase = "LINSTOR 数据库资源"
	NameLinstorNodes       = "LINSTOR 节点"
	NameStoragePools       = "LINSTOR 存储池"
	NameAutoEviction       = "auto eviction"
)

const disklessPool = "DfltDisklessStorPool"

// Columns of `linstor r lv` once empty cells are dropped
const (
	volumeNodeColumn  = 0
	volumeInUseColumn = 7
	volumeStateColumn = 8
)

// CheckControllerDatabase verifies the controller database is served by the
// Pacemaker master and replicated UpToDate everywhere
func (i *Inspector) CheckControllerDatabase() report.CheckOutcome {
	resources, masters := i.CheckClusterResources()

	var problems []string
	if !resources.Passed {
		problems = append(problems, resources.Messages...)
	}
	problems = append(problems, i.databaseVolumeProblems(masters)...)
	problems = append(problems, i.databaseReplicationProblems()...)

	return report.Verdict(NameControllerDatabase, problems)
}

func (i *Inspector) databaseVolumeProblems(masters []string) []string {
	rows := parse.PipeRows(i.run("linstor r lv | grep linstordb").Stdout)
	i.log.Infof("linstordb volumes: %v", rows)

	var problems []string
	usable := 0
	for _, row := range rows {
		if len(row) <= volumeStateColumn {
			i.log.Warnf("skipping volume row with %d cells: %v", len(row), row)
			continue
		}
		usable++

		node := row[volumeNodeColumn]
		if row[volumeInUseColumn] == "InUse" {
			switch {
			case len(masters) == 0:
				problems = append(problems, fmt.Sprintf("linstordb is in use on %s but no master is known", node))
			case masters[0] != node:
				problems = append(problems, fmt.Sprintf("linstordb is in use on %s, master is %s", node, masters[0]))
			}
		}
		if !strings.Contains(row[volumeStateColumn], "UpToDate") {
			problems = append(problems, fmt.Sprintf("linstordb volume on %s is %s", node, row[volumeStateColumn]))
		}
	}
	if usable == 0 {
		problems = append(problems, "no linstordb volumes listed")
	}

	for _, p := range problems {
		i.log.Errorf("ERROR - %s", p)
	}
	return problems
}

// databaseReplicationProblems reads disk: and peer-disk: tokens from
// drbdadm status. At least one local disk must be reported.
func (i *Inspector) databaseReplicationProblems() []string {
	out := i.run("drbdadm status linstordb").Stdout

	var problems []string
	diskSeen := false
	for _, line := range parse.Lines(out) {
		for _, field := range strings.Fields(line) {
			key, value, found := strings.Cut(field, ":")
			if !found {
				continue
			}
			switch key {
			case "disk":
				diskSeen = true
				if value != "UpToDate" {
					problems = append(problems, fmt.Sprintf("linstordb disk is %s", value))
				}
			case "peer-disk":
				if value != "UpToDate" {
					problems = append(problems, fmt.Sprintf("linstordb peer disk is %s", value))
				}
			}
		}
	}
	if !diskSeen {
		problems = append(problems, "drbdadm reported no linstordb disk state")
	}

	for _, p := range problems {
		i.log.Errorf("ERROR - %s", p)
	}
	return problems
}

// CheckLinstorNodes verifies every configured node is registered, online and
// reachable on its cluster address
func (i *Inspector) CheckLinstorNodes() report.CheckOutcome {
	table := parse.PipeTable(i.run("linstor n l").Stdout)

	registered := make(map[string]map[string]string, len(table.Rows))
	for _, row := range table.Rows {
		registered[row["Node"]] = row
	}

	var problems []string
	for _, node := range i.cfg.AllNodes() {
		row, ok := registered[node.Hostname]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("node %s is not registered in LINSTOR", node.Hostname))
		case !strings.Contains(row["State"], "Online"):
			problems = append(problems, fmt.Sprintf("node %s is %s", node.Hostname, row["State"]))
		case !strings.Contains(row["Addresses"], node.ClusterIP):
			problems = append(problems, fmt.Sprintf("node %s addresses %q do not include %s", node.Hostname, row["Addresses"], node.ClusterIP))
		default:
			i.log.Infof("node %s is online at %s", node.Hostname, node.ClusterIP)
			continue
		}
		i.log.Errorf("ERROR - %s", problems[len(problems)-1])
	}
	return report.Verdict(NameLinstorNodes, problems)
}

// CheckStoragePools verifies at least one real storage pool is healthy and
// has capacity
func (i *Inspector) CheckStoragePools() report.CheckOutcome {
	table := parse.PipeTable(i.run("linstor sp l").Stdout)

	for _, row := range table.Rows {
		if row["StoragePool"] == disklessPool || !strings.Contains(row["State"], "Ok") {
			continue
		}
		free, total := row["FreeCapacity"], row["TotalCapacity"]
		if free == "" || total == "" || free == "0 TiB" || total == "0 TiB" {
			continue
		}

		entry := i.log.WithField("pool", row["StoragePool"]).WithField("node", row["Node"])
		if freeBytes, err := humanize.ParseBytes(free); err == nil {
			entry = entry.WithField("free_bytes", freeBytes)
		}
		if totalBytes, err := humanize.ParseBytes(total); err == nil {
			entry = entry.WithField("total_bytes", totalBytes)
		}
		entry.Info("usable storage pool found")
		return report.Pass(NameStoragePools)
	}

	i.log.Error("ERROR - no usable storage pool")
	return report.Failf(NameStoragePools, "none of %d storage pools is an Ok pool with capacity", len(table.Rows))
}

// CheckAutoEviction verifies LINSTOR does not evict nodes automatically
func (i *Inspector) CheckAutoEviction() report.CheckOutcome {
	out := strings.ToLower(i.run("linstor controller lp | grep DrbdOptions/AutoEvictAllowEviction").Stdout)

	switch {
	case strings.Contains(out, "false"):
		return report.Pass(NameAutoEviction)
	case strings.Contains(out, "true"):
		i.log.Error("ERROR - auto eviction is allowed")
		return report.Fail(NameAutoEviction, "DrbdOptions/AutoEvictAllowEviction is true")
	}
	i.log.Error("ERROR - auto eviction property not found")
	return report.Fail(NameAutoEviction, "DrbdOptions/AutoEvictAllowEviction is not set")
}
