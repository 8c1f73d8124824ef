// pkg/checks/checks.go

package checks

/*
This file serves as an index to all cluster inspection checks.

Available checks:
- Software (software.go):
  - CheckServicesDisabled - cluster services must not start at boot
  - CheckUnattendedUpgrades - unattended-upgrades must be off
  - CheckAPTPeriodic - APT periodic update settings

- Network (network.go):
  - CheckBondSpeed - negotiated bond speed and link state
  - CheckBondMode - bonding driver parameters
  - CheckClusterNetwork - ping every peer on cluster and iSCSI addresses

- Corosync (corosync.go):
  - CheckCorosyncLinks - every knet link enabled and connected

- Pacemaker (pacemaker.go):
  - CheckMembership - online nodes equal configured nodes
  - CheckResourceStickiness - rsc-options stickiness
  - CheckBootstrapOptions - cib-bootstrap-options and quorum policy
  - CheckClusterResources - controller resources started together

- LINSTOR Controller HA (linstor.go):
  - CheckControllerDatabase - linstordb volumes and replication

- LINSTOR (linstor.go):
  - CheckLinstorNodes - node registration, state and address
  - CheckStoragePools - usable storage pool capacity
  - CheckAutoEviction - auto eviction disabled

- CoSAN Manager (manager.go):
  - CheckManagerPods - management pods running
  - CheckManagerGUI - console answers with its login redirect

groups.go composes the checks into the fixed group order.
*/

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cosan-storage/vsdscsm-inspect/pkg/config"
	"github.com/cosan-storage/vsdscsm-inspect/pkg/utils"
)

// Inspector runs checks against one node using its expected configuration
type Inspector struct {
	exec utils.CommandExecutor
	cfg  *config.ClusterConfig
	log  logrus.FieldLogger
}

// NewInspector creates an inspector. A nil logger discards the trace.
func NewInspector(exec utils.CommandExecutor, cfg *config.ClusterConfig, log logrus.FieldLogger) *Inspector {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Inspector{exec: exec, cfg: cfg, log: log}
}

// Hostname returns the name of the inspected node
func (i *Inspector) Hostname() string {
	return i.exec.GetHostname()
}

// run executes command and writes it and its output to the trace log.
// A failed command is logged but its text is still returned for evaluation.
func (i *Inspector) run(command string) utils.CommandResult {
	result := i.exec.Execute(command)
	entry := i.log.WithField("command", command)
	entry.Infof("command output:\n%s", strings.TrimRight(result.Stdout, "\n"))
	if !result.Succeeded {
		entry.Error("command did not succeed")
	}
	return result
}
