package checks

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosan-storage/vsdscsm-inspect/pkg/config"
	"github.com/cosan-storage/vsdscsm-inspect/pkg/report"
	"github.com/cosan-storage/vsdscsm-inspect/pkg/utils"
)

// testConfig returns node1 as local node with peers node2..node<peers+1>
func testConfig(peers int) *config.ClusterConfig {
	cfg := &config.ClusterConfig{
		LocalNode: config.Node{Hostname: "node1", ClusterIP: "10.0.0.1", ISCSIIP: "10.10.0.1"},
		Bonds:     []config.Bond{{Name: "bond0", Speed: "20000", Mode: "802.3ad"}},
	}
	for n := 2; n <= peers+1; n++ {
		cfg.ClusterNodes = append(cfg.ClusterNodes, config.Node{
			Hostname:  fmt.Sprintf("node%d", n),
			ClusterIP: fmt.Sprintf("10.0.0.%d", n),
			ISCSIIP:   fmt.Sprintf("10.10.0.%d", n),
		})
	}
	return cfg
}

func newTestInspector(cfg *config.ClusterConfig, outputs map[string]string) (*Inspector, *utils.MockExecutor, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	exec := &utils.MockExecutor{Hostname: "node1", Outputs: outputs}
	return NewInspector(exec, cfg, logger), exec, hook
}

func errorMessages(hook *test.Hook) []string {
	var messages []string
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel {
			messages = append(messages, entry.Message)
		}
	}
	return messages
}

func serviceOutputs(state string) map[string]string {
	outputs := make(map[string]string)
	for _, service := range clusterServices {
		outputs["systemctl is-enabled "+service] = state + "\n"
	}
	return outputs
}

func TestCheckServicesDisabled(t *testing.T) {
	ins, exec, _ := newTestInspector(testConfig(2), serviceOutputs("disabled"))

	out := ins.CheckServicesDisabled()
	assert.True(t, out.Passed)
	assert.Equal(t, NameServicesDisabled, out.Name)
	assert.Len(t, exec.Calls, len(clusterServices))

	outputs := serviceOutputs("disabled")
	outputs["systemctl is-enabled pacemaker"] = "enabled\n"
	ins, _, hook := newTestInspector(testConfig(2), outputs)

	out = ins.CheckServicesDisabled()
	assert.False(t, out.Passed)
	assert.Equal(t, []string{`pacemaker is "enabled", expected disabled`}, out.Messages)
	assert.NotEmpty(t, errorMessages(hook))
}

func TestCheckUnattendedUpgrades(t *testing.T) {
	tests := []struct {
		name    string
		enabled string
		active  string
		want    bool
	}{
		{"disabled", "disabled\n", "active\n", true},
		{"enabled and active", "enabled\n", "active\n", false},
		{"non-zero and inactive", utils.FailurePrefix + "command 'systemctl is-enabled unattended-upgrades' returned non-zero exit status 1", "inactive\n", true},
		{"non-zero but active", utils.FailurePrefix + "command 'systemctl is-enabled unattended-upgrades' returned non-zero exit status 1", "active\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, _, _ := newTestInspector(testConfig(2), map[string]string{
				"systemctl is-enabled unattended-upgrades": tt.enabled,
				"systemctl is-active unattended-upgrades":  tt.active,
			})
			assert.Equal(t, tt.want, ins.CheckUnattendedUpgrades().Passed)
		})
	}
}

func TestCheckAPTPeriodic(t *testing.T) {
	const (
		listsCmd   = "apt-config dump APT::Periodic::Update-Package-Lists"
		upgradeCmd = "apt-config dump APT::Periodic::Unattended-Upgrade"
	)

	tests := []struct {
		name    string
		lists   string
		upgrade string
		want    bool
	}{
		{"both zero", `APT::Periodic::Update-Package-Lists "0";`, `APT::Periodic::Unattended-Upgrade "0";`, true},
		{"one zero", `APT::Periodic::Update-Package-Lists "1";`, `APT::Periodic::Unattended-Upgrade "0";`, true},
		{"neither zero", `APT::Periodic::Update-Package-Lists "1";`, `APT::Periodic::Unattended-Upgrade "1";`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, _, _ := newTestInspector(testConfig(2), map[string]string{
				listsCmd:   tt.lists + "\n",
				upgradeCmd: tt.upgrade + "\n",
			})
			assert.Equal(t, tt.want, ins.CheckAPTPeriodic().Passed)
		})
	}
}

const ethtoolBond0 = `Settings for bond0:
	Supported ports: [  ]
	Supported link modes:   Not reported
	Speed: 20000Mb/s
	Duplex: Full
	Auto-negotiation: off
	Port: Other
	Link detected: yes
`

func TestCheckBondSpeed(t *testing.T) {
	tests := []struct {
		name   string
		bond   config.Bond
		output string
		want   bool
	}{
		{"matching speed with link", config.Bond{Name: "bond0", Speed: "20000"}, ethtoolBond0, true},
		{"speed with unit in config", config.Bond{Name: "bond0", Speed: "20000Mb/s"}, ethtoolBond0, true},
		{"mismatching speed", config.Bond{Name: "bond0", Speed: "10000"}, ethtoolBond0, false},
		{"no link", config.Bond{Name: "bond0", Speed: "20000"}, strings.Replace(ethtoolBond0, "Link detected: yes", "Link detected: no", 1), false},
		{"unknown speed", config.Bond{Name: "bond0", Speed: "20000"}, strings.Replace(ethtoolBond0, "20000Mb/s", "Unknown!", 1), false},
		{"missing speed in config", config.Bond{Name: "bond0"}, ethtoolBond0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(2)
			cfg.Bonds = []config.Bond{tt.bond}
			ins, _, _ := newTestInspector(cfg, map[string]string{"ethtool bond0": tt.output})

			out := ins.CheckBondSpeed()
			assert.Equal(t, tt.want, out.Passed)
			assert.Equal(t, NameBondSpeed, out.Name)
		})
	}
}

const bondingBond0 = `Ethernet Channel Bonding Driver: v5.15.0-91-generic

Bonding Mode: IEEE 802.3ad Dynamic link aggregation
Transmit Hash Policy: layer3+4 (1)
MII Status: up
MII Polling Interval (ms): 100
Up Delay (ms): 0
Down Delay (ms): 0
Peer Notification Delay (ms): 0

802.3ad info
LACP active: on
LACP rate: fast
Min links: 0
Aggregator selection policy (ad_select): stable
`

func TestCheckBondMode(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		output string
		want   bool
	}{
		{"802.3ad baseline", "802.3ad", bondingBond0, true},
		{"unset mode uses baseline", "", bondingBond0, true},
		{"MII down", "802.3ad", strings.Replace(bondingBond0, "MII Status: up", "MII Status: down", 1), false},
		{"slow LACP", "802.3ad", strings.Replace(bondingBond0, "LACP rate: fast", "LACP rate: slow", 1), false},
		{"no 802.3ad section", "802.3ad", strings.Replace(bondingBond0, "802.3ad info\n", "", 1), false},
		{"configured active-backup", "active-backup", "Bonding Mode: fault-tolerance (active-backup)\nMII Status: down\n", true},
		{"configured mode not reported", "active-backup", bondingBond0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(2)
			cfg.Bonds = []config.Bond{{Name: "bond0", Speed: "20000", Mode: tt.mode}}
			ins, _, _ := newTestInspector(cfg, map[string]string{"cat /proc/net/bonding/bond0": tt.output})

			assert.Equal(t, tt.want, ins.CheckBondMode().Passed)
		})
	}
}

func TestCheckBondModeContinuesAfterAcceptedBond(t *testing.T) {
	cfg := testConfig(2)
	cfg.Bonds = []config.Bond{
		{Name: "bond0", Speed: "1000", Mode: "active-backup"},
		{Name: "bond1", Speed: "20000", Mode: "802.3ad"},
	}
	ins, exec, _ := newTestInspector(cfg, map[string]string{
		"cat /proc/net/bonding/bond0": "Bonding Mode: fault-tolerance (active-backup)\n",
		"cat /proc/net/bonding/bond1": strings.Replace(bondingBond0, "Min links: 0", "Min links: 1", 1),
	})

	out := ins.CheckBondMode()
	assert.False(t, out.Passed)
	assert.True(t, exec.Ran("cat /proc/net/bonding/bond1"))
	assert.Equal(t, []string{`bond1: Min links is "1", expected "0"`}, out.Messages)
}

const pingReply = `PING 10.0.0.2 (10.0.0.2) from 10.0.0.1 : 56(84) bytes of data.
64 bytes from 10.0.0.2: icmp_seq=1 ttl=64 time=0.211 ms

--- 10.0.0.2 ping statistics ---
5 packets transmitted, 5 received, 0% packet loss, time 4085ms
rtt min/avg/max/mdev = 0.164/0.197/0.232/0.024 ms
`

func pingOutputs(cfg *config.ClusterConfig) map[string]string {
	outputs := make(map[string]string)
	for _, node := range cfg.ClusterNodes {
		outputs[fmt.Sprintf("ping -c 5 -I %s %s", cfg.LocalNode.ClusterIP, node.ClusterIP)] = pingReply
		outputs[fmt.Sprintf("ping -c 5 -I %s %s", cfg.LocalNode.ISCSIIP, node.ISCSIIP)] = pingReply
	}
	return outputs
}

func TestCheckClusterNetwork(t *testing.T) {
	cfg := testConfig(2)
	ins, exec, hook := newTestInspector(cfg, pingOutputs(cfg))

	out := ins.CheckClusterNetwork()
	assert.True(t, out.Passed)
	assert.Len(t, exec.Calls, 4)

	var lossLogged bool
	for _, entry := range hook.AllEntries() {
		if strings.Contains(entry.Message, "packet loss: 0%") {
			lossLogged = true
		}
	}
	assert.True(t, lossLogged)
}

func TestCheckClusterNetworkUnreachablePeer(t *testing.T) {
	cfg := testConfig(2)
	outputs := pingOutputs(cfg)
	delete(outputs, "ping -c 5 -I 10.0.0.1 10.0.0.3")
	ins, exec, _ := newTestInspector(cfg, outputs)

	out := ins.CheckClusterNetwork()
	assert.False(t, out.Passed)
	assert.Equal(t, []string{"10.0.0.1 ping 10.0.0.3: no reply summary"}, out.Messages)
	assert.True(t, exec.Ran("ping -c 5 -I 10.10.0.1 10.10.0.3"), "iSCSI addresses are pinged after a cluster address failure")
}

func TestCheckClusterNetworkMissingAddresses(t *testing.T) {
	cfg := testConfig(2)
	cfg.LocalNode.ISCSIIP = ""
	ins, exec, _ := newTestInspector(cfg, pingOutputs(testConfig(2)))

	assert.False(t, ins.CheckClusterNetwork().Passed)
	assert.Empty(t, exec.Calls)
}

const corosyncStatus = `Printing link status.
Local node ID 1
LINK ID 0
	addr	= 10.0.0.1
	status:
		nodeid	  1:	link enabled:1	link connected:1
		nodeid	  2:	link enabled:1	link connected:1
		nodeid	  3:	link enabled:1	link connected:1
`

func TestCheckCorosyncLinks(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{"all links connected", corosyncStatus, true},
		{"one link down", strings.Replace(corosyncStatus, "nodeid\t  3:\tlink enabled:1\tlink connected:1", "nodeid\t  3:\tlink enabled:1\tlink connected:0", 1), false},
		{"no status block", "Printing link status.\nLocal node ID 1\n", false},
		{"command failed", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, _, _ := newTestInspector(testConfig(2), map[string]string{"corosync-cfgtool -s": tt.output})
			out := ins.CheckCorosyncLinks()
			assert.Equal(t, tt.want, out.Passed)
			if !tt.want {
				assert.NotEmpty(t, out.Messages)
			}
		})
	}
}

func TestGroupsOrder(t *testing.T) {
	ins, _, _ := newTestInspector(testConfig(2), nil)

	var names []string
	for _, g := range ins.Groups() {
		names = append(names, g.Name)
	}
	assert.Equal(t, GroupNames, names)
}

func TestManagerGroupMembership(t *testing.T) {
	cfg := testConfig(2)
	ins, _, _ := newTestInspector(cfg, nil)
	groups := ins.Groups()
	assert.Len(t, groups[len(groups)-1].Checks, 1)

	enabled := true
	cfg.ManagerController = &enabled
	groups = ins.Groups()
	assert.Len(t, groups[len(groups)-1].Checks, 2)
}

func TestGroupRunDoesNotShortCircuit(t *testing.T) {
	calls := 0
	g := Group{
		Name:  "network",
		Title: "网络",
		Checks: []func() report.CheckOutcome{
			func() report.CheckOutcome { calls++; return report.Fail("a", "first failed") },
			func() report.CheckOutcome { calls++; return report.Pass("b") },
			func() report.CheckOutcome { calls++; return report.Fail("c") },
		},
	}

	out := g.Run()
	require.Equal(t, 3, calls)
	assert.False(t, out.Passed)
	assert.Equal(t, []string{
		"检查网络时，a 检查结果异常",
		"  - first failed",
		"检查网络时，c 检查结果异常",
	}, out.Messages)
}

func TestFailedCommandIsLogged(t *testing.T) {
	ins, _, hook := newTestInspector(testConfig(2), nil)

	out := ins.CheckResourceStickiness()
	assert.False(t, out.Passed)
	assert.Contains(t, errorMessages(hook), "command did not succeed")
}
