// pkg/checks/network.go

package checks

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cosan-storage/vsdscsm-inspect/pkg/parse"
	"github.com/cosan-storage/vsdscsm-inspect/pkg/report"
)

const (
	NameBondSpeed      = "Bond 连接情况"
	NameBondMode       = "Bond"
	NameClusterNetwork = "集群网络"
)

var digits = regexp.MustCompile(`\d+`)

// bondBaseline lists the bonding driver values expected for 802.3ad bonds.
// "802.3ad info" is a section marker and is checked for presence only.
var bondBaseline = []struct {
	key   string
	value string
}{
	{"Transmit Hash Policy", "layer3+4 (1)"},
	{"MII Status", "up"},
	{"MII Polling Interval (ms)", "100"},
	{"Up Delay (ms)", "0"},
	{"Down Delay (ms)", "0"},
	{"Peer Notification Delay (ms)", "0"},
	{"802.3ad info", ""},
	{"LACP rate", "fast"},
	{"Min links", "0"},
}

// firstNumber returns the first run of digits in s, or 0 when there is none
func firstNumber(s string) int {
	n, err := strconv.Atoi(digits.FindString(s))
	if err != nil {
		return 0
	}
	return n
}

// CheckBondSpeed verifies each configured bond negotiated its expected speed
// and has link
func (i *Inspector) CheckBondSpeed() report.CheckOutcome {
	var problems []string
	for _, bond := range i.cfg.Bonds {
		if bond.Name == "" || bond.Speed == "" {
			i.log.Errorf("ERROR - bond %+v has no name or speed", bond)
			problems = append(problems, fmt.Sprintf("bond %q has no configured name or speed", bond.Name))
			continue
		}

		out := i.run("ethtool " + bond.Name).Stdout
		speedLine := ""
		linked := false
		for _, line := range parse.Lines(out) {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "Speed:") {
				speedLine = line
			} else if strings.Contains(line, "Link detected: yes") {
				linked = true
			}
		}

		actual, expected := firstNumber(speedLine), firstNumber(bond.Speed)
		switch {
		case actual != expected:
			i.log.Errorf("ERROR - %s speed %d, expected %d", bond.Name, actual, expected)
			problems = append(problems, fmt.Sprintf("%s: speed %d does not match expected %d", bond.Name, actual, expected))
		case !linked:
			i.log.Errorf("ERROR - %s has no link", bond.Name)
			problems = append(problems, fmt.Sprintf("%s: link not detected", bond.Name))
		default:
			i.log.Infof("%s link is up at %d", bond.Name, actual)
		}
	}
	return report.Verdict(NameBondSpeed, problems)
}

// CheckBondMode verifies the bonding driver parameters of each bond.
// A bond configured with a mode other than 802.3ad only needs that mode to
// show up in the reported "Bonding Mode:" line.
func (i *Inspector) CheckBondMode() report.CheckOutcome {
	var problems []string
	for _, bond := range i.cfg.Bonds {
		out := i.run("cat /proc/net/bonding/" + bond.Name).Stdout

		if bond.Mode != "" && bond.Mode != "802.3ad" {
			modeLine, _ := parse.FirstLineWithPrefix(out, "Bonding Mode:")
			if modeLine != "" && strings.Contains(modeLine, bond.Mode) {
				i.log.Infof("%s runs in configured mode %s", bond.Name, bond.Mode)
				continue
			}
			i.log.Errorf("ERROR - %s is not in mode %s", bond.Name, bond.Mode)
			problems = append(problems, fmt.Sprintf("%s: mode %s not reported, got %q", bond.Name, bond.Mode, modeLine))
			continue
		}

		values := parse.KeyValues(out)
		i.log.Infof("%s bonding parameters: %v", bond.Name, values)
		for _, want := range bondBaseline {
			got, present := values[want.key]
			if want.key == "802.3ad info" {
				if !present {
					i.log.Errorf("ERROR - %s has no 802.3ad info", bond.Name)
					problems = append(problems, fmt.Sprintf("%s: 802.3ad info missing", bond.Name))
				}
				continue
			}
			if got != want.value {
				i.log.Errorf("ERROR - %s %s is %q, expected %q", bond.Name, want.key, got, want.value)
				problems = append(problems, fmt.Sprintf("%s: %s is %q, expected %q", bond.Name, want.key, got, want.value))
			}
		}
	}
	return report.Verdict(NameBondMode, problems)
}

// CheckClusterNetwork pings every peer from the local node, first on the
// cluster addresses and then on the iSCSI addresses. Packet loss is logged
// but does not fail the check.
func (i *Inspector) CheckClusterNetwork() report.CheckOutcome {
	local := i.cfg.LocalNode
	if local.ClusterIP == "" || local.ISCSIIP == "" || len(i.cfg.ClusterNodes) == 0 {
		i.log.Error("ERROR - not enough IP addresses configured")
		return report.Fail(NameClusterNetwork, "local cluster/iSCSI IP or peer nodes missing from configuration")
	}

	var clusterIPs, iscsiIPs []string
	for _, node := range i.cfg.ClusterNodes {
		clusterIPs = append(clusterIPs, node.ClusterIP)
		iscsiIPs = append(iscsiIPs, node.ISCSIIP)
	}

	problems := i.pingAll(local.ClusterIP, clusterIPs)
	problems = append(problems, i.pingAll(local.ISCSIIP, iscsiIPs)...)
	return report.Verdict(NameClusterNetwork, problems)
}

func (i *Inspector) pingAll(local string, peers []string) []string {
	var problems []string
	for _, peer := range peers {
		if peer == "" {
			problems = append(problems, fmt.Sprintf("peer address missing for ping from %s", local))
			continue
		}

		out := i.run(fmt.Sprintf("ping -c 5 -I %s %s", local, peer)).Stdout
		before, _, found := strings.Cut(out, "packet loss")
		if !found {
			i.log.Errorf("ERROR - no packet loss summary pinging %s from %s", peer, local)
			problems = append(problems, fmt.Sprintf("%s ping %s: no reply summary", local, peer))
			continue
		}
		fields := strings.Split(before, ",")
		i.log.Infof("%s ping %s packet loss: %s", local, peer, strings.TrimSpace(fields[len(fields)-1]))
	}
	return problems
}
