// pkg/checks/software.go

package checks

import (
	"fmt"
	"strings"

	"github.com/cosan-storage/vsdscsm-inspect/pkg/report"
)

const (
	NameServicesDisabled   = "服务禁用"
	NameUnattendedUpgrades = "无人值守升级"
	NameAPTPeriodic        = "APT 周期任务"
)

// clusterServices are started by Pacemaker, never by systemd at boot
var clusterServices = []string{
	"drbd",
	"linstor-controller",
	"rtslib-fb-targetctl",
	"linstor-satellite",
	"pacemaker",
	"corosync",
}

// CheckServicesDisabled verifies every cluster service is disabled in systemd
func (i *Inspector) CheckServicesDisabled() report.CheckOutcome {
	var problems []string
	for _, service := range clusterServices {
		state := strings.TrimSpace(i.run("systemctl is-enabled " + service).Stdout)
		if state == "disabled" {
			i.log.Infof("%s is disabled", service)
			continue
		}
		i.log.Errorf("ERROR - %s is not disabled: %s", service, state)
		problems = append(problems, fmt.Sprintf("%s is %q, expected disabled", service, state))
	}
	return report.Verdict(NameServicesDisabled, problems)
}

// CheckUnattendedUpgrades verifies the unattended-upgrades unit is off.
// The condition is "disabled" in the enabled state, or "non-zero" in the
// enabled state together with "inactive" in the active state.
func (i *Inspector) CheckUnattendedUpgrades() report.CheckOutcome {
	enabled := i.run("systemctl is-enabled unattended-upgrades").Stdout
	active := i.run("systemctl is-active unattended-upgrades").Stdout

	if strings.Contains(enabled, "disabled") ||
		strings.Contains(enabled, "non-zero") && strings.Contains(active, "inactive") {
		return report.Pass(NameUnattendedUpgrades)
	}

	i.log.Error("ERROR - unattended-upgrades is still enabled")
	return report.Failf(NameUnattendedUpgrades, "unattended-upgrades is-enabled %q, is-active %q",
		strings.TrimSpace(enabled), strings.TrimSpace(active))
}

// CheckAPTPeriodic inspects the APT periodic settings. It fails only when
// neither dumped setting contains a 0.
// TODO: confirm with operations whether both settings must be "0" and tighten this.
func (i *Inspector) CheckAPTPeriodic() report.CheckOutcome {
	lists := i.run("apt-config dump APT::Periodic::Update-Package-Lists").Stdout
	upgrade := i.run("apt-config dump APT::Periodic::Unattended-Upgrade").Stdout
	i.log.Infof("Update-Package-Lists: %s", strings.TrimSpace(lists))
	i.log.Infof("Unattended-Upgrade: %s", strings.TrimSpace(upgrade))

	if !strings.Contains(lists, "0") && !strings.Contains(upgrade, "0") {
		i.log.Error("ERROR - APT periodic updates are enabled")
		return report.Failf(NameAPTPeriodic, "APT::Periodic settings %q and %q are not 0",
			strings.TrimSpace(lists), strings.TrimSpace(upgrade))
	}
	return report.Pass(NameAPTPeriodic)
}
