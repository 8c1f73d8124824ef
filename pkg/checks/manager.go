// pkg/checks/manager.go

package checks

import (
	"fmt"
	"strings"

	"github.com/cosan-storage/vsdscsm-inspect/pkg/parse"
	"github.com/cosan-storage/vsdscsm-inspect/pkg/report"
)

const (
	NameManagerPods = "pod 状态"
	NameManagerGUI  = "GUI"
)

// GUIRedirectMarker is the body the console returns to anonymous requests
const GUIRedirectMarker = `Redirecting to <a href="/login">/login</a>.`

// managerPods are name fragments of the pods a CoSAN Manager controller runs
var managerPods = []string{
	"kube-flannel", "coredns", "etcd", "kube-apiserver", "kube-controller-manager",
	"kube-proxy", "kube-scheduler", "linstor-csi-controller-0", "linstor-csi-node",
	"openebs-localpv-provisioner", "snapshot-controller-0", "default-http-backend",
	"kubectl", "alertmanager-main-0", "kube-state-metrics", "node-exporter",
	"notification-manager-deployment", "notification-manager-operator", "prometheus-k8s-0",
	"prometheus-operator", "thanos-ruler-kubesphere-0", "ks-apiserver", "ks-console",
	"ks-controller-manager", "ks-installer",
}

// CheckManagerPods verifies every management pod is Running. Only nodes
// configured as manager controller can pass.
func (i *Inspector) CheckManagerPods() report.CheckOutcome {
	if !i.cfg.IsManagerController() {
		return report.Fail(NameManagerPods, "node is not configured as CoSAN Manager controller")
	}

	table := parse.WhitespaceTable(i.run("kubectl get pod -A").Stdout)
	if len(table.Rows) == 0 {
		i.log.Error("ERROR - kubectl listed no pods")
		return report.Fail(NameManagerPods, "kubectl listed no pods")
	}

	var problems []string
	for _, row := range table.Rows {
		name := row["NAME"]
		if !isManagerPod(name) || row["STATUS"] == "Running" {
			continue
		}
		i.log.Errorf("Pod NAME: %s status: %s", name, row["STATUS"])
		problems = append(problems, fmt.Sprintf("pod %s is %s", name, row["STATUS"]))
	}
	return report.Verdict(NameManagerPods, problems)
}

func isManagerPod(name string) bool {
	for _, fragment := range managerPods {
		if strings.Contains(name, fragment) {
			return true
		}
	}
	return false
}

// CheckManagerGUI verifies the console answers with its login redirect
func (i *Inspector) CheckManagerGUI() report.CheckOutcome {
	ip := strings.TrimSpace(i.cfg.ManagerConsoleIP)
	if ip == "" {
		return report.Fail(NameManagerGUI, "CoSAN Manager console IP is not configured")
	}

	out := i.run("curl " + ip).Stdout
	if strings.Contains(out, GUIRedirectMarker) {
		return report.Pass(NameManagerGUI)
	}
	i.log.Error("ERROR - GUI check failed")
	return report.Failf(NameManagerGUI, "console %s did not redirect to /login", ip)
}
