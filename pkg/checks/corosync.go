// pkg/checks/corosync.go

package checks

import (
	"strings"

	"github.com/cosan-storage/vsdscsm-inspect/pkg/parse"
	"github.com/cosan-storage/vsdscsm-inspect/pkg/report"
)

const NameCorosyncLinks = "Corosync 链路状态"

// linkHealthy is how corosync-cfgtool reports a usable link once tabs are removed
const linkHealthy = "link enabled:1link connected:1"

// CheckCorosyncLinks verifies every link line after the "status:" marker
// reports the link enabled and connected
func (i *Inspector) CheckCorosyncLinks() report.CheckOutcome {
	out := strings.TrimSpace(i.run("corosync-cfgtool -s").Stdout)

	var broken string
	state := parse.MarkerScan{
		IsMarker: func(line string) bool { return strings.Contains(line, "status:") },
		Inspect: func(line string) bool {
			if strings.Contains(line, linkHealthy) {
				return true
			}
			broken = strings.TrimSpace(line)
			return false
		},
	}.Run(parse.Lines(out))

	switch state {
	case parse.Seeking:
		i.log.Error("ERROR - link status not found")
		return report.Fail(NameCorosyncLinks, "corosync-cfgtool reported no link status")
	case parse.Done:
		i.log.Errorf("ERROR - link not healthy: %s", broken)
		return report.Failf(NameCorosyncLinks, "link not enabled and connected: %s", broken)
	}

	i.log.Info("corosync links are healthy")
	return report.Pass(NameCorosyncLinks)
}
