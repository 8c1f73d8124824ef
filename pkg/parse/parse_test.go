package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linstorNodeList = `+---------------------------------------------------------+
| Node  | NodeType  | Addresses                 | State  |
|=========================================================|
| node1 | COMBINED  | 10.203.1.1:3366 (PLAIN)   | Online |
| node2 | COMBINED  | 10.203.1.2:3366 (PLAIN)   | Online |
| node3 | SATELLITE | 10.203.1.3:3366 (PLAIN)   | OFFLINE |
+---------------------------------------------------------+
`

const kubectlPods = `NAMESPACE           NAME                                   READY   STATUS             RESTARTS      AGE
kube-system         coredns-5d78c9869d-8xq2p               1/1     Running            0             12d
kube-system         etcd-node1                             1/1     Running            3 (2d ago)    12d
kubesphere-system   ks-apiserver-6cd95fb5c4-l9gh8          0/1     CrashLoopBackOff   42            12d
`

const bondingStatus = "Ethernet Channel Bonding Driver: v5.15.0\n\n" +
	"Bonding Mode: IEEE 802.3ad Dynamic link aggregation\n" +
	"Transmit Hash Policy: layer3+4 (1)\n" +
	"MII Status: up\n" +
	"MII Polling Interval (ms): 100\n" +
	"\n" +
	"802.3ad info\n" +
	"LACP active: on\n" +
	"LACP rate: fast\n" +
	"Min links: 0\n" +
	"\tAggregator ID: 1\n"

func TestPipeTable(t *testing.T) {
	table := PipeTable(linstorNodeList)

	assert.Equal(t, []string{"Node", "NodeType", "Addresses", "State"}, table.Header)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "node1", table.Rows[0]["Node"])
	assert.Equal(t, "10.203.1.2:3366 (PLAIN)", table.Rows[1]["Addresses"])
	assert.Equal(t, "OFFLINE", table.Rows[2]["State"])
}

func TestPipeTableRoundTrip(t *testing.T) {
	lines := []string{"| A | B | C |"}
	for i := 0; i < 5; i++ {
		lines = append(lines, "|  a  |b|   c   |")
	}
	lines = append(lines, "| only | two |")

	table := PipeTable(strings.Join(lines, "\n"))

	require.Len(t, table.Rows, 5)
	for _, row := range table.Rows {
		assert.Equal(t, map[string]string{"A": "a", "B": "b", "C": "c"}, row)
	}
}

func TestPipeTableUnicodeBorders(t *testing.T) {
	text := "╭──────────────╮\n┊ Node  ┊ State  ┊\n╞══════════════╡\n┊ node1 ┊ Online ┊\n╰──────────────╯\n"

	table := PipeTable(text)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Online", table.Rows[0]["State"])
}

func TestPipeTableEmpty(t *testing.T) {
	assert.Empty(t, PipeTable("").Rows)
	assert.Empty(t, PipeTable("command not found").Header)
}

func TestPipeRows(t *testing.T) {
	text := "| node1 | linstordb | DfltDisklessStorPool | 0 | 1000 | /dev/drbd1000 | 252 MiB | InUse  | UpToDate |\n" +
		"| node2 | linstordb | pool_ssd | 0 | 1000 | /dev/drbd1000 | 252 MiB | Unused | UpToDate |\n"

	rows := PipeRows(text)

	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 9)
	assert.Equal(t, "InUse", rows[0][7])
	assert.Equal(t, "node2", rows[1][0])
	assert.Empty(t, PipeRows("no pipes here"))
}

func TestWhitespaceTable(t *testing.T) {
	table := WhitespaceTable(kubectlPods)

	assert.Equal(t, []string{"NAMESPACE", "NAME", "READY", "STATUS", "RESTARTS", "AGE"}, table.Header)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "3 (2d ago)", table.Rows[1]["RESTARTS"])
	assert.Equal(t, "CrashLoopBackOff", table.Rows[2]["STATUS"])
}

func TestKeyValues(t *testing.T) {
	values := KeyValues(bondingStatus)

	assert.Equal(t, "layer3+4 (1)", values["Transmit Hash Policy"])
	assert.Equal(t, "100", values["MII Polling Interval (ms)"])
	assert.Equal(t, "fast", values["LACP rate"])
	assert.Equal(t, "1", values["Aggregator ID"])

	info, ok := values["802.3ad info"]
	assert.True(t, ok)
	assert.Empty(t, info)

	_, ok = values[""]
	assert.False(t, ok)
	assert.Empty(t, KeyValues(""))
}

func TestFirstLineWithPrefix(t *testing.T) {
	line, ok := FirstLineWithPrefix(bondingStatus, "Bonding Mode:")
	require.True(t, ok)
	assert.Equal(t, "Bonding Mode: IEEE 802.3ad Dynamic link aggregation", line)

	_, ok = FirstLineWithPrefix("", "Bonding Mode:")
	assert.False(t, ok)
}

func TestMarkerScan(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  ScanState
		seen  []string
	}{
		{
			name:  "no marker",
			lines: []string{"a", "b"},
			want:  Seeking,
		},
		{
			name:  "armed until end",
			lines: []string{"a", "MARK", "b", "c"},
			want:  Armed,
			seen:  []string{"b", "c"},
		},
		{
			name:  "stops on match",
			lines: []string{"MARK", "b", "stop", "c"},
			want:  Done,
			seen:  []string{"b", "stop"},
		},
		{
			name: "empty input",
			want: Seeking,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []string
			scan := MarkerScan{
				IsMarker: func(line string) bool { return line == "MARK" },
				Inspect: func(line string) bool {
					seen = append(seen, line)
					return line != "stop"
				},
			}

			assert.Equal(t, tt.want, scan.Run(tt.lines))
			assert.Equal(t, tt.seen, seen)
		})
	}
}

func TestLinesStripsTabs(t *testing.T) {
	assert.Equal(t, []string{"nodeid 2:link enabled:1link connected:1", ""}, Lines("\tnodeid 2:\tlink enabled:1\tlink connected:1\r\n"))
	assert.Nil(t, Lines(""))
}
