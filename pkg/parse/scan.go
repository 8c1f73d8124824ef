// pkg/parse/scan.go

package parse

// ScanState is the position of a MarkerScan in its input
type ScanState int

const (
	// Seeking means the marker line has not been seen yet
	Seeking ScanState = iota

	// Armed means the marker was seen and following lines are being inspected
	Armed

	// Done means Inspect asked to stop
	Done
)

func (s ScanState) String() string {
	switch s {
	case Seeking:
		return "seeking"
	case Armed:
		return "armed"
	case Done:
		return "done"
	}
	return "unknown"
}

// MarkerScan makes a single forward pass over lines. Once a line satisfies
// IsMarker the scan is armed and every following line goes to Inspect until
// Inspect returns false.
type MarkerScan struct {
	IsMarker func(line string) bool
	Inspect  func(line string) (more bool)
}

// Run consumes lines and returns the state the scan ended in
func (m MarkerScan) Run(lines []string) ScanState {
	state := Seeking
	for _, line := range lines {
		switch state {
		case Seeking:
			if m.IsMarker(line) {
				state = Armed
			}
		case Armed:
			if !m.Inspect(line) {
				return Done
			}
		}
	}
	return state
}
