// pkg/parse/table.go

package parse

import (
	"regexp"
	"strings"
)

// Table is tabular command output keyed by header names
type Table struct {
	Header []string
	Rows   []map[string]string
}

// multiSpace separates columns of space-aligned output
var multiSpace = regexp.MustCompile(`\s{2,}`)

// boxReplacer maps LINSTOR's unicode column separators to plain pipes
var boxReplacer = strings.NewReplacer("┊", "|", "║", "|", "│", "|")

// Lines splits text into lines with tabs and carriage returns removed
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.NewReplacer("\t", "", "\r", "").Replace(text)
	return strings.Split(text, "\n")
}

// PipeTable parses `| a | b |` style output. The first line holding a pipe is
// the header; later lines become rows when their cell count matches it.
func PipeTable(text string) Table {
	return buildTable(Lines(boxReplacer.Replace(text)), splitPipeLine)
}

// WhitespaceTable parses column output separated by two or more spaces
func WhitespaceTable(text string) Table {
	return buildTable(Lines(text), splitSpacedLine)
}

// PipeRows returns the non-empty cells of every piped line, without a header.
// It suits output that was filtered through grep and lost its header row.
func PipeRows(text string) [][]string {
	var rows [][]string
	for _, line := range Lines(boxReplacer.Replace(text)) {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "|") {
			continue
		}
		var cells []string
		for _, cell := range strings.Split(line, "|") {
			if cell = strings.TrimSpace(cell); cell != "" {
				cells = append(cells, cell)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

func buildTable(lines []string, split func(string) []string) Table {
	var t Table
	for _, line := range lines {
		cells := split(line)
		if len(cells) == 0 {
			continue
		}
		if t.Header == nil {
			t.Header = cells
			continue
		}
		if len(cells) != len(t.Header) {
			continue
		}
		row := make(map[string]string, len(cells))
		for i, name := range t.Header {
			row[name] = cells[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func splitPipeLine(line string) []string {
	line = strings.TrimSpace(line)
	if !strings.Contains(line, "|") {
		return nil
	}
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")

	cells := strings.Split(line, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func splitSpacedLine(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	return multiSpace.Split(line, -1)
}
