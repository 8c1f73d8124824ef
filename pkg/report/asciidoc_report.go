// pkg/report/asciidoc_report.go

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ResultKey represents the level of importance for a result in a report summary
type ResultKey string

const (
	// ResultKeyNoChange indicates no changes are needed
	ResultKeyNoChange ResultKey = "nochange"

	// ResultKeyRequired indicates changes are required
	ResultKeyRequired ResultKey = "required"

	// ResultKeyNotApplicable marks a group left out by --include or --skip
	ResultKeyNotApplicable ResultKey = "na"
)

// AsciiDocReport writes an InspectionReport as an AsciiDoc document
type AsciiDocReport struct {
	// OutputPath is where the report will be saved
	OutputPath string

	// Title is the title of the report
	Title string
}

// NewAsciiDocReport creates a new AsciiDoc report
func NewAsciiDocReport(outputPath string) *AsciiDocReport {
	return &AsciiDocReport{
		OutputPath: outputPath,
		Title:      "CoSAN Storage Cluster Inspection Report",
	}
}

// Generate renders the inspection and writes it to the output path
func (r *AsciiDocReport) Generate(ins InspectionReport) (string, error) {
	// Create the output directory if it doesn't exist
	outputDir := filepath.Dir(r.OutputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	content := r.generateReportContent(ins)

	if err := os.WriteFile(r.OutputPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return r.OutputPath, nil
}

// generateReportContent creates the full report content
func (r *AsciiDocReport) generateReportContent(ins InspectionReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("= %s\n\n", r.Title))
	sb.WriteString(fmt.Sprintf("Hostname: %s\n\n", ins.Hostname))
	sb.WriteString(fmt.Sprintf("Started: %s +\n", ins.StartedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Duration: %s\n\n", ins.Duration().Round(time.Millisecond)))
	if ins.LogName != "" {
		sb.WriteString(fmt.Sprintf("Trace log: %s\n\n", ins.LogName))
	}

	sb.WriteString(r.generateKeySection())
	sb.WriteString(r.generateSummarySection(ins))

	for _, group := range ins.Groups {
		sb.WriteString(r.generateGroupSection(group))
	}

	// Reset bgcolor for future tables
	sb.WriteString("// Reset bgcolor for future tables\n[grid=none,frame=none]\n|===\n|{set:cellbgcolor!}\n|===\n\n")

	return sb.String()
}

// generateKeySection creates the color-coded key section
func (r *AsciiDocReport) generateKeySection() string {
	var sb strings.Builder

	sb.WriteString("= Key\n\n")
	sb.WriteString("[cols=\"1,3\", options=header]\n|===\n|Value\n|Description\n\n")

	sb.WriteString("|\n{set:cellbgcolor:#FF0000}\nChanges Required\n|\n{set:cellbgcolor!}\n")
	sb.WriteString("The inspected property does not match the expected cluster baseline.\n\n")

	sb.WriteString("|\n{set:cellbgcolor:#00FF00}\nNo Change\n|\n{set:cellbgcolor!}\n")
	sb.WriteString("The inspected property matches the expected cluster baseline.\n\n")

	sb.WriteString("|\n{set:cellbgcolor:#A6B9BF}\nNot Applicable\n|\n{set:cellbgcolor!}\n")
	sb.WriteString("The subsystem was not selected for this run.\n|===\n\n")

	return sb.String()
}

// generateSummarySection lists every group with its verdict
func (r *AsciiDocReport) generateSummarySection(ins InspectionReport) string {
	var sb strings.Builder

	sb.WriteString("= Summary\n\n")
	overall := "PASSED"
	if !ins.OverallPassed {
		overall = "FAILED"
	}
	sb.WriteString(fmt.Sprintf("Overall result: *%s*\n\n", overall))
	sb.WriteString("[cols=\"2,1,3\", options=header]\n|===\n|*Subsystem*\n|*Checks*\n|*Recommendation*\n\n")

	for _, group := range ins.Groups {
		sb.WriteString("a|\n<<" + group.Title + ">>\n\n")
		sb.WriteString(fmt.Sprintf("| %d/%d passed\n\n", countPassed(group.Checks), len(group.Checks)))
		sb.WriteString(getResultFormatting(resultKeyFor(group.Passed)) + "\n\n")
	}
	for _, title := range ins.Skipped {
		sb.WriteString("| " + title + "\n\n")
		sb.WriteString("| skipped\n\n")
		sb.WriteString(getResultFormatting(ResultKeyNotApplicable) + "\n\n")
	}

	sb.WriteString("|===\n\n")
	sb.WriteString("<<<\n\n")
	sb.WriteString("{set:cellbgcolor!}\n\n")

	return sb.String()
}

// generateGroupSection creates a section for one check group
func (r *AsciiDocReport) generateGroupSection(group GroupOutcome) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[[%s]]\n# %s\n\n", group.Title, group.Title))

	sb.WriteString("[cols=\"2,3\", options=header]\n|===\n|*Item Evaluated*\n|*Recommendation*\n\n")
	for _, check := range group.Checks {
		sb.WriteString("| " + check.Name + "\n\n")
		sb.WriteString(getResultFormatting(resultKeyFor(check.Passed)) + "\n\n")
	}
	sb.WriteString("|===\n\n")

	for _, check := range group.Checks {
		sb.WriteString(r.formatCheckDetail(check))
	}

	sb.WriteString("<<<\n\n")
	sb.WriteString("{set:cellbgcolor!}\n\n")

	return sb.String()
}

// formatCheckDetail formats detailed information about a check
func (r *AsciiDocReport) formatCheckDetail(check CheckOutcome) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s\n\n", check.Name))
	sb.WriteString(getStatusTable(resultKeyFor(check.Passed)) + "\n\n")

	sb.WriteString("**Observation**\n\n")
	if len(check.Messages) == 0 {
		if check.Passed {
			sb.WriteString("Matches the expected baseline.\n\n")
		} else {
			sb.WriteString("Does not match the expected baseline.\n\n")
		}
	} else {
		sb.WriteString(formatAsCodeBlock(strings.Join(check.Messages, "\n"), "text"))
	}

	return sb.String()
}

func resultKeyFor(passed bool) ResultKey {
	if passed {
		return ResultKeyNoChange
	}
	return ResultKeyRequired
}

func countPassed(checks []CheckOutcome) int {
	n := 0
	for _, c := range checks {
		if c.Passed {
			n++
		}
	}
	return n
}

// getResultFormatting returns formatted AsciiDoc for a result key (used in tables)
func getResultFormatting(resultKey ResultKey) string {
	options := map[ResultKey]string{
		ResultKeyRequired: `|
{set:cellbgcolor:#FF0000}
Changes Required`,
		ResultKeyNoChange: `|
{set:cellbgcolor:#00FF00}
No Change`,
		ResultKeyNotApplicable: `|
{set:cellbgcolor:#A6B9BF}
Not Applicable`,
	}

	result, ok := options[resultKey]
	if !ok {
		return options[ResultKeyNotApplicable]
	}
	return result
}

// getStatusTable returns a colored status table for a result key (used in detailed sections)
func getStatusTable(resultKey ResultKey) string {
	return "[cols=\"^\"] \n|===\n" + getResultFormatting(resultKey) + "\n|==="
}

// formatAsCodeBlock formats text as a source code block with the appropriate language
func formatAsCodeBlock(content string, language string) string {
	if language == "" {
		language = "text"
	}

	// Trim trailing whitespace but leave content newlines intact
	content = strings.TrimRight(content, " \t")

	// Make sure there's exactly one newline at the end of content
	content = strings.TrimRight(content, "\n") + "\n"

	return fmt.Sprintf("[source, %s]\n----\n%s----\n\n", language, content)
}
