// pkg/report/check_cache.go
// This file persists inspection results as JSON so they can be shown again later

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONPath returns where the JSON copy of a report at outputPath is kept
func JSONPath(outputPath string) string {
	dir := filepath.Dir(outputPath)
	return filepath.Join(dir, ".data", filepath.Base(outputPath)+".json")
}

// SaveCheckResults saves the inspection next to its report in a .data subdirectory
func SaveCheckResults(outputPath string, ins InspectionReport) (string, error) {
	jsonFile := JSONPath(outputPath)
	if err := os.MkdirAll(filepath.Dir(jsonFile), 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %v", err)
	}

	jsonData, err := json.MarshalIndent(ins, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal check results: %v", err)
	}

	if err := os.WriteFile(jsonFile, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write check results: %v", err)
	}

	return jsonFile, nil
}

// LoadCheckResults loads an inspection saved by SaveCheckResults
func LoadCheckResults(jsonFile string) (InspectionReport, error) {
	jsonData, err := os.ReadFile(jsonFile)
	if err != nil {
		return InspectionReport{}, fmt.Errorf("failed to read check results: %v", err)
	}

	var ins InspectionReport
	if err := json.Unmarshal(jsonData, &ins); err != nil {
		return InspectionReport{}, fmt.Errorf("failed to unmarshal check results: %v", err)
	}

	return ins, nil
}
