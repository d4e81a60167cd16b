package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/rentability/internal/analysis"
	"github.com/iwvelando/rentability/pkg/testutil"
)

func sampleReports() []Report {
	return []Report{{
		Name:        "Fourplex",
		ExpenseMode: analysis.Simple.String(),
		Result:      analysis.ComputeAnalysis(testutil.Fourplex(), analysis.Simple),
		Warnings:    []string{"sample warning"},
	}}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, sampleReports())
	output := buf.String()

	if !strings.Contains(output, "--- Analysis for Fourplex (simple expenses) ---") {
		t.Errorf("PrettyFormat missing report header")
	}
	if !strings.Contains(output, "Gross revenue      | $36,000.00") {
		t.Errorf("PrettyFormat missing gross revenue with separators:\n%s", output)
	}
	if !strings.Contains(output, "Year | Value") {
		t.Errorf("PrettyFormat missing projection table header")
	}
	if !strings.Contains(output, "warning: sample warning") {
		t.Errorf("PrettyFormat missing warnings")
	}
}

func TestPrettyFormatPlaceholders(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, []Report{{Name: "Empty", ExpenseMode: "simple"}})
	output := buf.String()

	if !strings.Contains(output, "Cap rate           | n/a") {
		t.Errorf("PrettyFormat should show a placeholder cap rate for a zero price:\n%s", output)
	}
	if !strings.Contains(output, "Cash on cash       | n/a") {
		t.Errorf("PrettyFormat should show a placeholder cash on cash for a zero down payment")
	}
	if strings.Contains(output, "Year | Value") {
		t.Errorf("PrettyFormat should omit the projection table without rows")
	}
}

func TestCsvFormat(t *testing.T) {
	reports := sampleReports()
	out, err := CsvString(reports)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("CSV output does not parse: %v", err)
	}
	if len(records) != 1+len(reports[0].Result.FutureReturns) {
		t.Fatalf("CSV rows = %d, expected %d", len(records), 1+len(reports[0].Result.FutureReturns))
	}
	if records[0][0] != "name" || records[0][2] != "futureValue" {
		t.Errorf("CSV header = %v", records[0])
	}
	if records[1][0] != "Fourplex" || records[1][1] != "1" || records[1][2] != "463500.00" {
		t.Errorf("CSV first row = %v", records[1])
	}
}

func TestJSONFormatKeepsResultKeys(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, sampleReports()); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON output does not parse: %v", err)
	}
	result, ok := decoded[0]["analysis"].(map[string]interface{})
	if !ok {
		t.Fatalf("analysis key missing from %v", decoded[0])
	}
	for _, key := range analysis.ResultFields {
		if _, ok := result[key]; !ok {
			t.Errorf("JSON output missing result key %s", key)
		}
	}
}

func TestWrite(t *testing.T) {
	for _, format := range []string{"pretty", "csv", "json"} {
		var buf bytes.Buffer
		if err := Write(&buf, format, sampleReports()); err != nil {
			t.Errorf("Write(%s) error = %v", format, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%s) produced no output", format)
		}
	}
	if err := Write(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Error("Write(xml) expected error but got none")
	}
}
