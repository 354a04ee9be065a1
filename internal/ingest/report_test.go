package ingest

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Kinetic-Blast/SQL-Import/internal/runlog"
)

func sampleReport() Report {
	return Report{
		RunID:   uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		Started: time.Date(2026, 8, 26, 7, 0, 0, 0, time.UTC),
		Results: []DefinitionResult{
			{
				Definition: Definition{Directory: "/drops", Pattern: "acc_*.txt", Delimiter: "\t", Database: "db", Table: "accounts"},
				Outcomes: []Outcome{
					{File: "/drops/acc_1.txt", Rows: 120},
					{File: "/drops/acc_2.txt", Err: "write: connection refused"},
				},
			},
			{
				Definition: Definition{Directory: "/drops", Pattern: "led_*.txt", Delimiter: ",", Database: "db", Table: "ledger"},
			},
		},
	}
}

func TestBuildReport_Text(t *testing.T) {
	rendered := BuildReport(sampleReport(), nil)

	if rendered.Subject != "File Import Report" {
		t.Errorf("Subject = %q", rendered.Subject)
	}

	wantLines := []string{
		"Import process report:",
		"acc_*.txt -> db.accounts (delimiter 'TAB')",
		"OK      /drops/acc_1.txt (120 rows)",
		"FAILED  /drops/acc_2.txt: write: connection refused",
		"led_*.txt -> db.ledger (delimiter ',')",
		"no files selected",
		"Totals: 1 succeeded, 1 failed",
	}
	for _, want := range wantLines {
		if !strings.Contains(rendered.Text, want) {
			t.Errorf("Text missing %q\n%s", want, rendered.Text)
		}
	}

	// Success before failure, first definition before second.
	okIdx := strings.Index(rendered.Text, "acc_1.txt")
	failIdx := strings.Index(rendered.Text, "acc_2.txt")
	ledgerIdx := strings.Index(rendered.Text, "led_*.txt")
	if !(okIdx < failIdx && failIdx < ledgerIdx) {
		t.Errorf("outcomes out of order: ok=%d fail=%d ledger=%d", okIdx, failIdx, ledgerIdx)
	}
}

func TestBuildReport_Deterministic(t *testing.T) {
	a := BuildReport(sampleReport(), nil)
	b := BuildReport(sampleReport(), nil)
	if a != b {
		t.Error("BuildReport is not deterministic for identical input")
	}
}

func TestBuildReport_DefinitionLevelFailure(t *testing.T) {
	report := Report{
		Results: []DefinitionResult{{
			Definition: Definition{Pattern: "*.txt", Delimiter: ",", Database: "db", Table: "gone"},
			Outcomes:   []Outcome{{Err: "schema not found for db.gone"}},
		}},
	}

	rendered := BuildReport(report, nil)
	if !strings.Contains(rendered.Text, "FAILED  schema not found for db.gone") {
		t.Errorf("Text missing definition failure:\n%s", rendered.Text)
	}
}

func TestBuildReport_HTML(t *testing.T) {
	report := Report{
		Results: []DefinitionResult{{
			Definition: Definition{Pattern: "*.txt", Delimiter: ",", Database: "db", Table: "t"},
			Outcomes:   []Outcome{{File: "/drops/a.txt", Err: `bad value "<script>"`}},
		}},
	}

	rendered := BuildReport(report, nil)
	if !strings.Contains(rendered.HTML, "<pre") {
		t.Error("HTML missing <pre> block")
	}
	if strings.Contains(rendered.HTML, "<script>") {
		t.Error("HTML did not escape report content")
	}
	if !strings.Contains(rendered.HTML, "&lt;script&gt;") {
		t.Errorf("HTML missing escaped content:\n%s", rendered.HTML)
	}
}

func TestBuildReport_RunLogSection(t *testing.T) {
	events := []runlog.Event{
		{Time: time.Date(2026, 8, 26, 7, 0, 1, 0, time.UTC), Level: slog.LevelInfo, Message: "processing import for acc_*.txt"},
		{Time: time.Date(2026, 8, 26, 7, 0, 2, 0, time.UTC), Level: slog.LevelError, Message: "error reading file /drops/acc_2.txt"},
	}

	rendered := BuildReport(sampleReport(), events)
	if !strings.Contains(rendered.Text, "Run log:") {
		t.Fatal("Text missing run log section")
	}
	if !strings.Contains(rendered.Text, "processing import for acc_*.txt") {
		t.Error("Text missing first event")
	}
	if !strings.Contains(rendered.Text, "ERROR error reading file /drops/acc_2.txt") {
		t.Errorf("Text missing leveled event:\n%s", rendered.Text)
	}

	// No events, no section.
	bare := BuildReport(sampleReport(), nil)
	if strings.Contains(bare.Text, "Run log:") {
		t.Error("empty event list should not render a run log section")
	}
}
