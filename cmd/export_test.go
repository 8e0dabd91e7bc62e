package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/trivial-reminder/internal/model"
)

func TestPrintCSVQuoting(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		r := model.Reminder{ID: "id", Text: tt.text, At: time.Date(2024, 1, 13, 14, 0, 0, 0, time.UTC), Input: "x"}
		if err := printCSV(&buf, []model.Reminder{r}); err != nil {
			t.Fatal(err)
		}
		want := "id,date,time,text,input\nid,2024-01-13,14:00," + tt.want + ",x\n"
		if buf.String() != want {
			t.Errorf("printCSV(%q) = %q, want %q", tt.text, buf.String(), want)
		}
	}
}

func sampleReminders() []model.Reminder {
	return []model.Reminder{
		{
			ID:    "0b7c1f52-4a4e-4d0e-9a53-4f6f2d0f8a11",
			Text:  "call mom, then dad",
			At:    time.Date(2024, 1, 13, 14, 0, 0, 0, time.UTC),
			Input: "in 3 days at 14:00 call mom, then dad",
		},
	}
}

func TestWriteExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExport(&buf, "csv", sampleReminders(), time.Now()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d, want 2", len(lines))
	}
	want := `0b7c1f52-4a4e-4d0e-9a53-4f6f2d0f8a11,2024-01-13,14:00,"call mom, then dad","in 3 days at 14:00 call mom, then dad"`
	if lines[1] != want {
		t.Errorf("csv row = %q, want %q", lines[1], want)
	}
}

func TestWriteExportJSONAndYAML(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		var buf bytes.Buffer
		if err := writeExport(&buf, format, sampleReminders(), time.Now()); err != nil {
			t.Fatalf("%s: %v", format, err)
		}

		var got []model.Reminder
		var err error
		if format == "json" {
			err = json.Unmarshal(buf.Bytes(), &got)
		} else {
			err = yaml.Unmarshal(buf.Bytes(), &got)
		}
		if err != nil {
			t.Fatalf("%s: decoding export: %v", format, err)
		}
		if len(got) != 1 || got[0].Text != "call mom, then dad" {
			t.Errorf("%s: decoded %+v", format, got)
		}
		if !got[0].At.Equal(sampleReminders()[0].At) {
			t.Errorf("%s: at = %v", format, got[0].At)
		}
	}
}

func TestWriteExportEmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExport(&buf, "json", nil, time.Now()); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty json export = %q, want []", buf.String())
	}
}

func TestWriteExportUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExport(&buf, "xml", sampleReminders(), time.Now()); err == nil {
		t.Error("expected error for unknown format")
	}
}
