package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dhabedank/weekplan/internal/core"
)

func testSchedule() (core.WeeklySchedule, core.WeekWindow) {
	week := core.CurrentWeek(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), time.Sunday)
	ws := core.WeeklySchedule{
		core.Monday: {
			{Day: core.Monday, Start: 540, End: 600, Label: "Essay", Category: core.CategoryStudy},
			{Day: core.Monday, Start: 720, End: core.NoTime, Label: "Lunch", Category: core.CategoryMeal},
		},
	}
	return ws, week
}

func TestGet(t *testing.T) {
	for _, name := range []string{"json", "ICS", " text "} {
		if _, err := Get(name); err != nil {
			t.Errorf("Get(%q) error = %v", name, err)
		}
	}
	if _, err := Get("pdf"); err == nil || !strings.Contains(err.Error(), "ics, json, text") {
		t.Errorf("Get(unknown) error = %v", err)
	}
}

func TestJSONAdapter(t *testing.T) {
	ws, week := testSchedule()
	var buf bytes.Buffer
	res, err := Write(JSONAdapter{}, ws, week, Config{Stdout: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if res.Items != 2 || res.Path != "" {
		t.Errorf("Result = %+v", res)
	}

	var decoded map[string]struct {
		Schedule []map[string]string `json:"schedule"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output not JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 7 {
		t.Errorf("days = %d, want 7", len(decoded))
	}
	if got := decoded["monday"].Schedule; len(got) != 2 || got[0]["start_time"] != "09:00" || got[0]["task"] != "Essay" {
		t.Errorf("monday = %+v", got)
	}
}

func TestICSAdapterToFile(t *testing.T) {
	ws, week := testSchedule()
	path := filepath.Join(t.TempDir(), "week.ics")
	res, err := Write(ICSAdapter{}, ws, week, Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if res.Path != path || res.Format != "ics" {
		t.Errorf("Result = %+v", res)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	for _, want := range []string{"BEGIN:VCALENDAR", "SUMMARY:Essay", "SUMMARY:Lunch"} {
		if !strings.Contains(body, want) {
			t.Errorf("ics missing %q", want)
		}
	}
}

func TestTextAdapter(t *testing.T) {
	ws, week := testSchedule()
	var buf bytes.Buffer
	if err := (TextAdapter{}).Write(&buf, ws, week); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Sunday, Jan 7",
		"Monday, Jan 8",
		"09:00-10:00  Essay [study]",
		"12:00        Lunch [meal]",
		"(nothing scheduled)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteBadPath(t *testing.T) {
	ws, week := testSchedule()
	_, err := Write(TextAdapter{}, ws, week, Config{Path: filepath.Join(t.TempDir(), "missing", "out.txt")})
	if err == nil {
		t.Error("Write() to a missing directory succeeded")
	}
}
