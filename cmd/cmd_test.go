package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/dhabedank/weekplan/internal/planner"
	"github.com/dhabedank/weekplan/internal/relay"
)

type genFunc func(ctx context.Context, prompt, model string) (string, error)

func (f genFunc) Generate(ctx context.Context, prompt, model string) (string, error) {
	return f(ctx, prompt, model)
}

const mondayEssay = `{"monday":{"schedule":[{"start_time":"09:00","end_time":"10:00","task":"Essay","type":"study"}]}}`

// testEnv is an isolated home with a config file pointing at a temp
// database and a relay backed by gen.
type testEnv struct {
	t       *testing.T
	cfgPath string
	dir     string
}

func newTestEnv(t *testing.T, gen genFunc) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("WEEKPLAN_RELAY_URL", "")
	t.Setenv("WEEKPLAN_LOG_LEVEL", "")

	relayURL := "http://127.0.0.1:1"
	if gen != nil {
		srv, err := relay.New(context.Background(), relay.Config{Generator: gen, DefaultModel: "test-model"})
		if err != nil {
			t.Fatal(err)
		}
		ts := httptest.NewServer(srv.Handler())
		t.Cleanup(ts.Close)
		relayURL = ts.URL
	}

	cfgPath := filepath.Join(dir, "weekplan.yaml")
	cfg := fmt.Sprintf("relay_url: %s\ndb_path: %s\nlog_level: error\n", relayURL, filepath.Join(dir, "weekplan.db"))
	if err := os.WriteFile(cfgPath, []byte(cfg), 0600); err != nil {
		t.Fatal(err)
	}
	return &testEnv{t: t, cfgPath: cfgPath, dir: dir}
}

// run executes one command and returns stdout, stderr and the error.
func (e *testEnv) run(args ...string) (string, string, error) {
	e.t.Helper()
	root := NewRootCommand("test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--quiet", "--config", e.cfgPath}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, errOut, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("weekplan %s: %v\n%s", strings.Join(args, " "), err, errOut)
	}
	return out
}

var idPattern = regexp.MustCompile(`\(([0-9a-f-]{8})\)`)

func TestTasksLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)

	out := env.mustRun("tasks", "add", "Essay", "--duration", "90", "--importance", "high")
	m := idPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("add output has no id: %q", out)
	}
	id := m[1]
	env.mustRun("tasks", "add", "Exam prep", "-d", "120", "--deadline", "2030-05-01")

	out = env.mustRun("tasks", "list")
	if !strings.Contains(out, "Essay") || !strings.Contains(out, "due 2030-05-01") {
		t.Errorf("list = %q", out)
	}
	if strings.Index(out, "Exam prep") > strings.Index(out, "Essay") {
		t.Errorf("deadline task not listed first:\n%s", out)
	}

	env.mustRun("tasks", "done", id)
	out = env.mustRun("tasks", "list")
	if strings.Contains(out, "Essay") {
		t.Errorf("completed task still pending:\n%s", out)
	}
	if out = env.mustRun("tasks", "list", "--all"); !strings.Contains(out, "[x]") {
		t.Errorf("list --all = %q", out)
	}

	env.mustRun("tasks", "rm", id)
	if out = env.mustRun("tasks", "list", "--all"); strings.Contains(out, "Essay") {
		t.Errorf("deleted task listed:\n%s", out)
	}

	if _, _, err := env.run("tasks", "add", "Nothing", "--duration", "0"); err == nil {
		t.Error("zero-duration task accepted")
	}
	if _, _, err := env.run("tasks", "done", "zzz"); err == nil {
		t.Error("unknown id accepted")
	}
}

func TestGoal(t *testing.T) {
	env := newTestEnv(t, nil)

	if out := env.mustRun("goal"); !strings.Contains(out, "20 hours") {
		t.Errorf("default goal = %q", out)
	}
	if out := env.mustRun("goal", "15"); !strings.Contains(out, "15 hours") {
		t.Errorf("set goal = %q", out)
	}
	for _, bad := range []string{"0", "200", "ten"} {
		if _, _, err := env.run("goal", bad); err == nil {
			t.Errorf("goal %s accepted", bad)
		}
	}
}

func TestCheckin(t *testing.T) {
	env := newTestEnv(t, nil)

	out := env.mustRun("checkin", "show")
	if !strings.Contains(out, "Neutral") || !strings.Contains(out, "50/100") || !strings.Contains(out, "showing defaults") {
		t.Errorf("default check-in = %q", out)
	}

	env.mustRun("checkin", "set", "--mood", "happy", "--energy", "70")
	out = env.mustRun("checkin", "show")
	if !strings.Contains(out, "Happy") || !strings.Contains(out, "70/100") || !strings.Contains(out, "(today)") {
		t.Errorf("saved check-in = %q", out)
	}

	if out = env.mustRun("checkin", "next"); !strings.Contains(out, "Already at today") {
		t.Errorf("next from today = %q", out)
	}
	if out = env.mustRun("checkin", "prev"); strings.Contains(out, "(today)") || !strings.Contains(out, "Neutral") {
		t.Errorf("prev = %q", out)
	}

	future := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	if _, _, err := env.run("checkin", "set", "--date", future, "--mood", "sad"); err == nil {
		t.Error("future check-in accepted")
	}
	if _, _, err := env.run("checkin", "set", "--mood", "grumpy"); err == nil {
		t.Error("unknown mood accepted")
	}
	if _, _, err := env.run("checkin", "set", "--energy", "101"); err == nil {
		t.Error("energy above 100 accepted")
	}
}

func TestStudyLog(t *testing.T) {
	env := newTestEnv(t, nil)

	out := env.mustRun("log", "add", "Calculus", "-d", "45", "-e", "high", "-o", "finished chapter 3")
	m := idPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("log add output = %q", out)
	}
	out = env.mustRun("log", "list")
	if !strings.Contains(out, "Calculus") || !strings.Contains(out, "finished chapter 3") || !strings.Contains(out, "1 sessions") {
		t.Errorf("log list = %q", out)
	}
	env.mustRun("log", "rm", m[1])
	if out = env.mustRun("log", "list"); !strings.Contains(out, "No study sessions") {
		t.Errorf("after rm = %q", out)
	}
	if _, _, err := env.run("log", "add", "Calculus"); err == nil {
		t.Error("session without duration accepted")
	}
}

func TestScheduleThroughRelay(t *testing.T) {
	var prompts []string
	env := newTestEnv(t, func(_ context.Context, prompt, model string) (string, error) {
		prompts = append(prompts, prompt)
		return mondayEssay, nil
	})

	_, errOut, err := env.run("schedule")
	if err == nil || !strings.Contains(errOut, planner.MsgNoTasks) {
		t.Fatalf("schedule without tasks: err=%v stderr=%q", err, errOut)
	}
	if len(prompts) != 0 {
		t.Fatal("request sent with no pending tasks")
	}

	env.mustRun("tasks", "add", "Essay", "-d", "60", "-i", "high")
	out := env.mustRun("schedule", "--format", "json")
	if !strings.Contains(out, `"task": "Essay"`) || !strings.Contains(out, `"start_time": "09:00"`) {
		t.Errorf("schedule json = %q", out)
	}
	if len(prompts) != 1 || !strings.Contains(prompts[0], "Essay") {
		t.Errorf("prompts = %q", prompts)
	}

	out = env.mustRun("schedule")
	if !strings.Contains(out, "Week of") || !strings.Contains(out, "Essay") {
		t.Errorf("schedule grid = %q", out)
	}

	icsPath := filepath.Join(env.dir, "week.ics")
	env.mustRun("calendar", "export", "--output", icsPath)
	data, err := os.ReadFile(icsPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "SUMMARY:Essay") {
		t.Errorf("exported ics = %q", data)
	}
}

func TestScheduleInvalidResponse(t *testing.T) {
	env := newTestEnv(t, func(context.Context, string, string) (string, error) {
		return "I cannot make a schedule right now.", nil
	})
	env.mustRun("tasks", "add", "Essay")

	_, errOut, err := env.run("schedule")
	if err == nil || !strings.Contains(errOut, planner.MsgInvalidFormat) {
		t.Errorf("err=%v stderr=%q", err, errOut)
	}
}

func TestScheduleRelayDown(t *testing.T) {
	env := newTestEnv(t, nil)
	env.mustRun("tasks", "add", "Essay")

	_, errOut, err := env.run("schedule")
	if err == nil || !strings.Contains(errOut, planner.MsgConnection) {
		t.Errorf("err=%v stderr=%q", err, errOut)
	}
}

func TestExportWithoutSchedule(t *testing.T) {
	env := newTestEnv(t, nil)
	if _, _, err := env.run("calendar", "export"); err == nil {
		t.Error("export without a schedule succeeded")
	}
}

func TestOverviewAndFeedback(t *testing.T) {
	env := newTestEnv(t, func(_ context.Context, prompt, _ string) (string, error) {
		if strings.Contains(prompt, "Summarize the student's week") {
			return `{"overview":"Solid week."}`, nil
		}
		return "Keep the morning sessions.", nil
	})

	if _, errOut, err := env.run("feedback"); err == nil || !strings.Contains(errOut, planner.MsgNoStudyLogs) {
		t.Errorf("feedback without logs: err=%v stderr=%q", err, errOut)
	}

	env.mustRun("log", "add", "Essay", "-d", "30")
	if out := env.mustRun("feedback"); !strings.Contains(out, "Keep the morning sessions.") {
		t.Errorf("feedback = %q", out)
	}

	env.mustRun("checkin", "set", "--mood", "happy", "--energy", "80")
	out := env.mustRun("overview")
	if !strings.Contains(out, "Check-ins: 1") || !strings.Contains(out, "Solid week.") {
		t.Errorf("overview = %q", out)
	}
}

func TestCalendarImport(t *testing.T) {
	env := newTestEnv(t, nil)

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	ics := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:lecture-1@test",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:" + start.Format("20060102T150405Z"),
		"DTEND:" + start.Add(time.Hour).Format("20060102T150405Z"),
		"SUMMARY:Lecture",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")
	path := filepath.Join(env.dir, "cal.ics")
	if err := os.WriteFile(path, []byte(ics), 0600); err != nil {
		t.Fatal(err)
	}

	if out := env.mustRun("calendar", "import", path); !strings.Contains(out, "Imported 1 events") {
		t.Errorf("import = %q", out)
	}
	if out := env.mustRun("calendar", "list", "--all"); !strings.Contains(out, "Lecture") {
		t.Errorf("list = %q", out)
	}

	if _, _, err := env.run("calendar", "sync", "--source", "ics"); err == nil {
		t.Error("ics sync without a file succeeded")
	}
	if _, _, err := env.run("calendar", "sync", "--source", "carrier-pigeon"); err == nil {
		t.Error("unknown source accepted")
	}
}
