package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/ccollicutt/bootlog/pkg/config"
	"github.com/ccollicutt/bootlog/pkg/output"
)

const deviceLog = `2024-01-01 09:59:59 INFO oejs.AbstractConnector:Started SelectChannelConnector@0.0.0.0:8080
2024-01-01 10:00:00 INFO [main] (log.c.166) server started
2024-01-01 10:00:01 DEBUG loading modules
2024-01-01 10:00:03.600 INFO oejs.AbstractConnector:Started SelectChannelConnector@127.0.0.1:8080
2024-01-01 11:00:00 INFO [main] (log.c.166) server started
`

const completeLog = `2024-01-01 10:00:00 INFO (log.c.166) server started
2024-01-01 10:00:42 INFO oejs.AbstractConnector:Started SelectChannelConnector@10.1.1.1:80
`

func writeLog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create log file: %v", err)
	}
	return path
}

func executeScan(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })

	cmd := NewScanCommand()
	cmd.SetArgs(args)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestNewScanCommand(t *testing.T) {
	cmd := NewScanCommand()

	if cmd.Use != "scan <log-file>..." {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	flags := []string{"config", "output", "stdout", "report-dir", "verbose", "quiet",
		"webhook-url", "webhook-token", "webhook-trigger"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestRunScan_WritesReportFile(t *testing.T) {
	dir := t.TempDir()
	logPath := writeLog(t, dir, "device.log", deviceLog)

	out, err := executeScan(t, logPath)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	rptPath := logPath + ".rpt"
	if !strings.Contains(out, "Report written: "+rptPath) {
		t.Errorf("output = %q, want report path", out)
	}

	data, err := os.ReadFile(rptPath)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}

	want := "=== Device boot ===\n" +
		"2(" + logPath + "): 2024-01-01 10:00:00 Boot Start\n" +
		"4(" + logPath + "): 2024-01-01 10:00:03 Boot Completed\n" +
		"\tBoot Time: 3000ms\n" +
		"\n" +
		"=== Device boot ===\n" +
		"5(" + logPath + "): 2024-01-01 11:00:00 Boot Start\n" +
		"**** Incomplete boot ****\n" +
		"\n"
	if string(data) != want {
		t.Errorf("report:\n%s\nwant:\n%s", data, want)
	}

	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1 (incomplete boot)", ExitCode)
	}
}

func TestRunScan_AllCompleteExitCode(t *testing.T) {
	dir := t.TempDir()
	logPath := writeLog(t, dir, "ok.log", completeLog)

	out, err := executeScan(t, "--stdout", logPath)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !strings.Contains(out, "Boot Time: 42000ms") {
		t.Errorf("output missing boot time:\n%s", out)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}
	if _, err := os.Stat(logPath + ".rpt"); !os.IsNotExist(err) {
		t.Error("--stdout should not write a report file")
	}
}

func TestRunScan_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	logPath := writeLog(t, dir, "device.log", deviceLog)

	out, err := executeScan(t, "--stdout", "-o", "json", logPath)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	var report output.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if report.Summary.Boots != 2 || report.Summary.Incomplete != 1 {
		t.Errorf("Summary = %+v", report.Summary)
	}
	if report.Metadata.Stats.OrphanedCompletions != 1 {
		t.Errorf("OrphanedCompletions = %d, want 1", report.Metadata.Stats.OrphanedCompletions)
	}
}

func TestRunScan_TableQuiet(t *testing.T) {
	dir := t.TempDir()
	logPath := writeLog(t, dir, "device.log", deviceLog)

	out, err := executeScan(t, "--stdout", "-o", "table", "-q", logPath)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	want := logPath + ": 2 boots, 1 completed, 1 incomplete\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRunScan_Stdin(t *testing.T) {
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })

	cmd := NewScanCommand()
	cmd.SetArgs([]string{"-"})
	cmd.SetIn(strings.NewReader(completeLog))
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !strings.Contains(buf.String(), "1(stdin): 2024-01-01 10:00:00 Boot Start") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestRunScan_GlobAndReportDir(t *testing.T) {
	logDir := t.TempDir()
	rptDir := t.TempDir()
	writeLog(t, logDir, "a.log", completeLog)
	writeLog(t, logDir, "b.log", deviceLog)

	_, err := executeScan(t, "--report-dir", rptDir, filepath.Join(logDir, "*.log"))
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	for _, name := range []string{"a.log.rpt", "b.log.rpt"} {
		if _, err := os.Stat(filepath.Join(rptDir, name)); err != nil {
			t.Errorf("missing report %s: %v", name, err)
		}
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1 (b.log has an incomplete boot)", ExitCode)
	}
}

func TestRunScan_ReportDirBaseNameClash(t *testing.T) {
	root := t.TempDir()
	rptDir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		if err := os.Mkdir(filepath.Join(root, sub), 0755); err != nil {
			t.Fatal(err)
		}
	}
	first := writeLog(t, filepath.Join(root, "a"), "device.log", completeLog)
	second := writeLog(t, filepath.Join(root, "b"), "device.log", deviceLog)

	_, err := executeScan(t, "--report-dir", rptDir, first, second)
	if err == nil {
		t.Fatal("expected error for two logs sharing a report path")
	}
	if !strings.Contains(err.Error(), "device.log.rpt") {
		t.Errorf("error = %v, want report path named", err)
	}
	if _, statErr := os.Stat(filepath.Join(rptDir, "device.log.rpt")); !os.IsNotExist(statErr) {
		t.Error("no report should be written when report paths clash")
	}

	// Without a report dir each report sits next to its log.
	if _, err := executeScan(t, first, second); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	for _, log := range []string{first, second} {
		if _, err := os.Stat(log + ".rpt"); err != nil {
			t.Errorf("missing report for %s: %v", log, err)
		}
	}
}

func TestRunScan_GlobSkipsReports(t *testing.T) {
	dir := t.TempDir()
	logPath := writeLog(t, dir, "device.log", deviceLog)
	writeLog(t, dir, "device.log.rpt", "=== Device boot ===\n")

	out, err := executeScan(t, filepath.Join(dir, "*"))
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if strings.Count(out, "Report written:") != 1 {
		t.Errorf("output = %q, want one report", out)
	}
	if _, err := os.Stat(logPath + ".rpt.rpt"); !os.IsNotExist(err) {
		t.Error("an earlier report was scanned as a log")
	}

	if _, err := executeScan(t, filepath.Join(dir, "*.rpt")); err == nil {
		t.Error("expected error when only reports match")
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "a.log", "")
	writeLog(t, dir, "a.log.rpt", "")

	files, err := expandInputs([]string{filepath.Join(dir, "*"), stdinArg}, ".rpt")
	if err != nil {
		t.Fatalf("expandInputs() error = %v", err)
	}
	want := []string{stdinArg, a}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("expandInputs() = %v, want %v", files, want)
	}
}

func TestCheckReportPaths(t *testing.T) {
	rc := config.ReportConfig{Extension: ".rpt", Dir: "/reports"}

	if err := checkReportPaths([]string{"/x/a.log", "/y/b.log", stdinArg}, rc); err != nil {
		t.Errorf("distinct names: unexpected error %v", err)
	}
	if err := checkReportPaths([]string{"/x/a.log", "/y/a.log"}, rc); err == nil {
		t.Error("shared base name: expected error")
	}
	if err := checkReportPaths([]string{"/x/a.log", "/y/a.log"}, config.ReportConfig{Extension: ".rpt"}); err != nil {
		t.Errorf("no report dir: unexpected error %v", err)
	}
}

func TestRunScan_ConfigMarkers(t *testing.T) {
	dir := t.TempDir()
	logPath := writeLog(t, dir, "custom.log", `2024-05-05 08:00:00 POWER ON
2024-05-05 08:00:07 READY on 192.168.0.9:9000
`)
	cfgPath := writeLog(t, dir, "bootlog.yaml", `markers:
  start_pattern: 'POWER ON'
  complete_pattern: 'READY on (\S+):(\d+)'
`)

	out, err := executeScan(t, "--stdout", "-c", cfgPath, logPath)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !strings.Contains(out, "Boot Time: 7000ms") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunScan_Webhook(t *testing.T) {
	var received output.Report
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	dir := t.TempDir()
	logPath := writeLog(t, dir, "device.log", deviceLog)

	if _, err := executeScan(t, "--stdout", "--webhook-url", server.URL, logPath); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("webhook calls = %d, want 1", calls)
	}
	if received.Summary.Incomplete != 1 {
		t.Errorf("webhook summary = %+v", received.Summary)
	}

	// on_incomplete does not fire for a clean log.
	okPath := writeLog(t, dir, "ok.log", completeLog)
	if _, err := executeScan(t, "--stdout", "--webhook-url", server.URL, okPath); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("webhook calls = %d, want still 1", calls)
	}
}

func TestRunScan_WebhookFailureNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	dir := t.TempDir()
	logPath := writeLog(t, dir, "device.log", deviceLog)

	if _, err := executeScan(t, "--stdout", "--webhook-url", server.URL, "--webhook-trigger", "always", logPath); err != nil {
		t.Errorf("scan failed on webhook error: %v", err)
	}
}

func TestRunScan_Errors(t *testing.T) {
	dir := t.TempDir()
	logPath := writeLog(t, dir, "device.log", deviceLog)

	tests := []struct {
		name string
		args []string
	}{
		{"missing log", []string{filepath.Join(dir, "missing.log")}},
		{"missing config", []string{"-c", "/nonexistent/bootlog.yaml", logPath}},
		{"bad output", []string{"-o", "xml", logPath}},
		{"bad trigger", []string{"--webhook-trigger", "sometimes", logPath}},
		{"no args", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeScan(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReportPath(t *testing.T) {
	tests := []struct {
		log  string
		rc   config.ReportConfig
		want string
	}{
		{"/var/log/device.log", config.ReportConfig{Extension: ".rpt"}, "/var/log/device.log.rpt"},
		{"/var/log/device.log", config.ReportConfig{Extension: ".rpt", Dir: "/tmp/out"}, "/tmp/out/device.log.rpt"},
		{"device.log", config.ReportConfig{Extension: ".txt"}, "device.log.txt"},
	}

	for _, tt := range tests {
		if got := reportPath(tt.log, tt.rc); got != tt.want {
			t.Errorf("reportPath(%q, %+v) = %q, want %q", tt.log, tt.rc, got, tt.want)
		}
	}
}

func TestCollectWebhooks(t *testing.T) {
	cfg := &config.Config{
		Webhooks: []config.WebhookConfig{
			{Name: "ops", URL: "https://ops.example.com/hook"},
		},
	}

	t.Run("config only", func(t *testing.T) {
		webhooks := collectWebhooks(cfg, &ScanOptions{})
		if len(webhooks) != 1 {
			t.Errorf("got %d webhooks, want 1", len(webhooks))
		}
	})

	t.Run("config and cli", func(t *testing.T) {
		webhooks := collectWebhooks(cfg, &ScanOptions{
			WebhookURL:   "https://cli.example.com/hook",
			WebhookToken: "tok",
		})
		if len(webhooks) != 2 {
			t.Fatalf("got %d webhooks, want 2", len(webhooks))
		}
		cli := webhooks[1]
		if cli.Name != "cli" || cli.Token != "tok" || cli.Trigger != config.WebhookTriggerOnIncomplete {
			t.Errorf("cli webhook = %+v", cli)
		}
		if cli.Timeout != config.DefaultWebhookTimeout {
			t.Errorf("cli webhook timeout = %v, want %v", cli.Timeout, config.DefaultWebhookTimeout)
		}
	})
}

func TestRunValidate(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeLog(t, dir, "bootlog.yaml", `markers:
  start_pattern: 'POWER ON'
webhooks:
  - name: ops
    url: https://ops.example.com/hook
`)

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{cfgPath})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Configuration valid!", "POWER ON", "1. ops [on_incomplete, timeout 10s]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunValidate_BuiltIn(t *testing.T) {
	cmd := NewValidateCommand()
	cmd.SetArgs([]string{})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(buf.String(), config.DefaultStartPattern) {
		t.Errorf("output missing default start marker:\n%s", buf.String())
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeLog(t, dir, "bad.yaml", "markers:\n  start_pattern: '(unclosed'\n")

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{cfgPath})
	cmd.SetOut(io.Discard)

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()
	if cmd.Use != "version" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "bootlog ") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrintVersion(t *testing.T) {
	tests := []struct {
		name string
		info *debug.BuildInfo
		want string
	}{
		{"no build info", nil, "bootlog dev\n"},
		{
			"devel build",
			&debug.BuildInfo{GoVersion: "go1.25.0", Main: debug.Module{Version: "(devel)"}},
			"bootlog dev\n  go:       go1.25.0\n",
		},
		{
			"installed module",
			&debug.BuildInfo{
				GoVersion: "go1.25.0",
				Main:      debug.Module{Version: "v1.2.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			"bootlog v1.2.0\n  go:       go1.25.0\n  revision: abc123 (modified)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printVersion(&buf, tt.info)
			if buf.String() != tt.want {
				t.Errorf("printVersion() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
