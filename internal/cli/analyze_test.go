package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/yildizm/MeetSum/internal/presenter"
)

const backendResponse = `{"minutes": {
	"executive_summary": "Roadmap review",
	"action_items": [{"owner": "Ana", "task": "Update roadmap", "due_date": "Friday"}],
	"decisions": ["Drop the beta flag"],
	"risks": []
}}`

type backendStub struct {
	status    int
	body      string
	lastFile  string
	lastToken string
}

func newBackend(t *testing.T, stub *backendStub) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/process", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, `{"detail": "missing file"}`, http.StatusBadRequest)
			return
		}
		defer func() { _ = file.Close() }()
		data, _ := io.ReadAll(file)
		stub.lastFile = header.Filename + ":" + string(data)
		stub.lastToken = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(stub.status)
		_, _ = io.WriteString(w, stub.body)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status": "ok", "model": "minutes-v2"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// writeConfig points the CLI at baseURL through a temporary config file.
func writeConfig(t *testing.T, baseURL string, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meetsum.yaml")
	content := "backend:\n  base_url: \"" + baseURL + "\"\n  timeout: 5s\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeTranscript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMain(m *testing.M) {
	keyring.MockInit()
	os.Exit(m.Run())
}

// executeCommand runs the root command and returns what it printed.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "")

	old := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }
	t.Cleanup(func() {
		stdoutIsTerminal = old
		globalConfig = nil
	})

	cmd := NewRootCommand("test", "abc123", "2026-01-01")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-color", "--no-emoji"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestShouldUseTUIMode(t *testing.T) {
	tests := []struct {
		name           string
		noTUI          bool
		outputFile     string
		outputFormat   string
		verbose        bool
		terminal       bool
		expectedResult bool
	}{
		{"should use TUI - all conditions met", false, "", "text", false, true, true},
		{"should not use TUI - no-tui flag set", true, "", "text", false, true, false},
		{"should not use TUI - json output", false, "", "json", false, true, false},
		{"should not use TUI - verbose mode", false, "", "text", true, true, false},
		{"should not use TUI - output file", false, "out.txt", "text", false, true, false},
		{"should not use TUI - not a terminal", false, "", "text", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldVerbose, oldOutputFmt, oldTerminal := verbose, outputFmt, stdoutIsTerminal
			verbose = tt.verbose
			outputFmt = tt.outputFormat
			stdoutIsTerminal = func() bool { return tt.terminal }
			defer func() {
				verbose, outputFmt, stdoutIsTerminal = oldVerbose, oldOutputFmt, oldTerminal
			}()

			assert.Equal(t, tt.expectedResult, shouldUseTUIMode(tt.noTUI, tt.outputFile))
		})
	}
}

func TestAnalyzeCommand_JSONToFile(t *testing.T) {
	stub := &backendStub{status: http.StatusOK, body: backendResponse}
	backend := newBackend(t, stub)
	cfg := writeConfig(t, backend.URL, "")
	transcript := writeTranscript(t, "standup.txt", "Ana: let's drop the beta flag")
	outFile := filepath.Join(t.TempDir(), "minutes.json")

	_, err := executeCommand(t, "", "--config", cfg, "analyze", "--no-tui", "-o", "json", "--output-file", outFile, transcript)
	require.NoError(t, err)
	assert.Equal(t, "standup.txt:Ana: let's drop the beta flag", stub.lastFile)
	assert.Empty(t, stub.lastToken)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	v, err := presenter.Decode(data)
	require.NoError(t, err)
	result := v.(map[string]any)
	assert.Equal(t, "Roadmap review", result["executive_summary"])
	assert.NotContains(t, result, "minutes")
}

func TestAnalyzeCommand_TabText(t *testing.T) {
	backend := newBackend(t, &backendStub{status: http.StatusOK, body: backendResponse})
	cfg := writeConfig(t, backend.URL, "")
	transcript := writeTranscript(t, "standup.txt", "hello")

	out, err := executeCommand(t, "", "--config", cfg, "analyze", "--no-tui", "--tab", "action_items", transcript)
	require.NoError(t, err)
	assert.Contains(t, out, "Action Items")
	assert.Contains(t, out, "Update roadmap")
	assert.NotContains(t, out, "Roadmap review")
}

func TestAnalyzeCommand_Markdown(t *testing.T) {
	backend := newBackend(t, &backendStub{status: http.StatusOK, body: backendResponse})
	cfg := writeConfig(t, backend.URL, "")
	transcript := writeTranscript(t, "standup.txt", "hello")

	out, err := executeCommand(t, "", "--config", cfg, "analyze", "--no-tui", "-o", "markdown", transcript)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Meeting Analysis"))
	assert.Contains(t, out, "## Decisions")
	assert.Contains(t, out, "_No risks found in the transcript_")
}

func TestAnalyzeCommand_SendsStoredToken(t *testing.T) {
	stub := &backendStub{status: http.StatusOK, body: backendResponse}
	backend := newBackend(t, stub)
	cfg := writeConfig(t, backend.URL, "")
	transcript := writeTranscript(t, "standup.txt", "hello")

	_, err := executeCommand(t, "", "--config", cfg, "auth", "login", "--token", "secret-1234")
	require.NoError(t, err)

	_, err = executeCommand(t, "", "--config", cfg, "analyze", "--no-tui", "-o", "json", transcript)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-1234", stub.lastToken)

	cfg = writeConfig(t, backend.URL, "  api_key: from-config\n")
	_, err = executeCommand(t, "", "--config", cfg, "analyze", "--no-tui", "-o", "json", transcript)
	require.NoError(t, err)
	assert.Equal(t, "Bearer from-config", stub.lastToken)
}

func TestAnalyzeCommand_BackendError(t *testing.T) {
	backend := newBackend(t, &backendStub{status: http.StatusInternalServerError, body: `{"detail": "model overloaded"}`})
	cfg := writeConfig(t, backend.URL, "")
	transcript := writeTranscript(t, "standup.txt", "hello")

	_, err := executeCommand(t, "", "--config", cfg, "analyze", "--no-tui", transcript)
	require.Error(t, err)
	assert.Equal(t, "analysis failed: model overloaded", err.Error())
}

func TestAnalyzeCommand_InvalidTranscript(t *testing.T) {
	stub := &backendStub{status: http.StatusOK, body: backendResponse}
	backend := newBackend(t, stub)
	cfg := writeConfig(t, backend.URL, "")

	pdf := writeTranscript(t, "notes.pdf", "hello")
	_, err := executeCommand(t, "", "--config", cfg, "analyze", "--no-tui", pdf)
	assert.EqualError(t, err, "Please select a .txt file")

	empty := writeTranscript(t, "empty.txt", "")
	_, err = executeCommand(t, "", "--config", cfg, "analyze", "--no-tui", empty)
	assert.EqualError(t, err, "Transcript file is empty")

	_, err = executeCommand(t, "", "--config", cfg, "analyze", "--no-tui", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "file does not exist")

	assert.Empty(t, stub.lastFile)
}

func TestViewCommand(t *testing.T) {
	cfg := writeConfig(t, "http://localhost:8000", "")
	saved := writeTranscript(t, "saved.json", backendResponse)

	out, err := executeCommand(t, "", "--config", cfg, "view", "--no-tui", "-o", "html", saved)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "Drop the beta flag")

	bad := writeTranscript(t, "bad.json", "{not json")
	_, err = executeCommand(t, "", "--config", cfg, "view", "--no-tui", bad)
	assert.ErrorContains(t, err, "failed to parse bad.json")
}

func TestHealthCommand(t *testing.T) {
	backend := newBackend(t, &backendStub{status: http.StatusOK})
	cfg := writeConfig(t, backend.URL, "")

	out, err := executeCommand(t, "", "--config", cfg, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "is ok")
	assert.Contains(t, out, "Model: minutes-v2")

	out, err = executeCommand(t, "", "--config", cfg, "-o", "json", "health")
	require.NoError(t, err)
	var status map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, "minutes-v2", status["model"])
}

func TestHealthCommand_Unreachable(t *testing.T) {
	backend := newBackend(t, &backendStub{})
	url := backend.URL
	backend.Close()
	cfg := writeConfig(t, url, "")

	_, err := executeCommand(t, "", "--config", cfg, "health", "--timeout", "2s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is unreachable")
}

func TestAuthCommands(t *testing.T) {
	cfg := writeConfig(t, "http://auth.example:8000", "")

	run := func(stdin string, args ...string) string {
		t.Helper()
		out, err := executeCommand(t, stdin, append([]string{"--config", cfg}, args...)...)
		require.NoError(t, err)
		return out
	}

	assert.Contains(t, run("", "auth", "status"), "No token stored for http://auth.example:8000")
	assert.Contains(t, run("tok-abcdef\n", "auth", "login"), "Token stored for http://auth.example:8000")
	assert.Contains(t, run("", "auth", "status"), "******cdef")
	assert.Contains(t, run("", "auth", "logout"), "Token removed")
	assert.Contains(t, run("", "auth", "status"), "No token stored")
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "meetsum.yaml")

	out, err := executeCommand(t, "", "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created at: "+path)

	_, err = executeCommand(t, "", "config", "init", "--path", path)
	assert.ErrorContains(t, err, "already exists")

	out, err = executeCommand(t, "", "--config", path, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Backend: http://localhost:8000/process")

	out, err = executeCommand(t, "", "--config", path, "config", "show", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"base_url": "http://localhost:8000"`)

	bad := writeConfig(t, "ftp://nowhere", "")
	_, err = executeCommand(t, "", "--config", bad, "config", "validate")
	assert.ErrorContains(t, err, "invalid backend base_url")
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "MeetSum test (abc123) built on 2026-01-01")
}

func TestSelectSection(t *testing.T) {
	result := presenter.AnalysisResult{"decisions": []any{"a"}, "risks": []any{}}
	assert.Equal(t, presenter.AnalysisResult{"decisions": []any{"a"}}, selectSection(result, "decisions"))
	assert.Empty(t, selectSection(result, "metadata"))
}

func TestResultWatcher(t *testing.T) {
	path := writeTranscript(t, "live.json", `{"executive_summary": "v1"}`)

	w, err := newResultWatcher(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan any, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(v any) { changes <- v }, func(error) {})
	}()

	require.NoError(t, os.WriteFile(path, []byte(`{"executive_summary": "v2"}`), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case v := <-changes:
			if v.(map[string]any)["executive_summary"] == "v2" {
				cancel()
				require.NoError(t, <-done)
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestValidateWatchFilePath(t *testing.T) {
	assert.Error(t, validateWatchFilePath(""))
	assert.Error(t, validateWatchFilePath("../secret.json"))
	assert.Error(t, validateWatchFilePath(t.TempDir()))
	assert.NoError(t, validateWatchFilePath(writeTranscript(t, "a.json", "{}")))
}
