package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Lina3386/weekgram/internal/closer"
)

type botAPIStub struct {
	mu    sync.Mutex
	texts []string
}

func (b *botAPIStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	b.mu.Lock()
	b.texts = append(b.texts, r.PostForm.Get("text"))
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": map[string]any{"message_id": 1, "date": 0, "chat": map[string]any{"id": 42, "type": "private"}}})
}

func (b *botAPIStub) last() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.texts) == 0 {
		return ""
	}
	return b.texts[len(b.texts)-1]
}

func setupEnv(t *testing.T) (*botAPIStub, string) {
	t.Helper()
	dir := t.TempDir()

	stub := &botAPIStub{}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	t.Setenv("TELEGRAM_BOT_TOKEN", "TOKEN")
	t.Setenv("TELEGRAM_API_BASE", srv.URL)
	t.Setenv("STORE_DRIVER", "sqlite3")
	t.Setenv("STORE_PATH", filepath.Join(dir, "weekgram.db"))
	t.Setenv("REMINDER_CURRENCY", "$")
	t.Setenv("LOG_LEVEL", "error")

	return stub, filepath.Join(dir, "missing.env")
}

func execute(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	defer func() {
		if err := closer.CloseAll(); err != nil {
			t.Errorf("CloseAll failed: %v", err)
		}
	}()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config-path", configPath}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLIWorkflow(t *testing.T) {
	stub, configPath := setupEnv(t)

	out, err := execute(t, configPath, "migrate")
	if err != nil || !strings.Contains(out, "sqlite3 store up to date, 1 migrations applied") {
		t.Fatalf("migrate = %q, %v", out, err)
	}

	out, err = execute(t, configPath, "setup", "--telegram-id", "42", "--name", "Asha", "--email", "asha@example.com")
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if out != "setup complete for Asha (chat 42)\n" {
		t.Errorf("setup output = %q", out)
	}
	if got := stub.last(); got != "👋 Hello Asha, your setup is almost done!" {
		t.Errorf("greeting = %q", got)
	}

	if _, err := execute(t, configPath, "task", "add", "--title", "Gym", "--description", "legs", "--days", "daily"); err != nil {
		t.Fatalf("task add failed: %v", err)
	}
	out, err = execute(t, configPath, "task", "list")
	if err != nil || !strings.Contains(out, "Gym") || !strings.Contains(out, "Mon,Tue,Wed,Thu,Fri,Sat,Sun") {
		t.Errorf("task list = %q, %v", out, err)
	}

	if _, err := execute(t, configPath, "expense", "add", "--title", "Tea", "--price", "10", "--mode", "cash"); err != nil {
		t.Fatalf("expense add failed: %v", err)
	}

	out, err = execute(t, configPath, "send", "--force")
	if err != nil || out != "delivered to 42\n" {
		t.Fatalf("send --force = %q, %v", out, err)
	}
	digestText := stub.last()
	if !strings.Contains(digestText, "1. Gym (legs)") || !strings.Contains(digestText, "*Total:* $10") {
		t.Errorf("digest = %q", digestText)
	}

	out, err = execute(t, configPath, "send")
	if err != nil || out != "skipped: already sent today\n" {
		t.Errorf("second send = %q, %v", out, err)
	}
}

func TestCLIRejectsInvalidInput(t *testing.T) {
	_, configPath := setupEnv(t)

	if _, err := execute(t, configPath, "reset"); err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Errorf("reset without --yes = %v", err)
	}
	if _, err := execute(t, configPath, "task", "add", "--title", "Gym", "--days", "someday"); err == nil {
		t.Error("Expected error for unknown day")
	}
	if _, err := execute(t, configPath, "schedule", "set", "--days", "Mon", "--time", "25:00"); err == nil {
		t.Error("Expected error for invalid time")
	}
	if _, err := execute(t, configPath, "expense", "add", "--title", "Tea", "--price", "free", "--mode", "cash"); err == nil {
		t.Error("Expected error for invalid price")
	}
	if _, err := execute(t, configPath, "profile"); err == nil {
		t.Error("Expected error for missing profile")
	}

	out, err := execute(t, configPath, "schedule")
	if err != nil || !strings.Contains(out, "no schedule") {
		t.Errorf("schedule = %q, %v", out, err)
	}
}
