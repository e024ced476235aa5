package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	err := Init(WithFormat("xml"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf), WithFormat("JSON")); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Named("parser").With(String("run_id", "r1")).Info(ctx, "parsed",
		Int("items", 3), Bool("ok", true), Duration("took", time.Second), Strings("sources", []string{"a", "b"}))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "parsed" || rec["component"] != "parser" || rec["run_id"] != "r1" {
		t.Errorf("unexpected record: %v", rec)
	}
	if rec["items"] != float64(3) || rec["ok"] != true {
		t.Errorf("fields missing: %v", rec)
	}
	source, _ := rec["source"].(string)
	if !strings.Contains(source, "logger_test.go") {
		t.Errorf("expected caller in source, got %q", source)
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Get().Debug(ctx, "hidden")
	if buf.Len() != 0 {
		t.Errorf("debug must be filtered at info level, got %q", buf.String())
	}

	if err := SetLevelString("debug"); err != nil {
		t.Fatal(err)
	}
	Get().Debug(ctx, "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected debug output, got %q", buf.String())
	}

	buf.Reset()
	if err := SetLevelString("warning"); err != nil {
		t.Fatal(err)
	}
	Get().Info(ctx, "quiet")
	Get().Warn(ctx, "loud", Error(errors.New("boom")))
	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "boom") {
		t.Errorf("unexpected output at warn level: %q", out)
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
