package cmd

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/aws/smithy-go/logging"
	"github.com/chukul/eventpush/internal"
)

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("EVENTPUSH_PROFILE", "from-env")
	t.Setenv("EVENTPUSH_LOG_LEVEL", "info")

	cfg, err := loadConfig(rootCmd)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Profile != "from-env" || cfg.LogLevel != "info" {
		t.Errorf("env not applied: %+v", cfg)
	}

	if err := rootCmd.Flags().Set("profile", "from-flag"); err != nil {
		t.Fatalf("Failed to set flag: %v", err)
	}
	t.Cleanup(func() {
		rootCmd.Flags().Set("profile", "")
		rootCmd.Flags().Lookup("profile").Changed = false
	})

	cfg, err = loadConfig(rootCmd)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Profile != "from-flag" {
		t.Errorf("Profile = %q, want from-flag", cfg.Profile)
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := newLogger("chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestSDKLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sdkLogger{logger}.Logf(logging.Warn, "retrying %s", "PutEvents")
	sdkLogger{logger}.Logf(logging.Debug, "response %d", 200)

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "retrying PutEvents") {
		t.Errorf("missing warn line:\n%s", out)
	}
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "source=aws-sdk") {
		t.Errorf("missing debug line:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	if !strings.Contains(out.String(), "eventpush version") || !strings.Contains(out.String(), internal.EventBusName) {
		t.Errorf("got %q", out.String())
	}
}
