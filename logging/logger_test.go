package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestNewLogger(t *testing.T) {
	t.Setenv("WARDEN_HOME", t.TempDir())

	logger := NewLogger("test-component")
	if logger == nil {
		t.Fatal("Expected logger to be created")
	}

	// Verify it's a logrus.Entry with the component field
	if logger.Data["component"] != "test-component" {
		t.Errorf("Expected component to be 'test-component', got %v", logger.Data["component"])
	}

	// Same component returns the same entry
	again := NewLogger("test-component")
	if again != logger {
		t.Error("Expected NewLogger to return the same entry for a component")
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&TextFormatter{Config: FormatConfig{}})

	entry := logger.WithField("component", "test")
	entry.Info("Test message")

	output := buf.String()

	if !strings.Contains(output, "[INFO]") {
		t.Errorf("Expected output to contain [INFO], got: %s", output)
	}
	if !strings.Contains(output, "[test]") {
		t.Errorf("Expected output to contain [test], got: %s", output)
	}
	if !strings.Contains(output, "Test message") {
		t.Errorf("Expected output to contain 'Test message', got: %s", output)
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		entry   *logrus.Entry
		want    []string
		notWant []string
	}{
		{
			name:   "default format",
			config: FormatConfig{},
			entry: &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: "test message",
				Data: logrus.Fields{
					"component": "test-component",
					"key1":      "value1",
				},
			},
			want:    []string{"[INFO]", "[test-component]", "test message", "key1=value1"},
			notWant: []string{},
		},
		{
			name: "simple format",
			config: FormatConfig{
				DisableTimestamp: true,
				DisableComponent: true,
			},
			entry: &logrus.Entry{
				Level:   logrus.WarnLevel,
				Message: "warn message",
				Data: logrus.Fields{
					"component": "hidden",
				},
			},
			want:    []string{"[WARN]", "warn message"},
			notWant: []string{"[hidden]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &TextFormatter{Config: tt.config}
			out, err := f.Format(tt.entry)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(string(out), want) {
					t.Errorf("output missing %q: %s", want, out)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(string(out), notWant) {
					t.Errorf("output should not contain %q: %s", notWant, out)
				}
			}
		})
	}
}

func TestFileSinkSelection(t *testing.T) {
	t.Setenv("WARDEN_HOME", t.TempDir())

	plain := newFileSink("sink-test", FileSinkConfig{})
	if _, ok := plain.(*reopenWriter); !ok {
		t.Errorf("expected reopenWriter without rotation, got %T", plain)
	}

	rotated := newFileSink("sink-test", FileSinkConfig{
		Rotate: RotationConfig{MaxSizeMB: 10, MaxBackups: 3},
	})
	if _, ok := rotated.(*lumberjack.Logger); !ok {
		t.Errorf("expected lumberjack.Logger with rotation, got %T", rotated)
	}
}

func TestReopenWriterSurvivesDeletion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.log")

	w := newReopenWriter(path)
	defer w.Close()

	if _, err := w.Write([]byte("first\n")); err != nil {
		t.Fatalf("first Write() error = %v", err)
	}

	// Simulate an external cleanup removing the log file
	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, err := w.Write([]byte("second\n")); err != nil {
		t.Fatalf("Write() after deletion error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file was not recreated: %v", err)
	}
	if !strings.Contains(string(data), "second") {
		t.Errorf("recreated log file missing new entry, got: %s", data)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got := expandPath("~/logs/warden.log")
	want := filepath.Join(home, "logs/warden.log")
	if got != want {
		t.Errorf("expandPath() = %q, want %q", got, want)
	}

	if got := expandPath("/var/log/warden.log"); got != "/var/log/warden.log" {
		t.Errorf("expandPath() modified absolute path: %q", got)
	}
}
