package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{LevelOff, false, false},
		{LevelNormal, false, true},
		{LevelVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, &buf)
			log.Debug("debug %d", 1)
			log.Info("info %d", 2)

			out := buf.String()
			if got := strings.Contains(out, "[DBG] "); got != tt.wantDebug {
				t.Fatalf("debug output=%v, want %v: %q", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "[INF] "); got != tt.wantInfo {
				t.Fatalf("info output=%v, want %v: %q", got, tt.wantInfo, out)
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelOff, &buf)
	log.Warn("hidden")
	log.SetLevel(LevelNormal)
	log.Warn("shown %s", "now")

	if log.GetLevel() != LevelNormal {
		t.Fatalf("expected normal level, got %s", log.GetLevel())
	}
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "[WRN] ") || !strings.Contains(out, "shown now") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"", LevelNormal, false},
		{"verbose", LevelVerbose, false},
		{"DEBUG", LevelVerbose, false},
		{" off ", LevelOff, false},
		{"loud", LevelNormal, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v, wantErr=%v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
