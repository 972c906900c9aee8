package main

import (
	"testing"
	"time"
)

func TestOfflineWindow(t *testing.T) {
	last := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	now := last.Add(90 * time.Minute)

	tests := []struct {
		name    string
		seconds float64
		apply   bool
		want    float64
	}{
		{"preview uses the requested window", 28800, false, 28800},
		{"apply uses the real absence", 28800, true, 5400},
		{"apply ignores the default window", 3600, true, 5400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := offlineWindow(last, now, tt.seconds, tt.apply); got != tt.want {
				t.Errorf("offlineWindow() = %v, want %v", got, tt.want)
			}
		})
	}
}
