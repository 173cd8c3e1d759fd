package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"keydrill/internal/model"
)

func TestMovingAverage(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		window int
		want   []float64
	}{
		{
			name:   "window one passes through",
			values: []float64{1, 2, 3},
			window: 1,
			want:   []float64{1, 2, 3},
		},
		{
			name:   "window two",
			values: []float64{2, 4, 6, 8},
			window: 2,
			want:   []float64{2, 3, 5, 7},
		},
		{
			name:   "window larger than input",
			values: []float64{3, 6},
			window: 5,
			want:   []float64{3, 4.5},
		},
		{
			name:   "empty",
			values: nil,
			window: 3,
			want:   []float64{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MovingAverage(tt.values, tt.window)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d values, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Fatalf("value %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	flat := Sparkline([]float64{5, 5, 5})
	if len(flat) != 3 {
		t.Fatalf("expected 3 chars, got %q", flat)
	}
	rising := Sparkline([]float64{0, 50, 100})
	if rising[0] != sparkChars[0] {
		t.Fatalf("expected lowest char first, got %q", rising)
	}
	if rising[2] != sparkChars[len(sparkChars)-1] {
		t.Fatalf("expected highest char last, got %q", rising)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSummary(&buf, []model.SessionAggregate{
		{WPM: 40, Accuracy: 0.9, Consistency: 0.8, Chars: 100, Errors: 10, DurationMs: 60000},
		{WPM: 60, Accuracy: 1.0, Consistency: 0.9, Chars: 200, Errors: 0, DurationMs: 120000},
	})
	if err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Sessions: 2",
		"Avg WPM: 50.00",
		"Best WPM: 60.00",
		"Avg Accuracy: 95.00%",
		"Avg Consistency: 0.85",
		"Chars Typed: 300 (10 errors)",
		"Time Practiced: 3.0 min",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("expected empty-state message, got %q", buf.String())
	}
}

func TestRenderCurves(t *testing.T) {
	var buf bytes.Buffer
	sessions := []model.SessionAggregate{
		{WPM: 30, Accuracy: 0.8},
		{WPM: 35, Accuracy: 0.85},
		{WPM: 40, Accuracy: 0.9},
	}
	if err := RenderCurves(&buf, sessions, 2); err != nil {
		t.Fatalf("RenderCurves failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Learning Curves") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "WPM") || !strings.Contains(out, "Accuracy") {
		t.Fatalf("expected both series names in output")
	}
}

func TestRenderCurvesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCurves(&buf, nil, 3); err != nil {
		t.Fatalf("RenderCurves failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty sessions, got %q", buf.String())
	}
}
