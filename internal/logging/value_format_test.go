package logging

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value slog.Value
		want  string
	}{
		{"path with spaces", slog.StringValue("/footage/day 1/clipA.mov"), "/footage/day 1/clipA.mov"},
		{"empty string", slog.StringValue(""), `""`},
		{"padded string", slog.StringValue(" x"), `" x"`},
		{"newline", slog.StringValue("a\nb"), `"a\nb"`},
		{"scale factor", slog.Float64Value(0.5), "0.5"},
		{"sub second duration", slog.DurationValue(1500 * time.Microsecond), "1.5ms"},
		{"render duration", slog.DurationValue(2*time.Second + 345678*time.Microsecond), "2.346s"},
		{"long duration", slog.DurationValue(3*time.Minute + 2600*time.Millisecond), "3m3s"},
		{"shot numbers", slog.AnyValue([]int{100, 200}), "100, 200"},
		{"footage list", slog.AnyValue([]string{"a.mov", "b.mov"}), "a.mov, b.mov"},
		{"error", slog.AnyValue(errors.New(`exit "1"`)), `"exit \"1\""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.value); got != tt.want {
				t.Fatalf("formatValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAttrStringLeavesSubjectUnquoted(t *testing.T) {
	if got := attrString(slog.StringValue("")); got != "" {
		t.Fatalf("attrString(\"\") = %q", got)
	}
	if got := attrString(slog.IntValue(7)); got != "7" {
		t.Fatalf("attrString(7) = %q", got)
	}
}
