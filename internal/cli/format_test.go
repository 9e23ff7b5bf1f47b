package cli

import "testing"

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0s"},
		{45, "45s"},
		{125, "2m"},
		{3725, "1h 2m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{2.04, "2.0"},
		{9.96, "10.0"},
		{24.4, "24"},
	}
	for _, tt := range tests {
		if got := FormatRate(tt.in); got != tt.want {
			t.Errorf("FormatRate(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatHour(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "12am"},
		{1, "1am"},
		{12, "12pm"},
		{13, "1pm"},
		{23, "11pm"},
	}
	for _, tt := range tests {
		if got := FormatHour(tt.in); got != tt.want {
			t.Errorf("FormatHour(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDayOfWeek(t *testing.T) {
	if got := FormatDayOfWeek(0); got != "Sun" {
		t.Errorf("FormatDayOfWeek(0) = %q", got)
	}
	if got := FormatDayOfWeek(6); got != "Sat" {
		t.Errorf("FormatDayOfWeek(6) = %q", got)
	}
	if got := FormatDayOfWeek(9); got != "???" {
		t.Errorf("FormatDayOfWeek(9) = %q", got)
	}
}
