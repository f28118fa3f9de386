package library

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"3:45", 3*time.Minute + 45*time.Second, false},
		{"0:05", 5 * time.Second, false},
		{"1:02:03", time.Hour + 2*time.Minute + 3*time.Second, false},
		{"245", 245 * time.Second, false},
		{"12.5", 12500 * time.Millisecond, false},
		{"", 0, false},
		{"  4:00 ", 4 * time.Minute, false},
		{"3:75", 0, true},
		{"a:bc", 0, true},
		{"1:2:3:4", 0, true},
		{"-5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "--:--"},
		{5 * time.Second, "0:05"},
		{3*time.Minute + 45*time.Second, "3:45"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{59*time.Second + 600*time.Millisecond, "1:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.input); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{`"3:45"`, 225 * time.Second, false},
		{`225`, 225 * time.Second, false},
		{`null`, 0, false},
		{`"nope"`, 0, true},
		{`-1`, 0, true},
	}
	for _, tt := range tests {
		var d Duration
		err := json.Unmarshal([]byte(tt.input), &d)
		if (err != nil) != tt.wantErr {
			t.Errorf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if time.Duration(d) != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, time.Duration(d), tt.want)
		}
	}
}

func TestYear_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{`2024`, 2024},
		{`"2024"`, 2024},
		{`" 1999 "`, 1999},
		{`"unknown"`, 0},
		{`null`, 0},
		{`true`, 0},
	}
	for _, tt := range tests {
		var y Year
		if err := json.Unmarshal([]byte(tt.input), &y); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", tt.input, err)
			continue
		}
		if int(y) != tt.want {
			t.Errorf("Unmarshal(%s) = %d, want %d", tt.input, y, tt.want)
		}
	}
}
