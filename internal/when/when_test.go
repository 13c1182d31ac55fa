package when

import (
	"testing"
	"time"
)

var ref = time.Date(2024, 3, 6, 14, 25, 10, 0, time.Local)

func TestDate(t *testing.T) {
	tests := []struct {
		in     string
		layout string
		want   string
	}{
		{"", "2006-01-02", "2024-03-06"},
		{"today", "2006-01-02", "2024-03-06"},
		{"now", "2006-01-02", "2024-03-06"},
		{"2024-03-04", "2006-01-02", "2024-03-04"},
		{"04.03.2024", "2006-01-02", "2024-03-04"},
		{"03/04/2024", "01/02/2006", "2024-03-04"},
		{"yesterday", "2006-01-02", "2024-03-05"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Date(tt.in, tt.layout, ref)
			if err != nil {
				t.Fatalf("Date(%q): %v", tt.in, err)
			}
			if s := got.Format("2006-01-02"); s != tt.want {
				t.Errorf("Date(%q) = %s, want %s", tt.in, s, tt.want)
			}
		})
	}
}

func TestTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "2024-03-06 14:25:10"},
		{"now", "2024-03-06 14:25:10"},
		{"08:30:15", "2024-03-06 08:30:15"},
		{"8:30", "2024-03-06 08:30:00"},
		{"5pm", "2024-03-06 17:00:00"},
		{"4:45PM", "2024-03-06 16:45:00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Time(tt.in, "15:04:05", ref)
			if err != nil {
				t.Fatalf("Time(%q): %v", tt.in, err)
			}
			if s := got.Format("2006-01-02 15:04:05"); s != tt.want {
				t.Errorf("Time(%q) = %s, want %s", tt.in, s, tt.want)
			}
		})
	}
}

func TestDate_Invalid(t *testing.T) {
	for _, in := range []string{"banana", "not a date at all", "2024-13-45"} {
		t.Run(in, func(t *testing.T) {
			if got, err := Date(in, "2006-01-02", ref); err == nil {
				t.Errorf("Date(%q) = %v, want error", in, got)
			}
		})
	}
}

func TestTime_Invalid(t *testing.T) {
	for _, in := range []string{"not a time", "banana"} {
		t.Run(in, func(t *testing.T) {
			if got, err := Time(in, "15:04:05", ref); err == nil {
				t.Errorf("Time(%q) = %v, want error", in, got)
			}
		})
	}
}
