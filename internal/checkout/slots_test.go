package checkout

import (
	"reflect"
	"testing"

	"github.com/dineflow/api/internal/enum"
)

func TestGenerateSlots_Single(t *testing.T) {
	day := DayHours{TimeMode: enum.TimeModeSingle, OpenTime: "12:00", CloseTime: "13:00"}

	got := GenerateSlots(day, 15)
	want := []string{"12:00", "12:15", "12:30", "12:45"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots: got %v, want %v", got, want)
	}
}

func TestGenerateSlots_CloseTimeExcluded(t *testing.T) {
	// 09:00 to 09:31 at 15min gives 09:00, 09:15, 09:30; the close time
	// itself is never bookable.
	day := DayHours{TimeMode: enum.TimeModeSplit, MorningOpen: "09:00", MorningClose: "09:31"}

	got := GenerateSlots(day, 15)
	want := []string{"09:00", "09:15", "09:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots: got %v, want %v", got, want)
	}
}

func TestGenerateSlots_Split(t *testing.T) {
	day := DayHours{
		TimeMode:     enum.TimeModeSplit,
		MorningOpen:  "11:30",
		MorningClose: "14:00",
		EveningOpen:  "17:00",
		EveningClose: "18:00",
	}

	got := GenerateSlots(day, 30)
	want := []string{"11:30", "12:00", "12:30", "13:00", "13:30", "17:00", "17:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots: got %v, want %v", got, want)
	}
}

func TestGenerateSlots_Closed(t *testing.T) {
	day := DayHours{Closed: true, TimeMode: enum.TimeModeSingle, OpenTime: "09:00", CloseTime: "17:00"}

	if got := GenerateSlots(day, 15); len(got) != 0 {
		t.Errorf("closed day: got %v, want no slots", got)
	}
}

func TestGenerateSlots_OpenEqualsClose(t *testing.T) {
	day := DayHours{TimeMode: enum.TimeModeSingle, OpenTime: "09:00", CloseTime: "09:00"}

	if got := GenerateSlots(day, 15); len(got) != 0 {
		t.Errorf("zero-length window: got %v, want no slots", got)
	}
}

func TestGenerateSlots_InvertedWindow(t *testing.T) {
	day := DayHours{TimeMode: enum.TimeModeSingle, OpenTime: "17:00", CloseTime: "09:00"}

	if got := GenerateSlots(day, 15); len(got) != 0 {
		t.Errorf("inverted window: got %v, want no slots", got)
	}
}

func TestGenerateSlots_SplitWithEmptyEvening(t *testing.T) {
	// Partially-filled config from the admin UI: evening fields fall back to
	// 09:00/09:00, an empty window.
	day := DayHours{TimeMode: enum.TimeModeSplit, MorningOpen: "10:00", MorningClose: "10:30"}

	got := GenerateSlots(day, 15)
	want := []string{"10:00", "10:15"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots: got %v, want %v", got, want)
	}
}

func TestGenerateSlots_MalformedTimesFallBack(t *testing.T) {
	day := DayHours{TimeMode: enum.TimeModeSingle, OpenTime: "garbage", CloseTime: "09:45"}

	got := GenerateSlots(day, 15)
	want := []string{"09:00", "09:15", "09:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots with malformed open time: got %v, want %v", got, want)
	}
}

func TestGenerateSlots_DefaultInterval(t *testing.T) {
	day := DayHours{TimeMode: enum.TimeModeSingle, OpenTime: "09:00", CloseTime: "10:00"}

	got := GenerateSlots(day, 0)
	want := []string{"09:00", "09:15", "09:30", "09:45"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots with default interval: got %v, want %v", got, want)
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	day := DayHours{
		TimeMode:     enum.TimeModeSplit,
		MorningOpen:  "09:00",
		MorningClose: "12:00",
		EveningOpen:  "17:00",
		EveningClose: "21:00",
	}

	first := GenerateSlots(day, 15)
	second := GenerateSlots(day, 15)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ: %v vs %v", first, second)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		minutes int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"23:59", 1439},
		{" 12:30 ", 750},
		{"24:00", 540}, // out of range, falls back
		{"12:60", 540},
		{"noon", 540},
		{"", 540},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseClock(tt.input); got != tt.minutes {
				t.Errorf("parseClock(%q): got %d, want %d", tt.input, got, tt.minutes)
			}
		})
	}
}
