package checkout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dineflow/api/internal/enum"
)

// DefaultSlotInterval is the slot spacing used when the caller passes a
// non-positive interval.
const DefaultSlotInterval = 15

// fallbackClock is substituted for malformed or missing time fields. The
// admin UI saves partially-filled opening hours during editing, so slot
// generation must stay fail-soft.
const fallbackClock = "09:00"

// GenerateSlots expands one day's opening hours into bookable "HH:MM" slots
// at the given interval in minutes. Windows are half-open [open, close): a
// slot exactly at closing time is excluded, and a window whose open is not
// before its close contributes nothing. Deterministic for identical inputs.
func GenerateSlots(day DayHours, intervalMinutes int) []string {
	if day.Closed {
		return nil
	}
	if intervalMinutes <= 0 {
		intervalMinutes = DefaultSlotInterval
	}

	if day.TimeMode == enum.TimeModeSplit {
		slots := windowSlots(day.MorningOpen, day.MorningClose, intervalMinutes)
		return append(slots, windowSlots(day.EveningOpen, day.EveningClose, intervalMinutes)...)
	}
	return windowSlots(day.OpenTime, day.CloseTime, intervalMinutes)
}

// windowSlots emits slots for a single [open, close) window.
func windowSlots(open, close string, interval int) []string {
	start := parseClock(open)
	end := parseClock(close)

	var slots []string
	for t := start; t < end; t += interval {
		slots = append(slots, formatClock(t))
	}
	return slots
}

// parseClock converts "HH:MM" to minutes since midnight, falling back to
// 09:00 for anything malformed.
func parseClock(s string) int {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return parseClock(fallbackClock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return parseClock(fallbackClock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return parseClock(fallbackClock)
	}
	return h*60 + m
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
