package cache

import (
	"math"
	"testing"
	"time"
)

func TestIsFresh(t *testing.T) {
	timestamp := fixedNow()
	expiry := timestamp.AddDate(0, 0, MaxCacheAgeInDays)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"same instant", timestamp, true},
		{"one second before expiry", expiry.Add(-time.Second), true},
		{"at expiry", expiry, false},
		{"one second after expiry", expiry.Add(time.Second), false},
		{"before timestamp", timestamp.Add(-time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFresh(timestamp, tt.now); got != tt.want {
				t.Errorf("IsFresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFresh_UsesCalendarDays(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}
	prev := time.Local
	time.Local = loc
	defer func() { time.Local = prev }()

	// the week contains the spring-forward transition of 2024-03-10, so it is 167 hours long
	timestamp := time.Date(2024, time.March, 8, 12, 0, 0, 0, loc)
	expiry := time.Date(2024, time.March, 15, 12, 0, 0, 0, loc)
	if d := expiry.Sub(timestamp); d != 167*time.Hour {
		t.Fatalf("unexpected week length %v", d)
	}

	if !IsFresh(timestamp, expiry.Add(-time.Second)) {
		t.Error("expected fresh one second before the calendar expiry")
	}
	if IsFresh(timestamp, timestamp.Add(7*24*time.Hour-time.Second)) {
		t.Error("expected stale after the calendar expiry even though 168h have not elapsed")
	}
}

func TestIsFresh_UncomputableTimestampIsStale(t *testing.T) {
	if IsFresh(time.Time{}, fixedNow()) {
		t.Error("zero timestamp should be stale")
	}
	far := time.Unix(math.MaxInt64-62135596800, 0)
	if IsFresh(far, fixedNow()) {
		t.Error("timestamp whose expiry overflows should be stale")
	}
}
