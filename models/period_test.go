package models

import (
	"testing"
	"time"
)

func TestCurrentPeriod_StartsMondayUTC(t *testing.T) {
	// Wednesday, 2024-03-06 is inside ISO week 2024-W10
	now := time.Date(2024, 3, 6, 15, 30, 0, 0, time.UTC)

	period := CurrentPeriod(now)

	if period.Key != "2024-W10" {
		t.Errorf("expected key 2024-W10, got %s", period.Key)
	}
	wantStart := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if !period.Start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, period.Start)
	}
	if !period.End.Equal(wantStart.AddDate(0, 0, 7)) {
		t.Errorf("expected end exactly one week after start, got %v", period.End)
	}
}

func TestCurrentPeriod_SundayBelongsToSameWeek(t *testing.T) {
	// Sunday, 2024-03-10 23:59 still belongs to 2024-W10
	now := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)

	period := CurrentPeriod(now)

	if period.Key != "2024-W10" {
		t.Errorf("expected key 2024-W10, got %s", period.Key)
	}
	if !period.Contains(now) {
		t.Error("expected Sunday evening to fall inside the week")
	}
}

func TestCurrentPeriod_YearBoundary(t *testing.T) {
	// 2024-12-30 is a Monday that ISO-8601 assigns to week 1 of 2025
	now := time.Date(2024, 12, 30, 12, 0, 0, 0, time.UTC)

	period := CurrentPeriod(now)

	if period.Key != "2025-W01" {
		t.Errorf("expected key 2025-W01, got %s", period.Key)
	}
	if !period.Start.Equal(time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected start on Monday 2024-12-30, got %v", period.Start)
	}
}

func TestCurrentPeriod_NonUTCInput(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// Monday 03:00 in UTC+9 is still Sunday 18:00 UTC of the prior week
	now := time.Date(2024, 3, 11, 3, 0, 0, 0, loc)

	period := CurrentPeriod(now)

	if period.Key != "2024-W10" {
		t.Errorf("expected period to follow UTC, got %s", period.Key)
	}
}

func TestPeriodKey_Padding(t *testing.T) {
	if got := PeriodKey(2024, 3); got != "2024-W03" {
		t.Errorf("expected zero-padded week, got %s", got)
	}
	if got := PeriodKey(2024, 52); got != "2024-W52" {
		t.Errorf("expected 2024-W52, got %s", got)
	}
}

func TestPeriodContains_Boundaries(t *testing.T) {
	period := CurrentPeriod(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))

	if !period.Contains(period.Start) {
		t.Error("start must be inclusive")
	}
	if period.Contains(period.End) {
		t.Error("end must be exclusive")
	}
	if period.Contains(period.Start.Add(-time.Second)) {
		t.Error("instant before start must be outside")
	}
}

func TestPeriodRemaining(t *testing.T) {
	period := CurrentPeriod(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))

	if got := period.Remaining(period.Start); got != 7*24*time.Hour {
		t.Errorf("expected a full week at start, got %v", got)
	}
	if got := period.Remaining(period.End.Add(time.Hour)); got != 0 {
		t.Errorf("expected zero after end, got %v", got)
	}
}

func TestAdminPasswordExpired(t *testing.T) {
	expiresAt := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	record := AdminPassword{ExpiresAt: expiresAt}

	if record.Expired(expiresAt.Add(-time.Second)) {
		t.Error("record must be valid just before expiry")
	}
	if !record.Expired(expiresAt) {
		t.Error("expiry instant itself must be rejected")
	}
	if !record.Expired(expiresAt.Add(time.Hour)) {
		t.Error("record must be expired after the window")
	}
}
