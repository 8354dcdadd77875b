package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	c := &RealClock{}

	before := time.Now()
	result := c.Now()
	after := time.Now()

	if result.Before(before) || result.After(after) {
		t.Errorf("Now() returned %v, expected between %v and %v", result, before, after)
	}
}

func TestMockClock_Now(t *testing.T) {
	mockTime := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	mock := NewMockClock(mockTime)

	if result := mock.Now(); !result.Equal(mockTime) {
		t.Errorf("MockClock.Now() returned %v, expected exactly %v", result, mockTime)
	}
}

func TestMockClock_Advance(t *testing.T) {
	mockTime := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	mock := NewMockClock(mockTime)

	mock.Advance(time.Hour)

	expected := mockTime.Add(time.Hour)
	if result := mock.Now(); !result.Equal(expected) {
		t.Errorf("after Advance(1h) Now() returned %v, expected %v", result, expected)
	}
}

func TestMockClock_Set(t *testing.T) {
	mock := NewMockClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	newTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.Set(newTime)

	if result := mock.Now(); !result.Equal(newTime) {
		t.Errorf("after Set Now() returned %v, expected %v", result, newTime)
	}
}

func TestMockClock_Since(t *testing.T) {
	start := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	mock := NewMockClock(start)
	mock.Advance(90 * time.Second)

	if d := mock.Since(start); d != 90*time.Second {
		t.Errorf("Since() returned %v, expected 90s", d)
	}
}
