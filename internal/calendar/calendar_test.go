package calendar

import (
	"context"
	"testing"
	"time"
)

func TestStaticProviderSkipsWeekends(t *testing.T) {
	p, err := NewStaticProvider(nil)
	if err != nil {
		t.Fatalf("NewStaticProvider: %v", err)
	}

	// 2023-01-02 (Mon) through 2023-01-08 (Sun).
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC)

	sessions, err := p.Sessions(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}

	if len(sessions) != 5 {
		t.Fatalf("got %d sessions, want 5 weekdays", len(sessions))
	}
	for _, s := range sessions {
		if s.Weekday() == time.Saturday || s.Weekday() == time.Sunday {
			t.Errorf("session %s falls on a weekend", s.Format("2006-01-02"))
		}
	}
}

func TestStaticProviderSkipsHolidays(t *testing.T) {
	p, err := NewStaticProvider([]string{"2023-01-02"})
	if err != nil {
		t.Fatalf("NewStaticProvider: %v", err)
	}

	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 6, 0, 0, 0, 0, time.UTC)

	sessions, err := p.Sessions(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}

	if len(sessions) != 4 {
		t.Fatalf("got %d sessions, want 4 (holiday excluded)", len(sessions))
	}
	if sessions[0].Format("2006-01-02") != "2023-01-03" {
		t.Errorf("first session = %s, want 2023-01-03", sessions[0].Format("2006-01-02"))
	}
}

func TestStaticProviderBadHoliday(t *testing.T) {
	if _, err := NewStaticProvider([]string{"01/02/2023"}); err == nil {
		t.Fatal("NewStaticProvider should reject non-ISO holiday dates")
	}
}

func TestStaticProviderOrdering(t *testing.T) {
	p, _ := NewStaticProvider(nil)

	start := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)

	sessions, err := p.Sessions(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}

	for i := 1; i < len(sessions); i++ {
		if !sessions[i].After(sessions[i-1]) {
			t.Fatalf("sessions not strictly ascending at index %d", i)
		}
	}
}
