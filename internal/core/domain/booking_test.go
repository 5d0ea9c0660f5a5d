package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestQuote_ThreeDaysAtHundred(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	days, total, err := Quote(start, end, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 3 {
		t.Fatalf("expected 3 days, got %v", days)
	}
	if total != 300 {
		t.Fatalf("expected total 300, got %v", total)
	}
}

func TestQuote_FractionalDaysAllowed(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(36 * time.Hour)

	days, total, err := Quote(start, end, 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 1.5 {
		t.Fatalf("expected 1.5 days, got %v", days)
	}
	if total != 120 {
		t.Fatalf("expected total 120, got %v", total)
	}
}

func TestQuote_RejectsEmptyAndReversedRanges(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	if _, _, err := Quote(start, start, 100); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero-length range, got %v", err)
	}
	if _, _, err := Quote(start, start.Add(-time.Hour), 100); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for reversed range, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2025-03-01":                time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		"2025-03-01T10:30:00Z":      time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		"2025-03-01T10:30:00-05:00": time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC),
		" 2025-03-01T10:30 ":        time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseDate("startDate", in)
		if err != nil {
			t.Fatalf("ParseDate(%q) error: %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseDate("endDate", "next tuesday"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBooking_OwnedBy(t *testing.T) {
	b := &Booking{UserID: "u1"}

	if !b.OwnedBy(Identity{ID: "u1", Role: RoleUser}) {
		t.Fatalf("owner should be allowed")
	}
	if b.OwnedBy(Identity{ID: "u2", Role: RoleUser}) {
		t.Fatalf("other user should not be allowed")
	}
	if !b.OwnedBy(Identity{ID: "a1", Role: RoleAdmin}) || !b.OwnedBy(Identity{ID: "s1", Role: RoleSuperadmin}) {
		t.Fatalf("staff should be allowed")
	}
}

func TestCar_CanManage(t *testing.T) {
	c := &Car{CreatedBy: "a1"}

	if !c.CanManage(Identity{ID: "a1", Role: RoleAdmin}) {
		t.Fatalf("creator should manage the car")
	}
	if c.CanManage(Identity{ID: "a2", Role: RoleAdmin}) {
		t.Fatalf("other admin should not manage the car")
	}
	if !c.CanManage(Identity{ID: "s1", Role: RoleSuperadmin}) {
		t.Fatalf("superadmin should manage any car")
	}
}

func TestIdentity_HasRole(t *testing.T) {
	admin := Identity{ID: "a1", Role: RoleAdmin}

	if !admin.HasRole(StaffRoles...) {
		t.Fatalf("admin should be staff")
	}
	if admin.HasRole(RoleSuperadmin) {
		t.Fatalf("admin is not superadmin")
	}
	if admin.HasRole() {
		t.Fatalf("no roles should match nothing")
	}
}

func TestSession_JSONUsesCamelCase(t *testing.T) {
	raw, err := json.Marshal(Session{Token: "t", UserID: "u1", CreatedAt: time.Unix(0, 0).UTC()})
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if got["userId"] != "u1" || got["createdAt"] == nil {
		t.Fatalf("unexpected keys: %s", raw)
	}
}

func TestSession_ExpiredBoundary(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{CreatedAt: created}

	if s.Expired(created.Add(time.Hour), time.Hour) {
		t.Fatalf("session exactly at the TTL must still be valid")
	}
	if !s.Expired(created.Add(time.Hour+time.Millisecond), time.Hour) {
		t.Fatalf("session past the TTL must be expired")
	}
}
