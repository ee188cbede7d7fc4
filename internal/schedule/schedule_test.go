package schedule

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTimeRange(t *testing.T) {
	cases := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{"two hour booking", "14:00", "16:00", nil},
		{"exactly one hour", "10:00", "11:00", nil},
		{"end before start", "15:00", "14:00", ErrInvalidRange},
		{"end equals start", "14:00", "14:00", ErrInvalidRange},
		{"half hour too short", "14:00", "14:30", ErrTooShort},
		{"midnight sentinel skips ordering", "22:00", "00:00", nil},
		{"midnight sentinel late start", "23:00", "00:00", nil},
		{"midnight sentinel early start", "01:00", "00:00", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTimeRange(tc.start, tc.end)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ValidateTimeRange(%q, %q) = %v, want %v", tc.start, tc.end, err, tc.wantErr)
			}
		})
	}
}

func TestValidateTimeRangeRejectsMalformed(t *testing.T) {
	if err := ValidateTimeRange("25:00", "26:00"); err == nil {
		t.Fatal("expected error for out-of-range hour")
	}
	if err := ValidateTimeRange("banana", "16:00"); err == nil {
		t.Fatal("expected error for non-numeric time")
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"partial overlap", Interval{"10:00", "11:00"}, Interval{"10:30", "11:30"}, true},
		{"contained", Interval{"10:00", "14:00"}, Interval{"11:00", "12:00"}, true},
		{"identical", Interval{"10:00", "11:00"}, Interval{"10:00", "11:00"}, true},
		{"back to back", Interval{"10:00", "11:00"}, Interval{"11:00", "12:00"}, false},
		{"disjoint", Interval{"08:00", "09:00"}, Interval{"12:00", "13:00"}, false},
		{"midnight end overlaps evening", Interval{"22:00", "00:00"}, Interval{"23:00", "00:00"}, true},
		{"midnight end clears afternoon", Interval{"22:00", "00:00"}, Interval{"14:00", "16:00"}, false},
		{"seconds stripped from stored times", Interval{"10:00", "11:00"}, Interval{"10:30:00", "11:30:00"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.a, tc.b); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			// The overlap test is symmetric.
			if got := Overlaps(tc.b, tc.a); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.b, tc.a, got, tc.want)
			}
		})
	}
}

func TestCheckAvailabilityNamesConflicts(t *testing.T) {
	existing := []Interval{
		{"10:00:00", "11:00:00"},
		{"14:00", "16:00"},
	}
	err := CheckAvailability(Interval{"10:30", "11:30"}, existing)
	if err == nil {
		t.Fatal("expected a conflict for 10:30-11:30 against 10:00-11:00")
	}
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *ConflictError, got %T", err)
	}
	if len(conflict.Existing) != 1 || conflict.Existing[0].String() != "10:00-11:00" {
		t.Fatalf("unexpected conflicting intervals: %v", conflict.Existing)
	}
	if !strings.Contains(conflict.Error(), "10:00-11:00") {
		t.Fatalf("conflict message should name the colliding interval, got %q", conflict.Error())
	}

	if err := CheckAvailability(Interval{"11:00", "12:00"}, existing); err != nil {
		t.Fatalf("back-to-back slot should be free, got %v", err)
	}
}

func TestWithinOperatingHours(t *testing.T) {
	cases := []struct {
		name    string
		start   string
		end     string
		window  string
		outside bool
	}{
		{"inside window", "10:00", "12:00", "08:00-23:00", false},
		{"edges of window", "08:00", "23:00", "08:00-23:00", false},
		{"before opening", "07:00", "09:00", "08:00-23:00", true},
		{"past closing", "21:00", "23:30", "08:00-23:00", true},
		{"sentinel end passes early closing", "22:00", "00:00", "08:00-23:00", false},
		{"midnight closing accepts sentinel", "22:00", "00:00", "08:00-00:00", false},
		{"sentinel end still needs valid start", "07:00", "00:00", "08:00-23:00", true},
		{"no window no restriction", "03:00", "04:00", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := WithinOperatingHours(tc.start, tc.end, tc.window)
			var outside *OutsideHoursError
			if got := errors.As(err, &outside); got != tc.outside {
				t.Fatalf("WithinOperatingHours(%q, %q, %q) = %v, outside=%v want %v",
					tc.start, tc.end, tc.window, err, got, tc.outside)
			}
		})
	}
}

func TestDurationHours(t *testing.T) {
	cases := []struct {
		start string
		end   string
		want  float64
	}{
		{"14:00", "16:00", 2},
		{"10:00", "11:30", 1.5},
		{"22:00", "00:00", 2},  // 24 - 22
		{"20:00", "00:00", 4},  // 24 - 20
		{"00:00", "00:00", 24}, // full day at the closing sentinel
	}
	for _, tc := range cases {
		got, err := DurationHours(tc.start, tc.end)
		if err != nil {
			t.Fatalf("DurationHours(%q, %q): %v", tc.start, tc.end, err)
		}
		if got != tc.want {
			t.Fatalf("DurationHours(%q, %q) = %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestCost(t *testing.T) {
	// Court rate $100/hr, booking 14:00-16:00 -> $200.00.
	if got := Cost(100, "14:00", "16:00"); got != 200 {
		t.Fatalf("Cost(100, 14:00, 16:00) = %v, want 200", got)
	}
	// 22:00-00:00 is two hours at the closing sentinel.
	if got := Cost(150, "22:00", "00:00"); got != 300 {
		t.Fatalf("Cost(150, 22:00, 00:00) = %v, want 300", got)
	}
	// Cost is linear in duration and rounded to two decimals.
	if got := Cost(100, "10:00", "11:20"); got != 133.33 {
		t.Fatalf("Cost(100, 10:00, 11:20) = %v, want 133.33", got)
	}
	if got := Cost(80, "10:00", "11:30"); got != 120 {
		t.Fatalf("Cost(80, 10:00, 11:30) = %v, want 120", got)
	}
	// Malformed input degrades to zero instead of failing the booking.
	if got := Cost(100, "bad", "16:00"); got != 0 {
		t.Fatalf("Cost with malformed start = %v, want 0", got)
	}
}

func TestValidWindow(t *testing.T) {
	valid := []string{"", "08:00-23:00", "00:00-00:00", "06:30-22:00"}
	for _, w := range valid {
		if !ValidWindow(w) {
			t.Fatalf("ValidWindow(%q) = false, want true", w)
		}
	}
	invalid := []string{"08:00", "8am-10pm", "23:00-08:00", "25:00-26:00"}
	for _, w := range invalid {
		if ValidWindow(w) {
			t.Fatalf("ValidWindow(%q) = true, want false", w)
		}
	}
}
