// Package schedule implements the availability and pricing rules for court
// bookings.  All functions are pure: they operate on wall-clock "HH:MM"
// strings for a single calendar date and never touch the database.  The
// only twist in the model is the closing-time sentinel: an end time of
// "00:00" denotes midnight of the following day and is always later than
// any start time on the booking date.  Internally times are converted to
// minutes since midnight, with "00:00" mapped to 1440 when it appears as
// an interval end.
package schedule

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// closeOfDay is the minute value assigned to the "00:00" sentinel when it
// appears as the end of an interval.
const closeOfDay = 24 * 60

// Midnight is the closing-time sentinel.  A booking ending at Midnight
// runs until the end of its calendar date.
const Midnight = "00:00"

// ErrInvalidRange is returned when the end time is not after the start time.
var ErrInvalidRange = errors.New("la hora de fin debe ser posterior a la hora de inicio")

// ErrTooShort is returned when a booking would last less than one hour.
var ErrTooShort = errors.New("la reserva debe ser de al menos 1 hora")

// Interval is a half-open [Start, End) time range on a single date.
type Interval struct {
	Start string // "HH:MM"
	End   string // "HH:MM"; "00:00" means next midnight
}

func (iv Interval) String() string {
	return Normalize(iv.Start) + "-" + Normalize(iv.End)
}

// ConflictError reports that a candidate interval overlaps one or more
// existing active bookings on the same court and date.  The message names
// every colliding interval so the caller can pick another slot.
type ConflictError struct {
	Candidate Interval
	Existing  []Interval
}

func (e *ConflictError) Error() string {
	ranges := make([]string, 0, len(e.Existing))
	for _, iv := range e.Existing {
		ranges = append(ranges, iv.String())
	}
	return fmt.Sprintf("conflicto de horarios: ya existe una reserva en %s; el horario %s se solapa con esta reserva existente",
		strings.Join(ranges, ", "), e.Candidate.String())
}

// OutsideHoursError reports that a candidate interval falls outside a
// court's operating-hours window.
type OutsideHoursError struct {
	Window string // e.g. "08:00-23:00"
}

func (e *OutsideHoursError) Error() string {
	return fmt.Sprintf("el horario seleccionado está fuera del horario disponible (%s)", e.Window)
}

// Normalize reduces a stored time value to "HH:MM".  Database TIME columns
// round-trip as "HH:MM:SS"; the seconds component is meaningless here and
// is stripped before any comparison.
func Normalize(clock string) string {
	parts := strings.Split(clock, ":")
	if len(parts) >= 2 {
		return parts[0] + ":" + parts[1]
	}
	return clock
}

// parseClock parses an "HH:MM" string into literal minutes since midnight.
func parseClock(clock string) (int, error) {
	parts := strings.Split(Normalize(clock), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("hora inválida: %q", clock)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, fmt.Errorf("hora inválida: %q", clock)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("hora inválida: %q", clock)
	}
	return hh*60 + mm, nil
}

// startMinutes converts a start boundary to minutes since midnight.  Start
// boundaries always use their literal value; "00:00" as a start is truly
// midnight at the beginning of the date.
func startMinutes(clock string) (int, error) {
	return parseClock(clock)
}

// endMinutes converts an end boundary to minutes since midnight, mapping
// the "00:00" sentinel to 1440 (end of day).
func endMinutes(clock string) (int, error) {
	m, err := parseClock(clock)
	if err != nil {
		return 0, err
	}
	if m == 0 {
		return closeOfDay, nil
	}
	return m, nil
}

// ValidateTimeRange checks that [start, end) is a well-formed booking
// range.  An end of "00:00" is accepted for any start, since it denotes
// the facility's closing time at the next midnight; the duration rule is
// handled separately for that case by DurationHours.  Otherwise the end
// must be strictly after the start and the range must span at least one
// hour.
func ValidateTimeRange(start, end string) error {
	s, err := parseClock(start)
	if err != nil {
		return err
	}
	if Normalize(end) == Midnight {
		return nil
	}
	e, err := parseClock(end)
	if err != nil {
		return err
	}
	if e <= s {
		return ErrInvalidRange
	}
	if e-s < 60 {
		return ErrTooShort
	}
	return nil
}

// WithinOperatingHours checks that [start, end) falls inside a court's
// daily window, given as "HH:MM-HH:MM".  A closing time of "00:00" means
// the court operates until midnight.  A booking ending at "00:00" runs to
// the facility close and satisfies any closing bound, even one earlier
// than midnight.  An empty window imposes no restriction.  Returns
// *OutsideHoursError when the range does not fit.
func WithinOperatingHours(start, end, window string) error {
	window = strings.TrimSpace(window)
	if window == "" {
		return nil
	}
	bounds := strings.SplitN(window, "-", 2)
	if len(bounds) != 2 {
		return nil // malformed window rows do not block bookings
	}
	open, err := parseClock(bounds[0])
	if err != nil {
		return nil
	}
	close, err := endMinutes(bounds[1])
	if err != nil {
		return nil
	}
	s, err := startMinutes(start)
	if err != nil {
		return err
	}
	if s < open {
		return &OutsideHoursError{Window: window}
	}
	if Normalize(end) == Midnight {
		return nil
	}
	e, err := parseClock(end)
	if err != nil {
		return err
	}
	if e > close {
		return &OutsideHoursError{Window: window}
	}
	return nil
}

// ValidWindow reports whether window is a well-formed operating-hours
// value: "HH:MM-HH:MM" with an opening strictly before the close.  The
// close may be "00:00" for midnight.  An empty window is valid and means
// unrestricted.
func ValidWindow(window string) bool {
	window = strings.TrimSpace(window)
	if window == "" {
		return true
	}
	bounds := strings.SplitN(window, "-", 2)
	if len(bounds) != 2 {
		return false
	}
	open, err := parseClock(bounds[0])
	if err != nil {
		return false
	}
	close, err := endMinutes(bounds[1])
	if err != nil {
		return false
	}
	return open < close
}

// Overlaps reports whether two half-open intervals intersect.  Two
// intervals [s1,e1) and [s2,e2) conflict iff max(s1,s2) < min(e1,e2);
// back-to-back bookings (one ending exactly when the other starts) do not
// conflict.
func Overlaps(a, b Interval) bool {
	s1, err := startMinutes(a.Start)
	if err != nil {
		return false
	}
	e1, err := endMinutes(a.End)
	if err != nil {
		return false
	}
	s2, err := startMinutes(b.Start)
	if err != nil {
		return false
	}
	e2, err := endMinutes(b.End)
	if err != nil {
		return false
	}
	return max(s1, s2) < min(e1, e2)
}

// FindConflicts returns every interval in existing that overlaps the
// candidate.  Stored times may carry a seconds component; both sides are
// normalized before comparison.  The order of the result follows the
// order of existing.
func FindConflicts(candidate Interval, existing []Interval) []Interval {
	var conflicts []Interval
	for _, iv := range existing {
		if Overlaps(candidate, iv) {
			conflicts = append(conflicts, Interval{Start: Normalize(iv.Start), End: Normalize(iv.End)})
		}
	}
	return conflicts
}

// CheckAvailability validates the candidate range against the existing
// active bookings for the same court and date.  It returns nil when the
// slot is free, or a *ConflictError naming the colliding intervals.
func CheckAvailability(candidate Interval, existing []Interval) error {
	if conflicts := FindConflicts(candidate, existing); len(conflicts) > 0 {
		return &ConflictError{
			Candidate: Interval{Start: Normalize(candidate.Start), End: Normalize(candidate.End)},
			Existing:  conflicts,
		}
	}
	return nil
}

// DurationHours returns the booking duration in hours.  For a range ending
// at the "00:00" sentinel the duration is 24 minus the integer start hour
// (22:00-00:00 is two hours); otherwise it is the real-number difference
// between end and start.
func DurationHours(start, end string) (float64, error) {
	if Normalize(end) == Midnight {
		parts := strings.Split(Normalize(start), ":")
		hh, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("hora inválida: %q", start)
		}
		return float64(24 - hh), nil
	}
	s, err := startMinutes(start)
	if err != nil {
		return 0, err
	}
	e, err := endMinutes(end)
	if err != nil {
		return 0, err
	}
	return float64(e-s) / 60.0, nil
}

// Cost prices a booking: duration in hours times the court's hourly rate,
// rounded to two decimals.  On a malformed range it returns 0; callers
// favor a zero cost over blocking the booking.
func Cost(rate float64, start, end string) float64 {
	hours, err := DurationHours(start, end)
	if err != nil {
		return 0
	}
	return math.Round(hours*rate*100) / 100
}
