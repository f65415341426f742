package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type HospitalID string

// TokenCode is a queue-lane letter followed by a sequence number, e.g. "A12".
type TokenCode string

func ParseTokenCode(raw string) (TokenCode, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < 2 || !isASCIILetter(trimmed[0]) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTokenCode, raw)
	}
	for i := 1; i < len(trimmed); i++ {
		if trimmed[i] < '0' || trimmed[i] > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidTokenCode, raw)
		}
	}

	return TokenCode(trimmed), nil
}

func (c TokenCode) Valid() bool {
	_, err := ParseTokenCode(string(c))
	return err == nil && strings.TrimSpace(string(c)) == string(c)
}

// Lane returns the alphabetic prefix, or "" for an invalid code.
func (c TokenCode) Lane() string {
	if !c.Valid() {
		return ""
	}
	return string(c[:1])
}

// Number returns the numeric suffix.
func (c TokenCode) Number() (int, bool) {
	if !c.Valid() {
		return 0, false
	}
	n, err := strconv.Atoi(string(c[1:]))
	if err != nil {
		return 0, false
	}
	return n, true
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

type Token struct {
	Code                 TokenCode
	HospitalID           HospitalID
	HospitalName         string
	PeopleAhead          int
	EstimatedWaitMinutes int
	BookedAt             time.Time
	UpdatedAt            time.Time
}

func (t Token) Validate() error {
	if !t.Code.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTokenCode, t.Code)
	}
	if strings.TrimSpace(string(t.HospitalID)) == "" {
		return ErrInvalidHospital
	}
	if t.PeopleAhead < 0 {
		return fmt.Errorf("people ahead must be non-negative, got %d", t.PeopleAhead)
	}
	if t.EstimatedWaitMinutes < 0 {
		return fmt.Errorf("estimated wait must be non-negative, got %d", t.EstimatedWaitMinutes)
	}

	return nil
}

// Served reports whether the holder has reached the counter.
func (t Token) Served() bool {
	return t.PeopleAhead == 0
}

// QueueStatus is one queue-position report. Nil fields were absent or
// malformed in the response.
type QueueStatus struct {
	PeopleAhead          *int
	EstimatedWaitMinutes *int
	Phase                string
}

// Usable reports whether the status carries a queue position. The wait
// estimate is optional.
func (s QueueStatus) Usable() bool {
	return s.PeopleAhead != nil && *s.PeopleAhead >= 0
}

// WaitOr returns the reported wait, or fallback when the report has none.
func (s QueueStatus) WaitOr(fallback int) int {
	if s.EstimatedWaitMinutes == nil || *s.EstimatedWaitMinutes < 0 {
		return fallback
	}
	return *s.EstimatedWaitMinutes
}
