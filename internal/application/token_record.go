package application

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/manikadiri/healthnav/internal/domain"
)

const (
	SlotToken   = "token"
	SlotSession = "session_id"
	SlotHistory = "history"
)

// tokenRecordSchema keeps the field names the web client stored under
// hn_token so existing records stay readable.
type tokenRecordSchema struct {
	Token         string          `json:"token"`
	HospitalID    json.RawMessage `json:"hospital_id"`
	HospitalName  string          `json:"hospital_name"`
	PeopleAhead   *int            `json:"people_ahead"`
	EstimatedWait *int            `json:"estimated_wait"`
	BookedAt      string          `json:"booked_at,omitempty"`
	UpdatedAt     string          `json:"updated_at,omitempty"`
}

func encodeTokenRecord(token domain.Token) (string, error) {
	hospitalID, err := json.Marshal(string(token.HospitalID))
	if err != nil {
		return "", fmt.Errorf("encode hospital id: %w", err)
	}

	ahead := token.PeopleAhead
	wait := token.EstimatedWaitMinutes
	data, err := json.Marshal(tokenRecordSchema{
		Token:         string(token.Code),
		HospitalID:    hospitalID,
		HospitalName:  token.HospitalName,
		PeopleAhead:   &ahead,
		EstimatedWait: &wait,
		BookedAt:      formatTime(token.BookedAt),
		UpdatedAt:     formatTime(token.UpdatedAt),
	})
	if err != nil {
		return "", fmt.Errorf("encode token record: %w", err)
	}

	return string(data), nil
}

func decodeTokenRecord(raw string) (domain.Token, error) {
	var record tokenRecordSchema
	decoder := json.NewDecoder(strings.NewReader(raw))
	if err := decoder.Decode(&record); err != nil {
		return domain.Token{}, fmt.Errorf("%w: %w", domain.ErrMalformedRecord, err)
	}
	if record.PeopleAhead == nil || record.EstimatedWait == nil {
		return domain.Token{}, fmt.Errorf("%w: missing queue position", domain.ErrMalformedRecord)
	}

	hospitalID, err := decodeHospitalID(record.HospitalID)
	if err != nil {
		return domain.Token{}, fmt.Errorf("%w: %w", domain.ErrMalformedRecord, err)
	}

	token := domain.Token{
		Code:                 domain.TokenCode(record.Token),
		HospitalID:           hospitalID,
		HospitalName:         record.HospitalName,
		PeopleAhead:          *record.PeopleAhead,
		EstimatedWaitMinutes: *record.EstimatedWait,
		BookedAt:             parseTime(record.BookedAt),
		UpdatedAt:            parseTime(record.UpdatedAt),
	}
	if err := token.Validate(); err != nil {
		return domain.Token{}, fmt.Errorf("%w: %w", domain.ErrMalformedRecord, err)
	}

	return token, nil
}

// decodeHospitalID accepts both the string form written here and the
// numeric form returned by the booking endpoint.
func decodeHospitalID(raw json.RawMessage) (domain.HospitalID, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", errors.New("hospital id is missing")
	}

	var asString string
	if err := json.Unmarshal(trimmed, &asString); err == nil {
		return domain.HospitalID(strings.TrimSpace(asString)), nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(trimmed, &asNumber); err != nil {
		return "", fmt.Errorf("hospital id: %w", err)
	}
	if _, err := strconv.ParseInt(asNumber.String(), 10, 64); err != nil {
		return "", fmt.Errorf("hospital id %s is not an integer", asNumber)
	}

	return domain.HospitalID(asNumber.String()), nil
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
