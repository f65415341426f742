package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    TokenCode
		wantErr bool
	}{
		{name: "lane and number", raw: "A12", want: "A12"},
		{name: "surrounding whitespace is trimmed", raw: "  C45 ", want: "C45"},
		{name: "lower-case lane", raw: "b7", want: "b7"},
		{name: "empty", raw: "", wantErr: true},
		{name: "letter only", raw: "A", wantErr: true},
		{name: "digits only", raw: "123", wantErr: true},
		{name: "two letters", raw: "AB12", wantErr: true},
		{name: "trailing garbage", raw: "A12x", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTokenCode(tc.raw)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidTokenCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTokenCodeLaneAndNumber(t *testing.T) {
	t.Parallel()

	code := TokenCode("D58")
	assert.Equal(t, "D", code.Lane())
	number, ok := code.Number()
	require.True(t, ok)
	assert.Equal(t, 58, number)

	_, ok = TokenCode("58").Number()
	assert.False(t, ok)
	assert.Equal(t, "", TokenCode(" A1").Lane())
}

func TestTokenValidate(t *testing.T) {
	t.Parallel()

	valid := Token{Code: "A12", HospitalID: "H1", HospitalName: "NIMS Hospital", PeopleAhead: 5, EstimatedWaitMinutes: 20}
	require.NoError(t, valid.Validate())

	missingHospital := valid
	missingHospital.HospitalID = " "
	assert.ErrorIs(t, missingHospital.Validate(), ErrInvalidHospital)

	badCode := valid
	badCode.Code = "12"
	assert.ErrorIs(t, badCode.Validate(), ErrInvalidTokenCode)

	negative := valid
	negative.PeopleAhead = -1
	assert.ErrorContains(t, negative.Validate(), "people ahead must be non-negative")
}

func TestTokenServed(t *testing.T) {
	t.Parallel()

	assert.True(t, Token{PeopleAhead: 0}.Served())
	assert.False(t, Token{PeopleAhead: 1}.Served())
}

func TestQueueStatusUsable(t *testing.T) {
	t.Parallel()

	ahead, wait, negative := 3, 6, -1
	assert.True(t, QueueStatus{PeopleAhead: &ahead, EstimatedWaitMinutes: &wait}.Usable())
	assert.True(t, QueueStatus{PeopleAhead: &ahead}.Usable())
	assert.False(t, QueueStatus{EstimatedWaitMinutes: &wait}.Usable())
	assert.False(t, QueueStatus{}.Usable())
	assert.False(t, QueueStatus{PeopleAhead: &negative, EstimatedWaitMinutes: &wait}.Usable())
}

func TestQueueStatusWaitOr(t *testing.T) {
	t.Parallel()

	wait, negative := 6, -1
	assert.Equal(t, 6, QueueStatus{EstimatedWaitMinutes: &wait}.WaitOr(20))
	assert.Equal(t, 20, QueueStatus{}.WaitOr(20))
	assert.Equal(t, 20, QueueStatus{EstimatedWaitMinutes: &negative}.WaitOr(20))
}

func TestEvaluateAlertNowFiresOnlyOnTransitionIntoZero(t *testing.T) {
	t.Parallel()

	alert := EvaluateAlert(4, 0, 0, "A12")
	require.NotNil(t, alert)
	assert.Equal(t, UrgencyNow, alert.Urgency)
	assert.Equal(t, "Your turn now! Token A12", alert.Message)
	assert.Equal(t, TokenCode("A12"), alert.Code)

	assert.Nil(t, EvaluateAlert(0, 0, 0, "A12"))
}

func TestEvaluateAlertWarnFiresIffExactlyThree(t *testing.T) {
	t.Parallel()

	for previous := 0; previous <= 20; previous++ {
		for next := 0; next <= 20; next++ {
			alert := EvaluateAlert(previous, next, next*2, "B40")
			isWarn := alert != nil && alert.Urgency == UrgencyWarn
			assert.Equal(t, next == WarnThreshold, isWarn, "previous=%d next=%d", previous, next)
		}
	}
}

func TestEvaluateAlertSkipsJumpPastThreshold(t *testing.T) {
	t.Parallel()

	assert.Nil(t, EvaluateAlert(5, 2, 4, "A12"))
	assert.Nil(t, EvaluateAlert(9, 7, 14, "A12"))

	warn := EvaluateAlert(5, 3, 6, "A12")
	require.NotNil(t, warn)
	assert.Equal(t, "Only 3 patients ahead for token A12!", warn.Message)
	assert.Equal(t, 6, warn.EstimatedWaitMinutes)
}

func TestTierFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ahead int
		want  Tier
	}{
		{ahead: 0, want: TierSuccess},
		{ahead: 1, want: TierWarning},
		{ahead: 3, want: TierWarning},
		{ahead: 4, want: TierInfo},
		{ahead: 40, want: TierInfo},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, TierFor(tc.ahead), "ahead=%d", tc.ahead)
	}
}

func TestSearchHistoryAdd(t *testing.T) {
	t.Parallel()

	var history SearchHistory
	history = history.Add("fever")
	history = history.Add("Diabetes")
	history = history.Add("  ")
	history = history.Add("FEVER")

	assert.Equal(t, SearchHistory{"FEVER", "Diabetes"}, history)
}

func TestSearchHistoryAddCapsEntries(t *testing.T) {
	t.Parallel()

	var history SearchHistory
	for i := 0; i < 12; i++ {
		history = history.Add(time.Duration(i).String())
	}

	require.Len(t, history, MaxSearchHistory)
	assert.Equal(t, "11ns", history[0])
	assert.Equal(t, "4ns", history[MaxSearchHistory-1])
}

func TestSessionIDValid(t *testing.T) {
	t.Parallel()

	assert.True(t, SessionID("guest_01hzy").Valid())
	assert.False(t, SessionID("").Valid())
	assert.False(t, SessionID(" guest ").Valid())
}

func TestBookingRejectedErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "booking rejected: Hospital not found", (&BookingRejectedError{Message: "Hospital not found"}).Error())
	assert.Equal(t, "booking rejected (status 404): Hospital not found", (&BookingRejectedError{StatusCode: 404, Message: "Hospital not found"}).Error())
}
