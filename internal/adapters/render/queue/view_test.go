package queue

import (
	"encoding/json"
	"testing"

	"github.com/manikadiri/healthnav/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func intPtr(v int) *int {
	return &v
}

func TestBuildViewWithoutToken(t *testing.T) {
	t.Parallel()

	view := BuildView(SnapshotFromToken(nil))
	assert.False(t, view.HasToken)
	assert.Contains(t, view.BookingHint, "healthnav token book")
	assert.Empty(t, view.Code)
}

func TestBuildViewTiersAndCopy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		ahead       int
		wantTier    domain.Tier
		wantHead    string
		wantStatus  string
		wantCounter string
		wantPercent int
	}{
		{name: "queue moving", ahead: 5, wantTier: domain.TierInfo, wantHead: "Queue is moving.", wantStatus: "5 patients before you", wantCounter: "A6", wantPercent: 75},
		{name: "almost", ahead: 3, wantTier: domain.TierWarning, wantHead: "Almost your turn!", wantStatus: "3 more patients before you", wantCounter: "A8", wantPercent: 85},
		{name: "one ahead", ahead: 1, wantTier: domain.TierWarning, wantHead: "Almost your turn!", wantStatus: "1 more patients before you", wantCounter: "A10", wantPercent: 95},
		{name: "served", ahead: 0, wantTier: domain.TierSuccess, wantHead: "Your turn now!", wantStatus: "IT IS YOUR TURN, GO NOW!", wantCounter: "A11", wantPercent: 100},
		{name: "long queue floors counter and progress", ahead: 40, wantTier: domain.TierInfo, wantHead: "Queue is moving.", wantStatus: "40 patients before you", wantCounter: "A1", wantPercent: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			view := BuildView(Snapshot{
				Code:                 "A12",
				HospitalName:         "City Hospital",
				PeopleAhead:          intPtr(tc.ahead),
				EstimatedWaitMinutes: intPtr(tc.ahead * 4),
			})

			assert.True(t, view.HasToken)
			assert.Equal(t, tc.wantTier, view.Tier)
			assert.Equal(t, tc.wantHead, view.Headline)
			assert.Equal(t, tc.wantStatus, view.StatusLine)
			assert.Equal(t, tc.wantCounter, view.CurrentCounter)
			assert.Equal(t, tc.wantPercent, view.ProgressPercent)
		})
	}
}

func TestBuildViewUnknownValues(t *testing.T) {
	t.Parallel()

	view := BuildView(Snapshot{Code: "B7"})
	assert.True(t, view.HasToken)
	assert.Equal(t, "unknown", view.PeopleAheadText)
	assert.Equal(t, "unknown", view.WaitText)
	assert.Equal(t, "unknown", view.HospitalName)
	assert.Equal(t, "?", view.CurrentCounter)
	assert.Equal(t, MinProgressPercent, view.ProgressPercent)
	assert.Equal(t, domain.TierInfo, view.Tier)

	view = BuildView(Snapshot{Code: "B7", PeopleAhead: intPtr(6)})
	assert.Equal(t, "unknown", view.WaitText)
	assert.Equal(t, "6 patients ahead. Estimated wait unknown.", view.Detail)
}

func TestBuildViewIsIdempotent(t *testing.T) {
	t.Parallel()

	snapshot := SnapshotFromToken(&domain.Token{Code: "A12", HospitalID: "H1", HospitalName: "City Hospital", PeopleAhead: 5, EstimatedWaitMinutes: 20})
	assert.Equal(t, BuildView(snapshot), BuildView(snapshot))
}

func TestProgressPercentMonotonicAndClamped(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, ProgressPercent(0))
	previous := ProgressPercent(0)
	for ahead := 1; ahead <= 60; ahead++ {
		current := ProgressPercent(ahead)
		assert.LessOrEqual(t, current, previous, "ahead=%d", ahead)
		assert.GreaterOrEqual(t, current, MinProgressPercent)
		assert.LessOrEqual(t, current, 100)
		previous = current
	}
	assert.Equal(t, 100, ProgressPercent(-2))
}

func TestCurrentCounterInvalidCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "?", CurrentCounter("XYZ", 1))
	assert.Equal(t, "C1", CurrentCounter("C2", 0))
}

func TestViewSerializesForExport(t *testing.T) {
	t.Parallel()

	view := BuildView(Snapshot{Code: "A12", HospitalName: "City Hospital", PeopleAhead: intPtr(0), EstimatedWaitMinutes: intPtr(0)})

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"people_ahead":0`)
	assert.Contains(t, string(data), `"tier":"success"`)

	out, err := yaml.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(out), "progress_percent: 100")
	assert.Contains(t, string(out), "code: A12")
}
