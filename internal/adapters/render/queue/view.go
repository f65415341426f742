package queue

import (
	"fmt"
	"math"
	"strconv"

	"github.com/manikadiri/healthnav/internal/domain"
)

const (
	// LaneCapacity is the nominal lane size the progress bar is drawn
	// against. It is not a real capacity limit.
	LaneCapacity       = 20
	MinProgressPercent = 5

	unknownValue   = "unknown"
	unknownCounter = "?"
	bookingHint    = "No active token. Book one with: healthnav token book --hospital <id>"
)

// Snapshot is a read-only copy of the token record. Nil numbers were not
// known when the snapshot was taken.
type Snapshot struct {
	Code                 domain.TokenCode
	HospitalID           domain.HospitalID
	HospitalName         string
	PeopleAhead          *int
	EstimatedWaitMinutes *int
}

type View struct {
	HasToken             bool        `json:"has_token" yaml:"has_token"`
	BookingHint          string      `json:"booking_hint,omitempty" yaml:"booking_hint,omitempty"`
	Code                 string      `json:"code,omitempty" yaml:"code,omitempty"`
	HospitalID           string      `json:"hospital_id,omitempty" yaml:"hospital_id,omitempty"`
	HospitalName         string      `json:"hospital_name,omitempty" yaml:"hospital_name,omitempty"`
	PeopleAhead          *int        `json:"people_ahead,omitempty" yaml:"people_ahead,omitempty"`
	EstimatedWaitMinutes *int        `json:"estimated_wait_minutes,omitempty" yaml:"estimated_wait_minutes,omitempty"`
	PeopleAheadText      string      `json:"people_ahead_text,omitempty" yaml:"people_ahead_text,omitempty"`
	WaitText             string      `json:"wait_text,omitempty" yaml:"wait_text,omitempty"`
	CurrentCounter       string      `json:"current_counter,omitempty" yaml:"current_counter,omitempty"`
	ProgressPercent      int         `json:"progress_percent" yaml:"progress_percent"`
	Tier                 domain.Tier `json:"tier,omitempty" yaml:"tier,omitempty"`
	Headline             string      `json:"headline,omitempty" yaml:"headline,omitempty"`
	Detail               string      `json:"detail,omitempty" yaml:"detail,omitempty"`
	StatusLine           string      `json:"status_line,omitempty" yaml:"status_line,omitempty"`
}

func SnapshotFromToken(token *domain.Token) Snapshot {
	if token == nil {
		return Snapshot{}
	}

	ahead := token.PeopleAhead
	wait := token.EstimatedWaitMinutes
	return Snapshot{
		Code:                 token.Code,
		HospitalID:           token.HospitalID,
		HospitalName:         token.HospitalName,
		PeopleAhead:          &ahead,
		EstimatedWaitMinutes: &wait,
	}
}

// BuildView derives everything a renderer needs from snapshot. It is pure:
// the same snapshot always yields the same view.
func BuildView(snapshot Snapshot) View {
	if snapshot.Code == "" {
		return View{HasToken: false, BookingHint: bookingHint}
	}

	view := View{
		HasToken:             true,
		Code:                 string(snapshot.Code),
		HospitalID:           string(snapshot.HospitalID),
		HospitalName:         snapshot.HospitalName,
		PeopleAhead:          copyInt(snapshot.PeopleAhead),
		EstimatedWaitMinutes: copyInt(snapshot.EstimatedWaitMinutes),
		PeopleAheadText:      unknownValue,
		WaitText:             unknownValue,
		CurrentCounter:       unknownCounter,
		ProgressPercent:      MinProgressPercent,
		Tier:                 domain.TierInfo,
	}
	if view.HospitalName == "" {
		view.HospitalName = unknownValue
	}
	if snapshot.EstimatedWaitMinutes != nil {
		view.WaitText = fmt.Sprintf("~%d min", *snapshot.EstimatedWaitMinutes)
	}

	if snapshot.PeopleAhead == nil {
		view.Headline = "Waiting for queue update."
		view.Detail = "Queue position is not known yet."
		view.StatusLine = "position unknown"
		return view
	}

	ahead := *snapshot.PeopleAhead
	view.PeopleAheadText = strconv.Itoa(ahead)
	view.CurrentCounter = CurrentCounter(snapshot.Code, ahead)
	view.ProgressPercent = ProgressPercent(ahead)
	view.Tier = domain.TierFor(ahead)

	switch view.Tier {
	case domain.TierSuccess:
		view.Headline = "Your turn now!"
		view.Detail = "Please proceed to the counter immediately."
		view.StatusLine = "IT IS YOUR TURN, GO NOW!"
	case domain.TierWarning:
		view.Headline = "Almost your turn!"
		view.Detail = fmt.Sprintf("Only %d patients ahead. Please be ready near the counter.", ahead)
		view.StatusLine = fmt.Sprintf("%d more patients before you", ahead)
	default:
		view.Headline = "Queue is moving."
		if snapshot.EstimatedWaitMinutes != nil {
			view.Detail = fmt.Sprintf("%d patients ahead. Estimated wait ~%d minutes.", ahead, *snapshot.EstimatedWaitMinutes)
		} else {
			view.Detail = fmt.Sprintf("%d patients ahead. Estimated wait unknown.", ahead)
		}
		view.StatusLine = fmt.Sprintf("%d patients before you", ahead)
	}

	return view
}

// CurrentCounter guesses the number being served from the token's own
// sequence number. It is a display heuristic, not a server value.
func CurrentCounter(code domain.TokenCode, peopleAhead int) string {
	number, ok := code.Number()
	if !ok {
		return unknownCounter
	}

	current := number - peopleAhead - 1
	if current < 1 {
		current = 1
	}
	return fmt.Sprintf("%s%d", code.Lane(), current)
}

func ProgressPercent(peopleAhead int) int {
	if peopleAhead == 0 {
		return 100
	}

	percent := int(math.Round(100 - float64(peopleAhead)/LaneCapacity*100))
	if percent < MinProgressPercent {
		return MinProgressPercent
	}
	if percent > 100 {
		return 100
	}
	return percent
}

func copyInt(value *int) *int {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
