package domain

import "fmt"

const WarnThreshold = 3

type Urgency string

const (
	UrgencyNow  Urgency = "now"
	UrgencyWarn Urgency = "warn"
)

type Alert struct {
	Urgency              Urgency
	Code                 TokenCode
	PeopleAhead          int
	EstimatedWaitMinutes int
	Message              string
}

// EvaluateAlert maps one queue-position change to at most one notification.
// The "now" alert fires only on the transition into zero; the "warn" alert
// fires whenever exactly WarnThreshold people remain.
func EvaluateAlert(previousAhead, newAhead, newWait int, code TokenCode) *Alert {
	switch {
	case newAhead == 0:
		if previousAhead == 0 {
			return nil
		}
		return &Alert{
			Urgency:              UrgencyNow,
			Code:                 code,
			PeopleAhead:          newAhead,
			EstimatedWaitMinutes: newWait,
			Message:              fmt.Sprintf("Your turn now! Token %s", code),
		}
	case newAhead == WarnThreshold:
		return &Alert{
			Urgency:              UrgencyWarn,
			Code:                 code,
			PeopleAhead:          newAhead,
			EstimatedWaitMinutes: newWait,
			Message:              fmt.Sprintf("Only %d patients ahead for token %s!", WarnThreshold, code),
		}
	default:
		return nil
	}
}

type Tier string

const (
	TierSuccess Tier = "success"
	TierWarning Tier = "warning"
	TierInfo    Tier = "info"
)

func TierFor(peopleAhead int) Tier {
	switch {
	case peopleAhead <= 0:
		return TierSuccess
	case peopleAhead <= WarnThreshold:
		return TierWarning
	default:
		return TierInfo
	}
}
