package domain

import "strings"

const SessionIDPrefix = "guest_"

type SessionID string

func (id SessionID) Valid() bool {
	return strings.TrimSpace(string(id)) != "" && strings.TrimSpace(string(id)) == string(id)
}
