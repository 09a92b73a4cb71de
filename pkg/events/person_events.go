package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventPersonIdentified       = "PERSON_IDENTIFIED"
	EventUnknownPersonDismissed = "UNKNOWN_PERSON_DISMISSED"
)

// NewPersonIdentified announces that an unknown person was promoted into
// the registry, so downstream systems (voice profiles, face matching) can
// link up their side.
func NewPersonIdentified(userId, personId, unknownPersonId uuid.UUID) Event {
	return BaseEvent{
		Type: EventPersonIdentified,
		Data: map[string]interface{}{
			"user_id":           userId.String(),
			"person_id":         personId.String(),
			"unknown_person_id": unknownPersonId.String(),
		},
		OccurredAt: time.Now(),
	}
}

func NewUnknownPersonDismissed(userId, unknownPersonId uuid.UUID) Event {
	return BaseEvent{
		Type: EventUnknownPersonDismissed,
		Data: map[string]interface{}{
			"user_id":           userId.String(),
			"unknown_person_id": unknownPersonId.String(),
		},
		OccurredAt: time.Now(),
	}
}
