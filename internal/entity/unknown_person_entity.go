package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UnknownPersonStatus only moves forward: unknown -> pending -> identified.
// Dismissal is a hard delete, not a status.
type UnknownPersonStatus string

const (
	UnknownPersonStatusUnknown    UnknownPersonStatus = "unknown"
	UnknownPersonStatusPending    UnknownPersonStatus = "pending"
	UnknownPersonStatusIdentified UnknownPersonStatus = "identified"
)

func (s UnknownPersonStatus) Valid() bool {
	switch s {
	case UnknownPersonStatusUnknown, UnknownPersonStatusPending, UnknownPersonStatusIdentified:
		return true
	}
	return false
}

type UnknownPerson struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	Label           string
	NormalizedLabel string
	MentionCount    int
	ContextSnippets []string
	Relationships   []string
	Status          UnknownPersonStatus
	LastAskedAt     *time.Time
	LastMentionedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// NormalizeLabel is the case-insensitive identity key for find-or-create.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// MarkAsked transitions to pending. Re-asking a pending record is allowed
// and only refreshes the timestamp.
func (u *UnknownPerson) MarkAsked(now time.Time) error {
	if u.Status == UnknownPersonStatusIdentified {
		return fmt.Errorf("unknown person %s is already identified", u.Id)
	}
	u.Status = UnknownPersonStatusPending
	u.LastAskedAt = &now
	return nil
}

// MarkIdentified is terminal. Identifying an already-identified record is
// rejected so a second promotion cannot mint a second Person.
func (u *UnknownPerson) MarkIdentified() error {
	if u.Status == UnknownPersonStatusIdentified {
		return fmt.Errorf("unknown person %s is already identified", u.Id)
	}
	u.Status = UnknownPersonStatusIdentified
	return nil
}

// AskEligible reports whether the record may be surfaced as an ask
// candidate at the given instant. A pending record becomes eligible again
// once its cooldown has elapsed; an identified one never does.
func (u *UnknownPerson) AskEligible(now time.Time, cooldown time.Duration) bool {
	if u.Status == UnknownPersonStatusIdentified {
		return false
	}
	if u.LastAskedAt == nil {
		return true
	}
	return now.Sub(*u.LastAskedAt) >= cooldown
}
