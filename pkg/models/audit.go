package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditOutcome classifies how an invocation ended.
type AuditOutcome string

const (
	OutcomeSuccess AuditOutcome = "success"
	OutcomeDenied  AuditOutcome = "denied"
	OutcomeInvalid AuditOutcome = "invalid"
	OutcomeFailed  AuditOutcome = "failed"
	OutcomeNoop    AuditOutcome = "noop"
)

// AuditEntry records one slash command invocation.
type AuditEntry struct {
	ID        string       `bson:"_id" json:"id"`
	Command   string       `bson:"command" json:"command"`
	UserID    string       `bson:"user_id" json:"user_id"`
	UserName  string       `bson:"user_name" json:"user_name"`
	Target    string       `bson:"target,omitempty" json:"target,omitempty"`
	Outcome   AuditOutcome `bson:"outcome" json:"outcome"`
	Detail    string       `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
}

// NewAuditEntry stamps a fresh entry with an id and the current time.
func NewAuditEntry(command, userID, userName string, outcome AuditOutcome) AuditEntry {
	return AuditEntry{
		ID:        uuid.NewString(),
		Command:   command,
		UserID:    userID,
		UserName:  userName,
		Outcome:   outcome,
		CreatedAt: time.Now().UTC(),
	}
}
