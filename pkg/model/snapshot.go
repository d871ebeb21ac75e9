package model

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is one read of the TCP table.
type Snapshot struct {
	ID       uuid.UUID        `json:"id"`
	TakenAt  time.Time        `json:"takenAt"`
	Records  []ListenerRecord `json:"records"`
	Warnings []string         `json:"warnings,omitempty"`
}

type OwnerKind string

const (
	OwnerSystem     OwnerKind = "system"
	OwnerService    OwnerKind = "service"
	OwnerExecutable OwnerKind = "executable"
	OwnerUnknown    OwnerKind = "unknown"
)
