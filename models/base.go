package models

import (
	"time"

	"github.com/google/uuid"
)

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func ensureTimestamp(ts *time.Time) {
	if ts.IsZero() {
		*ts = time.Now().UTC()
	}
}
