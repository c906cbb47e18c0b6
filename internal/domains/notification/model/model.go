package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID      = "id"
	FieldUserID  = "user_id"
	FieldEventID = "event_id"
)

// Notification is the in-app message shown to a user. EventID makes redelivered outbox events idempotent.
type Notification struct {
	ID        int64         `db:"id"         insert:"-"`
	EventID   uuid.UUID     `db:"event_id"`
	UserID    int64         `db:"user_id"`
	Type      string        `db:"type"`
	Message   string        `db:"message"`
	RelatedID sql.NullInt64 `db:"related_id"`
	IsRead    bool          `db:"is_read"`
	CreatedAt time.Time     `db:"created_at"`
}
