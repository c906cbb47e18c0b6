package model

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	TableName  = "booking_outbox"
	EntityName = "outbox"

	FieldID          = "id"
	FieldAggregateID = "aggregate_id"
	FieldDeliveredAt = "delivered_at"
	FieldAttempts    = "attempts"
	FieldCreatedAt   = "created_at"
)

const (
	TypeBookingNew = "booking_new"
)

// TypeForStatus names the event emitted when a booking enters status.
func TypeForStatus(status string) string {
	return "booking_" + status
}

// Payload is stored as JSONB and forwarded to every sink unchanged.
type Payload struct {
	BookingID   int64  `json:"booking_id"`
	RecipientID int64  `json:"recipient_id"`
	ProviderID  int64  `json:"provider_id"`
	CustomerID  int64  `json:"customer_id"`
	ServiceID   int64  `json:"service_id"`
	BookingDate string `json:"booking_date"`
	BookingTime string `json:"booking_time"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

func (p Payload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Payload) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = Payload{}

		return nil
	default:
		return errors.New("unsupported outbox payload type")
	}
}

// Event is one pending notification. It is written in the same transaction as the booking change
// and delivered after commit, at least once.
type Event struct {
	ID          uuid.UUID      `db:"id"`
	AggregateID int64          `db:"aggregate_id"`
	Type        string         `db:"type"`
	Payload     Payload        `db:"payload"`
	Attempts    int            `db:"attempts"     insert:"-"`
	LastError   sql.NullString `db:"last_error"   insert:"-"`
	CreatedAt   time.Time      `db:"created_at"`
	DeliveredAt sql.NullTime   `db:"delivered_at" insert:"-"`
}

func NewEvent(eventType string, payload Payload) Event {
	return Event{
		ID:          uuid.New(),
		AggregateID: payload.BookingID,
		Type:        eventType,
		Payload:     payload,
		CreatedAt:   time.Now(),
	}
}
