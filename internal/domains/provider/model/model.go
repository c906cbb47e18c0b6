package model

import "database/sql"

const (
	TableName  = "providers"
	EntityName = "provider"

	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldServiceID = "service_id"
)

// Provider offers exactly one service. Location comes from the owning user profile.
type Provider struct {
	ID         int64          `db:"id"          insert:"-"`
	UserID     int64          `db:"user_id"`
	ServiceID  int64          `db:"service_id"`
	HourlyRate float64        `db:"hourly_rate"`
	IsVerified bool           `db:"is_verified"`
	Rating     float64        `db:"rating"`
	Location   sql.NullString `db:"location"    table:"users"`
}

func (Provider) GetJoinQuery() string {
	return "JOIN users ON users.id = providers.user_id"
}

// Offers reports whether the provider can take bookings for serviceID.
func (p Provider) Offers(serviceID int64) bool {
	return p.ID != 0 && p.ServiceID == serviceID
}
