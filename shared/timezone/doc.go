// Package timezone holds the single business locale of the service.
//
// Audit timestamps (created_at, modified_at) and token issue times are taken from Now. Booking dates and
// start clocks are stored as plain DATE and TIME values and are read as wall times in this locale.
// The locale comes from APP_TIMEZONE and defaults to UTC.
package timezone
