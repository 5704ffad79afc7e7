// Package members keeps the guild member registry: join records, welcome
// DMs and registration with the web backend.
package members

import "time"

// Member is a row of the members table.
type Member struct {
	UserID       string     `db:"user_id"`
	Username     string     `db:"username"`
	DisplayName  string     `db:"display_name"`
	JoinedAt     time.Time  `db:"joined_at"`
	RegisteredAt *time.Time `db:"registered_at"` // nil until the backend accepted it
	UpdatedAt    time.Time  `db:"updated_at"`
}
