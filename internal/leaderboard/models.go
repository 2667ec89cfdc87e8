package leaderboard

import "time"

// Entry is one materialized leaderboard row. UserName and Team are
// denormalized copies of the user's fields at rebuild time; Rank is a dense
// 1..N ranking by total points, highest first.
type Entry struct {
	ID          string    `json:"id"`
	UserEmail   string    `json:"user_email"`
	UserName    string    `json:"user_name"`
	Team        string    `json:"team,omitempty"`
	TotalPoints int       `json:"total_points"`
	Rank        int       `json:"rank"`
	LastUpdated time.Time `json:"last_updated"`
}
