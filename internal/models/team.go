package models

import "time"

type Team struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Members     []TeamMember `json:"members"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TeamMember is a membership row linking a user to a team.
type TeamMember struct {
	ID        int64        `json:"id"`
	TeamID    int64        `json:"team_id"`
	UserID    int64        `json:"user_id"`
	User      *UserSummary `json:"user,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// UserSummary is the part of a user exposed inside a team listing.
type UserSummary struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}
