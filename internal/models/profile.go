package models

import "time"

// Profile represents the learner profile kept next to the external auth user
type Profile struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}
