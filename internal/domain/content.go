package domain

import "time"

// Announcement is a banner shown on the storefront.
type Announcement struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Active    bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Realisation is a portfolio entry for past event work.
type Realisation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
