package dto

import "time"

// ShortenRequest represents a request to create a short link
type ShortenRequest struct {
	OriginalURL string `json:"original_url" validate:"required,max=2048,http_url"`
}

// LinkDTO represents a short link for API responses
type LinkDTO struct {
	ID          uint      `json:"id"`
	OriginalURL string    `json:"original_url"`
	ShortID     string    `json:"short_id"`
	ShortURL    string    `json:"short_url"`
	TotalClicks int64     `json:"total_clicks"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShortenResponse represents the response after creating a short link
type ShortenResponse struct {
	Link LinkDTO `json:"link"`
}

// ListLinksResponse represents the caller's links in insertion order
type ListLinksResponse struct {
	Links []LinkDTO `json:"links"`
	Total int       `json:"total"`
}
