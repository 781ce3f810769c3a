package models

import "time"

// Visitor represents a single visit to a short link.
// Rows are append-only; a link's click count is the number of its visitors.
// UserAgent and IP capture visit-time context.
type Visitor struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	LinkID    uint    `gorm:"index:idx_visitors_link_id;not null" json:"link_id"`
	IP        *string `gorm:"size:64" json:"ip,omitempty"`
	UserAgent *string `gorm:"type:text" json:"user_agent,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_visitors_created_at" json:"created_at"`
}

// TableName returns the table name for Visitor
func (Visitor) TableName() string { return "visitors" }

// VisitorFilter provides filter fields for repository queries
type VisitorFilter struct {
	ID            *uint
	LinkID        *uint
	IP            *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
