package models

import "time"

// Link maps a generated short code to its original URL.
// ShortID is the short unique code that maps to the original link.
// UserID is optional (nullable); anonymous callers may create links too.
// The unique index on ShortID is the backstop against generator collisions.
type Link struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ShortID     string `gorm:"size:7;not null;uniqueIndex:uk_links_short_id" json:"short_id"`
	OriginalURL string `gorm:"type:text;not null" json:"original_url"`
	UserID      *uint  `gorm:"index:idx_links_user_id" json:"user_id,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_links_created_at" json:"created_at"`

	// Relations
	Visitors []Visitor `gorm:"foreignKey:LinkID" json:"-"`
}

// TableName returns the table name for Link
func (Link) TableName() string { return "links" }

// LinkFilter provides filter fields for repository queries
type LinkFilter struct {
	ID            *uint
	ShortID       *string
	UserID        *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
