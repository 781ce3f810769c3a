// Package businessflow contains the business logic for the application.
package businessflow

import (
	"fmt"

	"github.com/amirphl/Kusanagi-no-Tsurugi/app/dto"
	"github.com/amirphl/Kusanagi-no-Tsurugi/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for visit tracking
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToUserDTO converts a user model to UserDTO for API responses
func ToUserDTO(user models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        user.ID,
		UUID:      user.UUID.String(),
		Username:  user.Username,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// ToLinkDTO converts a link model to LinkDTO, filling in the public short
// URL and the click count supplied by the caller
func ToLinkDTO(link models.Link, domain string, totalClicks int64) dto.LinkDTO {
	return dto.LinkDTO{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortID:     link.ShortID,
		ShortURL:    BuildShortURL(domain, link.ShortID),
		TotalClicks: totalClicks,
		CreatedAt:   link.CreatedAt,
	}
}

// BuildShortURL joins the public domain and a short code
func BuildShortURL(domain, shortID string) string {
	return fmt.Sprintf("%s/%s", domain, shortID)
}
