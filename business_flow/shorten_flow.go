// Package businessflow contains the core business logic and use cases for the URL shortening workflows
package businessflow

import (
	"context"
	"errors"
	"log"
	"net/url"

	"github.com/amirphl/Kusanagi-no-Tsurugi/app/dto"
	"github.com/amirphl/Kusanagi-no-Tsurugi/app/services"
	"github.com/amirphl/Kusanagi-no-Tsurugi/models"
	"github.com/amirphl/Kusanagi-no-Tsurugi/repository"
	"github.com/amirphl/Kusanagi-no-Tsurugi/utils"
	"gorm.io/gorm"
)

// ShortenFlow creates short links.
// Public flow; when a caller identity is present the link is attributed
// to that user, otherwise it is stored anonymously.
type ShortenFlow interface {
	Shorten(ctx context.Context, req *dto.ShortenRequest, username *string, metadata *ClientMetadata) (*dto.ShortenResponse, error)
}

type ShortenFlowImpl struct {
	linkRepo  repository.LinkRepository
	userRepo  repository.UserRepository
	linkCache repository.LinkCache
	generator services.ShortIDGenerator
	domain    string
}

func NewShortenFlow(linkRepo repository.LinkRepository, userRepo repository.UserRepository, linkCache repository.LinkCache, generator services.ShortIDGenerator, domain string) ShortenFlow {
	return &ShortenFlowImpl{
		linkRepo:  linkRepo,
		userRepo:  userRepo,
		linkCache: linkCache,
		generator: generator,
		domain:    domain,
	}
}

// Shorten validates the URL, derives a code and inserts the link.
// The insert relies on the unique index as the collision backstop: on a
// duplicate-key error a fresh code is derived, up to ShortIDMaxAttempts
// times, after which ErrShortIDExhausted is returned.
func (f *ShortenFlowImpl) Shorten(ctx context.Context, req *dto.ShortenRequest, username *string, metadata *ClientMetadata) (*dto.ShortenResponse, error) {
	if err := validateOriginalURL(req.OriginalURL); err != nil {
		return nil, NewBusinessError("SHORTEN_VALIDATION_FAILED", "Invalid URL", err)
	}

	// Attribute the link when the caller is known
	var userID *uint
	if username != nil && *username != "" {
		user, err := f.userRepo.ByUsername(ctx, *username)
		if err != nil {
			return nil, NewBusinessError("SHORTEN_LOOKUP_FAILED", "Failed to resolve caller", err)
		}
		if user != nil {
			userID = &user.ID
		}
	}

	var link *models.Link

	for attempt := 0; attempt < utils.ShortIDMaxAttempts; attempt++ {
		code, err := f.generator.Generate(req.OriginalURL)
		if err != nil {
			return nil, NewBusinessError("SHORTEN_CODE_FAILED", "Failed to derive short code", err)
		}

		candidate := &models.Link{
			ShortID:     code,
			OriginalURL: req.OriginalURL,
			UserID:      userID,
			CreatedAt:   utils.UTCNow(),
		}

		err = f.linkRepo.Save(ctx, candidate)
		if err == nil {
			link = candidate
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, NewBusinessError("SHORTEN_SAVE_FAILED", "Failed to save short link", err)
	}

	if link == nil {
		return nil, NewBusinessError("SHORTEN_EXHAUSTED", "Could not allocate a unique short code", ErrShortIDExhausted)
	}

	// Populate the cache eagerly; resolution repopulates on a miss anyway
	if f.linkCache != nil {
		entry := repository.CachedLink{URL: link.OriginalURL, LinkID: link.ID}
		if err := f.linkCache.Set(ctx, link.ShortID, entry); err != nil {
			log.Printf("link cache populate failed for %s: %v", link.ShortID, err)
		}
	}

	return &dto.ShortenResponse{
		Link: ToLinkDTO(*link, f.domain, 0),
	}, nil
}

// validateOriginalURL accepts absolute http(s) URLs only
func validateOriginalURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidURL
	}
	if parsed.Host == "" {
		return ErrInvalidURL
	}
	return nil
}
