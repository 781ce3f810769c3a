package businessflow

import (
	"context"
	"log"

	"github.com/amirphl/Kusanagi-no-Tsurugi/models"
	"github.com/amirphl/Kusanagi-no-Tsurugi/repository"
	"github.com/amirphl/Kusanagi-no-Tsurugi/utils"
)

// LinkVisitFlow resolves a short code and records the visit.
// Returns the target URL to redirect to.
// Public flow, no authentication required.
type LinkVisitFlow interface {
	Visit(ctx context.Context, shortID string, metadata *ClientMetadata) (string, error)
}

type LinkVisitFlowImpl struct {
	linkRepo    repository.LinkRepository
	visitorRepo repository.VisitorRepository
	linkCache   repository.LinkCache
}

func NewLinkVisitFlow(linkRepo repository.LinkRepository, visitorRepo repository.VisitorRepository, linkCache repository.LinkCache) LinkVisitFlow {
	return &LinkVisitFlowImpl{
		linkRepo:    linkRepo,
		visitorRepo: visitorRepo,
		linkCache:   linkCache,
	}
}

// Visit serves resolution cache-first. Cache failures are logged and
// treated as misses; the database stays the source of truth. The visit
// record is best effort and never aborts the redirect.
func (f *LinkVisitFlowImpl) Visit(ctx context.Context, shortID string, metadata *ClientMetadata) (string, error) {
	if len(shortID) != utils.ShortIDLength || !isValidShortID(shortID) {
		return "", ErrLinkNotFound
	}

	if f.linkCache != nil {
		entry, err := f.linkCache.Get(ctx, shortID)
		if err != nil {
			log.Printf("link cache read failed for %s: %v", shortID, err)
		}
		if entry != nil {
			f.recordVisit(ctx, entry.LinkID, metadata)
			return entry.URL, nil
		}
	}

	link, err := f.linkRepo.ByShortID(ctx, shortID)
	if err != nil {
		return "", NewBusinessError("LINK_LOOKUP_FAILED", "Failed to lookup short link", err)
	}
	if link == nil {
		return "", ErrLinkNotFound
	}

	// Lazy populate so the next visit is served from cache
	if f.linkCache != nil {
		entry := repository.CachedLink{URL: link.OriginalURL, LinkID: link.ID}
		if err := f.linkCache.Set(ctx, shortID, entry); err != nil {
			log.Printf("link cache populate failed for %s: %v", shortID, err)
		}
	}

	f.recordVisit(ctx, link.ID, metadata)
	return link.OriginalURL, nil
}

func (f *LinkVisitFlowImpl) recordVisit(ctx context.Context, linkID uint, metadata *ClientMetadata) {
	visitor := &models.Visitor{
		LinkID:    linkID,
		CreatedAt: utils.UTCNow(),
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			visitor.IP = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			visitor.UserAgent = &metadata.UserAgent
		}
	}

	if err := f.visitorRepo.Save(ctx, visitor); err != nil {
		log.Printf("visit tracking failed for link %d: %v", linkID, err)
	}
}

func isValidShortID(shortID string) bool {
	for i := 0; i < len(shortID); i++ {
		c := shortID[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
