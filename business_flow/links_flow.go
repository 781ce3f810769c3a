package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/amirphl/Kusanagi-no-Tsurugi/app/dto"
	"github.com/amirphl/Kusanagi-no-Tsurugi/models"
	"github.com/amirphl/Kusanagi-no-Tsurugi/repository"
	"github.com/xuri/excelize/v2"
)

// LinksFlow serves the caller's links with click counts.
// Requires an authenticated user.
type LinksFlow interface {
	ListUserLinks(ctx context.Context, username string) (*dto.ListLinksResponse, error)
	ExportUserLinks(ctx context.Context, username string) (string, []byte, error)
}

type LinksFlowImpl struct {
	linkRepo    repository.LinkRepository
	visitorRepo repository.VisitorRepository
	userRepo    repository.UserRepository
	domain      string
}

func NewLinksFlow(linkRepo repository.LinkRepository, visitorRepo repository.VisitorRepository, userRepo repository.UserRepository, domain string) LinksFlow {
	return &LinksFlowImpl{
		linkRepo:    linkRepo,
		visitorRepo: visitorRepo,
		userRepo:    userRepo,
		domain:      domain,
	}
}

// ListUserLinks returns the user's links in insertion order, each with
// its total click count
func (f *LinksFlowImpl) ListUserLinks(ctx context.Context, username string) (*dto.ListLinksResponse, error) {
	user, err := f.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}

	links, err := f.linkRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, NewBusinessError("LIST_LINKS_FAILED", "Failed to list links", err)
	}

	out := make([]dto.LinkDTO, 0, len(links))
	for _, link := range links {
		clicks, err := f.visitorRepo.CountByLink(ctx, link.ID)
		if err != nil {
			return nil, NewBusinessError("COUNT_CLICKS_FAILED", "Failed to count clicks", err)
		}
		out = append(out, ToLinkDTO(*link, f.domain, clicks))
	}

	return &dto.ListLinksResponse{
		Links: out,
		Total: len(out),
	}, nil
}

func (f *LinksFlowImpl) resolveUser(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, ErrNotAuthenticated
	}
	user, err := f.userRepo.ByUsername(ctx, username)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to resolve caller", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ExportUserLinks renders the same listing as an Excel workbook
func (f *LinksFlowImpl) ExportUserLinks(ctx context.Context, username string) (string, []byte, error) {
	listing, err := f.ListUserLinks(ctx, username)
	if err != nil {
		return "", nil, err
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := xl.GetSheetName(0)
	header := []string{"id", "short_id", "short_url", "original_url", "total_clicks", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, link := range listing.Links {
		record := []string{
			strconv.FormatUint(uint64(link.ID), 10),
			link.ShortID,
			link.ShortURL,
			link.OriginalURL,
			strconv.FormatInt(link.TotalClicks, 10),
			link.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("links_%s.xlsx", username)
	return filename, buf.Bytes(), nil
}
