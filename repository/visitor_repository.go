package repository

import (
	"context"

	"github.com/amirphl/Kusanagi-no-Tsurugi/models"
	"gorm.io/gorm"
)

// VisitorRepositoryImpl implements VisitorRepository
type VisitorRepositoryImpl struct {
	*BaseRepository[models.Visitor, models.VisitorFilter]
}

func NewVisitorRepository(db *gorm.DB) VisitorRepository {
	return &VisitorRepositoryImpl{BaseRepository: NewBaseRepository[models.Visitor, models.VisitorFilter](db)}
}

func (r *VisitorRepositoryImpl) applyFilter(db *gorm.DB, f models.VisitorFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.LinkID != nil {
		db = db.Where("link_id = ?", *f.LinkID)
	}
	if f.IP != nil {
		db = db.Where("ip = ?", *f.IP)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *VisitorRepositoryImpl) ByFilter(ctx context.Context, filter models.VisitorFilter, orderBy string, limit, offset int) ([]*models.Visitor, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Visitor{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Visitor
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *VisitorRepositoryImpl) Count(ctx context.Context, filter models.VisitorFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Visitor{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *VisitorRepositoryImpl) Exists(ctx context.Context, filter models.VisitorFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// CountByLink returns the number of recorded visits for a link
func (r *VisitorRepositoryImpl) CountByLink(ctx context.Context, linkID uint) (int64, error) {
	filter := models.VisitorFilter{LinkID: &linkID}
	return r.Count(ctx, filter)
}

// ListByLink returns visits for a link, newest first
func (r *VisitorRepositoryImpl) ListByLink(ctx context.Context, linkID uint, limit, offset int) ([]*models.Visitor, error) {
	filter := models.VisitorFilter{LinkID: &linkID}
	return r.ByFilter(ctx, filter, "id DESC", limit, offset)
}
