package feed

import (
	"database/sql"
	"time"

	"gorm.io/gorm"

	feedEntity "poultry.GO/model/entity/feed"
)

type FeedUsageRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewFeedUsageRepository(db *gorm.DB) (*FeedUsageRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &FeedUsageRepository{db: db, sqlDB: sqlDB}, nil
}

func (r *FeedUsageRepository) FindByID(id uint) (*feedEntity.FeedUsage, error) {
	var usage feedEntity.FeedUsage
	err := r.db.First(&usage, id).Error
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

// ListByFlock returns usage rows for a flock, newest first.
func (r *FeedUsageRepository) ListByFlock(flockID uint, limit int) ([]feedEntity.FeedUsage, error) {
	var rows []feedEntity.FeedUsage
	q := r.db.Where("flock_id = ?", flockID).Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&rows).Error
	return rows, err
}

// ListByFlockSince returns usage rows for a flock from a date onward, oldest first.
func (r *FeedUsageRepository) ListByFlockSince(flockID uint, since time.Time) ([]feedEntity.FeedUsage, error) {
	var rows []feedEntity.FeedUsage
	err := r.db.Where("flock_id = ? AND date >= ?", flockID, since).Order("date ASC").Find(&rows).Error
	return rows, err
}

// List returns usage rows with optional feed-type and date filters, newest first.
func (r *FeedUsageRepository) List(feedType feedEntity.FeedType, from, to *time.Time, limit int) ([]feedEntity.FeedUsage, error) {
	q := r.db.Order("date DESC")
	if feedType != "" {
		q = q.Where("feed_type = ?", feedType)
	}
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []feedEntity.FeedUsage
	err := q.Find(&rows).Error
	return rows, err
}

// TotalUsedSince sums amount_used for one feed type from a date onward.
// Uses raw SQL for minimal overhead
func (r *FeedUsageRepository) TotalUsedSince(feedType feedEntity.FeedType, since time.Time) (float64, error) {
	const query = `SELECT COALESCE(SUM(amount_used), 0) FROM feed_usage WHERE feed_type = ? AND date >= ?`
	var total float64
	err := r.sqlDB.QueryRow(query, string(feedType), since).Scan(&total)
	return total, err
}

// UsageStatsRow is one GROUP BY feed_type aggregate.
type UsageStatsRow struct {
	FeedType    feedEntity.FeedType `gorm:"column:feed_type"`
	TotalUsedKg float64             `gorm:"column:total_used_kg"`
	TotalCost   float64             `gorm:"column:total_cost"`
	FlockCount  int                 `gorm:"column:flock_count"`
	RecordCount int                 `gorm:"column:record_count"`
}

// StatsByFeedType aggregates usage per feed type, optionally date-bounded.
func (r *FeedUsageRepository) StatsByFeedType(from, to *time.Time) ([]UsageStatsRow, error) {
	q := r.db.Table("feed_usage").
		Select("feed_type, " +
			"COALESCE(SUM(amount_used), 0) AS total_used_kg, " +
			"COALESCE(SUM(amount_used * unit_cost), 0) AS total_cost, " +
			"COUNT(DISTINCT flock_id) AS flock_count, " +
			"COUNT(*) AS record_count").
		Group("feed_type")
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}
	var rows []UsageStatsRow
	err := q.Order("feed_type").Find(&rows).Error
	return rows, err
}

// DistinctFlockCount counts distinct flocks with usage, optionally date-bounded.
func (r *FeedUsageRepository) DistinctFlockCount(from, to *time.Time) (int, error) {
	q := r.db.Table("feed_usage").Select("COUNT(DISTINCT flock_id)")
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}
	var count int
	err := q.Scan(&count).Error
	return count, err
}
