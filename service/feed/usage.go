package feed

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	feedEntity "poultry.GO/model/entity/feed"
	inventoryEntity "poultry.GO/model/entity/inventory"
	inventoryService "poultry.GO/service/inventory"
)

// ErrUsageNotFound wraps a missing usage record on update/delete.
var ErrUsageNotFound = errors.New("feed usage record not found")

// CreateUsageInput is the payload for recording a consumption event.
type CreateUsageInput struct {
	FlockID    uint      `json:"flock_id"`
	Date       time.Time `json:"date"`
	AmountUsed float64   `json:"amount_used"`
	Unit       string    `json:"unit"`
	UnitCost   float64   `json:"unit_cost"`
	Notes      string    `json:"notes"`
	RecordedBy string    `json:"recorded_by"`
}

// UpdateUsageInput carries the updatable fields; nil means unchanged.
// Reassigning FlockID never touches the ledger: the feed type was captured
// at creation and the deducted stock stays attributed to it.
type UpdateUsageInput struct {
	FlockID    *uint      `json:"flock_id"`
	Date       *time.Time `json:"date"`
	AmountUsed *float64   `json:"amount_used"`
	UnitCost   *float64   `json:"unit_cost"`
	Notes      *string    `json:"notes"`
}

// CreateUsage records a consumption event: the flock's age-based
// recommendation picks the feed type, then the usage row insert and the
// ledger deduction commit in one transaction. The ledger deduction is the
// only stock check; if it fails, the row is rolled back with it.
func CreateUsage(db *gorm.DB, in CreateUsageInput) (*feedEntity.FeedUsage, error) {
	if in.AmountUsed <= 0 {
		return nil, fmt.Errorf("amount_used must be positive, got %v", in.AmountUsed)
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	rec, err := Recommend(db, in.FlockID, date)
	if err != nil {
		return nil, err
	}

	unit := in.Unit
	if unit == "" {
		unit = "kg"
	}
	usage := &feedEntity.FeedUsage{
		Reference:  uuid.NewString(),
		FlockID:    in.FlockID,
		FeedType:   rec.FeedType,
		Date:       date,
		AmountUsed: in.AmountUsed,
		Unit:       unit,
		UnitCost:   in.UnitCost,
		Notes:      in.Notes,
		RecordedBy: in.RecordedBy,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(usage).Error; err != nil {
			return err
		}
		_, err := inventoryService.Deduct(tx, inventoryEntity.TypeFeed, in.AmountUsed,
			map[string]float64{string(rec.FeedType): in.AmountUsed})
		return err
	})
	if err != nil {
		return nil, err
	}
	return usage, nil
}

// UpdateUsage edits a usage record. When amount_used changes, the ledger is
// adjusted by the delta against the feed type captured at creation: a larger
// amount deducts more, a smaller amount returns stock. Non-amount edits never
// touch the ledger.
func UpdateUsage(db *gorm.DB, id uint, in UpdateUsageInput) (*feedEntity.FeedUsage, error) {
	var usage feedEntity.FeedUsage
	if err := db.First(&usage, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrUsageNotFound, id)
		}
		return nil, err
	}

	delta := 0.0
	if in.AmountUsed != nil {
		if *in.AmountUsed <= 0 {
			return nil, fmt.Errorf("amount_used must be positive, got %v", *in.AmountUsed)
		}
		delta = *in.AmountUsed - usage.AmountUsed
		usage.AmountUsed = *in.AmountUsed
	}
	if in.FlockID != nil {
		usage.FlockID = *in.FlockID
	}
	if in.Date != nil {
		usage.Date = *in.Date
	}
	if in.UnitCost != nil {
		usage.UnitCost = *in.UnitCost
	}
	if in.Notes != nil {
		usage.Notes = *in.Notes
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&usage).Error; err != nil {
			return err
		}
		if delta == 0 {
			return nil
		}
		_, err := inventoryService.Deduct(tx, inventoryEntity.TypeFeed, delta,
			map[string]float64{string(usage.FeedType): delta})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

// DeleteUsage removes a usage record and restores the exact quantity and
// feed-type sub-balance deducted at creation, in one transaction.
func DeleteUsage(db *gorm.DB, id uint) error {
	var usage feedEntity.FeedUsage
	if err := db.First(&usage, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrUsageNotFound, id)
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&feedEntity.FeedUsage{}, id).Error; err != nil {
			return err
		}
		_, err := inventoryService.Add(tx, inventoryEntity.TypeFeed, usage.AmountUsed,
			map[string]float64{string(usage.FeedType): usage.AmountUsed})
		return err
	})
}
