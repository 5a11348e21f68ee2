package feed

import "time"

// FeedUsage is a recorded consumption event. FeedType is captured at creation
// from the flock's recommendation and never recomputed, so later program edits
// do not change what was already deducted from the ledger.
type FeedUsage struct {
	UsageID    uint      `gorm:"column:usage_id;primaryKey;autoIncrement" json:"usage_id"`
	Reference  string    `gorm:"column:reference;type:varchar(36);uniqueIndex" json:"reference"`
	FlockID    uint      `gorm:"column:flock_id;not null;index" json:"flock_id"`
	FeedType   FeedType  `gorm:"column:feed_type;type:varchar(32);not null;index" json:"feed_type"`
	Date       time.Time `gorm:"column:date;not null;index" json:"date"`
	AmountUsed float64   `gorm:"column:amount_used;type:decimal(12,4);not null" json:"amount_used"`
	Unit       string    `gorm:"column:unit;type:varchar(8);not null;default:kg" json:"unit"`
	UnitCost   float64   `gorm:"column:unit_cost;type:decimal(12,4);not null;default:0" json:"unit_cost"`
	Notes      string    `gorm:"column:notes;type:text" json:"notes,omitempty"`
	RecordedBy string    `gorm:"column:recorded_by;type:varchar(64)" json:"recorded_by,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (FeedUsage) TableName() string {
	return "feed_usage"
}
