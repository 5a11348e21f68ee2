package feed

import "time"

// FeedType enumerates the feed stages a flock moves through.
type FeedType string

const (
	FeedTypePreStarter   FeedType = "PRESTARTER"
	FeedTypeStarter      FeedType = "STARTER"
	FeedTypeGrower       FeedType = "GROWER"
	FeedTypeRearing      FeedType = "REARING"
	FeedTypeLayerStarter FeedType = "LAYER_STARTER"
	FeedTypeLayer        FeedType = "LAYER"
)

var knownFeedTypes = map[FeedType]bool{
	FeedTypePreStarter: true, FeedTypeStarter: true, FeedTypeGrower: true,
	FeedTypeRearing: true, FeedTypeLayerStarter: true, FeedTypeLayer: true,
}

// ValidFeedType reports whether t is a known feed stage. Ledger and usage
// writes reject unknown keys so the feed_details JSON stays a closed map.
func ValidFeedType(t FeedType) bool {
	return knownFeedTypes[t]
}

// FeedProgram represents the feed_program reference table: one row per flock
// age (in weeks) with the recommended feed type and grams-per-hen dosage.
type FeedProgram struct {
	ProgramID  uint     `gorm:"column:program_id;primaryKey;autoIncrement" json:"program_id"`
	AgeInWeeks int      `gorm:"column:age_in_weeks;not null;uniqueIndex" json:"age_in_weeks"`
	AgeInDays  string   `gorm:"column:age_in_days;type:varchar(32)" json:"age_in_days"`
	FeedType   FeedType `gorm:"column:feed_type;type:varchar(32);not null" json:"feed_type"`
	GramPerHen float64  `gorm:"column:gram_per_hen;type:decimal(8,2);not null" json:"gram_per_hen"`
	// No default tag: gorm would treat an explicit false as the zero value
	// and store the column default instead. Callers always set this.
	IsActive bool `gorm:"column:is_active;not null" json:"is_active"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (FeedProgram) TableName() string {
	return "feed_program"
}
