package feed

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	feedEntity "poultry.GO/model/entity/feed"
)

type FeedProgramRepository struct {
	db *gorm.DB
}

func NewFeedProgramRepository(db *gorm.DB) *FeedProgramRepository {
	return &FeedProgramRepository{db: db}
}

// ActivePrograms returns all active rows ordered by age, youngest first.
func (r *FeedProgramRepository) ActivePrograms() ([]feedEntity.FeedProgram, error) {
	var programs []feedEntity.FeedProgram
	err := r.db.Where("is_active = ?", true).Order("age_in_weeks ASC").Find(&programs).Error
	return programs, err
}

// ActiveByWeek returns the active program for an exact age in weeks.
func (r *FeedProgramRepository) ActiveByWeek(week int) (*feedEntity.FeedProgram, error) {
	var program feedEntity.FeedProgram
	err := r.db.Where("age_in_weeks = ? AND is_active = ?", week, true).First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

// MaxWeekProgram returns the active program with the highest age_in_weeks.
func (r *FeedProgramRepository) MaxWeekProgram() (*feedEntity.FeedProgram, error) {
	var program feedEntity.FeedProgram
	err := r.db.Where("is_active = ?", true).Order("age_in_weeks DESC").First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *FeedProgramRepository) FindByID(id uint) (*feedEntity.FeedProgram, error) {
	var program feedEntity.FeedProgram
	err := r.db.First(&program, id).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *FeedProgramRepository) Create(program *feedEntity.FeedProgram) error {
	return r.db.Create(program).Error
}

func (r *FeedProgramRepository) Save(program *feedEntity.FeedProgram) error {
	return r.db.Save(program).Error
}

func (r *FeedProgramRepository) Delete(id uint) error {
	return r.db.Delete(&feedEntity.FeedProgram{}, id).Error
}

// UpsertBatch inserts or updates program rows keyed on age_in_weeks.
// Used by the CSV import so re-importing the same curve is idempotent.
func (r *FeedProgramRepository) UpsertBatch(programs []feedEntity.FeedProgram, batchSize int) error {
	if len(programs) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "age_in_weeks"}},
		DoUpdates: clause.AssignmentColumns([]string{"age_in_days", "feed_type", "gram_per_hen", "is_active"}),
	}
	return r.db.Clauses(upsert).CreateInBatches(programs, batchSize).Error
}
