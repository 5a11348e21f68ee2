package flock

import "time"

// Flock is a tracked batch of birds. AgeInDays is the age at arrival;
// the current age is always derived from ArrivalDate, never stored.
type Flock struct {
	FlockID      uint      `gorm:"column:flock_id;primaryKey;autoIncrement" json:"flock_id"`
	Name         string    `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Breed        string    `gorm:"column:breed;type:varchar(64)" json:"breed,omitempty"`
	ArrivalDate  time.Time `gorm:"column:arrival_date;not null" json:"arrival_date"`
	AgeInDays    int       `gorm:"column:age_in_days;not null;default:0" json:"age_in_days"`
	CurrentCount int       `gorm:"column:current_count;not null;default:0" json:"current_count"`
	Status       string    `gorm:"column:status;type:varchar(16);not null;default:active" json:"status"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Flock) TableName() string {
	return "flock"
}
