package flock

import (
	"gorm.io/gorm"

	flockEntity "poultry.GO/model/entity/flock"
)

type FlockRepository struct {
	db *gorm.DB
}

func NewFlockRepository(db *gorm.DB) *FlockRepository {
	return &FlockRepository{db: db}
}

func (r *FlockRepository) FindByID(id uint) (*flockEntity.Flock, error) {
	var f flockEntity.Flock
	err := r.db.First(&f, id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ActiveFlocks returns flocks that still hold birds.
func (r *FlockRepository) ActiveFlocks() ([]flockEntity.Flock, error) {
	var flocks []flockEntity.Flock
	err := r.db.Where("current_count > 0").Order("flock_id").Find(&flocks).Error
	return flocks, err
}

func (r *FlockRepository) List() ([]flockEntity.Flock, error) {
	var flocks []flockEntity.Flock
	err := r.db.Order("flock_id").Find(&flocks).Error
	return flocks, err
}

func (r *FlockRepository) Create(f *flockEntity.Flock) error {
	return r.db.Create(f).Error
}

func (r *FlockRepository) Save(f *flockEntity.Flock) error {
	return r.db.Save(f).Error
}
