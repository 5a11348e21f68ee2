package inventory

import (
	"database/sql"

	"gorm.io/gorm"

	inventoryEntity "poultry.GO/model/entity/inventory"
)

type InventoryRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewInventoryRepository(db *gorm.DB) (*InventoryRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &InventoryRepository{db: db, sqlDB: sqlDB}, nil
}

// FindActiveByType returns the single active ledger row for a type.
func (r *InventoryRepository) FindActiveByType(t inventoryEntity.Type) (*inventoryEntity.InventoryItem, error) {
	var item inventoryEntity.InventoryItem
	err := r.db.Where("type = ? AND is_active = ?", t, true).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// QuantityByType returns the aggregate stock for a type.
// Uses raw SQL for minimal overhead
func (r *InventoryRepository) QuantityByType(t inventoryEntity.Type) (float64, bool) {
	const query = `SELECT quantity FROM inventory_item WHERE type = ? AND is_active = 1 LIMIT 1`
	var qty sql.NullFloat64
	if err := r.sqlDB.QueryRow(query, string(t)).Scan(&qty); err != nil || !qty.Valid {
		return 0, false
	}
	return qty.Float64, true
}

// ListActive returns every active ledger row.
func (r *InventoryRepository) ListActive() ([]inventoryEntity.InventoryItem, error) {
	var items []inventoryEntity.InventoryItem
	err := r.db.Where("is_active = ?", true).Order("type").Find(&items).Error
	return items, err
}

func (r *InventoryRepository) Create(item *inventoryEntity.InventoryItem) error {
	return r.db.Create(item).Error
}

func (r *InventoryRepository) Save(item *inventoryEntity.InventoryItem) error {
	return r.db.Save(item).Error
}
