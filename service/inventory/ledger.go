package inventory

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	feedEntity "poultry.GO/model/entity/feed"
	inventoryEntity "poultry.GO/model/entity/inventory"
)

var (
	// ErrNoInventory means no active ledger row exists for the requested type.
	ErrNoInventory = errors.New("no inventory found")

	// ErrUnknownFeedType guards the feed_details map against open-ended keys.
	ErrUnknownFeedType = errors.New("unknown feed type")

	// errStaleRow means the version check failed: another writer committed
	// between our read and our update. The caller re-reads and retries.
	errStaleRow = errors.New("stale inventory row")
)

// ledgerRetries bounds the optimistic-locking retry loop on a ledger row.
const ledgerRetries = 3

// InsufficientStockError reports a deduction that exceeds the available
// balance. FeedType is empty when the aggregate quantity was short.
type InsufficientStockError struct {
	FeedType  string
	Available float64
	Required  float64
}

func (e *InsufficientStockError) Error() string {
	if e.FeedType != "" {
		return fmt.Sprintf("insufficient %s inventory: available %.2f kg, required %.2f kg", e.FeedType, e.Available, e.Required)
	}
	return fmt.Sprintf("insufficient inventory: available %.2f, required %.2f", e.Available, e.Required)
}

func validateDetails(details map[string]float64) error {
	for key := range details {
		if !feedEntity.ValidFeedType(feedEntity.FeedType(key)) {
			return fmt.Errorf("%w: %s", ErrUnknownFeedType, key)
		}
	}
	return nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func findActive(db *gorm.DB, t inventoryEntity.Type) (*inventoryEntity.InventoryItem, error) {
	var item inventoryEntity.InventoryItem
	err := db.Where("type = ? AND is_active = ?", t, true).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w for type %s", ErrNoInventory, t)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Add credits the ledger row for a type, creating it when absent. For FEED,
// details (feed type -> kg) is merged into feed_details by summing per key;
// detail values must be non-negative (Deduct owns the restore path).
// Pass the transaction handle when the credit must commit with other rows.
func Add(db *gorm.DB, t inventoryEntity.Type, amount float64, details map[string]float64) (*inventoryEntity.InventoryItem, error) {
	if !inventoryEntity.ValidType(t) {
		return nil, fmt.Errorf("invalid inventory type %q", t)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %v", amount)
	}
	if err := validateDetails(details); err != nil {
		return nil, err
	}
	for key, qty := range details {
		if qty < 0 {
			return nil, fmt.Errorf("detail amount for %s must not be negative, got %v", key, qty)
		}
	}

	for attempt := 0; attempt < ledgerRetries; attempt++ {
		item, err := findActive(db, t)
		if errors.Is(err, ErrNoInventory) {
			return seedRow(db, t, amount, details)
		}
		if err != nil {
			return nil, err
		}
		got, err := applyAdd(db, item, t, amount, details)
		if errors.Is(err, errStaleRow) {
			continue
		}
		return got, err
	}
	return nil, fmt.Errorf("inventory %s: contention on ledger row, gave up after %d attempts", t, ledgerRetries)
}

func applyAdd(db *gorm.DB, item *inventoryEntity.InventoryItem, t inventoryEntity.Type, amount float64, details map[string]float64) (*inventoryEntity.InventoryItem, error) {
	updates := map[string]interface{}{
		"quantity": gorm.Expr("quantity + ?", amount),
		"version":  gorm.Expr("version + 1"),
	}
	applyCounters(updates, item, t, amount)
	if t == inventoryEntity.TypeFeed && len(details) > 0 {
		merged := cloneDetails(item)
		for key, qty := range details {
			merged[key] = item.FeedDetailQty(key) + qty
		}
		updates["feed_details"] = merged
	}

	res := db.Model(&inventoryEntity.InventoryItem{}).
		Where("item_id = ? AND version = ?", item.ItemID, item.Version).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errStaleRow
	}
	return reload(db, item.ItemID)
}

// Deduct debits the ledger row for a type. For FEED with details, each
// feed-type sub-balance is checked and decremented; otherwise the aggregate
// quantity is checked. The UPDATE carries a version = ? predicate evaluated
// in the database, so a concurrent write between our read and ours shows up
// as zero rows affected and the whole check-then-write is retried against a
// fresh snapshot instead of overwriting the other writer's balances.
// A negative amount returns stock (used when a usage record shrinks).
func Deduct(db *gorm.DB, t inventoryEntity.Type, amount float64, details map[string]float64) (*inventoryEntity.InventoryItem, error) {
	if !inventoryEntity.ValidType(t) {
		return nil, fmt.Errorf("invalid inventory type %q", t)
	}
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < ledgerRetries; attempt++ {
		item, err := findActive(db, t)
		if err != nil {
			return nil, err
		}
		got, err := applyDeduct(db, item, t, amount, details)
		if errors.Is(err, errStaleRow) {
			continue
		}
		return got, err
	}
	return nil, fmt.Errorf("inventory %s: contention on ledger row, gave up after %d attempts", t, ledgerRetries)
}

func applyDeduct(db *gorm.DB, item *inventoryEntity.InventoryItem, t inventoryEntity.Type, amount float64, details map[string]float64) (*inventoryEntity.InventoryItem, error) {
	updates := map[string]interface{}{
		"quantity": gorm.Expr("quantity - ?", amount),
		"version":  gorm.Expr("version + 1"),
	}
	applyCounters(updates, item, t, -amount)

	if t == inventoryEntity.TypeFeed && len(details) > 0 {
		merged := cloneDetails(item)
		for key, qty := range details {
			available := item.FeedDetailQty(key)
			if available < qty {
				return nil, &InsufficientStockError{FeedType: key, Available: available, Required: qty}
			}
			merged[key] = clamp(available - qty)
		}
		if amount > 0 && item.Quantity < amount {
			return nil, &InsufficientStockError{Available: item.Quantity, Required: amount}
		}
		updates["feed_details"] = merged
	} else if item.Quantity < amount {
		return nil, &InsufficientStockError{Available: item.Quantity, Required: amount}
	}

	res := db.Model(&inventoryEntity.InventoryItem{}).
		Where("item_id = ? AND version = ?", item.ItemID, item.Version).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errStaleRow
	}
	return reload(db, item.ItemID)
}

func seedRow(db *gorm.DB, t inventoryEntity.Type, amount float64, details map[string]float64) (*inventoryEntity.InventoryItem, error) {
	item := &inventoryEntity.InventoryItem{
		Type:     t,
		Quantity: amount,
		IsActive: true,
	}
	switch t {
	case inventoryEntity.TypeEgg:
		item.EggCount = int64(amount)
	case inventoryEntity.TypeBroiler:
		item.BroilerCount = int64(amount)
	case inventoryEntity.TypeManure:
		item.ManureWeight = amount
	case inventoryEntity.TypeFeed:
		item.FeedDetails = make(datatypes.JSONMap, len(details))
		for key, qty := range details {
			item.FeedDetails[key] = qty
		}
	}
	if err := db.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// applyCounters mirrors a quantity delta onto the type-specific counter,
// clamped at zero from the values read in this transaction.
func applyCounters(updates map[string]interface{}, item *inventoryEntity.InventoryItem, t inventoryEntity.Type, delta float64) {
	switch t {
	case inventoryEntity.TypeEgg:
		n := item.EggCount + int64(delta)
		if n < 0 {
			n = 0
		}
		updates["egg_count"] = n
	case inventoryEntity.TypeBroiler:
		n := item.BroilerCount + int64(delta)
		if n < 0 {
			n = 0
		}
		updates["broiler_count"] = n
	case inventoryEntity.TypeManure:
		updates["manure_weight"] = clamp(item.ManureWeight + delta)
	}
}

func cloneDetails(item *inventoryEntity.InventoryItem) datatypes.JSONMap {
	merged := make(datatypes.JSONMap, len(item.FeedDetails))
	for key := range item.FeedDetails {
		merged[key] = item.FeedDetailQty(key)
	}
	return merged
}

func reload(db *gorm.DB, id uint) (*inventoryEntity.InventoryItem, error) {
	var item inventoryEntity.InventoryItem
	if err := db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
