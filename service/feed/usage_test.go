package feed

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	feedEntity "poultry.GO/model/entity/feed"
	flockEntity "poultry.GO/model/entity/flock"
	inventoryEntity "poultry.GO/model/entity/inventory"
	inventoryService "poultry.GO/service/inventory"
)

// usageTestDB seeds a LAYER-stage flock and a 100 kg LAYER ledger row.
func usageTestDB(t *testing.T) (*gorm.DB, *flockEntity.Flock) {
	db := testDB(t)
	seedPrograms(t, db)
	f := seedFlock(t, db, 0, 60*7, 100) // far past the curve: LAYER fallback
	if _, err := inventoryService.Add(db, inventoryEntity.TypeFeed, 100,
		map[string]float64{"LAYER": 100}); err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	return db, f
}

func feedStock(t *testing.T, db *gorm.DB) (float64, float64) {
	t.Helper()
	var item inventoryEntity.InventoryItem
	if err := db.Where("type = ?", inventoryEntity.TypeFeed).First(&item).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	return item.Quantity, item.FeedDetailQty("LAYER")
}

func TestCreateUsage_DeductsFromLedger(t *testing.T) {
	db, f := usageTestDB(t)

	usage, err := CreateUsage(db, CreateUsageInput{
		FlockID:    f.FlockID,
		AmountUsed: 30,
		UnitCost:   0.5,
		RecordedBy: "worker-1",
	})
	if err != nil {
		t.Fatalf("CreateUsage: %v", err)
	}
	if usage.UsageID == 0 {
		t.Error("UsageID not set")
	}
	if usage.Reference == "" {
		t.Error("Reference not set")
	}
	if usage.FeedType != feedEntity.FeedTypeLayer {
		t.Errorf("FeedType = %q, want LAYER from recommendation", usage.FeedType)
	}
	if usage.Unit != "kg" {
		t.Errorf("Unit = %q, want default kg", usage.Unit)
	}

	qty, layer := feedStock(t, db)
	if qty != 70 || layer != 70 {
		t.Errorf("stock after create = %v total / %v LAYER, want 70 / 70", qty, layer)
	}
}

func TestCreateUsage_InsufficientStockRollsBack(t *testing.T) {
	db, f := usageTestDB(t)

	_, err := CreateUsage(db, CreateUsageInput{FlockID: f.FlockID, AmountUsed: 150})
	var insufficient *inventoryService.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}

	var count int64
	if err := db.Model(&feedEntity.FeedUsage{}).Count(&count).Error; err != nil {
		t.Fatalf("count usage: %v", err)
	}
	if count != 0 {
		t.Errorf("usage rows = %d, want 0 (insert rolled back)", count)
	}
	qty, layer := feedStock(t, db)
	if qty != 100 || layer != 100 {
		t.Errorf("stock after failed create = %v / %v, want 100 / 100", qty, layer)
	}
}

func TestCreateUsage_RejectsNonPositiveAmount(t *testing.T) {
	db, f := usageTestDB(t)

	if _, err := CreateUsage(db, CreateUsageInput{FlockID: f.FlockID, AmountUsed: 0}); err == nil {
		t.Error("expected error for zero amount")
	}
	if _, err := CreateUsage(db, CreateUsageInput{FlockID: f.FlockID, AmountUsed: -5}); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestCreateUsage_UnknownFlock(t *testing.T) {
	db, _ := usageTestDB(t)

	_, err := CreateUsage(db, CreateUsageInput{FlockID: 9999, AmountUsed: 10})
	if !errors.Is(err, ErrFlockNotFound) {
		t.Errorf("err = %v, want ErrFlockNotFound", err)
	}
}

func TestUpdateUsage_AdjustsLedgerByDelta(t *testing.T) {
	db, f := usageTestDB(t)
	usage, err := CreateUsage(db, CreateUsageInput{FlockID: f.FlockID, AmountUsed: 30})
	if err != nil {
		t.Fatalf("CreateUsage: %v", err)
	}

	// 30 -> 50: deduct 20 more.
	more := 50.0
	updated, err := UpdateUsage(db, usage.UsageID, UpdateUsageInput{AmountUsed: &more})
	if err != nil {
		t.Fatalf("UpdateUsage: %v", err)
	}
	if updated.AmountUsed != 50 {
		t.Errorf("AmountUsed = %v, want 50", updated.AmountUsed)
	}
	if qty, layer := feedStock(t, db); qty != 50 || layer != 50 {
		t.Errorf("stock after increase = %v / %v, want 50 / 50", qty, layer)
	}

	// 50 -> 20: return 30 to the ledger.
	less := 20.0
	if _, err := UpdateUsage(db, usage.UsageID, UpdateUsageInput{AmountUsed: &less}); err != nil {
		t.Fatalf("UpdateUsage shrink: %v", err)
	}
	if qty, layer := feedStock(t, db); qty != 80 || layer != 80 {
		t.Errorf("stock after decrease = %v / %v, want 80 / 80", qty, layer)
	}
}

func TestUpdateUsage_NonAmountEditLeavesLedgerAlone(t *testing.T) {
	db, f := usageTestDB(t)
	usage, err := CreateUsage(db, CreateUsageInput{FlockID: f.FlockID, AmountUsed: 30})
	if err != nil {
		t.Fatalf("CreateUsage: %v", err)
	}

	notes := "rain delayed the morning feed"
	updated, err := UpdateUsage(db, usage.UsageID, UpdateUsageInput{Notes: &notes})
	if err != nil {
		t.Fatalf("UpdateUsage: %v", err)
	}
	if updated.Notes != notes {
		t.Errorf("Notes = %q, want %q", updated.Notes, notes)
	}
	if qty, _ := feedStock(t, db); qty != 70 {
		t.Errorf("stock = %v, want untouched 70", qty)
	}
}

func TestUpdateUsage_InsufficientForIncrease(t *testing.T) {
	db, f := usageTestDB(t)
	usage, err := CreateUsage(db, CreateUsageInput{FlockID: f.FlockID, AmountUsed: 30})
	if err != nil {
		t.Fatalf("CreateUsage: %v", err)
	}

	// 70 kg left; raising 30 -> 150 needs 120 more.
	huge := 150.0
	_, err = UpdateUsage(db, usage.UsageID, UpdateUsageInput{AmountUsed: &huge})
	var insufficient *inventoryService.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}

	// Transaction rolled back: row and ledger keep the old amount.
	var after feedEntity.FeedUsage
	if err := db.First(&after, usage.UsageID).Error; err != nil {
		t.Fatalf("reload usage: %v", err)
	}
	if after.AmountUsed != 30 {
		t.Errorf("AmountUsed = %v, want 30 after rollback", after.AmountUsed)
	}
	if qty, _ := feedStock(t, db); qty != 70 {
		t.Errorf("stock = %v, want 70 after rollback", qty)
	}
}

func TestUpdateUsage_NotFound(t *testing.T) {
	db, _ := usageTestDB(t)

	amount := 10.0
	_, err := UpdateUsage(db, 9999, UpdateUsageInput{AmountUsed: &amount})
	if !errors.Is(err, ErrUsageNotFound) {
		t.Errorf("err = %v, want ErrUsageNotFound", err)
	}
}

func TestDeleteUsage_RestoresLedger(t *testing.T) {
	db, f := usageTestDB(t)
	usage, err := CreateUsage(db, CreateUsageInput{FlockID: f.FlockID, AmountUsed: 30})
	if err != nil {
		t.Fatalf("CreateUsage: %v", err)
	}
	if qty, _ := feedStock(t, db); qty != 70 {
		t.Fatalf("stock = %v, want 70 before delete", qty)
	}

	if err := DeleteUsage(db, usage.UsageID); err != nil {
		t.Fatalf("DeleteUsage: %v", err)
	}

	var count int64
	if err := db.Model(&feedEntity.FeedUsage{}).Count(&count).Error; err != nil {
		t.Fatalf("count usage: %v", err)
	}
	if count != 0 {
		t.Errorf("usage rows = %d, want 0", count)
	}
	if qty, layer := feedStock(t, db); qty != 100 || layer != 100 {
		t.Errorf("stock after delete = %v / %v, want restored 100 / 100", qty, layer)
	}
}

func TestDeleteUsage_NotFound(t *testing.T) {
	db, _ := usageTestDB(t)

	if err := DeleteUsage(db, 9999); !errors.Is(err, ErrUsageNotFound) {
		t.Errorf("err = %v, want ErrUsageNotFound", err)
	}
}

func TestUpdateUsage_ReassignsFlock(t *testing.T) {
	db, f := usageTestDB(t)
	other := seedFlock(t, db, 0, 60*7, 50)

	usage, err := CreateUsage(db, CreateUsageInput{FlockID: f.FlockID, AmountUsed: 30})
	if err != nil {
		t.Fatalf("CreateUsage: %v", err)
	}

	updated, err := UpdateUsage(db, usage.UsageID, UpdateUsageInput{FlockID: &other.FlockID})
	if err != nil {
		t.Fatalf("UpdateUsage: %v", err)
	}
	if updated.FlockID != other.FlockID {
		t.Errorf("FlockID = %d, want %d", updated.FlockID, other.FlockID)
	}
	if updated.FeedType != feedEntity.FeedTypeLayer {
		t.Errorf("FeedType = %q, want LAYER captured at creation", updated.FeedType)
	}

	// Moving the record between flocks leaves the ledger alone.
	qty, layer := feedStock(t, db)
	if qty != 70 || layer != 70 {
		t.Errorf("stock after reassign = %v total / %v LAYER, want 70 / 70", qty, layer)
	}
}
