package inventory

import (
	"encoding/json"
	"testing"

	"gorm.io/datatypes"
)

func TestInventoryItem_TableName(t *testing.T) {
	i := InventoryItem{}
	if got := i.TableName(); got != "inventory_item" {
		t.Errorf("InventoryItem.TableName() = %q, want inventory_item", got)
	}
}

func TestValidType(t *testing.T) {
	for _, valid := range []Type{TypeFeed, TypeEgg, TypeBroiler, TypeManure, TypeMedicine, TypeOther} {
		if !ValidType(valid) {
			t.Errorf("ValidType(%q) = false, want true", valid)
		}
	}
	if ValidType(Type("GRAIN")) {
		t.Error(`ValidType("GRAIN") = true, want false`)
	}
	if ValidType(Type("feed")) {
		t.Error("type codes are case sensitive")
	}
}

func TestFeedDetailQty(t *testing.T) {
	i := InventoryItem{FeedDetails: datatypes.JSONMap{
		"LAYER":      42.5,
		"STARTER":    int64(10),
		"GROWER":     7,
		"PRESTARTER": json.Number("12.25"),
		"REARING":    json.Number("not-a-number"),
	}}
	if got := i.FeedDetailQty("LAYER"); got != 42.5 {
		t.Errorf("FeedDetailQty(LAYER) = %v, want 42.5", got)
	}
	// JSONMap.Scan decodes with UseNumber, so persisted rows come back
	// holding json.Number values.
	if got := i.FeedDetailQty("PRESTARTER"); got != 12.25 {
		t.Errorf("FeedDetailQty(PRESTARTER) = %v, want 12.25 from json.Number", got)
	}
	if got := i.FeedDetailQty("REARING"); got != 0 {
		t.Errorf("FeedDetailQty(REARING) = %v, want 0 for a malformed number", got)
	}
	if got := i.FeedDetailQty("STARTER"); got != 10 {
		t.Errorf("FeedDetailQty(STARTER) = %v, want 10 from int64", got)
	}
	if got := i.FeedDetailQty("GROWER"); got != 7 {
		t.Errorf("FeedDetailQty(GROWER) = %v, want 7 from int", got)
	}
	if got := i.FeedDetailQty("LAYER_STARTER"); got != 0 {
		t.Errorf("FeedDetailQty(LAYER_STARTER) = %v, want 0 for absent key", got)
	}

	empty := InventoryItem{}
	if got := empty.FeedDetailQty("LAYER"); got != 0 {
		t.Errorf("FeedDetailQty on nil map = %v, want 0", got)
	}
}
