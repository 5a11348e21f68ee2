package inventory

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Type enumerates the inventory ledger categories.
type Type string

const (
	TypeFeed     Type = "FEED"
	TypeEgg      Type = "EGG"
	TypeBroiler  Type = "BROILER"
	TypeManure   Type = "MANURE"
	TypeMedicine Type = "MEDICINE"
	TypeOther    Type = "OTHER"
)

var knownTypes = map[Type]bool{
	TypeFeed: true, TypeEgg: true, TypeBroiler: true,
	TypeManure: true, TypeMedicine: true, TypeOther: true,
}

// ValidType reports whether t is one of the known inventory types.
func ValidType(t Type) bool {
	return knownTypes[t]
}

// InventoryItem represents the inventory_item table. One active row per type
// holds the aggregate stock; for FEED the per-feed-type breakdown lives in
// the feed_details JSON column (feed type -> quantity in kg).
type InventoryItem struct {
	ItemID       uint              `gorm:"column:item_id;primaryKey;autoIncrement" json:"item_id"`
	Type         Type              `gorm:"column:type;type:varchar(16);not null;index" json:"type"`
	Quantity     float64           `gorm:"column:quantity;type:decimal(12,4);not null;default:0" json:"quantity"`
	EggCount     int64             `gorm:"column:egg_count;not null;default:0" json:"egg_count"`
	BroilerCount int64             `gorm:"column:broiler_count;not null;default:0" json:"broiler_count"`
	ManureWeight float64           `gorm:"column:manure_weight;type:decimal(12,4);not null;default:0" json:"manure_weight"`
	FeedDetails  datatypes.JSONMap `gorm:"column:feed_details" json:"feed_details,omitempty"`
	Version      uint              `gorm:"column:version;not null" json:"-"` // optimistic locking
	IsActive     bool              `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (InventoryItem) TableName() string {
	return "inventory_item"
}

// FeedDetailQty returns the sub-balance for one feed type key.
// JSONMap.Scan decodes with UseNumber, so values read back from the database
// arrive as json.Number; values set in memory are float64 or ints.
func (i *InventoryItem) FeedDetailQty(feedType string) float64 {
	if i.FeedDetails == nil {
		return 0
	}
	switch v := i.FeedDetails[feedType].(type) {
	case float64:
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}
