package inventory

import (
	"sort"
	"time"

	"gorm.io/gorm"

	inventoryEntity "poultry.GO/model/entity/inventory"
)

// ProjectionDay is one projected day of remaining stock for a feed type.
type ProjectionDay struct {
	Day            int       `json:"day"`
	Date           time.Time `json:"date"`
	ProjectedStock float64   `json:"projected_stock"`
	LowStock       bool      `json:"low_stock"`
	OutOfStock     bool      `json:"out_of_stock"`
}

// Projection linearly extrapolates the current sub-balance of one feed type
// using the trailing-window average daily usage. DaysUntil* are nil when the
// window holds no usage rows (nothing to extrapolate from).
type Projection struct {
	FeedType            string          `json:"feed_type"`
	CurrentStockKg      float64         `json:"current_stock_kg"`
	AverageDailyUsageKg float64         `json:"average_daily_usage_kg"`
	HasUsageData        bool            `json:"has_usage_data"`
	Days                []ProjectionDay `json:"days"`
	DaysUntilLowStock   *int            `json:"days_until_low_stock,omitempty"`
	DaysUntilOutOfStock *int            `json:"days_until_out_of_stock,omitempty"`
}

// ProjectionOptions control the projection horizon and thresholds.
type ProjectionOptions struct {
	HorizonDays      int     // how many days forward to project (default 30)
	WindowDays       int     // trailing usage window (default 30)
	LowThresholdKg   float64 // below this a day is flagged low stock
	At               time.Time
}

func (o *ProjectionOptions) defaults() {
	if o.HorizonDays <= 0 {
		o.HorizonDays = 30
	}
	if o.WindowDays <= 0 {
		o.WindowDays = 30
	}
	if o.At.IsZero() {
		o.At = time.Now()
	}
}

// ProjectFeedStock projects remaining stock per feed type held in the FEED
// ledger row. Average daily usage comes from feed_usage rows inside the
// trailing window, in one GROUP BY query for all feed types.
func ProjectFeedStock(db *gorm.DB, opts ProjectionOptions) ([]Projection, error) {
	opts.defaults()

	item, err := findActive(db, inventoryEntity.TypeFeed)
	if err != nil {
		return nil, err
	}

	since := opts.At.AddDate(0, 0, -opts.WindowDays)
	type usageRow struct {
		FeedType string  `gorm:"column:feed_type"`
		Total    float64 `gorm:"column:total"`
	}
	var totals []usageRow
	if err := db.Table("feed_usage").
		Select("feed_type, COALESCE(SUM(amount_used), 0) AS total").
		Where("date >= ?", since).
		Group("feed_type").
		Find(&totals).Error; err != nil {
		return nil, err
	}
	totalByType := make(map[string]float64, len(totals))
	for _, row := range totals {
		totalByType[row.FeedType] = row.Total
	}

	feedTypes := make([]string, 0, len(item.FeedDetails))
	for key := range item.FeedDetails {
		feedTypes = append(feedTypes, key)
	}
	sort.Strings(feedTypes)

	projections := make([]Projection, 0, len(feedTypes))
	for _, feedType := range feedTypes {
		stock := item.FeedDetailQty(feedType)
		total, hasData := totalByType[feedType]
		avg := 0.0
		if hasData {
			avg = total / float64(opts.WindowDays)
		}

		p := Projection{
			FeedType:            feedType,
			CurrentStockKg:      stock,
			AverageDailyUsageKg: avg,
			HasUsageData:        hasData && avg > 0,
		}

		for day := 1; day <= opts.HorizonDays; day++ {
			projected := stock - avg*float64(day)
			d := ProjectionDay{
				Day:            day,
				Date:           opts.At.AddDate(0, 0, day),
				ProjectedStock: clamp(projected),
				LowStock:       projected < opts.LowThresholdKg,
				OutOfStock:     projected <= 0,
			}
			p.Days = append(p.Days, d)
			if p.HasUsageData {
				if p.DaysUntilLowStock == nil && d.LowStock {
					v := day
					p.DaysUntilLowStock = &v
				}
				if p.DaysUntilOutOfStock == nil && d.OutOfStock {
					v := day
					p.DaysUntilOutOfStock = &v
				}
			}
		}
		projections = append(projections, p)
	}
	return projections, nil
}
