package feed

import (
	"time"

	"gorm.io/gorm"

	feedRepo "poultry.GO/model/repository/feed"
)

// FeedTypeStats aggregates consumption per feed type.
type FeedTypeStats struct {
	FeedType    string  `json:"feed_type"`
	TotalUsedKg float64 `json:"total_used_kg"`
	TotalCost   float64 `json:"total_cost"`
	FlockCount  int     `json:"flock_count"`
	RecordCount int     `json:"record_count"`
}

// ConsumptionSummary rolls the per-type stats up across all feed types.
// AvgCostPerKg is total cost over total usage, not an average of averages.
type ConsumptionSummary struct {
	TotalUsedKg  float64 `json:"total_used_kg"`
	TotalCost    float64 `json:"total_cost"`
	AvgCostPerKg float64 `json:"avg_cost_per_kg"`
	FlockCount   int     `json:"flock_count"`
	RecordCount  int     `json:"record_count"`
}

// ConsumptionReport is the full analytics payload.
type ConsumptionReport struct {
	ByFeedType []FeedTypeStats    `json:"by_feed_type"`
	Summary    ConsumptionSummary `json:"summary"`
}

// ConsumptionStats aggregates feed_usage rows per feed type for an optional
// date window, plus an overall summary with a distinct-flock count across
// all types (a flock feeding on two types counts once in the summary).
func ConsumptionStats(db *gorm.DB, from, to *time.Time) (*ConsumptionReport, error) {
	repo, err := feedRepo.NewFeedUsageRepository(db)
	if err != nil {
		return nil, err
	}
	rows, err := repo.StatsByFeedType(from, to)
	if err != nil {
		return nil, err
	}

	report := &ConsumptionReport{ByFeedType: make([]FeedTypeStats, 0, len(rows))}
	for _, row := range rows {
		report.ByFeedType = append(report.ByFeedType, FeedTypeStats{
			FeedType:    string(row.FeedType),
			TotalUsedKg: row.TotalUsedKg,
			TotalCost:   row.TotalCost,
			FlockCount:  row.FlockCount,
			RecordCount: row.RecordCount,
		})
		report.Summary.TotalUsedKg += row.TotalUsedKg
		report.Summary.TotalCost += row.TotalCost
		report.Summary.RecordCount += row.RecordCount
	}
	if report.Summary.TotalUsedKg > 0 {
		report.Summary.AvgCostPerKg = report.Summary.TotalCost / report.Summary.TotalUsedKg
	}

	flocks, err := repo.DistinctFlockCount(from, to)
	if err != nil {
		return nil, err
	}
	report.Summary.FlockCount = flocks
	return report, nil
}
