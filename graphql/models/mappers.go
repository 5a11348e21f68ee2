package models

import (
	"sort"
	"strconv"

	graphql "github.com/graph-gophers/graphql-go"

	inventoryEntity "poultry.GO/model/entity/inventory"
	feedService "poultry.GO/service/feed"
	inventoryService "poultry.GO/service/inventory"
)

func id(v uint) graphql.ID {
	return graphql.ID(strconv.FormatUint(uint64(v), 10))
}

func intPtr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

func FromInventoryItem(item *inventoryEntity.InventoryItem) *InventoryItem {
	out := &InventoryItem{
		ItemID:       id(item.ItemID),
		Type:         string(item.Type),
		Quantity:     item.Quantity,
		EggCount:     int32(item.EggCount),
		BroilerCount: int32(item.BroilerCount),
		ManureWeight: item.ManureWeight,
	}
	if item.Type == inventoryEntity.TypeFeed && item.FeedDetails != nil {
		details := make([]FeedDetail, 0, len(item.FeedDetails))
		for key := range item.FeedDetails {
			details = append(details, FeedDetail{FeedType: key, QuantityKg: item.FeedDetailQty(key)})
		}
		sort.Slice(details, func(i, j int) bool { return details[i].FeedType < details[j].FeedType })
		out.FeedDetails = &details
	}
	return out
}

func FromRecommendation(rec *feedService.Recommendation) *Recommendation {
	out := &Recommendation{
		FlockID:          id(rec.FlockID),
		FeedType:         string(rec.FeedType),
		GramPerHen:       rec.GramPerHen,
		TotalAmountKg:    rec.TotalAmountKg,
		AgeInWeeks:       int32(rec.AgeInWeeks),
		AgeInDays:        int32(rec.AgeInDays),
		IsTransitionWeek: rec.IsTransitionWeek,
	}
	if rec.IsTransitionWeek {
		next := string(rec.NextFeedType)
		week := int32(rec.NextTransitionWeek)
		out.NextFeedType = &next
		out.NextTransitionWeek = &week
	}
	return out
}

func FromFlockRecommendations(recs []feedService.FlockRecommendation) []*FlockRecommendation {
	out := make([]*FlockRecommendation, 0, len(recs))
	for i := range recs {
		out = append(out, &FlockRecommendation{
			FlockID:        id(recs[i].Flock.FlockID),
			FlockName:      recs[i].Flock.Name,
			CurrentCount:   int32(recs[i].Flock.CurrentCount),
			Recommendation: *FromRecommendation(&recs[i].Recommendation),
		})
	}
	return out
}

func FromRequirements(reqs []feedService.Requirement) []*Requirement {
	out := make([]*Requirement, 0, len(reqs))
	for _, req := range reqs {
		flocks := make([]RequirementFlock, 0, len(req.Flocks))
		for _, f := range req.Flocks {
			flocks = append(flocks, RequirementFlock{FlockID: id(f.FlockID), Name: f.Name, AmountKg: f.AmountKg})
		}
		out = append(out, &Requirement{
			FeedType:      string(req.FeedType),
			TotalAmountKg: req.TotalAmountKg,
			FlocksCount:   int32(req.FlocksCount),
			Flocks:        flocks,
		})
	}
	return out
}

func FromComplianceReport(report *feedService.ComplianceReport) *ComplianceReport {
	records := make([]ComplianceDay, 0, len(report.Records))
	for _, rec := range report.Records {
		records = append(records, ComplianceDay{Date: rec.Date, RecommendedKg: rec.RecommendedKg, ActualKg: rec.ActualKg})
	}
	return &ComplianceReport{
		FlockID:          id(report.FlockID),
		Days:             int32(report.Days),
		Compliance:       report.Compliance,
		RecommendedTotal: report.RecommendedTotal,
		ActualTotal:      report.ActualTotal,
		Variance:         report.Variance,
		Records:          records,
	}
}

func FromProjections(projections []inventoryService.Projection) []*Projection {
	out := make([]*Projection, 0, len(projections))
	for _, p := range projections {
		days := make([]ProjectionDay, 0, len(p.Days))
		for _, d := range p.Days {
			days = append(days, ProjectionDay{
				Day:            int32(d.Day),
				ProjectedStock: d.ProjectedStock,
				LowStock:       d.LowStock,
				OutOfStock:     d.OutOfStock,
			})
		}
		out = append(out, &Projection{
			FeedType:            p.FeedType,
			CurrentStockKg:      p.CurrentStockKg,
			AverageDailyUsageKg: p.AverageDailyUsageKg,
			HasUsageData:        p.HasUsageData,
			DaysUntilLowStock:   intPtr(p.DaysUntilLowStock),
			DaysUntilOutOfStock: intPtr(p.DaysUntilOutOfStock),
			Days:                days,
		})
	}
	return out
}
