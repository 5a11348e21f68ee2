package jobs

import (
	"log"

	"poultry.GO/config"
	"poultry.GO/core/cache"
	"poultry.GO/cron"
	inventoryService "poultry.GO/service/inventory"
)

func init() {
	cron.Register("stockprojection", "0 6 * * *", StockProjectionJob)
}

// StockProjectionJob scans every feed type's projected stock, logs anything
// trending low, and caches the result so the dashboard endpoint serves the
// last scan instead of recomputing on every request.
func StockProjectionJob(args ...string) {
	config.LoadAppConfig()
	db, err := config.NewDB()
	if err != nil {
		log.Printf("stockprojection: database connection failed: %v", err)
		return
	}

	cfg := config.AppConfig
	projections, err := inventoryService.ProjectFeedStock(db, inventoryService.ProjectionOptions{
		HorizonDays:    cfg.ProjectionDays,
		WindowDays:     cfg.UsageWindowDays,
		LowThresholdKg: cfg.LowStockThresholdKg,
	})
	if err != nil {
		log.Printf("stockprojection: %v", err)
		return
	}

	for _, p := range projections {
		switch {
		case !p.HasUsageData:
			log.Printf("stockprojection: %s stock=%.1fkg, no usage data in window", p.FeedType, p.CurrentStockKg)
		case p.DaysUntilOutOfStock != nil:
			log.Printf("stockprojection: %s stock=%.1fkg runs out in %d days (%.1fkg/day)",
				p.FeedType, p.CurrentStockKg, *p.DaysUntilOutOfStock, p.AverageDailyUsageKg)
		case p.DaysUntilLowStock != nil:
			log.Printf("stockprojection: %s stock=%.1fkg goes low in %d days (%.1fkg/day)",
				p.FeedType, p.CurrentStockKg, *p.DaysUntilLowStock, p.AverageDailyUsageKg)
		}
	}

	cache.GetInstance().SetN([]interface{}{"stock_projection", "latest"}, projections, 0, []string{"stock_projection"})
	log.Printf("stockprojection: scanned %d feed types", len(projections))
}
