package feed

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	feedEntity "poultry.GO/model/entity/feed"
)

func testDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&feedEntity.FeedProgram{}, &feedEntity.FeedUsage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestFeedProgramRepository_CreateAndFindByID(t *testing.T) {
	db := testDB(t)
	repo := NewFeedProgramRepository(db)

	p := &feedEntity.FeedProgram{
		AgeInWeeks: 3,
		FeedType:   feedEntity.FeedTypeGrower,
		GramPerHen: 45,
		IsActive:   true,
	}
	if err := repo.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ProgramID == 0 {
		t.Error("ProgramID not set after Create")
	}

	found, err := repo.FindByID(p.ProgramID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.FeedType != feedEntity.FeedTypeGrower || found.GramPerHen != 45 {
		t.Errorf("found = %+v", found)
	}
}

func TestFeedProgramRepository_ActivePrograms(t *testing.T) {
	db := testDB(t)
	repo := NewFeedProgramRepository(db)

	rows := []feedEntity.FeedProgram{
		{AgeInWeeks: 2, FeedType: feedEntity.FeedTypeStarter, GramPerHen: 30, IsActive: true},
		{AgeInWeeks: 0, FeedType: feedEntity.FeedTypePreStarter, GramPerHen: 13, IsActive: true},
		{AgeInWeeks: 1, FeedType: feedEntity.FeedTypeStarter, GramPerHen: 25, IsActive: false},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	active, err := repo.ActivePrograms()
	if err != nil {
		t.Fatalf("ActivePrograms: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("len(active) = %d, want 2", len(active))
	}
	if active[0].AgeInWeeks != 0 || active[1].AgeInWeeks != 2 {
		t.Errorf("order = %d, %d; want 0, 2", active[0].AgeInWeeks, active[1].AgeInWeeks)
	}

	max, err := repo.MaxWeekProgram()
	if err != nil {
		t.Fatalf("MaxWeekProgram: %v", err)
	}
	if max.AgeInWeeks != 2 {
		t.Errorf("MaxWeekProgram week = %d, want 2", max.AgeInWeeks)
	}

	byWeek, err := repo.ActiveByWeek(0)
	if err != nil {
		t.Fatalf("ActiveByWeek: %v", err)
	}
	if byWeek.FeedType != feedEntity.FeedTypePreStarter {
		t.Errorf("week 0 FeedType = %q", byWeek.FeedType)
	}
	if _, err := repo.ActiveByWeek(1); err == nil {
		t.Error("inactive week should not resolve")
	}
}

func TestFeedProgramRepository_UpsertBatch(t *testing.T) {
	db := testDB(t)
	repo := NewFeedProgramRepository(db)

	first := []feedEntity.FeedProgram{
		{AgeInWeeks: 0, FeedType: feedEntity.FeedTypePreStarter, GramPerHen: 13, IsActive: true},
		{AgeInWeeks: 1, FeedType: feedEntity.FeedTypeStarter, GramPerHen: 25, IsActive: true},
	}
	if err := repo.UpsertBatch(first, 100); err != nil {
		t.Fatalf("UpsertBatch: %v", err)
	}

	second := []feedEntity.FeedProgram{
		{AgeInWeeks: 1, FeedType: feedEntity.FeedTypeStarter, GramPerHen: 28, IsActive: true},
	}
	if err := repo.UpsertBatch(second, 100); err != nil {
		t.Fatalf("UpsertBatch update: %v", err)
	}

	var count int64
	db.Model(&feedEntity.FeedProgram{}).Count(&count)
	if count != 2 {
		t.Errorf("rows = %d, want 2", count)
	}
	week1, err := repo.ActiveByWeek(1)
	if err != nil {
		t.Fatalf("ActiveByWeek: %v", err)
	}
	if week1.GramPerHen != 28 {
		t.Errorf("GramPerHen = %v, want updated 28", week1.GramPerHen)
	}
}

func TestFeedProgramRepository_Delete(t *testing.T) {
	db := testDB(t)
	repo := NewFeedProgramRepository(db)

	p := &feedEntity.FeedProgram{AgeInWeeks: 5, FeedType: feedEntity.FeedTypeRearing, GramPerHen: 65, IsActive: true}
	if err := repo.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(p.ProgramID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.FindByID(p.ProgramID); err == nil {
		t.Error("deleted program still found")
	}
}

func seedUsage(t *testing.T, db *gorm.DB, ref string, flockID uint, feedType feedEntity.FeedType, date time.Time, amount float64) {
	t.Helper()
	u := feedEntity.FeedUsage{
		Reference:  ref,
		FlockID:    flockID,
		FeedType:   feedType,
		Date:       date,
		AmountUsed: amount,
		Unit:       "kg",
		UnitCost:   0.5,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed usage: %v", err)
	}
}

func TestFeedUsageRepository_Queries(t *testing.T) {
	db := testDB(t)
	repo, err := NewFeedUsageRepository(db)
	if err != nil {
		t.Fatalf("NewFeedUsageRepository: %v", err)
	}

	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	seedUsage(t, db, "a", 1, feedEntity.FeedTypeLayer, now.AddDate(0, 0, -1), 30)
	seedUsage(t, db, "b", 1, feedEntity.FeedTypeLayer, now.AddDate(0, 0, -10), 20)
	seedUsage(t, db, "c", 2, feedEntity.FeedTypeGrower, now.AddDate(0, 0, -2), 15)

	byFlock, err := repo.ListByFlock(1, 10)
	if err != nil {
		t.Fatalf("ListByFlock: %v", err)
	}
	if len(byFlock) != 2 {
		t.Fatalf("len(byFlock) = %d, want 2", len(byFlock))
	}
	if byFlock[0].Reference != "a" {
		t.Errorf("newest first: got %q", byFlock[0].Reference)
	}

	since, err := repo.ListByFlockSince(1, now.AddDate(0, 0, -5))
	if err != nil {
		t.Fatalf("ListByFlockSince: %v", err)
	}
	if len(since) != 1 || since[0].Reference != "a" {
		t.Errorf("since = %+v, want just row a", since)
	}

	layerOnly, err := repo.List(feedEntity.FeedTypeLayer, nil, nil, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(layerOnly) != 2 {
		t.Errorf("len(layerOnly) = %d, want 2", len(layerOnly))
	}

	total, err := repo.TotalUsedSince(feedEntity.FeedTypeLayer, now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("TotalUsedSince: %v", err)
	}
	if total != 50 {
		t.Errorf("TotalUsedSince = %v, want 50", total)
	}

	stats, err := repo.StatsByFeedType(nil, nil)
	if err != nil {
		t.Fatalf("StatsByFeedType: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("len(stats) = %d, want 2", len(stats))
	}
	if stats[1].FeedType != feedEntity.FeedTypeLayer || stats[1].TotalUsedKg != 50 || stats[1].RecordCount != 2 {
		t.Errorf("LAYER stats = %+v", stats[1])
	}

	flocks, err := repo.DistinctFlockCount(nil, nil)
	if err != nil {
		t.Fatalf("DistinctFlockCount: %v", err)
	}
	if flocks != 2 {
		t.Errorf("DistinctFlockCount = %d, want 2", flocks)
	}
}

func TestFeedUsageRepository_FindByID(t *testing.T) {
	db := testDB(t)
	repo, err := NewFeedUsageRepository(db)
	if err != nil {
		t.Fatalf("NewFeedUsageRepository: %v", err)
	}

	seedUsage(t, db, "ref-1", 1, feedEntity.FeedTypeLayer, time.Now(), 30)
	var row feedEntity.FeedUsage
	if err := db.Where("reference = ?", "ref-1").First(&row).Error; err != nil {
		t.Fatalf("load: %v", err)
	}

	found, err := repo.FindByID(row.UsageID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Reference != "ref-1" {
		t.Errorf("Reference = %q, want ref-1", found.Reference)
	}
	if _, err := repo.FindByID(9999); err == nil {
		t.Error("expected error for missing row")
	}
}

func TestFeedProgramRepository_CreateKeepsInactiveFlag(t *testing.T) {
	db := testDB(t)
	repo := NewFeedProgramRepository(db)

	p := &feedEntity.FeedProgram{
		AgeInWeeks: 9,
		FeedType:   feedEntity.FeedTypeLayer,
		GramPerHen: 110,
		IsActive:   false,
	}
	if err := repo.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := repo.FindByID(p.ProgramID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	// A column default of true must not override an explicit false insert.
	if found.IsActive {
		t.Error("IsActive = true, want false as inserted")
	}
}
