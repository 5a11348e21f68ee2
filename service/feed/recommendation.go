package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"

	"poultry.GO/config"
	"poultry.GO/core/cache"
	feedEntity "poultry.GO/model/entity/feed"
	flockEntity "poultry.GO/model/entity/flock"
)

var (
	// ErrNoFeedProgram means no active feed program rows exist at all.
	ErrNoFeedProgram = errors.New("no feed program found")

	// ErrFlockNotFound wraps a missing flock reference.
	ErrFlockNotFound = errors.New("flock not found")
)

// Recommendation is the age-derived feeding advice for one flock.
// TotalAmountKg is the daily ration for the whole flock.
type Recommendation struct {
	FlockID            uint                `json:"flock_id"`
	FeedType           feedEntity.FeedType `json:"feed_type"`
	GramPerHen         float64             `json:"gram_per_hen"`
	TotalAmountKg      float64             `json:"total_amount_kg"`
	AgeInWeeks         int                 `json:"age_in_weeks"`
	AgeInDays          int                 `json:"age_in_days"`
	IsTransitionWeek   bool                `json:"is_transition_week"`
	NextFeedType       feedEntity.FeedType `json:"next_feed_type,omitempty"`
	NextTransitionWeek int                 `json:"next_transition_week,omitempty"`
}

// FlockRecommendation pairs a flock with its recommendation (batch variant).
type FlockRecommendation struct {
	Flock          flockEntity.Flock `json:"flock"`
	Recommendation Recommendation    `json:"recommendation"`
}

// FlockAgeInDays returns the flock's age at the given time: age at arrival
// plus whole days elapsed since the arrival date. Time-of-day is ignored so
// the age only moves at date boundaries.
func FlockAgeInDays(f *flockEntity.Flock, at time.Time) int {
	arrival := truncateDate(f.ArrivalDate)
	today := truncateDate(at)
	// Round rather than truncate: DST makes some local days 23 hours long.
	elapsed := int(math.Round(today.Sub(arrival).Hours() / 24))
	if elapsed < 0 {
		elapsed = 0
	}
	return f.AgeInDays + elapsed
}

// FlockAgeInWeeks is the completed-weeks age used for program lookup.
func FlockAgeInWeeks(f *flockEntity.Flock, at time.Time) int {
	return FlockAgeInDays(f, at) / 7
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// programIndex holds the active program curve keyed by week for O(1) lookups.
type programIndex struct {
	byWeek  map[int]*feedEntity.FeedProgram
	last    *feedEntity.FeedProgram // highest age_in_weeks among active rows
}

func indexPrograms(programs []feedEntity.FeedProgram) *programIndex {
	idx := &programIndex{byWeek: make(map[int]*feedEntity.FeedProgram, len(programs))}
	for i := range programs {
		p := &programs[i]
		if !p.IsActive {
			continue
		}
		idx.byWeek[p.AgeInWeeks] = p
		if idx.last == nil || p.AgeInWeeks > idx.last.AgeInWeeks {
			idx.last = p
		}
	}
	return idx
}

// resolve applies the lookup policy: exact week match, else the last program
// (flocks beyond the defined curve keep the final stage's ration).
func (idx *programIndex) resolve(week int) *feedEntity.FeedProgram {
	if p, ok := idx.byWeek[week]; ok {
		return p
	}
	return idx.last
}

func (idx *programIndex) empty() bool {
	return idx.last == nil
}

func recommendFor(f *flockEntity.Flock, idx *programIndex, at time.Time) (*Recommendation, error) {
	if idx.empty() {
		return nil, ErrNoFeedProgram
	}
	ageDays := FlockAgeInDays(f, at)
	week := ageDays / 7
	program := idx.resolve(week)

	rec := &Recommendation{
		FlockID:       f.FlockID,
		FeedType:      program.FeedType,
		GramPerHen:    program.GramPerHen,
		TotalAmountKg: program.GramPerHen * float64(f.CurrentCount) / 1000,
		AgeInWeeks:    week,
		AgeInDays:     ageDays,
	}
	if next, ok := idx.byWeek[week+1]; ok && next.FeedType != program.FeedType {
		rec.IsTransitionWeek = true
		rec.NextFeedType = next.FeedType
		rec.NextTransitionWeek = week + 1
	}
	return rec, nil
}

// Recommend resolves the age-based recommendation for one flock at the given
// time. Returns ErrNoFeedProgram when no program curve is configured.
func Recommend(db *gorm.DB, flockID uint, at time.Time) (*Recommendation, error) {
	var f flockEntity.Flock
	if err := db.First(&f, flockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrFlockNotFound, flockID)
		}
		return nil, err
	}
	programs, err := loadActivePrograms(db)
	if err != nil {
		return nil, err
	}
	return recommendFor(&f, indexPrograms(programs), at)
}

// RecommendAll evaluates every flock that still holds birds against a single
// precomputed week index (one program query for the whole batch).
func RecommendAll(db *gorm.DB, at time.Time) ([]FlockRecommendation, error) {
	programs, err := loadActivePrograms(db)
	if err != nil {
		return nil, err
	}
	idx := indexPrograms(programs)
	if idx.empty() {
		return nil, ErrNoFeedProgram
	}

	var flocks []flockEntity.Flock
	if err := db.Where("current_count > 0").Order("flock_id").Find(&flocks).Error; err != nil {
		return nil, err
	}

	out := make([]FlockRecommendation, 0, len(flocks))
	for i := range flocks {
		rec, err := recommendFor(&flocks[i], idx, at)
		if err != nil {
			return nil, err
		}
		out = append(out, FlockRecommendation{Flock: flocks[i], Recommendation: *rec})
	}
	return out, nil
}

// RequirementFlock is one flock's share of a grouped requirement.
type RequirementFlock struct {
	FlockID  uint    `json:"flock_id"`
	Name     string  `json:"name"`
	AmountKg float64 `json:"amount_kg"`
}

// Requirement groups per-flock recommendations by feed type.
type Requirement struct {
	FeedType      feedEntity.FeedType `json:"feed_type"`
	TotalAmountKg float64             `json:"total_amount_kg"`
	FlocksCount   int                 `json:"flocks_count"`
	Flocks        []RequirementFlock  `json:"flocks"`
}

// DailyRequirements sums the daily ration per feed type across active flocks.
func DailyRequirements(db *gorm.DB, at time.Time) ([]Requirement, error) {
	return requirements(db, at, 1)
}

// WeeklyRequirements is the daily figure scaled to seven days.
func WeeklyRequirements(db *gorm.DB, at time.Time) ([]Requirement, error) {
	return requirements(db, at, 7)
}

func requirements(db *gorm.DB, at time.Time, daysFactor float64) ([]Requirement, error) {
	recs, err := RecommendAll(db, at)
	if err != nil {
		return nil, err
	}
	grouped := make(map[feedEntity.FeedType]*Requirement)
	for _, fr := range recs {
		amount := fr.Recommendation.TotalAmountKg * daysFactor
		req, ok := grouped[fr.Recommendation.FeedType]
		if !ok {
			req = &Requirement{FeedType: fr.Recommendation.FeedType}
			grouped[fr.Recommendation.FeedType] = req
		}
		req.TotalAmountKg += amount
		req.FlocksCount++
		req.Flocks = append(req.Flocks, RequirementFlock{
			FlockID:  fr.Flock.FlockID,
			Name:     fr.Flock.Name,
			AmountKg: amount,
		})
	}
	out := make([]Requirement, 0, len(grouped))
	for _, req := range grouped {
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FeedType < out[j].FeedType })
	return out, nil
}

// ComplianceDay compares one day's recorded usage to the recommended ration.
type ComplianceDay struct {
	Date          string  `json:"date"`
	RecommendedKg float64 `json:"recommended_kg"`
	ActualKg      float64 `json:"actual_kg"`
}

// ComplianceReport summarizes actual vs recommended feeding over a window.
type ComplianceReport struct {
	FlockID          uint            `json:"flock_id"`
	Days             int             `json:"days"`
	Compliance       float64         `json:"compliance"`
	RecommendedTotal float64         `json:"recommended_total"`
	ActualTotal      float64         `json:"actual_total"`
	Variance         float64         `json:"variance"`
	Records          []ComplianceDay `json:"records"`
}

// Compliance computes per-day recommended vs actual feed for the trailing
// day window ending at `at`. Compliance is 100 when nothing was recommended.
func Compliance(db *gorm.DB, flockID uint, days int, at time.Time) (*ComplianceReport, error) {
	if days <= 0 {
		days = 7
	}
	var f flockEntity.Flock
	if err := db.First(&f, flockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrFlockNotFound, flockID)
		}
		return nil, err
	}
	programs, err := loadActivePrograms(db)
	if err != nil {
		return nil, err
	}
	idx := indexPrograms(programs)
	if idx.empty() {
		return nil, ErrNoFeedProgram
	}

	windowStart := truncateDate(at).AddDate(0, 0, -(days - 1))
	var usages []feedEntity.FeedUsage
	if err := db.Where("flock_id = ? AND date >= ?", flockID, windowStart).
		Order("date ASC").Find(&usages).Error; err != nil {
		return nil, err
	}
	actualByDate := make(map[string]float64)
	for _, u := range usages {
		actualByDate[u.Date.Format("2006-01-02")] += u.AmountUsed
	}

	report := &ComplianceReport{FlockID: flockID, Days: days}
	for d := 0; d < days; d++ {
		day := windowStart.AddDate(0, 0, d)
		rec, err := recommendFor(&f, idx, day)
		if err != nil {
			return nil, err
		}
		key := day.Format("2006-01-02")
		entry := ComplianceDay{
			Date:          key,
			RecommendedKg: rec.TotalAmountKg,
			ActualKg:      actualByDate[key],
		}
		report.RecommendedTotal += entry.RecommendedKg
		report.ActualTotal += entry.ActualKg
		report.Records = append(report.Records, entry)
	}

	report.Variance = report.ActualTotal - report.RecommendedTotal
	if report.RecommendedTotal == 0 {
		report.Compliance = 100
	} else {
		deviation := math.Abs(report.Variance) / report.RecommendedTotal * 100
		report.Compliance = math.Max(0, 100-deviation)
	}
	return report, nil
}

// --- program table caching ---

const (
	feedProgramTag      = "feed_program"
	programCacheTTLSecs = 300
)

// programDoc is the cache representation of a program row. Redis stores JSON;
// mapstructure turns the loosely-typed decode back into typed docs.
type programDoc struct {
	ProgramID  uint    `json:"program_id" mapstructure:"program_id"`
	AgeInWeeks int     `json:"age_in_weeks" mapstructure:"age_in_weeks"`
	AgeInDays  string  `json:"age_in_days" mapstructure:"age_in_days"`
	FeedType   string  `json:"feed_type" mapstructure:"feed_type"`
	GramPerHen float64 `json:"gram_per_hen" mapstructure:"gram_per_hen"`
	IsActive   bool    `json:"is_active" mapstructure:"is_active"`
}

func docsToPrograms(docs []programDoc) []feedEntity.FeedProgram {
	programs := make([]feedEntity.FeedProgram, len(docs))
	for i, d := range docs {
		programs[i] = feedEntity.FeedProgram{
			ProgramID:  d.ProgramID,
			AgeInWeeks: d.AgeInWeeks,
			AgeInDays:  d.AgeInDays,
			FeedType:   feedEntity.FeedType(d.FeedType),
			GramPerHen: d.GramPerHen,
			IsActive:   d.IsActive,
		}
	}
	return programs
}

func programsToDocs(programs []feedEntity.FeedProgram) []programDoc {
	docs := make([]programDoc, len(programs))
	for i, p := range programs {
		docs[i] = programDoc{
			ProgramID:  p.ProgramID,
			AgeInWeeks: p.AgeInWeeks,
			AgeInDays:  p.AgeInDays,
			FeedType:   string(p.FeedType),
			GramPerHen: p.GramPerHen,
			IsActive:   p.IsActive,
		}
	}
	return docs
}

// loadActivePrograms reads the active program curve through the cache stack:
// in-process cache, then Redis when configured, then the database.
func loadActivePrograms(db *gorm.DB) ([]feedEntity.FeedProgram, error) {
	c := cache.GetInstance()
	if v, ok := c.GetN(feedProgramTag, "active"); ok {
		if programs, isSlice := v.([]feedEntity.FeedProgram); isSlice {
			return programs, nil
		}
	}

	if config.RedisClient != nil {
		raw, err := config.RedisClient.Get(config.RedisCtx(), config.RedisKey(feedProgramTag, "active")).Bytes()
		if err == nil {
			var loose []map[string]interface{}
			if json.Unmarshal(raw, &loose) == nil {
				var docs []programDoc
				if mapstructure.Decode(loose, &docs) == nil && len(docs) > 0 {
					programs := docsToPrograms(docs)
					c.SetN([]interface{}{feedProgramTag, "active"}, programs, programCacheTTLSecs, []string{feedProgramTag})
					return programs, nil
				}
			}
		}
	}

	var programs []feedEntity.FeedProgram
	if err := db.Where("is_active = ?", true).Order("age_in_weeks ASC").Find(&programs).Error; err != nil {
		return nil, err
	}
	c.SetN([]interface{}{feedProgramTag, "active"}, programs, programCacheTTLSecs, []string{feedProgramTag})
	if config.RedisClient != nil && len(programs) > 0 {
		if raw, err := json.Marshal(programsToDocs(programs)); err == nil {
			if err := config.RedisClient.Set(config.RedisCtx(), config.RedisKey(feedProgramTag, "active"), raw, programCacheTTLSecs*time.Second).Err(); err != nil {
				log.Printf("feed: redis program cache write failed: %v", err)
			}
		}
	}
	return programs, nil
}

// InvalidateProgramCache drops cached program rows after admin CRUD or import.
func InvalidateProgramCache() {
	cache.GetInstance().DeleteByTag(feedProgramTag)
	if config.RedisClient != nil {
		config.RedisClient.Del(config.RedisCtx(), config.RedisKey(feedProgramTag, "active"))
	}
}
