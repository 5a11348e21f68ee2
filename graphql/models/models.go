package models

import graphql "github.com/graph-gophers/graphql-go"

// --- Inventory ---

type InventoryItem struct {
	ItemID       graphql.ID
	Type         string
	Quantity     float64
	EggCount     int32
	BroilerCount int32
	ManureWeight float64
	FeedDetails  *[]FeedDetail
}

type FeedDetail struct {
	FeedType   string
	QuantityKg float64
}

// --- Recommendations ---

type Recommendation struct {
	FlockID            graphql.ID
	FeedType           string
	GramPerHen         float64
	TotalAmountKg      float64
	AgeInWeeks         int32
	AgeInDays          int32
	IsTransitionWeek   bool
	NextFeedType       *string
	NextTransitionWeek *int32
}

type FlockRecommendation struct {
	FlockID        graphql.ID
	FlockName      string
	CurrentCount   int32
	Recommendation Recommendation
}

type RequirementFlock struct {
	FlockID  graphql.ID
	Name     string
	AmountKg float64
}

type Requirement struct {
	FeedType      string
	TotalAmountKg float64
	FlocksCount   int32
	Flocks        []RequirementFlock
}

// --- Compliance ---

type ComplianceDay struct {
	Date          string
	RecommendedKg float64
	ActualKg      float64
}

type ComplianceReport struct {
	FlockID          graphql.ID
	Days             int32
	Compliance       float64
	RecommendedTotal float64
	ActualTotal      float64
	Variance         float64
	Records          []ComplianceDay
}

// --- Projection ---

type ProjectionDay struct {
	Day            int32
	ProjectedStock float64
	LowStock       bool
	OutOfStock     bool
}

type Projection struct {
	FeedType            string
	CurrentStockKg      float64
	AverageDailyUsageKg float64
	HasUsageData        bool
	DaysUntilLowStock   *int32
	DaysUntilOutOfStock *int32
	Days                []ProjectionDay
}
