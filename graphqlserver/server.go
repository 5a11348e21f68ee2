package graphqlserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"

	"poultry.GO/config"
	"poultry.GO/graphql"
	gqlmodels "poultry.GO/graphql/models"
	"poultry.GO/graphql/registry"
	inventoryEntity "poultry.GO/model/entity/inventory"
	feedService "poultry.GO/service/feed"
	inventoryService "poultry.GO/service/inventory"
)

// RootResolver is the root for graphql-go. All fields are read-only views
// over the feed and inventory services; mutations go through the REST API.
type RootResolver struct {
	DB *gorm.DB
}

// Query returns the query resolver.
func (r *RootResolver) Query() *QueryResolver {
	return &QueryResolver{db: r.DB}
}

// QueryResolver implements Query fields.
type QueryResolver struct {
	db *gorm.DB
}

func (r *QueryResolver) Inventory(ctx context.Context) ([]*gqlmodels.InventoryItem, error) {
	var items []inventoryEntity.InventoryItem
	if err := r.db.Where("is_active = ?", true).Order("type").Find(&items).Error; err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.InventoryItem, 0, len(items))
	for i := range items {
		out = append(out, gqlmodels.FromInventoryItem(&items[i]))
	}
	return out, nil
}

// InventoryItemArgs matches the inventoryItem query arguments.
type InventoryItemArgs struct {
	Type string
}

func (r *QueryResolver) InventoryItem(ctx context.Context, args InventoryItemArgs) (*gqlmodels.InventoryItem, error) {
	var item inventoryEntity.InventoryItem
	err := r.db.Where("type = ? AND is_active = ?", inventoryEntity.Type(args.Type), true).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return gqlmodels.FromInventoryItem(&item), nil
}

// FeedRecommendationArgs matches the feedRecommendation query arguments.
type FeedRecommendationArgs struct {
	FlockID gql.ID
}

func (r *QueryResolver) FeedRecommendation(ctx context.Context, args FeedRecommendationArgs) (*gqlmodels.Recommendation, error) {
	flockID, err := parseID(args.FlockID)
	if err != nil {
		return nil, err
	}
	rec, err := feedService.Recommend(r.db, flockID, graphql.AsOfFromContext(ctx))
	if errors.Is(err, feedService.ErrNoFeedProgram) || errors.Is(err, feedService.ErrFlockNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return gqlmodels.FromRecommendation(rec), nil
}

func (r *QueryResolver) FeedRecommendations(ctx context.Context) ([]*gqlmodels.FlockRecommendation, error) {
	recs, err := feedService.RecommendAll(r.db, graphql.AsOfFromContext(ctx))
	if errors.Is(err, feedService.ErrNoFeedProgram) {
		return []*gqlmodels.FlockRecommendation{}, nil
	}
	if err != nil {
		return nil, err
	}
	return gqlmodels.FromFlockRecommendations(recs), nil
}

func (r *QueryResolver) DailyFeedRequirements(ctx context.Context) ([]*gqlmodels.Requirement, error) {
	return requirements(ctx, r.db, feedService.DailyRequirements)
}

func (r *QueryResolver) WeeklyFeedRequirements(ctx context.Context) ([]*gqlmodels.Requirement, error) {
	return requirements(ctx, r.db, feedService.WeeklyRequirements)
}

// FeedComplianceArgs matches the feedCompliance query arguments.
type FeedComplianceArgs struct {
	FlockID gql.ID
	Days    *int32
}

func (r *QueryResolver) FeedCompliance(ctx context.Context, args FeedComplianceArgs) (*gqlmodels.ComplianceReport, error) {
	flockID, err := parseID(args.FlockID)
	if err != nil {
		return nil, err
	}
	days := 0
	if args.Days != nil {
		days = int(*args.Days)
	}
	report, err := feedService.Compliance(r.db, flockID, days, graphql.AsOfFromContext(ctx))
	if errors.Is(err, feedService.ErrNoFeedProgram) || errors.Is(err, feedService.ErrFlockNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return gqlmodels.FromComplianceReport(report), nil
}

// StockProjectionArgs matches the stockProjection query arguments.
type StockProjectionArgs struct {
	Days *int32
}

func (r *QueryResolver) StockProjection(ctx context.Context, args StockProjectionArgs) ([]*gqlmodels.Projection, error) {
	opts := inventoryService.ProjectionOptions{At: graphql.AsOfFromContext(ctx)}
	if cfg := config.AppConfig; cfg != nil {
		opts.HorizonDays = cfg.ProjectionDays
		opts.WindowDays = cfg.UsageWindowDays
		opts.LowThresholdKg = cfg.LowStockThresholdKg
	}
	if args.Days != nil && *args.Days > 0 {
		opts.HorizonDays = int(*args.Days)
	}
	projections, err := inventoryService.ProjectFeedStock(r.db, opts)
	if errors.Is(err, inventoryService.ErrNoInventory) {
		return []*gqlmodels.Projection{}, nil
	}
	if err != nil {
		return nil, err
	}
	return gqlmodels.FromProjections(projections), nil
}

// ExtensionArgs for _extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *QueryResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	var m map[string]interface{}
	if args.Args != nil && *args.Args != "" {
		_ = json.Unmarshal([]byte(*args.Args), &m)
	}
	if m == nil {
		m = make(map[string]interface{})
	}
	out, err := registry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func requirements(ctx context.Context, db *gorm.DB, fn func(*gorm.DB, time.Time) ([]feedService.Requirement, error)) ([]*gqlmodels.Requirement, error) {
	reqs, err := fn(db, graphql.AsOfFromContext(ctx))
	if errors.Is(err, feedService.ErrNoFeedProgram) {
		return []*gqlmodels.Requirement{}, nil
	}
	if err != nil {
		return nil, err
	}
	return gqlmodels.FromRequirements(reqs), nil
}

func parseID(v gql.ID) (uint, error) {
	id, err := strconv.ParseUint(string(v), 10, 32)
	if err != nil {
		return 0, errors.New("invalid id: " + string(v))
	}
	return uint(id), nil
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{DB: db}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format) that honors
// the As-Of header for age-based queries.
func Handler(schema *gql.Schema) http.Handler {
	inner := &relay.Handler{Schema: schema}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if at, ok := graphql.GetAsOf(r); ok {
			r = r.WithContext(graphql.WithAsOf(r.Context(), at))
		}
		inner.ServeHTTP(w, r)
	})
}
