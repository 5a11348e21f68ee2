package feed

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"poultry.GO/api"
	feedEntity "poultry.GO/model/entity/feed"
	feedRepo "poultry.GO/model/repository/feed"
	feedService "poultry.GO/service/feed"
	inventoryService "poultry.GO/service/inventory"
)

func init() {
	api.RegisterModule(RegisterFeedRoutes)
}

func RegisterFeedRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/feed")

	registerUsageRoutes(g, db)
	registerRecommendationRoutes(g, db)
	registerProgramRoutes(g, db)

	// GET /api/feed/analytics – consumption totals per feed type
	g.GET("/analytics", func(c echo.Context) error {
		from, err := parseDateParam(c, "from")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		}
		to, err := parseDateParam(c, "to")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		}
		report, err := feedService.ConsumptionStats(db, from, to)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": report})
	})
}

func registerUsageRoutes(g *echo.Group, db *gorm.DB) {
	u := g.Group("/usage")

	// GET /api/feed/usage – list with optional type/date filters
	u.GET("", func(c echo.Context) error {
		repo, err := feedRepo.NewFeedUsageRepository(db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
		}
		from, err := parseDateParam(c, "from")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		}
		to, err := parseDateParam(c, "to")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		}
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		rows, err := repo.List(feedEntity.FeedType(c.QueryParam("feed_type")), from, to, limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
	})

	// POST /api/feed/usage – record consumption, deduct inventory
	u.POST("", func(c echo.Context) error {
		var in feedService.CreateUsageInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		}
		usage, err := feedService.CreateUsage(db, in)
		if err != nil {
			return c.JSON(usageStatus(err), echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": usage})
	})

	// PUT /api/feed/usage/:id – edit, adjusting inventory by the delta
	u.PUT("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid usage id"})
		}
		var in feedService.UpdateUsageInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		}
		usage, err := feedService.UpdateUsage(db, uint(id), in)
		if err != nil {
			return c.JSON(usageStatus(err), echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": usage})
	})

	// DELETE /api/feed/usage/:id – delete and restore inventory
	u.DELETE("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid usage id"})
		}
		if err := feedService.DeleteUsage(db, uint(id)); err != nil {
			return c.JSON(usageStatus(err), echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	})
}

func registerRecommendationRoutes(g *echo.Group, db *gorm.DB) {
	r := g.Group("/recommendations")

	// GET /api/feed/recommendations – all active flocks
	r.GET("", func(c echo.Context) error {
		recs, err := feedService.RecommendAll(db, time.Now())
		if err != nil {
			return c.JSON(usageStatus(err), echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": recs})
	})

	// GET /api/feed/recommendations/:flockId
	r.GET("/:flockId", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("flockId"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid flock id"})
		}
		rec, err := feedService.Recommend(db, uint(id), time.Now())
		if err != nil {
			return c.JSON(usageStatus(err), echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rec})
	})

	// GET /api/feed/recommendations/requirements/daily
	r.GET("/requirements/daily", func(c echo.Context) error {
		return requirements(c, db, feedService.DailyRequirements)
	})

	// GET /api/feed/recommendations/requirements/weekly
	r.GET("/requirements/weekly", func(c echo.Context) error {
		return requirements(c, db, feedService.WeeklyRequirements)
	})

	// GET /api/feed/recommendations/compliance/:flockId?days=n
	r.GET("/compliance/:flockId", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("flockId"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid flock id"})
		}
		days, _ := strconv.Atoi(c.QueryParam("days"))
		report, err := feedService.Compliance(db, uint(id), days, time.Now())
		if err != nil {
			return c.JSON(usageStatus(err), echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": report})
	})
}

func requirements(c echo.Context, db *gorm.DB, fn func(*gorm.DB, time.Time) ([]feedService.Requirement, error)) error {
	reqs, err := fn(db, time.Now())
	if err != nil {
		return c.JSON(usageStatus(err), echo.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": reqs})
}

func parseDateParam(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, errors.New("invalid " + name + " date, expected YYYY-MM-DD")
	}
	return &t, nil
}

func usageStatus(err error) int {
	var insufficient *inventoryService.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity
	case errors.Is(err, feedService.ErrNoFeedProgram),
		errors.Is(err, feedService.ErrFlockNotFound),
		errors.Is(err, feedService.ErrUsageNotFound),
		errors.Is(err, inventoryService.ErrNoInventory):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
