package feed

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	feedEntity "poultry.GO/model/entity/feed"
	feedRepo "poultry.GO/model/repository/feed"
	feedService "poultry.GO/service/feed"
)

type programInput struct {
	AgeInWeeks *int     `json:"age_in_weeks"`
	AgeInDays  string   `json:"age_in_days"`
	FeedType   string   `json:"feed_type"`
	GramPerHen *float64 `json:"gram_per_hen"`
	IsActive   *bool    `json:"is_active"`
}

func registerProgramRoutes(g *echo.Group, db *gorm.DB) {
	p := g.Group("/programs")

	// GET /api/feed/programs – the active curve, youngest week first
	p.GET("", func(c echo.Context) error {
		repo := feedRepo.NewFeedProgramRepository(db)
		programs, err := repo.ActivePrograms()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": programs})
	})

	// POST /api/feed/programs – create one program row
	p.POST("", func(c echo.Context) error {
		var in programInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		}
		if in.AgeInWeeks == nil || *in.AgeInWeeks < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "age_in_weeks is required and must be >= 0"})
		}
		if in.GramPerHen == nil || *in.GramPerHen <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "gram_per_hen is required and must be positive"})
		}
		feedType := feedEntity.FeedType(in.FeedType)
		if !feedEntity.ValidFeedType(feedType) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "unknown feed_type"})
		}
		program := &feedEntity.FeedProgram{
			AgeInWeeks: *in.AgeInWeeks,
			AgeInDays:  in.AgeInDays,
			FeedType:   feedType,
			GramPerHen: *in.GramPerHen,
			IsActive:   true,
		}
		if in.IsActive != nil {
			program.IsActive = *in.IsActive
		}
		if err := feedRepo.NewFeedProgramRepository(db).Create(program); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		}
		feedService.InvalidateProgramCache()
		return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": program})
	})

	// PUT /api/feed/programs/:id – edit one program row
	p.PUT("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid program id"})
		}
		repo := feedRepo.NewFeedProgramRepository(db)
		program, err := repo.FindByID(uint(id))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "feed program not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
		}
		var in programInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		}
		if in.AgeInWeeks != nil {
			program.AgeInWeeks = *in.AgeInWeeks
		}
		if in.AgeInDays != "" {
			program.AgeInDays = in.AgeInDays
		}
		if in.FeedType != "" {
			feedType := feedEntity.FeedType(in.FeedType)
			if !feedEntity.ValidFeedType(feedType) {
				return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "unknown feed_type"})
			}
			program.FeedType = feedType
		}
		if in.GramPerHen != nil {
			program.GramPerHen = *in.GramPerHen
		}
		if in.IsActive != nil {
			program.IsActive = *in.IsActive
		}
		if err := repo.Save(program); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		}
		feedService.InvalidateProgramCache()
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": program})
	})

	// DELETE /api/feed/programs/:id
	p.DELETE("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid program id"})
		}
		if err := feedRepo.NewFeedProgramRepository(db).Delete(uint(id)); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
		}
		feedService.InvalidateProgramCache()
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	})

	// POST /api/feed/programs/import – CSV upload of the program curve
	p.POST("/import", func(c echo.Context) error {
		file, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "file form field is required"})
		}
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		}
		defer src.Close()
		res, err := feedService.ImportPrograms(db, src)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success":  true,
			"imported": res.Imported,
			"skipped":  res.Skipped,
			"warnings": res.Warnings,
		})
	})
}
