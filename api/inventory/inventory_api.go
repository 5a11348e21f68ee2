package inventory

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"poultry.GO/api"
	"poultry.GO/config"
	inventoryEntity "poultry.GO/model/entity/inventory"
	inventoryRepo "poultry.GO/model/repository/inventory"
	inventoryService "poultry.GO/service/inventory"
)

func init() {
	api.RegisterModule(RegisterInventoryRoutes)
}

type movementInput struct {
	Type    string             `json:"type"`
	Amount  float64            `json:"amount"`
	Details map[string]float64 `json:"details,omitempty"`
}

func RegisterInventoryRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/inventory")

	// GET /api/inventory – all active ledger rows
	g.GET("", func(c echo.Context) error {
		repo, err := inventoryRepo.NewInventoryRepository(db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
		}
		items, err := repo.ListActive()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": items})
	})

	// GET /api/inventory/:type – one ledger row
	g.GET("/:type", func(c echo.Context) error {
		t := inventoryEntity.Type(strings.ToUpper(c.Param("type")))
		if !inventoryEntity.ValidType(t) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "unknown inventory type"})
		}
		repo, err := inventoryRepo.NewInventoryRepository(db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
		}
		item, err := repo.FindActiveByType(t)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "no inventory found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": item})
	})

	// POST /api/inventory/add – credit the ledger
	g.POST("/add", func(c echo.Context) error {
		return movement(c, db, inventoryService.Add)
	})

	// POST /api/inventory/deduct – debit the ledger
	g.POST("/deduct", func(c echo.Context) error {
		return movement(c, db, inventoryService.Deduct)
	})

	// GET /api/inventory/feed/projection – days-until-stockout per feed type
	g.GET("/feed/projection", func(c echo.Context) error {
		cfg := config.AppConfig
		opts := inventoryService.ProjectionOptions{}
		if cfg != nil {
			opts.HorizonDays = cfg.ProjectionDays
			opts.WindowDays = cfg.UsageWindowDays
			opts.LowThresholdKg = cfg.LowStockThresholdKg
		}
		projections, err := inventoryService.ProjectFeedStock(db, opts)
		if errors.Is(err, inventoryService.ErrNoInventory) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": err.Error()})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": projections})
	})
}

type movementFunc func(db *gorm.DB, t inventoryEntity.Type, amount float64, details map[string]float64) (*inventoryEntity.InventoryItem, error)

func movement(c echo.Context, db *gorm.DB, apply movementFunc) error {
	var in movementInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
	}
	t := inventoryEntity.Type(strings.ToUpper(in.Type))
	item, err := apply(db, t, in.Amount, in.Details)
	if err != nil {
		return c.JSON(movementStatus(err), echo.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": item})
}

func movementStatus(err error) int {
	var insufficient *inventoryService.InsufficientStockError
	switch {
	case errors.Is(err, inventoryService.ErrNoInventory):
		return http.StatusNotFound
	case errors.As(err, &insufficient), errors.Is(err, inventoryService.ErrUnknownFeedType):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
