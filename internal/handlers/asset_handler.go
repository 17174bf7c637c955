package handlers

import (
	"fmt"
	"log"

	"assetflow/internal/models"
	"assetflow/internal/repositories"
	"assetflow/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// AssetHandler handles HTTP requests for assets, including the reporting and
// lifecycle endpoints.
type AssetHandler struct {
	service  *services.AssetService
	reports  *services.ReportService
	validate *validator.Validate
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(service *services.AssetService, reports *services.ReportService) *AssetHandler {
	return &AssetHandler{
		service:  service,
		reports:  reports,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the asset routes with the Fiber app. The fixed
// paths must be registered before the ":id" routes.
func (h *AssetHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/activos")
	routes.Get("/resumen", h.HandleSummary)
	routes.Post("/dar_de_baja_masiva", h.HandleBulkDecommission)
	routes.Get("/", h.HandleList)
	routes.Post("/", h.HandleCreate)
	routes.Get("/:id", h.HandleGet)
	routes.Put("/:id", h.HandleUpdate)
	routes.Patch("/:id", h.HandleUpdate)
	routes.Delete("/:id", h.HandleDelete)
	routes.Post("/:id/cambiar_estado", h.HandleChangeStatus)
}

// parseFilter builds the working-set filter from query parameters. Malformed
// numeric bounds are ignored rather than rejected.
func parseFilter(c *fiber.Ctx) repositories.AssetFilter {
	filter := repositories.AssetFilter{
		CategoryID:  c.Query("categoria"),
		Status:      models.AssetStatus(c.Query("estado")),
		HighValue:   c.Query("valiosos") == "true",
		NeedsReview: c.Query("requieren_revision") == "true",
		Search:      c.Query("search"),
	}
	if raw := c.Query("valor_min"); raw != "" {
		if min, err := decimal.NewFromString(raw); err == nil {
			filter.MinValue = &min
		}
	}
	if raw := c.Query("valor_max"); raw != "" {
		if max, err := decimal.NewFromString(raw); err == nil {
			filter.MaxValue = &max
		}
	}
	return filter
}

// HandleList retrieves the lightweight list projection of the filtered
// working set.
func (h *AssetHandler) HandleList(c *fiber.Ctx) error {
	items, err := h.service.List(parseFilter(c))
	if err != nil {
		log.Printf("Error listing assets: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(items)
}

// HandleGet retrieves the full projection of a single asset.
func (h *AssetHandler) HandleGet(c *fiber.Ctx) error {
	detail, err := h.service.Get(c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(detail)
}

// HandleCreate creates a new asset.
func (h *AssetHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.AssetInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing asset request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidatorError(c, err)
	}

	detail, err := h.service.Create(input)
	if err != nil {
		log.Printf("Error creating asset: %v", err)
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(detail)
}

// HandleUpdate applies a full or partial update; absent fields keep their
// stored values.
func (h *AssetHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.AssetUpdateInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing asset request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidatorError(c, err)
	}

	detail, err := h.service.Update(c.Params("id"), input)
	if err != nil {
		log.Printf("Error updating asset %s: %v", c.Params("id"), err)
		return respondServiceError(c, err)
	}
	return c.JSON(detail)
}

// HandleDelete removes an asset. Unlike categories, asset deletion is
// unconditional.
func (h *AssetHandler) HandleDelete(c *fiber.Ctx) error {
	name, err := h.service.Delete(c.Params("id"))
	if err != nil {
		log.Printf("Error deleting asset %s: %v", c.Params("id"), err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"detail":  fmt.Sprintf("Asset %q deleted successfully.", name),
	})
}

// ChangeStatusRequest is the payload of the status-transition endpoint.
type ChangeStatusRequest struct {
	Status string `json:"estado"`
	Reason string `json:"motivo"`
}

// HandleChangeStatus moves an asset to a new lifecycle status.
func (h *AssetHandler) HandleChangeStatus(c *fiber.Ctx) error {
	var req ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing status change body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	detail, summary, err := h.service.ChangeStatus(c.Params("id"), req.Status, req.Reason)
	if err != nil {
		log.Printf("Error changing status of asset %s: %v", c.Params("id"), err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"detail":  summary,
		"asset":   detail,
	})
}

// BulkDecommissionRequest is the payload of the bulk-decommission endpoint.
type BulkDecommissionRequest struct {
	IDs    []string `json:"ids"`
	Reason string   `json:"motivo"`
}

// HandleBulkDecommission decommissions every asset in the id list.
func (h *AssetHandler) HandleBulkDecommission(c *fiber.Ctx) error {
	var req BulkDecommissionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing bulk decommission body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "INVALID_PARAMETER",
			"detail": "A list of asset ids must be sent in 'ids'.",
		})
	}
	if req.Reason == "" {
		req.Reason = "No reason given"
	}

	count, err := h.service.BulkDecommission(req.IDs, req.Reason)
	if err != nil {
		log.Printf("Error bulk decommissioning assets: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"detail":  fmt.Sprintf("%d asset(s) decommissioned.", count),
		"motivo":  req.Reason,
		"ids":     req.IDs,
	})
}

// HandleSummary returns the global report over the filtered working set.
func (h *AssetHandler) HandleSummary(c *fiber.Ctx) error {
	summary, err := h.reports.Summary(parseFilter(c))
	if err != nil {
		log.Printf("Error computing asset summary: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(summary)
}
