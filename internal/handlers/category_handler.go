package handlers

import (
	"fmt"
	"log"

	"assetflow/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	reports  *services.ReportService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService, reports *services.ReportService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		reports:  reports,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the category routes with the Fiber app.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/categorias")
	routes.Get("/", h.HandleList)
	routes.Post("/", h.HandleCreate)
	routes.Get("/:id", h.HandleGet)
	routes.Put("/:id", h.HandleUpdate)
	routes.Delete("/:id", h.HandleDelete)
	routes.Get("/:id/estadisticas", h.HandleStatistics)
}

// HandleList retrieves categories, optionally filtered with ?activas=true
// and/or ?search=.
func (h *CategoryHandler) HandleList(c *fiber.Ctx) error {
	onlyActive := c.Query("activas") == "true"
	views, err := h.service.List(onlyActive, c.Query("search"))
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(views)
}

// HandleGet retrieves a single category.
func (h *CategoryHandler) HandleGet(c *fiber.Ctx) error {
	view, err := h.service.Get(c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// HandleCreate creates a new category.
func (h *CategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.CategoryInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing category request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidatorError(c, err)
	}

	view, err := h.service.Create(input)
	if err != nil {
		log.Printf("Error creating category: %v", err)
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleUpdate updates an existing category.
func (h *CategoryHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.CategoryInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing category request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidatorError(c, err)
	}

	view, err := h.service.Update(c.Params("id"), input)
	if err != nil {
		log.Printf("Error updating category %s: %v", c.Params("id"), err)
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// HandleDelete deletes a category unless assets still reference it.
func (h *CategoryHandler) HandleDelete(c *fiber.Ctx) error {
	name, err := h.service.Delete(c.Params("id"))
	if err != nil {
		log.Printf("Error deleting category %s: %v", c.Params("id"), err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"detail":  fmt.Sprintf("Category %q deleted successfully.", name),
	})
}

// HandleStatistics returns the per-category report.
func (h *CategoryHandler) HandleStatistics(c *fiber.Ctx) error {
	stats, err := h.reports.CategoryStatistics(c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}
