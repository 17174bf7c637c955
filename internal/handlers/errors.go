package handlers

import (
	"errors"
	"fmt"
	"log"

	"assetflow/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondValidatorError renders go-playground validation failures on request
// payloads as a per-field error map.
func respondValidatorError(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// respondServiceError translates the service error taxonomy into HTTP
// responses. Validation failures carry per-field messages; unexpected errors
// surface as a generic 500 without leaking detail.
func respondServiceError(c *fiber.Ctx, err error) error {
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verrs.Fields(),
		})
	}

	var inUse *models.CategoryInUseError
	if errors.As(err, &inUse) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      "CATEGORY_IN_USE",
			"detail":     inUse.Error(),
			"count":      inUse.Count,
			"suggestion": "Delete or reassign the assets first.",
		})
	}

	var notFound *models.NotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": notFound.Error(),
		})
	}

	if errors.Is(err, models.ErrMissingStatus) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "MISSING_PARAMETER",
			"detail": "A 'status' value must be sent.",
		})
	}

	var invalidState *models.InvalidStateError
	if errors.As(err, &invalidState) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":          "INVALID_STATE",
			"detail":         invalidState.Error(),
			"valid_statuses": invalidState.Valid,
		})
	}

	var invalidParam *models.InvalidParameterError
	if errors.As(err, &invalidParam) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "INVALID_PARAMETER",
			"detail": invalidParam.Detail,
		})
	}

	if errors.Is(err, models.ErrDuplicate) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "A record with the same unique value already exists",
			"error":   err.Error(),
		})
	}

	log.Printf("Unexpected service error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}
