package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"assetflow/internal/models"
	"assetflow/internal/repositories"

	"github.com/shopspring/decimal"
)

// EventPublisher publishes asset lifecycle events to a message broker.
// A nil publisher disables events.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// AssetService handles business logic for assets: the validation contract
// shared by create, update and status transitions, plus the bulk
// decommission path.
type AssetService struct {
	assetRepo    repositories.AssetRepository
	categoryRepo repositories.CategoryRepository
	events       EventPublisher
}

// NewAssetService creates a new AssetService. events may be nil.
func NewAssetService(assetRepo repositories.AssetRepository, categoryRepo repositories.CategoryRepository, events EventPublisher) *AssetService {
	return &AssetService{
		assetRepo:    assetRepo,
		categoryRepo: categoryRepo,
		events:       events,
	}
}

// AssetInput is the create payload for an asset.
type AssetInput struct {
	Name            string          `json:"name" validate:"required"`
	Description     string          `json:"description"`
	AcquisitionDate string          `json:"acquisition_date" validate:"required,datetime=2006-01-02"`
	InitialValue    decimal.Decimal `json:"initial_value"`
	CategoryID      string          `json:"category_id" validate:"required"`
	Status          string          `json:"status" validate:"omitempty,oneof=AC MA DB RE"`
	SerialNumber    string          `json:"serial_number"`
	Location        string          `json:"location"`
	Responsible     string          `json:"responsible"`
}

// AssetUpdateInput is the update payload. Nil fields keep the stored value,
// so the same type serves full replacement and partial updates; validation
// always runs against the resulting record.
type AssetUpdateInput struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	AcquisitionDate *string          `json:"acquisition_date" validate:"omitempty,datetime=2006-01-02"`
	InitialValue    *decimal.Decimal `json:"initial_value"`
	CategoryID      *string          `json:"category_id"`
	Status          *string          `json:"status" validate:"omitempty,oneof=AC MA DB RE"`
	SerialNumber    *string          `json:"serial_number"`
	Location        *string          `json:"location"`
	Responsible     *string          `json:"responsible"`
}

// List returns the lightweight list projection of the filtered working set.
func (s *AssetService) List(filter repositories.AssetFilter) ([]models.AssetListItem, error) {
	assets, err := s.assetRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]models.AssetListItem, 0, len(assets))
	for i := range assets {
		items = append(items, models.NewAssetListItem(&assets[i]))
	}
	return items, nil
}

// Get returns the full projection of a single asset.
func (s *AssetService) Get(id string) (*models.AssetDetail, error) {
	asset, err := s.assetRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	detail := models.NewAssetDetail(asset)
	return &detail, nil
}

// Create validates and persists a new asset.
func (s *AssetService) Create(input AssetInput) (*models.AssetDetail, error) {
	asset := &models.Asset{
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		InitialValue: input.InitialValue,
		CategoryID:   input.CategoryID,
		Status:       models.StatusActive,
		Location:     input.Location,
		Responsible:  input.Responsible,
	}
	if input.Status != "" {
		asset.Status = models.AssetStatus(input.Status)
	}
	asset.SetSerial(input.SerialNumber)

	date, err := time.Parse("2006-01-02", input.AcquisitionDate)
	if err != nil {
		return nil, models.ValidationErrors{{
			Field:   "acquisition_date",
			Message: "invalid date format, use YYYY-MM-DD",
		}}
	}
	asset.AcquisitionDate = date

	category, verrs := s.validate(asset)
	if len(verrs) > 0 {
		return nil, verrs
	}
	if err := s.assetRepo.Create(asset); err != nil {
		return nil, err
	}
	asset.Category = category
	detail := models.NewAssetDetail(asset)
	return &detail, nil
}

// Update applies the submitted fields onto the stored asset and re-runs the
// full validation contract against the result.
func (s *AssetService) Update(id string, input AssetUpdateInput) (*models.AssetDetail, error) {
	asset, err := s.assetRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		asset.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		asset.Description = *input.Description
	}
	if input.AcquisitionDate != nil {
		date, err := time.Parse("2006-01-02", *input.AcquisitionDate)
		if err != nil {
			return nil, models.ValidationErrors{{
				Field:   "acquisition_date",
				Message: "invalid date format, use YYYY-MM-DD",
			}}
		}
		asset.AcquisitionDate = date
	}
	if input.InitialValue != nil {
		asset.InitialValue = *input.InitialValue
	}
	if input.CategoryID != nil {
		asset.CategoryID = *input.CategoryID
	}
	if input.Status != nil {
		asset.Status = models.AssetStatus(*input.Status)
	}
	if input.SerialNumber != nil {
		asset.SetSerial(*input.SerialNumber)
	}
	if input.Location != nil {
		asset.Location = *input.Location
	}
	if input.Responsible != nil {
		asset.Responsible = *input.Responsible
	}

	category, verrs := s.validate(asset)
	if len(verrs) > 0 {
		return nil, verrs
	}
	if err := s.assetRepo.Update(asset); err != nil {
		return nil, err
	}
	asset.Category = category
	detail := models.NewAssetDetail(asset)
	return &detail, nil
}

// Delete removes an asset unconditionally and returns its name.
func (s *AssetService) Delete(id string) (string, error) {
	asset, err := s.assetRepo.GetByID(id)
	if err != nil {
		return "", err
	}
	if err := s.assetRepo.Delete(id); err != nil {
		return "", err
	}
	return asset.Name, nil
}

// ChangeStatus moves an asset to a new lifecycle status. Any status is
// reachable from any other, but the resulting record must still satisfy the
// full validation contract (a decommission keeps its description and 7-day
// age requirements). When a reason is given and the target status is
// decommissioned or maintenance, a timestamped audit line is appended to the
// description. Returns the updated asset and a human-readable summary.
func (s *AssetService) ChangeStatus(id, status, reason string) (*models.AssetDetail, string, error) {
	if status == "" {
		return nil, "", models.ErrMissingStatus
	}
	newStatus := models.AssetStatus(status)
	if !newStatus.Valid() {
		return nil, "", &models.InvalidStateError{Given: status, Valid: models.ValidStatuses()}
	}

	asset, err := s.assetRepo.GetByID(id)
	if err != nil {
		return nil, "", err
	}

	previous := asset.Status.Display()
	asset.Status = newStatus
	if reason != "" && (newStatus == models.StatusDecommissioned || newStatus == models.StatusMaintenance) {
		asset.Description = strings.TrimSpace(fmt.Sprintf(
			"%s\n\n[%s] %s → %s: %s",
			asset.Description,
			time.Now().Format(time.RFC3339),
			previous,
			newStatus.Display(),
			reason,
		))
	}

	category, verrs := s.validate(asset)
	if len(verrs) > 0 {
		return nil, "", verrs
	}
	if err := s.assetRepo.Update(asset); err != nil {
		return nil, "", err
	}
	asset.Category = category

	s.publish("asset.status_changed", map[string]interface{}{
		"asset_id": asset.ID,
		"previous": previous,
		"status":   newStatus.Display(),
		"reason":   reason,
	})

	summary := fmt.Sprintf("Status changed from %s to %s", previous, newStatus.Display())
	detail := models.NewAssetDetail(asset)
	return &detail, summary, nil
}

// BulkDecommission sets every existing asset in ids to decommissioned with a
// single store write and returns the number of records updated. This path
// does not re-run the per-record decommission checks; the reason is echoed
// back but not written into individual descriptions.
func (s *AssetService) BulkDecommission(ids []string, reason string) (int64, error) {
	if len(ids) == 0 {
		return 0, &models.InvalidParameterError{Detail: "'ids' must be a non-empty list of asset ids"}
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return 0, &models.InvalidParameterError{Detail: "'ids' must not contain empty ids"}
		}
	}

	count, err := s.assetRepo.BulkUpdateStatus(ids, models.StatusDecommissioned)
	if err != nil {
		return 0, err
	}

	s.publish("asset.bulk_decommissioned", map[string]interface{}{
		"ids":    ids,
		"count":  count,
		"reason": reason,
	})
	return count, nil
}

// validate enforces the full validation contract over the resulting record
// and returns the (active) category so callers can attach it.
func (s *AssetService) validate(asset *models.Asset) (*models.Category, models.ValidationErrors) {
	var verrs models.ValidationErrors

	if n := len(strings.TrimSpace(asset.Name)); n < 3 {
		verrs = append(verrs, models.FieldError{
			Field:   "name",
			Message: "name must be at least 3 characters long",
		})
	} else if n > 200 {
		verrs = append(verrs, models.FieldError{
			Field:   "name",
			Message: "name cannot exceed 200 characters",
		})
	}

	age := asset.AgeInDays()
	if age < 0 {
		verrs = append(verrs, models.FieldError{
			Field:   "acquisition_date",
			Message: "acquisition date cannot be in the future",
		})
	} else if age > models.MaxAcquisitionAgeDays {
		verrs = append(verrs, models.FieldError{
			Field:   "acquisition_date",
			Message: fmt.Sprintf("acquisition date looks wrong: the asset would be %d years old", age/365),
		})
	}

	if !asset.InitialValue.IsPositive() {
		verrs = append(verrs, models.FieldError{
			Field:   "initial_value",
			Message: "initial value must be greater than zero",
		})
	} else if asset.InitialValue.GreaterThan(models.MaxInitialValue) {
		verrs = append(verrs, models.FieldError{
			Field:   "initial_value",
			Message: fmt.Sprintf("initial value (%s) exceeds the maximum of %s", asset.InitialValue, models.MaxInitialValue),
		})
	}

	serial := strings.ToUpper(strings.TrimSpace(asset.Serial()))
	if serial != "" && len(serial) < 5 {
		verrs = append(verrs, models.FieldError{
			Field:   "serial_number",
			Message: "serial number must be at least 5 characters long",
		})
	}
	if asset.IsHighValue() && serial == "" {
		verrs = append(verrs, models.FieldError{
			Field:   "serial_number",
			Message: fmt.Sprintf("assets worth more than %s must have a serial number", models.FormatMoney(models.HighValueThreshold)),
		})
	}

	if !asset.Status.Valid() {
		verrs = append(verrs, models.FieldError{
			Field:   "status",
			Message: fmt.Sprintf("status must be one of AC, MA, DB, RE; got %q", asset.Status),
		})
	}
	if asset.Status == models.StatusDecommissioned {
		if strings.TrimSpace(asset.Description) == "" {
			verrs = append(verrs, models.FieldError{
				Field:   "description",
				Message: "decommissioned assets must include a description of the reason",
			})
		}
		if age >= 0 && age < models.MinDecommissionAgeDays {
			verrs = append(verrs, models.FieldError{
				Field:   "status",
				Message: fmt.Sprintf("an asset cannot be decommissioned less than %d days after acquisition", models.MinDecommissionAgeDays),
			})
		}
	}

	var category *models.Category
	if asset.CategoryID == "" {
		verrs = append(verrs, models.FieldError{
			Field:   "category_id",
			Message: "a category is required",
		})
	} else {
		var err error
		category, err = s.categoryRepo.GetByID(asset.CategoryID)
		if err != nil {
			verrs = append(verrs, models.FieldError{
				Field:   "category_id",
				Message: "the selected category does not exist",
			})
		} else if !category.Active {
			verrs = append(verrs, models.FieldError{
				Field:   "category_id",
				Message: fmt.Sprintf("category %q is inactive", category.Name),
			})
		}
	}

	return category, verrs
}

// publish sends a lifecycle event, best effort: a broker failure is logged
// and never fails the request.
func (s *AssetService) publish(routingKey string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.events.Publish("assets", routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
