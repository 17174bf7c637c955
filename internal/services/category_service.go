package services

import (
	"errors"
	"fmt"
	"strings"

	"assetflow/internal/models"
	"assetflow/internal/repositories"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CategoryService handles business logic for asset categories: validation,
// normalization and the in-use guards around deactivation and deletion.
type CategoryService struct {
	categoryRepo repositories.CategoryRepository
	assetRepo    repositories.AssetRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repositories.CategoryRepository, assetRepo repositories.AssetRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		assetRepo:    assetRepo,
	}
}

// CategoryInput is the validated create/update payload for a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required,max=10"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

// List returns category views, optionally restricted to active categories
// and/or a text search.
func (s *CategoryService) List(onlyActive bool, search string) ([]models.CategoryView, error) {
	categories, err := s.categoryRepo.List(onlyActive, search)
	if err != nil {
		return nil, err
	}
	views := make([]models.CategoryView, 0, len(categories))
	for i := range categories {
		view, err := s.buildView(&categories[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// Get returns a single category view.
func (s *CategoryService) Get(id string) (*models.CategoryView, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.buildView(category)
}

// Create validates and persists a new category.
func (s *CategoryService) Create(input CategoryInput) (*models.CategoryView, error) {
	category, verrs := s.fromInput(input)
	if len(verrs) > 0 {
		return nil, verrs
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return s.buildView(category)
}

// Update validates and persists changes to an existing category. Setting
// active to false is rejected while the category still has
// non-decommissioned assets; the error names the exact blocking count.
func (s *CategoryService) Update(id string, input CategoryInput) (*models.CategoryView, error) {
	existing, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	category, verrs := s.fromInput(input)
	if len(verrs) > 0 {
		return nil, verrs
	}
	category.ID = existing.ID
	category.CreatedAt = existing.CreatedAt
	if input.Active == nil {
		category.Active = existing.Active
	}

	if existing.Active && !category.Active {
		blocking, err := s.assetRepo.CountByCategory(id, true)
		if err != nil {
			return nil, err
		}
		if blocking > 0 {
			return nil, models.ValidationErrors{{
				Field: "active",
				Message: fmt.Sprintf(
					"cannot deactivate the category because it has %d asset(s) in use; decommission them first",
					blocking,
				),
			}}
		}
	}

	if err := s.categoryRepo.Update(category); err != nil {
		// The repository re-checks inside its transaction; a concurrent
		// asset write surfaces here as CategoryInUseError.
		var inUse *models.CategoryInUseError
		if errors.As(err, &inUse) {
			return nil, models.ValidationErrors{{
				Field: "active",
				Message: fmt.Sprintf(
					"cannot deactivate the category because it has %d asset(s) in use; decommission them first",
					inUse.Count,
				),
			}}
		}
		return nil, err
	}
	return s.buildView(category)
}

// Delete removes a category and returns its name. Deletion is refused while
// any asset still references the category.
func (s *CategoryService) Delete(id string) (string, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return "", err
	}
	if err := s.categoryRepo.Delete(id); err != nil {
		return "", err
	}
	return category.Name, nil
}

// fromInput validates and normalizes the payload into a Category record.
// This is the validated-input path: the name is title-cased here, which the
// direct-model path deliberately does not do.
func (s *CategoryService) fromInput(input CategoryInput) (*models.Category, models.ValidationErrors) {
	var verrs models.ValidationErrors

	name := strings.TrimSpace(input.Name)
	if len(name) < 3 {
		verrs = append(verrs, models.FieldError{
			Field:   "name",
			Message: "name must be at least 3 characters long",
		})
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	switch {
	case code == "":
		verrs = append(verrs, models.FieldError{
			Field:   "code",
			Message: "code is required",
		})
	case strings.ContainsRune(code, ' '):
		verrs = append(verrs, models.FieldError{
			Field:   "code",
			Message: "code cannot contain spaces",
		})
	case !isAlphanumeric(code):
		verrs = append(verrs, models.FieldError{
			Field:   "code",
			Message: "code may only contain letters and digits",
		})
	}

	if len(verrs) > 0 {
		return nil, verrs
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	return &models.Category{
		Name:        cases.Title(language.English).String(name),
		Code:        code,
		Description: input.Description,
		Active:      active,
	}, nil
}

func (s *CategoryService) buildView(category *models.Category) (*models.CategoryView, error) {
	total, err := s.assetRepo.CountByCategory(category.ID, false)
	if err != nil {
		return nil, err
	}
	totalValue, err := s.assetRepo.SumValueByCategory(category.ID)
	if err != nil {
		return nil, err
	}
	view := models.NewCategoryView(category, total, totalValue)
	return &view, nil
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
