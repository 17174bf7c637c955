package services_test

import (
	"errors"
	"testing"

	"assetflow/internal/models"
	"assetflow/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCategoryService() (*services.CategoryService, *MockCategoryRepository, *MockAssetRepository) {
	categoryRepo := new(MockCategoryRepository)
	assetRepo := new(MockAssetRepository)
	return services.NewCategoryService(categoryRepo, assetRepo), categoryRepo, assetRepo
}

func TestCategoryService_CreateNormalizesInput(t *testing.T) {
	service, categoryRepo, assetRepo := newCategoryService()

	var saved *models.Category
	categoryRepo.On("Create", mock.AnythingOfType("*models.Category")).
		Run(func(args mock.Arguments) { saved = args.Get(0).(*models.Category) }).
		Return(nil).Once()
	assetRepo.On("CountByCategory", mock.Anything, false).Return(int64(0), nil).Once()
	assetRepo.On("SumValueByCategory", mock.Anything).Return(decimal.Zero, nil).Once()

	view, err := service.Create(services.CategoryInput{
		Name: "  office electronics ",
		Code: " elec ",
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Office Electronics", saved.Name)
	assert.Equal(t, "ELEC", saved.Code)
	assert.True(t, saved.Active)
	assert.Equal(t, "Office Electronics", view.Name)
	categoryRepo.AssertExpectations(t)
}

func TestCategoryService_CreateRejectsBadInput(t *testing.T) {
	service, _, _ := newCategoryService()

	tests := []struct {
		name  string
		input services.CategoryInput
		field string
	}{
		{"short name", services.CategoryInput{Name: "ab", Code: "ELEC"}, "name"},
		{"blank name", services.CategoryInput{Name: "   ", Code: "ELEC"}, "name"},
		{"empty code", services.CategoryInput{Name: "Electronics", Code: "  "}, "code"},
		{"code with spaces", services.CategoryInput{Name: "Electronics", Code: "EL EC"}, "code"},
		{"non-alphanumeric code", services.CategoryInput{Name: "Electronics", Code: "EL-EC"}, "code"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(tc.input)
			var verrs models.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.Fields(), tc.field)
		})
	}
}

func TestCategoryService_CodeNormalizationIsIdempotent(t *testing.T) {
	service, categoryRepo, assetRepo := newCategoryService()

	existing := &models.Category{ID: "cat-1", Name: "Electronics", Code: "ELEC", Active: true}
	categoryRepo.On("GetByID", "cat-1").Return(existing, nil).Once()

	var saved *models.Category
	categoryRepo.On("Update", mock.AnythingOfType("*models.Category")).
		Run(func(args mock.Arguments) { saved = args.Get(0).(*models.Category) }).
		Return(nil).Once()
	assetRepo.On("CountByCategory", "cat-1", false).Return(int64(0), nil).Once()
	assetRepo.On("SumValueByCategory", "cat-1").Return(decimal.Zero, nil).Once()

	// Re-saving the already-normalized code must not change it.
	_, err := service.Update("cat-1", services.CategoryInput{Name: "Electronics", Code: "ELEC"})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "ELEC", saved.Code)
	categoryRepo.AssertExpectations(t)
}

func TestCategoryService_DeactivationBlockedByAssetsInUse(t *testing.T) {
	service, categoryRepo, assetRepo := newCategoryService()

	existing := &models.Category{ID: "cat-1", Name: "Electronics", Code: "ELEC", Active: true}
	categoryRepo.On("GetByID", "cat-1").Return(existing, nil).Once()
	assetRepo.On("CountByCategory", "cat-1", true).Return(int64(2), nil).Once()

	inactive := false
	_, err := service.Update("cat-1", services.CategoryInput{
		Name:   "Electronics",
		Code:   "ELEC",
		Active: &inactive,
	})

	var verrs models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs.Fields(), "active")
	assert.Contains(t, verrs.Fields()["active"], "2 asset(s)")
	categoryRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestCategoryService_DeactivationAllowedWhenAssetsDecommissioned(t *testing.T) {
	service, categoryRepo, assetRepo := newCategoryService()

	existing := &models.Category{ID: "cat-1", Name: "Electronics", Code: "ELEC", Active: true}
	categoryRepo.On("GetByID", "cat-1").Return(existing, nil).Once()
	assetRepo.On("CountByCategory", "cat-1", true).Return(int64(0), nil).Once()

	var saved *models.Category
	categoryRepo.On("Update", mock.AnythingOfType("*models.Category")).
		Run(func(args mock.Arguments) { saved = args.Get(0).(*models.Category) }).
		Return(nil).Once()
	assetRepo.On("CountByCategory", "cat-1", false).Return(int64(3), nil).Once()
	assetRepo.On("SumValueByCategory", "cat-1").Return(decimal.NewFromInt(900), nil).Once()

	inactive := false
	view, err := service.Update("cat-1", services.CategoryInput{
		Name:   "Electronics",
		Code:   "ELEC",
		Active: &inactive,
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.False(t, saved.Active)
	assert.False(t, view.Active)
	assert.Equal(t, int64(3), view.TotalAssets)
	categoryRepo.AssertExpectations(t)
}

func TestCategoryService_DeactivationRaceReportedAsFieldError(t *testing.T) {
	service, categoryRepo, assetRepo := newCategoryService()

	existing := &models.Category{ID: "cat-1", Name: "Electronics", Code: "ELEC", Active: true}
	categoryRepo.On("GetByID", "cat-1").Return(existing, nil).Once()
	assetRepo.On("CountByCategory", "cat-1", true).Return(int64(0), nil).Once()

	// A concurrent asset insert makes the repository's transactional
	// re-check fail even though the pre-check passed.
	categoryRepo.On("Update", mock.AnythingOfType("*models.Category")).
		Return(&models.CategoryInUseError{Name: "Electronics", Count: 1}).Once()

	inactive := false
	_, err := service.Update("cat-1", services.CategoryInput{
		Name:   "Electronics",
		Code:   "ELEC",
		Active: &inactive,
	})

	var verrs models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.Fields(), "active")
}

func TestCategoryService_DeleteBlockedWhileInUse(t *testing.T) {
	service, categoryRepo, _ := newCategoryService()

	existing := &models.Category{ID: "cat-1", Name: "Electronics", Code: "ELEC", Active: true}
	categoryRepo.On("GetByID", "cat-1").Return(existing, nil).Once()
	categoryRepo.On("Delete", "cat-1").
		Return(&models.CategoryInUseError{Name: "Electronics", Count: 3}).Once()

	_, err := service.Delete("cat-1")

	var inUse *models.CategoryInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, int64(3), inUse.Count)
	categoryRepo.AssertExpectations(t)
}

func TestCategoryService_DeleteReturnsName(t *testing.T) {
	service, categoryRepo, _ := newCategoryService()

	existing := &models.Category{ID: "cat-1", Name: "Electronics", Code: "ELEC", Active: true}
	categoryRepo.On("GetByID", "cat-1").Return(existing, nil).Once()
	categoryRepo.On("Delete", "cat-1").Return(nil).Once()

	name, err := service.Delete("cat-1")

	require.NoError(t, err)
	assert.Equal(t, "Electronics", name)
	categoryRepo.AssertExpectations(t)
}

func TestCategoryService_GetUnknownID(t *testing.T) {
	service, categoryRepo, _ := newCategoryService()

	notFound := &models.NotFoundError{Resource: "category", ID: "nope"}
	categoryRepo.On("GetByID", "nope").Return(nil, notFound).Once()

	_, err := service.Get("nope")

	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nope", nf.ID)
}
