package services_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shopgate/internal/models"
	"shopgate/internal/repositories"
	"shopgate/internal/services"
	"shopgate/internal/storage"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindAll() ([]models.Product, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(id string, product *models.Product) (*models.Product, error) {
	args := m.Called(id, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

func strPtr(s string) *string          { return &s }
func float64Ptr(f float64) *float64    { return &f }
func statusPtr(s models.ProductStatus) *models.ProductStatus { return &s }

func sampleProduct(id string) models.Product {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return models.Product{
		ID:          id,
		Title:       "Shirt",
		Description: "A plain shirt",
		Vendor:      "Acme",
		ProductType: "Apparel",
		Tags:        []string{"clothing"},
		Status:      models.StatusActive,
		Variants: []models.Variant{
			{ID: id + "-v1", Title: "S", Price: 10, CreatedAt: now, UpdatedAt: now},
			{ID: id + "-v2", Title: "M", Price: 12, CreatedAt: now, UpdatedAt: now},
		},
		Images: []models.Image{
			{ID: id + "-i1", Src: "https://cdn.example.com/shirt.png", CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	var created *models.Product
	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Run(func(args mock.Arguments) {
		created = args.Get(0).(*models.Product)
	}).Return(nil).Once()

	input := models.ProductInput{
		Title: "Shirt",
		Variants: []models.VariantInput{
			{Title: "S", Price: float64Ptr(10)},
			{Title: "M", Price: float64Ptr(12)},
		},
		Images: []models.ImageInput{
			{Src: "https://cdn.example.com/shirt.png"},
		},
	}

	product, err := service.CreateProduct(input)
	assert.NoError(t, err)
	assert.NotNil(t, product)
	assert.Equal(t, created, product)

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, models.StatusDraft, product.Status)
	assert.NotNil(t, product.Tags)
	assert.Len(t, product.Variants, 2)
	assert.Len(t, product.Images, 1)

	// Every generated id is distinct.
	assert.NotEqual(t, product.ID, product.Variants[0].ID)
	assert.NotEqual(t, product.Variants[0].ID, product.Variants[1].ID)
	assert.NotEqual(t, product.Variants[0].ID, product.Images[0].ID)

	// One shared timestamp across the whole aggregate.
	assert.Equal(t, product.CreatedAt, product.UpdatedAt)
	assert.Equal(t, product.CreatedAt, product.Variants[0].CreatedAt)
	assert.Equal(t, product.CreatedAt, product.Variants[1].UpdatedAt)
	assert.Equal(t, product.CreatedAt, product.Images[0].CreatedAt)

	// Variant defaults.
	assert.Equal(t, models.WeightGrams, product.Variants[0].WeightUnit)
	assert.True(t, product.Variants[0].RequiresShipping)
	assert.True(t, product.Variants[0].Taxable)

	mockRepo.AssertExpectations(t)
}

func TestCreateProduct_ValidationError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	product, err := service.CreateProduct(models.ProductInput{Title: "Shirt"})
	assert.Nil(t, product)
	assert.Error(t, err)

	ve := services.AsValidationError(err)
	assert.NotNil(t, ve)
	assert.Equal(t, []string{"At least one variant is required"}, ve.Errors)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateProduct_PublishesEvent(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)

	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Return(nil).Once()
	mockEvents.On("Publish", "catalog", "product.created", mock.Anything).Return(nil).Once()

	_, err := service.CreateProduct(models.ProductInput{
		Title:    "Shirt",
		Variants: []models.VariantInput{{Title: "S", Price: float64Ptr(10)}},
	})
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestCreateProduct_PublishFailureDoesNotFailCreate(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)

	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Return(nil).Once()
	mockEvents.On("Publish", "catalog", "product.created", mock.Anything).
		Return(errors.New("broker down")).Once()

	product, err := service.CreateProduct(models.ProductInput{
		Title:    "Shirt",
		Variants: []models.VariantInput{{Title: "S", Price: float64Ptr(10)}},
	})
	assert.NoError(t, err)
	assert.NotNil(t, product)
}

func TestGetAllProducts_FiltersAndPaginates(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	a := sampleProduct("a")
	b := sampleProduct("b")
	b.Vendor = "Globex"
	c := sampleProduct("c")
	c.Status = models.StatusDraft
	mockRepo.On("FindAll").Return([]models.Product{a, b, c}, nil)

	// Status filter is an exact match.
	list, err := service.GetAllProducts(services.ListProductsParams{
		Status: statusPtr(models.StatusActive),
		Limit:  -1,
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, list.TotalCount)
	assert.Len(t, list.Products, 2)

	// Vendor filter is a case-insensitive substring match.
	list, err = service.GetAllProducts(services.ListProductsParams{Vendor: "acme", Limit: -1})
	assert.NoError(t, err)
	assert.Equal(t, 2, list.TotalCount)
	assert.Equal(t, "a", list.Products[0].ID)
	assert.Equal(t, "c", list.Products[1].ID)

	// Pagination trims the page but not the total.
	list, err = service.GetAllProducts(services.ListProductsParams{Limit: 1, Offset: 1})
	assert.NoError(t, err)
	assert.Equal(t, 3, list.TotalCount)
	assert.Len(t, list.Products, 1)
	assert.Equal(t, "b", list.Products[0].ID)

	// Offset past the end yields an empty page, never an error.
	list, err = service.GetAllProducts(services.ListProductsParams{Limit: 10, Offset: 10})
	assert.NoError(t, err)
	assert.Equal(t, 3, list.TotalCount)
	assert.Empty(t, list.Products)
	assert.NotNil(t, list.Products)
}

func TestSearchProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	a := sampleProduct("a")
	b := sampleProduct("b")
	b.Title = "Mug"
	b.Description = "Ceramic mug"
	b.Tags = []string{"kitchen"}
	mockRepo.On("FindAll").Return([]models.Product{a, b}, nil)

	matches, err := service.SearchProducts("shirt", 10)
	assert.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)

	// Tags are searched too.
	matches, err = service.SearchProducts("KITCHEN", 10)
	assert.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Equal(t, "b", matches[0].ID)

	// No match yields an empty, non-nil slice.
	matches, err = service.SearchProducts("does-not-exist", 10)
	assert.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestUpdateProduct_MergesOnlyProvidedFields(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	existing := sampleProduct("p1")
	mockRepo.On("FindByID", "p1").Return(&existing, nil).Once()
	mockRepo.On("Update", "p1", mock.AnythingOfType("*models.Product")).
		Return(&existing, nil).Once()

	updated, err := service.UpdateProduct("p1", models.ProductUpdateInput{
		Title: strPtr("Better Shirt"),
	})
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Equal(t, "Better Shirt", existing.Title)
	assert.Equal(t, "Acme", existing.Vendor)
	assert.True(t, existing.UpdatedAt.After(existing.CreatedAt))

	mockRepo.AssertExpectations(t)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("FindByID", "missing").Return(nil, nil).Once()

	updated, err := service.UpdateProduct("missing", models.ProductUpdateInput{
		Title: strPtr("x"),
	})
	assert.NoError(t, err)
	assert.Nil(t, updated)

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProduct_InvalidStatus(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	existing := sampleProduct("p1")
	mockRepo.On("FindByID", "p1").Return(&existing, nil).Once()

	bad := models.ProductStatus("SHOUTING")
	updated, err := service.UpdateProduct("p1", models.ProductUpdateInput{Status: &bad})
	assert.Nil(t, updated)

	ve := services.AsValidationError(err)
	assert.NotNil(t, ve)
	assert.Equal(t, []string{"Status must be one of ACTIVE, ARCHIVED or DRAFT"}, ve.Errors)
}

func TestDeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("Delete", "p1").Return(true, nil).Once()
	mockRepo.On("Delete", "p1").Return(false, nil).Once()

	deleted, err := service.DeleteProduct("p1")
	assert.NoError(t, err)
	assert.True(t, deleted)

	// A second delete of the same id reports false, not an error.
	deleted, err = service.DeleteProduct("p1")
	assert.NoError(t, err)
	assert.False(t, deleted)

	mockRepo.AssertExpectations(t)
}

func TestAddProductVariant(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	existing := sampleProduct("p1")
	mockRepo.On("FindByID", "p1").Return(&existing, nil).Once()
	mockRepo.On("Update", "p1", mock.AnythingOfType("*models.Product")).
		Return(&existing, nil).Once()

	updated, err := service.AddProductVariant("p1", models.VariantInput{
		Title: "L",
		Price: float64Ptr(14),
	})
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Len(t, existing.Variants, 3)
	assert.Equal(t, "L", existing.Variants[2].Title)
	assert.NotEmpty(t, existing.Variants[2].ID)

	mockRepo.AssertExpectations(t)
}

func TestAddProductVariant_InvalidInput(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	existing := sampleProduct("p1")
	mockRepo.On("FindByID", "p1").Return(&existing, nil).Once()

	updated, err := service.AddProductVariant("p1", models.VariantInput{Title: "L"})
	assert.Nil(t, updated)

	ve := services.AsValidationError(err)
	assert.NotNil(t, ve)
	assert.Equal(t, []string{"Price is required"}, ve.Errors)

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProductVariant(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	existing := sampleProduct("p1")
	mockRepo.On("FindByID", "p1").Return(&existing, nil).Once()
	mockRepo.On("Update", "p1", mock.AnythingOfType("*models.Product")).
		Return(&existing, nil).Once()

	updated, err := service.UpdateProductVariant("p1", models.VariantUpdateInput{
		ID:    "p1-v2",
		Price: float64Ptr(13),
	})
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Equal(t, 13.0, existing.Variants[1].Price)
	assert.Equal(t, "M", existing.Variants[1].Title)
	assert.Equal(t, 10.0, existing.Variants[0].Price)
	assert.True(t, existing.Variants[1].UpdatedAt.After(existing.CreatedAt))

	mockRepo.AssertExpectations(t)
}

func TestUpdateProductVariant_UnknownVariant(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	existing := sampleProduct("p1")
	mockRepo.On("FindByID", "p1").Return(&existing, nil).Once()

	updated, err := service.UpdateProductVariant("p1", models.VariantUpdateInput{
		ID:    "nope",
		Price: float64Ptr(13),
	})
	assert.NoError(t, err)
	assert.Nil(t, updated)
}

func TestRemoveProductVariant(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	existing := sampleProduct("p1")
	mockRepo.On("FindByID", "p1").Return(&existing, nil).Once()
	mockRepo.On("Update", "p1", mock.AnythingOfType("*models.Product")).
		Return(&existing, nil).Once()

	updated, err := service.RemoveProductVariant("p1", "p1-v1")
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Len(t, existing.Variants, 1)
	assert.Equal(t, "p1-v2", existing.Variants[0].ID)

	mockRepo.AssertExpectations(t)
}

func TestRemoveProductVariant_LastVariant(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	existing := sampleProduct("p1")
	existing.Variants = existing.Variants[:1]
	mockRepo.On("FindByID", "p1").Return(&existing, nil).Once()

	updated, err := service.RemoveProductVariant("p1", "p1-v1")
	assert.Nil(t, updated)
	assert.ErrorIs(t, err, services.ErrLastVariant)

	// The sole variant is still there.
	assert.Len(t, existing.Variants, 1)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAddProductImage(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	existing := sampleProduct("p1")
	mockRepo.On("FindByID", "p1").Return(&existing, nil).Once()
	mockRepo.On("Update", "p1", mock.AnythingOfType("*models.Product")).
		Return(&existing, nil).Once()

	updated, err := service.AddProductImage("p1", models.ImageInput{
		Src: "https://cdn.example.com/back.png",
	})
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Len(t, existing.Images, 2)

	mockRepo.AssertExpectations(t)
}

func TestRemoveProductImage_MayRemoveTheLastOne(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	existing := sampleProduct("p1")
	mockRepo.On("FindByID", "p1").Return(&existing, nil).Once()
	mockRepo.On("Update", "p1", mock.AnythingOfType("*models.Product")).
		Return(&existing, nil).Once()

	updated, err := service.RemoveProductImage("p1", "p1-i1")
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Empty(t, existing.Images)

	mockRepo.AssertExpectations(t)
}

func TestConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "catalog.json"))
	assert.NoError(t, err)
	service := services.NewProductService(repositories.NewStoreProductRepository(store), nil)

	product, err := service.CreateProduct(models.ProductInput{
		Title:    "Shirt",
		Variants: []models.VariantInput{{Title: "S", Price: float64Ptr(10)}},
	})
	assert.NoError(t, err)

	// Two mutations racing on the same document must both land: each one
	// merges over the other's result, never over a stale snapshot.
	for i := 0; i < 25; i++ {
		title := fmt.Sprintf("Shirt v%d", i)
		vendor := fmt.Sprintf("Vendor v%d", i)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := service.UpdateProduct(product.ID, models.ProductUpdateInput{Title: &title})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := service.UpdateProduct(product.ID, models.ProductUpdateInput{Vendor: &vendor})
			assert.NoError(t, err)
		}()
		wg.Wait()

		stored, err := service.GetProductByID(product.ID)
		assert.NoError(t, err)
		assert.Equal(t, title, stored.Title)
		assert.Equal(t, vendor, stored.Vendor)
	}
}

func TestRepositoryErrorsPropagate(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	storeErr := errors.New("disk full")
	mockRepo.On("FindAll").Return(nil, storeErr)

	_, err := service.GetAllProducts(services.ListProductsParams{Limit: -1})
	assert.ErrorIs(t, err, storeErr)

	_, err = service.SearchProducts("x", 10)
	assert.ErrorIs(t, err, storeErr)
}
