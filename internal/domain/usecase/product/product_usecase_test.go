package product

import (
	"context"
	"errors"
	"testing"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/repository/memory/memorytest"
	coremocks "github.com/amirhossein-jamali/canteen-wallet/mocks/port/core"
	persistencemocks "github.com/amirhossein-jamali/canteen-wallet/mocks/port/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductCatalogue(t *testing.T) {
	ctx := context.Background()
	f := memorytest.New(t)
	uc := NewProductUseCase(f.UoW, f.IDs, f.Clock, f.Logger)

	adobo, err := uc.AddProduct(ctx, usecase.NewProductRequest{
		Name: " Chicken Adobo ", Price: "85.00", Category: "Meals", Available: true, Stock: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "Chicken Adobo", adobo.Name)
	assert.Equal(t, int64(8500), adobo.PriceInCents)

	_, err = uc.AddProduct(ctx, usecase.NewProductRequest{Name: "Mango Juice", Price: "25", Category: "Drinks", Available: true, Stock: 5})
	require.NoError(t, err)

	t.Run("List is ordered by category then name", func(t *testing.T) {
		products, err := uc.ListProducts(ctx)

		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Drinks", products[0].Category)
		assert.Equal(t, "Meals", products[1].Category)
	})

	t.Run("Partial update keeps other fields", func(t *testing.T) {
		price := "90.50"
		available := false

		updated, err := uc.UpdateProduct(ctx, adobo.ID, usecase.ProductUpdate{Price: &price, Available: &available})

		require.NoError(t, err)
		assert.Equal(t, int64(9050), updated.PriceInCents)
		assert.False(t, updated.Available)
		assert.Equal(t, "Chicken Adobo", updated.Name)
		assert.Equal(t, 10, f.Product(t, adobo.ID).Stock)
	})

	t.Run("Invalid update changes nothing", func(t *testing.T) {
		stock := -1
		_, err := uc.UpdateProduct(ctx, adobo.ID, usecase.ProductUpdate{Stock: &stock})
		assert.ErrorIs(t, err, errs.ErrInvalidQuantity)

		name := "  "
		_, err = uc.UpdateProduct(ctx, adobo.ID, usecase.ProductUpdate{Name: &name})
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)

		assert.Equal(t, "Chicken Adobo", f.Product(t, adobo.ID).Name)
		assert.Equal(t, 10, f.Product(t, adobo.ID).Stock)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, uc.DeleteProduct(ctx, adobo.ID))

		_, err := uc.GetProduct(ctx, adobo.ID)
		assert.ErrorIs(t, err, errs.ErrProductNotFound)
		assert.ErrorIs(t, uc.DeleteProduct(ctx, adobo.ID), errs.ErrProductNotFound)
	})
}

func TestAddProductValidation(t *testing.T) {
	mockUoW := persistencemocks.NewMockUnitOfWork(t)
	mockIDs := coremocks.NewMockIDGenerator(t)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockLogger := coremocks.NewMockLogger(t)
	uc := NewProductUseCase(mockUoW, mockIDs, mockTime, mockLogger)

	testCases := []struct {
		name string
		req  usecase.NewProductRequest
		want error
	}{
		{"Zero price", usecase.NewProductRequest{Name: "Water", Price: "0"}, errs.ErrInvalidAmount},
		{"Negative price", usecase.NewProductRequest{Name: "Water", Price: "-1.00"}, errs.ErrNegativeAmount},
		{"Malformed price", usecase.NewProductRequest{Name: "Water", Price: "abc"}, errs.ErrInvalidAmount},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.AddProduct(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAddProductStoreFailure(t *testing.T) {
	mockUoW := persistencemocks.NewMockUnitOfWork(t)
	mockRepo := persistencemocks.NewMockProductRepository(t)
	mockIDs := coremocks.NewMockIDGenerator(t)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockLogger := coremocks.NewMockLogger(t)
	uc := NewProductUseCase(mockUoW, mockIDs, mockTime, mockLogger)

	storeErr := errors.New("connection reset")
	mockIDs.EXPECT().NewID().Return("p-1").Once()
	mockTime.EXPECT().Now().Return(memorytest.Start).Once()
	mockUoW.EXPECT().GetProductRepository(mock.Anything).Return(mockRepo).Once()
	mockRepo.EXPECT().Create(mock.Anything, mock.MatchedBy(func(p *entity.Product) bool {
		return p.ID == "p-1" && p.PriceInCents == 1250
	})).Return(storeErr).Once()
	mockLogger.EXPECT().Error("Failed to create product", mock.Anything).Once()

	_, err := uc.AddProduct(context.Background(), usecase.NewProductRequest{Name: "Juice", Price: "12.50", Stock: 1})

	assert.Equal(t, storeErr, err)
}
