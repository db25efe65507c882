package migration

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
)

// defaultMenu is the starter menu of a new canteen
var defaultMenu = []usecase.NewProductRequest{
	{Name: "Chicken Teriyaki Rice", Price: "85.00", Category: "Rice Meals", Available: true, Stock: 50},
	{Name: "Spaghetti Bolognese", Price: "60.00", Category: "Pasta", Available: true, Stock: 40},
	{Name: "Ham & Cheese Sandwich", Price: "45.00", Category: "Snacks", Available: true, Stock: 100},
	{Name: "Fresh Orange Juice", Price: "35.00", Category: "Drinks", Available: true, Stock: 80},
	{Name: "Chocolate Chip Cookie", Price: "20.00", Category: "Dessert", Available: true, Stock: 60},
}

// CreateDefaultProducts adds the starter menu when the catalogue is empty.
// It returns the number of products added.
func CreateDefaultProducts(ctx context.Context, products usecase.ProductUseCase) (int, error) {
	existing, err := products.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, item := range defaultMenu {
		if _, err := products.AddProduct(ctx, item); err != nil {
			return 0, err
		}
	}
	return len(defaultMenu), nil
}
