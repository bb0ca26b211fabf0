package dbtest

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/migapan/storefront-backend/pkg/db/models"
	"github.com/migapan/storefront-backend/pkg/enums"
)

// SeedUser inserts an active customer.
func SeedUser(t testing.TB, conn *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{
		Name:         "Cliente " + email,
		Email:        email,
		PasswordHash: "unused",
		Role:         enums.UserRoleCustomer,
		Active:       true,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedCategory inserts an active category.
func SeedCategory(t testing.TB, conn *gorm.DB, name, slug string, order int) models.Category {
	t.Helper()
	category := models.Category{Name: name, Slug: slug, DisplayOrder: order, Active: true}
	if err := conn.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return category
}

// ProductOpts customizes SeedProduct.
type ProductOpts struct {
	CategoryID  *uint64
	Featured    bool
	Inactive    bool
	Description string
	Ingredients string
}

// SeedProduct inserts a product priced in whole units.
func SeedProduct(t testing.TB, conn *gorm.DB, name, slug string, price int64, opts ProductOpts) models.Product {
	t.Helper()
	product := models.Product{
		Name:       name,
		Slug:       slug,
		Price:      decimal.NewFromInt(price),
		CategoryID: opts.CategoryID,
		Active:     !opts.Inactive,
		Featured:   opts.Featured,
	}
	if opts.Description != "" {
		product.Description = &opts.Description
	}
	if opts.Ingredients != "" {
		product.Ingredients = &opts.Ingredients
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}
