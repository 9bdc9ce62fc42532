package repository

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"dominik-store/internal/catalog"
	"dominik-store/internal/domain"
)

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

var fixtureBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fixtureProducts is a small shop covering every filter dimension, including
// labels with LIKE metacharacters and an empty discount string.
func fixtureProducts() []domain.Product {
	ps := []domain.Product{
		{Name: "Мужские классические брюки", Category: "Одежда", Subcategory: "Брюки", Price: 780, OldPrice: intPtr(2599), Discount: strPtr("-69%"),
			Images: []string{"trousers-1.jpg"}, Colors: []string{"Черный"}, Sizes: []string{"M", "L"},
			Brand: strPtr("Dominik"), Material: strPtr("Хлопок"), Country: strPtr("Россия"), Rating: 4.6, Reviews: 12},
		{Name: "Женские брюки клеш", Category: "Одежда", Subcategory: "Брюки", Price: 1500, Discount: strPtr("-20%"),
			Colors: []string{"Белый", "Черный"}, Sizes: []string{"S", "M"},
			Brand: strPtr("Zara"), Material: strPtr("Лен"), Country: strPtr("Турция"), Rating: 4.1, Reviews: 3},
		{Name: "Кроссовки беговые", Category: "Обувь", Subcategory: "Кроссовки", Price: 4990,
			Colors: []string{"Белый"}, Sizes: []string{"42", "43"},
			Brand: strPtr("Nike"), Material: strPtr("Текстиль"), Country: strPtr("Вьетнам"), Rating: 4.8, Reviews: 40},
		{Name: "Кеды", Category: "Обувь", Subcategory: "Кеды", Price: 990, Discount: strPtr("-10%"),
			Colors: []string{"Красный"}, Sizes: []string{"40"},
			Brand: strPtr("Converse"), Country: strPtr("Китай"), Rating: 3.9},
		{Name: "Футболка базовая", Category: "Одежда", Subcategory: "Футболки", Price: 450, OldPrice: intPtr(900), Discount: strPtr("-50%"),
			Colors: []string{"Белый", "Серый"}, Sizes: []string{"S", "M", "L", "XL"},
			Brand: strPtr("Dominik"), Material: strPtr("Хлопок"), Country: strPtr("Россия"), Rating: 4.3, Reviews: 25},
		{Name: "Платье летнее", Category: "Одежда", Subcategory: "Платья", Price: 2300,
			Colors: []string{"Голубой"}, Sizes: []string{"XS", "S"},
			Brand: strPtr("Zara"), Material: strPtr("Вискоза"), Country: strPtr("Турция"), Rating: 4.0, Reviews: 7},
		{Name: "Рюкзак городской", Category: "Аксессуары", Subcategory: "Сумки", Price: 1000, Discount: strPtr("-15%"),
			Colors: []string{"Черный"},
			Brand: strPtr("Dominik"), Country: strPtr("Китай"), Rating: 4.4, Reviews: 15},
		{Name: "Ремень кожаный", Category: "Аксессуары", Subcategory: "Ремни", Price: 1200,
			Colors: []string{"Коричневый"},
			Material: strPtr("Кожа"), Country: strPtr("Италия"), Rating: 4.9, Reviews: 2},
		{Name: "Джинсы 50%_off", Category: "Одежда", Subcategory: "Джинсы", Price: 3000, Discount: strPtr("-5%"),
			Colors: []string{"Синий"}, Sizes: []string{"M"},
			Brand: strPtr("Levi's"), Material: strPtr("Деним"), Country: strPtr("США"), Rating: 4.7, Reviews: 60},
		{Name: "Шорты спортивные", Category: "Спорт", Subcategory: "Шорты", Price: 650, Discount: strPtr(""),
			Colors: []string{"Черный"}, Sizes: []string{"M", "L"},
			Brand: strPtr("Nike"), Country: strPtr("Вьетнам"), Rating: 3.5, Reviews: 9},
		{Name: "Носки", Category: "Одежда", Subcategory: "", Price: 0,
			Colors: []string{"Белый"}, Sizes: []string{"Один размер"}},
		{Name: "Куртка зимняя", Category: "Одежда", Subcategory: "Куртки", Price: 8990, OldPrice: intPtr(12990), Discount: strPtr("-30%"),
			Colors: []string{"Черный"}, Sizes: []string{"L", "XL"},
			Brand: strPtr("Dominik"), Material: strPtr("Полиэстер"), Country: strPtr("Россия"), Rating: 4.5, Reviews: 30},
	}

	for i := range ps {
		created := fixtureBase.Add(-time.Duration(i) * time.Hour)
		ps[i].CreatedAt = &created
	}
	return ps
}

// seedCatalog empties the tables and inserts products, returning them with
// their assigned ids
func seedCatalog(t *testing.T, products []domain.Product) []domain.Product {
	t.Helper()
	resetTables(t)

	repo := NewProductRepository(testDB)
	for i := range products {
		if err := repo.Create(context.Background(), &products[i]); err != nil {
			t.Fatalf("Failed to seed product %q: %v", products[i].Name, err)
		}
	}
	return products
}

// referenceMatch evaluates a filter against an in-memory product the way the
// compiled predicates are expected to
func referenceMatch(p domain.Product, spec catalog.FilterSpec) bool {
	if spec.Category != nil && p.Category != *spec.Category {
		return false
	}
	if spec.Subcategory != nil && p.Subcategory != *spec.Subcategory {
		return false
	}
	if spec.Discount && !p.HasDiscount() {
		return false
	}
	if len(spec.Brands) > 0 && (p.Brand == nil || !slices.Contains(spec.Brands, *p.Brand)) {
		return false
	}
	if len(spec.Materials) > 0 && (p.Material == nil || !slices.Contains(spec.Materials, *p.Material)) {
		return false
	}
	if len(spec.Countries) > 0 && (p.Country == nil || !slices.Contains(spec.Countries, *p.Country)) {
		return false
	}
	if len(spec.Colors) > 0 {
		stored := catalog.EncodeList(p.Colors)
		if !slices.ContainsFunc(spec.Colors, func(c string) bool { return strings.Contains(stored, c) }) {
			return false
		}
	}
	if spec.Size != nil && !strings.Contains(catalog.EncodeList(p.Sizes), *spec.Size) {
		return false
	}
	if len(spec.PriceRanges) > 0 && !slices.ContainsFunc(spec.PriceRanges, func(r catalog.PriceRange) bool {
		return (r.Min == nil || p.Price >= *r.Min) && (r.Max == nil || p.Price <= *r.Max)
	}) {
		return false
	}
	if spec.Search != nil && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(*spec.Search)) {
		return false
	}
	if spec.MinReviews != nil && p.Reviews < *spec.MinReviews {
		return false
	}
	return true
}

func rowIDs(rows []catalog.Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID.String()
	}
	return ids
}

func productIDs(ps []domain.Product) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID.String()
	}
	return ids
}
