package model

import "time"

// Category groups products; nesting is possible through ParentID.
type Category struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	ParentID    *int64  `json:"parentId,omitempty" db:"parent_id"`
	Description *string `json:"description,omitempty" db:"description"`
}

// Unit is a unit of measure (kg, g, pcs and so on).
type Unit struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Symbol string `json:"symbol" db:"symbol"`
}

// Product is a catalogue item. StockQuantity is the live stock in integer
// grams or discrete units depending on the product; it is decremented only
// by order reservation and must never go negative.
type Product struct {
	ID            int64   `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	CategoryID    int64   `json:"categoryId" db:"category_id"`
	UnitID        int64   `json:"unitId" db:"unit_id"`
	OriginCountry *string `json:"originCountry,omitempty" db:"origin_country"`
	ImageURL      *string `json:"imageUrl,omitempty" db:"image_url"`
	Description   *string `json:"description,omitempty" db:"description"`
	StockQuantity int64   `json:"stockQuantity" db:"stock_quantity"`
}

// Price is one entry of the per-product price history. Exactly one entry per
// product is current at a time; OldPrice carries the previous current amount
// for display of the price-change delta.
type Price struct {
	ID        int64      `json:"id" db:"id"`
	ProductID int64      `json:"productId" db:"product_id"`
	Price     float64    `json:"price" db:"price"`
	IsCurrent bool       `json:"isCurrent" db:"is_current"`
	StartDate *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate   *time.Time `json:"endDate,omitempty" db:"end_date"`
	OldPrice  *float64   `json:"oldPrice,omitempty" db:"old_price"`
}

// ProductView is a catalogue row joined with its current price and unit
// symbol, as served to clients. Price is nil for unpriced products.
type ProductView struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	CategoryID    int64    `json:"categoryId"`
	UnitSymbol    string   `json:"unitSymbol"`
	Price         *float64 `json:"price"`
	OldPrice      *float64 `json:"oldPrice,omitempty"`
	ImageURL      *string  `json:"imageUrl,omitempty"`
	StockQuantity int64    `json:"stockQuantity"`
}

// ProductCreate is the payload for creating a product.
type ProductCreate struct {
	Name          string  `json:"name"`
	CategoryID    int64   `json:"categoryId"`
	UnitID        int64   `json:"unitId"`
	OriginCountry *string `json:"originCountry,omitempty"`
	ImageURL      *string `json:"imageUrl,omitempty"`
	Description   *string `json:"description,omitempty"`
	StockQuantity int64   `json:"stockQuantity"`
}

// ProductUpdate is a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name          *string `json:"name,omitempty"`
	CategoryID    *int64  `json:"categoryId,omitempty"`
	UnitID        *int64  `json:"unitId,omitempty"`
	OriginCountry *string `json:"originCountry,omitempty"`
	ImageURL      *string `json:"imageUrl,omitempty"`
	Description   *string `json:"description,omitempty"`
	StockQuantity *int64  `json:"stockQuantity,omitempty"`
}

// CategoryCreate is the payload for creating a category.
type CategoryCreate struct {
	Name        string  `json:"name"`
	ParentID    *int64  `json:"parentId,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CategoryUpdate is a partial update; nil fields are left untouched.
type CategoryUpdate struct {
	Name        *string `json:"name,omitempty"`
	ParentID    *int64  `json:"parentId,omitempty"`
	Description *string `json:"description,omitempty"`
}
