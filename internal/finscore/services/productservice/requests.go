package productservice

import "github.com/shopspring/decimal"

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// ProductRequest is the body of create and full update. A missing tags field means
// an empty tag set.
type ProductRequest struct {
	Title string           `json:"title" validate:"required,max=255"`
	Price *decimal.Decimal `json:"price" validate:"required,digits=5:2"`
	Link  string           `json:"link"  validate:"max=255"`
	Tags  []int64          `json:"tags"`
}

// PatchProductRequest carries only the fields to change. A null or missing tags
// field keeps the current tag set, an empty list clears it.
type PatchProductRequest struct {
	Title *string          `json:"title" validate:"omitnil,min=1,max=255"`
	Price *decimal.Decimal `json:"price" validate:"omitempty,digits=5:2"`
	Link  *string          `json:"link"  validate:"omitempty,max=255"`
	Tags  *[]int64         `json:"tags"`
}
