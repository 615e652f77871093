package productrepo

import "errors"

var (
	ErrNotFound    = errors.New("product not found")
	ErrTagNotFound = errors.New("tag not found")
)

type ListProductsRequest struct {
	UserID int64
	// TagIDs, when not empty, keeps products carrying at least one of the tags.
	TagIDs []int64
}
