package productservice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Leopold1975/finscore/internal/finscore/domain/models"
	repo "github.com/Leopold1975/finscore/internal/finscore/repository/productrepo"
	"github.com/Leopold1975/finscore/internal/pkg/validation"
	"github.com/Leopold1975/finscore/pkg/logger"
)

var ErrNotFound = errors.New("not found")

type ProductService struct {
	productRepo  Repository
	productCache Cache
	v            *validation.Validator
	lg           logger.Logger
}

type Repository interface {
	ListTags(ctx context.Context, userID int64) ([]models.Tag, error)
	CreateTag(context.Context, models.Tag) (int64, error)
	OwnedTagIDs(ctx context.Context, userID int64, ids []int64) ([]int64, error)
	ListProducts(context.Context, repo.ListProductsRequest) ([]models.Product, error)
	GetProduct(ctx context.Context, userID, id int64) (models.Product, error)
	CreateProduct(context.Context, models.Product) (int64, error)
	UpdateProduct(ctx context.Context, p models.Product, replaceTags bool) error
	DeleteProduct(ctx context.Context, userID, id int64) error
}

type Cache interface {
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	SetProduct(context.Context, models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

func New(productRepo Repository, productCache Cache, v *validation.Validator, lg logger.Logger) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		productCache: productCache,
		v:            v,
		lg:           lg,
	}
}

func (ps *ProductService) ListTags(ctx context.Context, userID int64) ([]models.Tag, error) {
	tags, err := ps.productRepo.ListTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags error: %w", err)
	}

	return tags, nil
}

func (ps *ProductService) CreateTag(ctx context.Context, userID int64, req CreateTagRequest) (models.Tag, error) {
	if err := ps.v.Validate(req); err != nil {
		return models.Tag{}, err //nolint:wrapcheck
	}

	t := models.Tag{Name: req.Name, UserID: userID}

	id, err := ps.productRepo.CreateTag(ctx, t)
	if err != nil {
		return models.Tag{}, fmt.Errorf("create tag error: %w", err)
	}

	t.ID = id

	return t, nil
}

func (ps *ProductService) ListProducts(ctx context.Context, userID int64, tagIDs []int64) ([]models.Product, error) {
	products, err := ps.productRepo.ListProducts(ctx, repo.ListProductsRequest{
		UserID: userID,
		TagIDs: tagIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("list products error: %w", err)
	}

	return products, nil
}

// GetProduct serves the detailed read, from cache when possible. A cached product
// of another user is treated as a miss.
func (ps *ProductService) GetProduct(ctx context.Context, userID, id int64) (models.Product, error) {
	p, err := ps.productCache.GetProduct(ctx, id)
	if err == nil && p.UserID == userID {
		ps.lg.Debugw("cache hit", "product_id", id)

		return p, nil
	}

	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		ps.lg.Errorf("get product cache error: %s", err.Error())
	}

	p, err = ps.productRepo.GetProduct(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Product{}, ErrNotFound
		}

		return models.Product{}, fmt.Errorf("get product error: %w", err)
	}

	if err := ps.productCache.SetProduct(ctx, p); err != nil {
		ps.lg.Errorf("set product cache error: %s", err.Error())
	}

	return p, nil
}

func (ps *ProductService) CreateProduct(ctx context.Context, userID int64, req ProductRequest) (models.Product, error) {
	if err := ps.v.Validate(req); err != nil {
		return models.Product{}, err //nolint:wrapcheck
	}

	tags, err := ps.checkTags(ctx, userID, req.Tags)
	if err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		UserID: userID,
		Title:  req.Title,
		Price:  *req.Price,
		Link:   req.Link,
		Tags:   tags,
	}

	id, err := ps.productRepo.CreateProduct(ctx, p)
	if err != nil {
		return models.Product{}, ps.mapWriteError(err, "create product")
	}

	p.ID = id

	return p, nil
}

// UpdateProduct replaces every field of the product, including its tag set.
func (ps *ProductService) UpdateProduct(ctx context.Context,
	userID, id int64, req ProductRequest,
) (models.Product, error) {
	if err := ps.v.Validate(req); err != nil {
		return models.Product{}, err //nolint:wrapcheck
	}

	tags, err := ps.checkTags(ctx, userID, req.Tags)
	if err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		ID:     id,
		UserID: userID,
		Title:  req.Title,
		Price:  *req.Price,
		Link:   req.Link,
		Tags:   tags,
	}

	if err := ps.productRepo.UpdateProduct(ctx, p, true); err != nil {
		return models.Product{}, ps.mapWriteError(err, "update product")
	}

	ps.invalidate(ctx, id)

	return p, nil
}

// PatchProduct changes only the supplied fields. Supplied tags replace the tag set.
func (ps *ProductService) PatchProduct(ctx context.Context,
	userID, id int64, req PatchProductRequest,
) (models.Product, error) {
	if err := ps.v.Validate(req); err != nil {
		return models.Product{}, err //nolint:wrapcheck
	}

	p, err := ps.productRepo.GetProduct(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Product{}, ErrNotFound
		}

		return models.Product{}, fmt.Errorf("get product error: %w", err)
	}

	p.TagObjects = nil

	if req.Title != nil {
		p.Title = *req.Title
	}

	if req.Price != nil {
		p.Price = *req.Price
	}

	if req.Link != nil {
		p.Link = *req.Link
	}

	if req.Tags != nil {
		if p.Tags, err = ps.checkTags(ctx, userID, *req.Tags); err != nil {
			return models.Product{}, err
		}
	}

	if err := ps.productRepo.UpdateProduct(ctx, p, req.Tags != nil); err != nil {
		return models.Product{}, ps.mapWriteError(err, "patch product")
	}

	ps.invalidate(ctx, id)

	return p, nil
}

func (ps *ProductService) DeleteProduct(ctx context.Context, userID, id int64) error {
	if err := ps.productRepo.DeleteProduct(ctx, userID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("delete product error: %w", err)
	}

	ps.invalidate(ctx, id)

	return nil
}

// checkTags deduplicates ids and makes sure every one of them is a tag of userID.
// Tags of other users are reported exactly like missing ones.
func (ps *ProductService) checkTags(ctx context.Context, userID int64, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}

	uniq := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}

	owned, err := ps.productRepo.OwnedTagIDs(ctx, userID, uniq)
	if err != nil {
		return nil, fmt.Errorf("owned tags error: %w", err)
	}

	ownedSet := make(map[int64]struct{}, len(owned))
	for _, id := range owned {
		ownedSet[id] = struct{}{}
	}

	var missing []string

	for _, id := range uniq {
		if _, ok := ownedSet[id]; !ok {
			missing = append(missing, strconv.FormatInt(id, 10))
		}
	}

	if len(missing) != 0 {
		return nil, validation.FieldError("tags", "invalid tag ids: "+strings.Join(missing, ", "))
	}

	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	return uniq, nil
}

func (ps *ProductService) mapWriteError(err error, where string) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrTagNotFound):
		return validation.FieldError("tags", "invalid tag ids")
	default:
		return fmt.Errorf("%s error: %w", where, err)
	}
}

func (ps *ProductService) invalidate(ctx context.Context, id int64) {
	if err := ps.productCache.DeleteProduct(ctx, id); err != nil {
		ps.lg.Errorf("delete product cache error: %s", err.Error())
	}
}
