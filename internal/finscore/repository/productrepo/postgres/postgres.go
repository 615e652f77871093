package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/finscore/internal/finscore/domain/models"
	repo "github.com/Leopold1975/finscore/internal/finscore/repository/productrepo"
	"github.com/Leopold1975/finscore/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductsPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) ProductsPostgresRepo {
	return ProductsPostgresRepo{
		db: db,
	}
}

func (pr ProductsPostgresRepo) ListTags(ctx context.Context, userID int64) (tags []models.Tag, err error) { //nolint:nonamedreturns
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list tags")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "name", "user_id").
		From("tags").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("name DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	return queryTags(ctx, tx, query, args)
}

func (pr ProductsPostgresRepo) CreateTag(ctx context.Context, t models.Tag) (id int64, err error) { //nolint:nonamedreturns
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create tag")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("tags").
		Columns("name", "user_id").
		Values(t.Name, t.UserID).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

// OwnedTagIDs returns the subset of ids that exist and belong to userID.
func (pr ProductsPostgresRepo) OwnedTagIDs(ctx context.Context, //nolint:nonamedreturns
	userID int64, ids []int64,
) (owned []int64, err error) {
	if len(ids) == 0 {
		return nil, nil
	}

	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "owned tags")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id").
		From("tags").
		Where(squirrel.Eq{"user_id": userID, "id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	owned, err = pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collect rows error: %w", err)
	}

	return owned, nil
}

func (pr ProductsPostgresRepo) ListProducts(ctx context.Context, //nolint:nonamedreturns
	req repo.ListProductsRequest,
) (products []models.Product, err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list products")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	sb := psql.Select("p.id", "p.user_id", "p.title", "p.price", "p.link",
		"COALESCE(array_agg(pt.tag_id ORDER BY pt.tag_id) FILTER (WHERE pt.tag_id IS NOT NULL), '{}')").
		From("products p").
		LeftJoin("product_tags pt ON pt.product_id = p.id").
		Where(squirrel.Eq{"p.user_id": req.UserID}).
		GroupBy("p.id").
		OrderBy("p.id DESC")

	// EXISTS keeps one row per product even when several requested tags match.
	if len(req.TagIDs) != 0 {
		sb = sb.Where("EXISTS (SELECT 1 FROM product_tags f WHERE f.product_id = p.id AND f.tag_id = ANY(?))",
			req.TagIDs)
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	products = make([]models.Product, 0, 10) //nolint:gomnd

	for rows.Next() {
		var p models.Product

		if err = rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Price, &p.Link, &p.Tags); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}

// GetProduct returns the product of userID with both tag ids and tag objects filled.
func (pr ProductsPostgresRepo) GetProduct(ctx context.Context, //nolint:nonamedreturns
	userID, id int64,
) (p models.Product, err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return models.Product{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get product")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "user_id", "title", "price", "link").
		From("products").
		Where(squirrel.Eq{"id": id, "user_id": userID}).ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&p.ID, &p.UserID, &p.Title, &p.Price, &p.Link); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, repo.ErrNotFound
		}

		return models.Product{}, fmt.Errorf("scan error: %w", err)
	}

	query, args, err = psql.Select("t.id", "t.name", "t.user_id").
		From("tags t").
		Join("product_tags pt ON pt.tag_id = t.id").
		Where(squirrel.Eq{"pt.product_id": id}).
		OrderBy("t.id ASC").ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("to sql error: %w", err)
	}

	if p.TagObjects, err = queryTags(ctx, tx, query, args); err != nil {
		return models.Product{}, err
	}

	p.Tags = make([]int64, 0, len(p.TagObjects))
	for _, t := range p.TagObjects {
		p.Tags = append(p.Tags, t.ID)
	}

	return p, nil
}

func (pr ProductsPostgresRepo) CreateProduct(ctx context.Context, //nolint:nonamedreturns
	p models.Product,
) (id int64, err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create product")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("products").
		Columns("user_id", "title", "price", "link").
		Values(p.UserID, p.Title, p.Price, p.Link).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	if err = setTags(ctx, tx, id, p.Tags); err != nil {
		return 0, err
	}

	return id, nil
}

// UpdateProduct overwrites title, price and link. The tag set is replaced only when
// replaceTags is true; an empty p.Tags then clears it.
func (pr ProductsPostgresRepo) UpdateProduct(ctx context.Context, //nolint:nonamedreturns
	p models.Product, replaceTags bool,
) (err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update product")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("products").
		Set("title", p.Title).
		Set("price", p.Price).
		Set("link", p.Link).
		Where(squirrel.Eq{"id": p.ID, "user_id": p.UserID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	if !replaceTags {
		return nil
	}

	query, args, err = psql.Delete("product_tags").
		Where(squirrel.Eq{"product_id": p.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	return setTags(ctx, tx, p.ID, p.Tags)
}

// DeleteProduct removes the product and its tag links; tags themselves stay.
func (pr ProductsPostgresRepo) DeleteProduct(ctx context.Context, userID, id int64) (err error) { //nolint:nonamedreturns
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete product")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("products").
		Where(squirrel.Eq{"id": id, "user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func setTags(ctx context.Context, tx pgx.Tx, productID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	ib := psql.Insert("product_tags").
		Columns("product_id", "tag_id").
		Suffix("ON CONFLICT DO NOTHING")

	for _, tagID := range tagIDs {
		ib = ib.Values(productID, tagID)
	}

	query, args, err := ib.ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		if pgtools.IsForeignKeyViolation(err) {
			return fmt.Errorf("set tags error: %w", repo.ErrTagNotFound)
		}

		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}

func queryTags(ctx context.Context, tx pgx.Tx, query string, args []interface{}) ([]models.Tag, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0, 10) //nolint:gomnd

	for rows.Next() {
		var t models.Tag

		if err := rows.Scan(&t.ID, &t.Name, &t.UserID); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		tags = append(tags, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return tags, nil
}
