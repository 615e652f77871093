package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/finscore/internal/finscore/domain/models"
	"github.com/Leopold1975/finscore/internal/finscore/repository/userrepo"
	"github.com/Leopold1975/finscore/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var userColumns = []string{
	"id", "phone_number", "password_hash", "email", "name", "first_name", "last_name", "age",
	"zipcode", "income", "education", "employment", "scores_initial_id", "scores_final_id",
	"date_joined", "is_active", "is_staff", "is_superuser",
}

var scoreColumns = []string{
	"version", "score_overall", "score_medical", "score_income", "score_stuff", "score_liability",
	"score_digital", "desc_overall", "desc_medical", "desc_income", "desc_stuff", "desc_liability",
	"desc_digital",
}

type UsersPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) UsersPostgresRepo {
	return UsersPostgresRepo{
		db: db,
	}
}

// CreateUser stores u together with its scores and returns the new user id.
func (ur UsersPostgresRepo) CreateUser(ctx context.Context, u models.User) (id int64, err error) { //nolint:nonamedreturns
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	if u.ScoresInitial != nil {
		sid, err := insertScore(ctx, tx, *u.ScoresInitial)
		if err != nil {
			return 0, fmt.Errorf("insert initial score error: %w", err)
		}

		u.ScoresInitialID = &sid
	}

	if u.ScoresFinal != nil {
		sid, err := insertScore(ctx, tx, *u.ScoresFinal)
		if err != nil {
			return 0, fmt.Errorf("insert final score error: %w", err)
		}

		u.ScoresFinalID = &sid
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("users").
		Columns("phone_number", "password_hash", "email", "name", "first_name", "last_name", "age",
			"zipcode", "income", "education", "employment", "scores_initial_id", "scores_final_id",
			"is_active", "is_staff", "is_superuser").
		Values(u.PhoneNumber, u.PasswordHash, u.Email, u.Name, u.FirstName, u.LastName, u.Age,
			u.Zipcode, nullDecimal(u.Income), u.Education, u.Employment, u.ScoresInitialID, u.ScoresFinalID,
			u.Active, u.IsStaff, u.IsSuperuser).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if pgtools.IsUniqueViolation(err) {
			return 0, userrepo.ErrAlreadyExists
		}

		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (ur UsersPostgresRepo) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	return ur.getUser(ctx, squirrel.Eq{"id": id})
}

func (ur UsersPostgresRepo) GetUserByPhone(ctx context.Context, phone string) (models.User, error) {
	return ur.getUser(ctx, squirrel.Eq{"phone_number": phone})
}

func (ur UsersPostgresRepo) getUser(ctx context.Context, where squirrel.Eq) (u models.User, err error) { //nolint:nonamedreturns
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(where).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	var income decimal.NullDecimal

	if err = tx.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.PhoneNumber, &u.PasswordHash, &u.Email, &u.Name, &u.FirstName, &u.LastName, &u.Age,
		&u.Zipcode, &income, &u.Education, &u.Employment, &u.ScoresInitialID, &u.ScoresFinalID,
		&u.DateJoined, &u.Active, &u.IsStaff, &u.IsSuperuser); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, userrepo.ErrNotFound
		}

		return models.User{}, fmt.Errorf("scan error: %w", err)
	}

	if income.Valid {
		u.Income = &income.Decimal
	}

	if u.ScoresInitialID != nil {
		if u.ScoresInitial, err = getScore(ctx, tx, *u.ScoresInitialID); err != nil {
			return models.User{}, fmt.Errorf("get initial score error: %w", err)
		}
	}

	if u.ScoresFinalID != nil {
		if u.ScoresFinal, err = getScore(ctx, tx, *u.ScoresFinalID); err != nil {
			return models.User{}, fmt.Errorf("get final score error: %w", err)
		}
	}

	return u, nil
}

// UpdateUser overwrites every profile column of u. Non-nil scores are written to the
// linked rows, or inserted and linked when the slot is empty.
func (ur UsersPostgresRepo) UpdateUser(ctx context.Context, u models.User) (err error) { //nolint:nonamedreturns
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update")
	}()

	if u.ScoresInitialID, err = upsertScore(ctx, tx, u.ScoresInitialID, u.ScoresInitial); err != nil {
		return fmt.Errorf("upsert initial score error: %w", err)
	}

	if u.ScoresFinalID, err = upsertScore(ctx, tx, u.ScoresFinalID, u.ScoresFinal); err != nil {
		return fmt.Errorf("upsert final score error: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("users").
		Set("phone_number", u.PhoneNumber).
		Set("password_hash", u.PasswordHash).
		Set("email", u.Email).
		Set("name", u.Name).
		Set("first_name", u.FirstName).
		Set("last_name", u.LastName).
		Set("age", u.Age).
		Set("zipcode", u.Zipcode).
		Set("income", nullDecimal(u.Income)).
		Set("education", u.Education).
		Set("employment", u.Employment).
		Set("scores_initial_id", u.ScoresInitialID).
		Set("scores_final_id", u.ScoresFinalID).
		Set("is_active", u.Active).
		Set("is_staff", u.IsStaff).
		Set("is_superuser", u.IsSuperuser).
		Where(squirrel.Eq{"id": u.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		if pgtools.IsUniqueViolation(err) {
			return userrepo.ErrAlreadyExists
		}

		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}

	return nil
}

func scoreValues(s models.Score) []interface{} {
	return []interface{}{
		s.Version, s.Overall, s.Medical, s.Income, s.Stuff, s.Liability, s.Digital,
		s.DescOverall, s.DescMedical, s.DescIncome, s.DescStuff, s.DescLiability, s.DescDigital,
	}
}

func insertScore(ctx context.Context, tx pgx.Tx, s models.Score) (int64, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("scores").
		Columns(scoreColumns...).
		Values(scoreValues(s)...).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func upsertScore(ctx context.Context, tx pgx.Tx, id *int64, s *models.Score) (*int64, error) {
	if s == nil {
		return id, nil
	}

	if id == nil {
		newID, err := insertScore(ctx, tx, *s)
		if err != nil {
			return nil, err
		}

		return &newID, nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	ub := psql.Update("scores").Where(squirrel.Eq{"id": *id})

	vals := scoreValues(*s)
	for i, col := range scoreColumns {
		ub = ub.Set(col, vals[i])
	}

	query, args, err := ub.ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("exec error: %w", err)
	}

	return id, nil
}

func getScore(ctx context.Context, tx pgx.Tx, id int64) (*models.Score, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select(append([]string{"id"}, scoreColumns...)...).
		From("scores").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	var s models.Score

	if err := tx.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.Version, &s.Overall, &s.Medical, &s.Income, &s.Stuff, &s.Liability, &s.Digital,
		&s.DescOverall, &s.DescMedical, &s.DescIncome, &s.DescStuff, &s.DescLiability, &s.DescDigital); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil //nolint:nilnil
		}

		return nil, fmt.Errorf("scan error: %w", err)
	}

	return &s, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{} //nolint:exhaustruct
	}

	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
