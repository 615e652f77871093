package authservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/finscore/internal/finscore/domain/models"
	"github.com/Leopold1975/finscore/internal/finscore/repository/userrepo"
	"github.com/Leopold1975/finscore/internal/pkg/config"
	"github.com/Leopold1975/finscore/internal/pkg/jwtauth"
	"github.com/Leopold1975/finscore/internal/pkg/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPhoneRequired      = errors.New("user must have a phone number")
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	ErrUnauthorized       = errors.New("invalid or expired token")
	ErrNotFound           = errors.New("user not found")
)

type superuserRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=17,phone"` //nolint:tagliatelle
	Password    string `json:"password"     validate:"required,min=5"`
}

type AuthService struct {
	userRepo Repository
	v        *validation.Validator
	cfg      config.Auth
}

type Repository interface {
	CreateUser(context.Context, models.User) (int64, error)
	GetUserByID(context.Context, int64) (models.User, error)
	GetUserByPhone(context.Context, string) (models.User, error)
	UpdateUser(context.Context, models.User) error
}

func New(userRepo Repository, v *validation.Validator, cfg config.Auth) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		v:        v,
		cfg:      cfg,
	}
}

// CreateUser registers an active regular user with its optional scores.
func (as *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (models.User, error) {
	if req.PhoneNumber == "" {
		return models.User{}, ErrPhoneRequired
	}

	if err := as.v.Validate(req); err != nil {
		return models.User{}, err //nolint:wrapcheck
	}

	u := models.User{
		PhoneNumber:   req.PhoneNumber,
		Name:          req.Name,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Age:           req.Age,
		Zipcode:       req.Zipcode,
		Income:        req.Income,
		Education:     req.Education,
		Employment:    req.Employment,
		ScoresInitial: toScore(req.ScoresInitial),
		ScoresFinal:   toScore(req.ScoresFinal),
		Active:        true,
	}

	return as.createUser(ctx, u, req.Password)
}

// CreateSuperuser registers a user with both staff and superuser flags set.
func (as *AuthService) CreateSuperuser(ctx context.Context, phone, password string) (models.User, error) {
	if phone == "" {
		return models.User{}, ErrPhoneRequired
	}

	if err := as.v.Validate(superuserRequest{PhoneNumber: phone, Password: password}); err != nil {
		return models.User{}, err //nolint:wrapcheck
	}

	u := models.User{
		PhoneNumber: phone,
		Active:      true,
		IsStaff:     true,
		IsSuperuser: true,
	}

	return as.createUser(ctx, u, password)
}

func (as *AuthService) createUser(ctx context.Context, u models.User, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("generate from password error: %w", err)
	}

	u.PasswordHash = string(hash)

	id, err := as.userRepo.CreateUser(ctx, u)
	if err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return models.User{}, validation.FieldError("phone_number", "user with this phone number already exists")
		}

		return models.User{}, fmt.Errorf("create user error: %w", err)
	}

	created, err := as.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	return created, nil
}

// CheckPassword reports whether password matches the stored hash of u.
func CheckPassword(u models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (as *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	if err := as.v.Validate(req); err != nil {
		return "", err //nolint:wrapcheck
	}

	u, err := as.userRepo.GetUserByPhone(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("get user error: %w", err)
	}

	if !u.Active || !CheckPassword(u, req.Password) {
		return "", ErrInvalidCredentials
	}

	token, err := jwtauth.GetToken(u, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}

// Authenticate resolves a token to the single active user it was issued for.
func (as *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	id, err := jwtauth.ValidateToken(token, as.cfg.Secret)
	if err != nil {
		return models.User{}, fmt.Errorf("validate token error: %w", errors.Join(ErrUnauthorized, err))
	}

	u, err := as.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return models.User{}, ErrUnauthorized
		}

		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	if !u.Active {
		return models.User{}, ErrUnauthorized
	}

	return u, nil
}

func (as *AuthService) GetUser(ctx context.Context, id int64) (models.User, error) {
	u, err := as.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return models.User{}, ErrNotFound
		}

		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	return u, nil
}

// UpdateUser applies req to the user. With partial set only supplied fields change;
// otherwise omitted optional attributes are cleared. Scores are never cleared, a
// supplied score replaces the content of its slot.
func (as *AuthService) UpdateUser(ctx context.Context, //nolint:cyclop
	id int64, req UpdateUserRequest, partial bool,
) (models.User, error) {
	if !partial {
		fields := make(map[string]string)

		if req.PhoneNumber == nil {
			fields["phone_number"] = "is required"
		}

		if req.Name == nil {
			fields["name"] = "is required"
		}

		if len(fields) != 0 {
			return models.User{}, &validation.Error{Fields: fields}
		}
	}

	if err := as.v.Validate(req); err != nil {
		return models.User{}, err //nolint:wrapcheck
	}

	u, err := as.GetUser(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if partial {
		mergePartial(&u, req)
	} else {
		u.PhoneNumber = *req.PhoneNumber
		u.Name = *req.Name
		u.Email = req.Email
		u.FirstName = req.FirstName
		u.LastName = req.LastName
		u.Age = req.Age
		u.Zipcode = req.Zipcode
		u.Income = req.Income
		u.Education = req.Education
		u.Employment = req.Employment
	}

	// loaded scores are left as they are unless replaced below.
	u.ScoresInitial, u.ScoresFinal = nil, nil

	if req.ScoresInitial != nil {
		u.ScoresInitial = toScore(req.ScoresInitial)
	}

	if req.ScoresFinal != nil {
		u.ScoresFinal = toScore(req.ScoresFinal)
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("generate from password error: %w", err)
		}

		u.PasswordHash = string(hash)
	}

	if err := as.userRepo.UpdateUser(ctx, u); err != nil {
		switch {
		case errors.Is(err, userrepo.ErrAlreadyExists):
			return models.User{}, validation.FieldError("phone_number", "user with this phone number already exists")
		case errors.Is(err, userrepo.ErrNotFound):
			return models.User{}, ErrNotFound
		default:
			return models.User{}, fmt.Errorf("update user error: %w", err)
		}
	}

	return as.GetUser(ctx, id)
}

func mergePartial(u *models.User, req UpdateUserRequest) { //nolint:cyclop
	if req.PhoneNumber != nil {
		u.PhoneNumber = *req.PhoneNumber
	}

	if req.Name != nil {
		u.Name = *req.Name
	}

	if req.Email != nil {
		u.Email = req.Email
	}

	if req.FirstName != nil {
		u.FirstName = req.FirstName
	}

	if req.LastName != nil {
		u.LastName = req.LastName
	}

	if req.Age != nil {
		u.Age = req.Age
	}

	if req.Zipcode != nil {
		u.Zipcode = req.Zipcode
	}

	if req.Income != nil {
		u.Income = req.Income
	}

	if req.Education != nil {
		u.Education = req.Education
	}

	if req.Employment != nil {
		u.Employment = req.Employment
	}
}

func toScore(in *ScoreInput) *models.Score {
	if in == nil {
		return nil
	}

	return &models.Score{ //nolint:exhaustruct
		Version:       in.Version,
		Overall:       in.Overall,
		Medical:       in.Medical,
		Income:        in.Income,
		Stuff:         in.Stuff,
		Liability:     in.Liability,
		Digital:       in.Digital,
		DescOverall:   in.DescOverall,
		DescMedical:   in.DescMedical,
		DescIncome:    in.DescIncome,
		DescStuff:     in.DescStuff,
		DescLiability: in.DescLiability,
		DescDigital:   in.DescDigital,
	}
}
