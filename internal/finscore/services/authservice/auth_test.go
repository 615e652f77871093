package authservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/Leopold1975/finscore/internal/finscore/domain/models"
	"github.com/Leopold1975/finscore/internal/finscore/repository/userrepo"
	"github.com/Leopold1975/finscore/internal/finscore/services/authservice"
	"github.com/Leopold1975/finscore/internal/pkg/config"
	"github.com/Leopold1975/finscore/internal/pkg/validation"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	users  map[int64]models.User
	scores map[int64]models.Score
	nextID int64
}

func newMemUsers() *memUsers {
	return &memUsers{
		users:  make(map[int64]models.User),
		scores: make(map[int64]models.Score),
	}
}

func (m *memUsers) id() int64 {
	m.nextID++

	return m.nextID
}

func (m *memUsers) saveScore(id *int64, s *models.Score) *int64 {
	if s == nil {
		return id
	}

	if id == nil {
		newID := m.id()
		id = &newID
	}

	sc := *s
	sc.ID = *id
	m.scores[*id] = sc

	return id
}

func (m *memUsers) phoneTaken(phone string, except int64) bool {
	for _, u := range m.users {
		if u.PhoneNumber == phone && u.ID != except {
			return true
		}
	}

	return false
}

func (m *memUsers) CreateUser(_ context.Context, u models.User) (int64, error) {
	if m.phoneTaken(u.PhoneNumber, 0) {
		return 0, userrepo.ErrAlreadyExists
	}

	u.ID = m.id()
	u.ScoresInitialID = m.saveScore(nil, u.ScoresInitial)
	u.ScoresFinalID = m.saveScore(nil, u.ScoresFinal)
	u.ScoresInitial, u.ScoresFinal = nil, nil
	u.DateJoined = time.Now()
	m.users[u.ID] = u

	return u.ID, nil
}

func (m *memUsers) load(u models.User) models.User {
	if u.ScoresInitialID != nil {
		s := m.scores[*u.ScoresInitialID]
		u.ScoresInitial = &s
	}

	if u.ScoresFinalID != nil {
		s := m.scores[*u.ScoresFinalID]
		u.ScoresFinal = &s
	}

	return u
}

func (m *memUsers) GetUserByID(_ context.Context, id int64) (models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return models.User{}, userrepo.ErrNotFound
	}

	return m.load(u), nil
}

func (m *memUsers) GetUserByPhone(_ context.Context, phone string) (models.User, error) {
	for _, u := range m.users {
		if u.PhoneNumber == phone {
			return m.load(u), nil
		}
	}

	return models.User{}, userrepo.ErrNotFound
}

func (m *memUsers) UpdateUser(_ context.Context, u models.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return userrepo.ErrNotFound
	}

	if m.phoneTaken(u.PhoneNumber, u.ID) {
		return userrepo.ErrAlreadyExists
	}

	u.ScoresInitialID = m.saveScore(u.ScoresInitialID, u.ScoresInitial)
	u.ScoresFinalID = m.saveScore(u.ScoresFinalID, u.ScoresFinal)
	u.ScoresInitial, u.ScoresFinal = nil, nil
	m.users[u.ID] = u

	return nil
}

func ptr[T any](v T) *T { return &v }

func newService(repo *memUsers) *authservice.AuthService {
	return authservice.New(repo, validation.New(), config.Auth{TTL: time.Hour, Secret: "secret"})
}

func registration() authservice.CreateUserRequest {
	return authservice.CreateUserRequest{
		PhoneNumber: "4086432477",
		Password:    "Testpass123",
		Name:        "Test User",
	}
}

func TestCreateUserWithPhoneNumber(t *testing.T) {
	as := newService(newMemUsers())

	u, err := as.CreateUser(context.Background(), registration())
	require.NoError(t, err)
	require.Equal(t, "4086432477", u.PhoneNumber)
	require.NotEqual(t, "Testpass123", u.PasswordHash)
	require.True(t, authservice.CheckPassword(u, "Testpass123"))
	require.False(t, authservice.CheckPassword(u, "wrong"))
	require.True(t, u.Active)
	require.False(t, u.IsStaff)
}

func TestCreateUserWithoutPhoneFails(t *testing.T) {
	as := newService(newMemUsers())

	req := registration()
	req.PhoneNumber = ""

	_, err := as.CreateUser(context.Background(), req)
	require.ErrorIs(t, err, authservice.ErrPhoneRequired)

	_, err = as.CreateSuperuser(context.Background(), "", "test123")
	require.ErrorIs(t, err, authservice.ErrPhoneRequired)
}

func TestCreateSuperuser(t *testing.T) {
	as := newService(newMemUsers())

	u, err := as.CreateSuperuser(context.Background(), "4086432477", "test123")
	require.NoError(t, err)
	require.True(t, u.IsSuperuser)
	require.True(t, u.IsStaff)
}

func TestCreateUserDuplicatePhone(t *testing.T) {
	as := newService(newMemUsers())

	_, err := as.CreateUser(context.Background(), registration())
	require.NoError(t, err)

	_, err = as.CreateUser(context.Background(), registration())

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "phone_number")
}

func TestCreateUserValidation(t *testing.T) {
	as := newService(newMemUsers())

	tests := []struct {
		name  string
		field string
		edit  func(*authservice.CreateUserRequest)
	}{
		{"malformed phone", "phone_number", func(r *authservice.CreateUserRequest) { r.PhoneNumber = "12ab" }},
		{"short password", "password", func(r *authservice.CreateUserRequest) { r.Password = "1234" }},
		{"too young", "age", func(r *authservice.CreateUserRequest) { r.Age = ptr(17) }},
		{"too old", "age", func(r *authservice.CreateUserRequest) { r.Age = ptr(151) }},
		{"zipcode", "zipcode", func(r *authservice.CreateUserRequest) { r.Zipcode = ptr("123456") }},
		{"signed zipcode", "zipcode", func(r *authservice.CreateUserRequest) { r.Zipcode = ptr("-1234") }},
		{"plus zipcode", "zipcode", func(r *authservice.CreateUserRequest) { r.Zipcode = ptr("+1234") }},
		{"decimal zipcode", "zipcode", func(r *authservice.CreateUserRequest) { r.Zipcode = ptr("1.234") }},
		{"education", "education", func(r *authservice.CreateUserRequest) { r.Education = ptr("School") }},
		{"score above range", "scores_initial.score_medical", func(r *authservice.CreateUserRequest) {
			r.ScoresInitial = &authservice.ScoreInput{Medical: ptr(101)}
		}},
		{"score below range", "scores_final.score_overall", func(r *authservice.CreateUserRequest) {
			r.ScoresFinal = &authservice.ScoreInput{Overall: ptr(-1)}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := registration()
			tc.edit(&req)

			_, err := as.CreateUser(context.Background(), req)

			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			require.Contains(t, verr.Fields, tc.field)
		})
	}
}

func TestCreateUserWithScores(t *testing.T) {
	as := newService(newMemUsers())

	req := registration()
	req.ScoresInitial = &authservice.ScoreInput{Version: ptr("0.1"), Overall: ptr(40), DescOverall: ptr("meh")}
	req.ScoresFinal = &authservice.ScoreInput{Overall: ptr(90)}

	u, err := as.CreateUser(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, u.ScoresInitial)
	require.Equal(t, 40, *u.ScoresInitial.Overall)
	require.Equal(t, "meh", *u.ScoresInitial.DescOverall)
	require.NotNil(t, u.ScoresFinal)
	require.Equal(t, "90", u.ScoresFinal.String())
}

func TestLoginAndAuthenticate(t *testing.T) {
	repo := newMemUsers()
	as := newService(repo)
	ctx := context.Background()

	u, err := as.CreateUser(ctx, registration())
	require.NoError(t, err)

	_, err = as.Login(ctx, authservice.LoginRequest{PhoneNumber: "4086432477", Password: "bad"})
	require.ErrorIs(t, err, authservice.ErrInvalidCredentials)

	_, err = as.Login(ctx, authservice.LoginRequest{PhoneNumber: "4086432478", Password: "Testpass123"})
	require.ErrorIs(t, err, authservice.ErrInvalidCredentials)

	token, err := as.Login(ctx, authservice.LoginRequest{PhoneNumber: "4086432477", Password: "Testpass123"})
	require.NoError(t, err)

	got, err := as.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = as.Authenticate(ctx, token+"x")
	require.ErrorIs(t, err, authservice.ErrUnauthorized)

	// deactivated users can neither authenticate nor log in
	deactivated := repo.users[u.ID]
	deactivated.Active = false
	repo.users[u.ID] = deactivated

	_, err = as.Authenticate(ctx, token)
	require.ErrorIs(t, err, authservice.ErrUnauthorized)

	_, err = as.Login(ctx, authservice.LoginRequest{PhoneNumber: "4086432477", Password: "Testpass123"})
	require.ErrorIs(t, err, authservice.ErrInvalidCredentials)
}

func TestPartialUpdate(t *testing.T) {
	as := newService(newMemUsers())
	ctx := context.Background()

	req := registration()
	req.Age = ptr(30)
	req.ScoresInitial = &authservice.ScoreInput{Overall: ptr(10)}

	u, err := as.CreateUser(ctx, req)
	require.NoError(t, err)

	initialID := *u.ScoresInitialID

	updated, err := as.UpdateUser(ctx, u.ID, authservice.UpdateUserRequest{
		Name:          ptr("Renamed"),
		ScoresInitial: &authservice.ScoreInput{Overall: ptr(55)},
		ScoresFinal:   &authservice.ScoreInput{Overall: ptr(80)},
	}, true)
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, 30, *updated.Age)
	require.Equal(t, u.PasswordHash, updated.PasswordHash)
	require.Equal(t, initialID, *updated.ScoresInitialID)
	require.Equal(t, 55, *updated.ScoresInitial.Overall)
	require.Equal(t, 80, *updated.ScoresFinal.Overall)
}

func TestUpdateRehashesPassword(t *testing.T) {
	as := newService(newMemUsers())
	ctx := context.Background()

	u, err := as.CreateUser(ctx, registration())
	require.NoError(t, err)

	updated, err := as.UpdateUser(ctx, u.ID, authservice.UpdateUserRequest{Password: ptr("newpass")}, true)
	require.NoError(t, err)
	require.NotEqual(t, "newpass", updated.PasswordHash)
	require.True(t, authservice.CheckPassword(updated, "newpass"))
	require.False(t, authservice.CheckPassword(updated, "Testpass123"))
}

func TestFullUpdate(t *testing.T) {
	as := newService(newMemUsers())
	ctx := context.Background()

	req := registration()
	req.Age = ptr(30)

	u, err := as.CreateUser(ctx, req)
	require.NoError(t, err)

	_, err = as.UpdateUser(ctx, u.ID, authservice.UpdateUserRequest{Name: ptr("No phone")}, false)

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "phone_number")

	updated, err := as.UpdateUser(ctx, u.ID, authservice.UpdateUserRequest{
		PhoneNumber: ptr("+14086432477"),
		Name:        ptr("Full"),
	}, false)
	require.NoError(t, err)
	require.Equal(t, "+14086432477", updated.PhoneNumber)
	require.Nil(t, updated.Age)
	require.True(t, authservice.CheckPassword(updated, "Testpass123"))
}
