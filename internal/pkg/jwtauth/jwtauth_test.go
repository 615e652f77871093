package jwtauth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Leopold1975/finscore/internal/finscore/domain/models"
	"github.com/Leopold1975/finscore/internal/pkg/jwtauth"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	u := models.User{ID: 42, PhoneNumber: "4086432477"}

	token, err := jwtauth.GetToken(u, time.Minute, "secret")
	require.NoError(t, err)

	id, err := jwtauth.ValidateToken(token, "secret")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := jwtauth.GetToken(models.User{ID: 1}, time.Minute, "secret")
	require.NoError(t, err)

	_, err = jwtauth.ValidateToken(token, "other")
	require.True(t, errors.Is(err, jwtauth.ErrInvalidToken))
}

func TestTokenExpired(t *testing.T) {
	token, err := jwtauth.GetToken(models.User{ID: 1}, -time.Minute, "secret")
	require.NoError(t, err)

	_, err = jwtauth.ValidateToken(token, "secret")
	require.ErrorIs(t, err, jwtauth.ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	_, err := jwtauth.ValidateToken("not-a-token", "secret")
	require.ErrorIs(t, err, jwtauth.ErrInvalidToken)
}
