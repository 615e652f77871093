package models_test

import (
	"testing"

	"github.com/Leopold1975/finscore/internal/finscore/domain/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUserNames(t *testing.T) {
	u := models.User{FirstName: ptr("Ada"), LastName: ptr("Lovelace")}
	require.Equal(t, "Ada Lovelace", u.FullName())
	require.Equal(t, "Ada", u.ShortName())

	u = models.User{LastName: ptr("Lovelace")}
	require.Equal(t, "Lovelace", u.FullName())
	require.Equal(t, "", u.ShortName())
}

func TestStringers(t *testing.T) {
	require.Equal(t, "Insurance", models.Tag{Name: "Insurance"}.String())
	require.Equal(t, "auto", models.Product{Title: "auto", Price: decimal.NewFromInt(20)}.String())
	require.Equal(t, "1", models.Score{Overall: ptr(1)}.String())
	require.Equal(t, "None", models.Score{}.String())
}
