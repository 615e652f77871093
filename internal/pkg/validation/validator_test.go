package validation_test

import (
	"errors"
	"testing"

	"github.com/Leopold1975/finscore/internal/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type nested struct {
	Value *int `json:"value" validate:"omitempty,gte=0,lte=100"`
}

type sample struct {
	Phone   string           `json:"phone_number" validate:"required,phone"`
	Zipcode *string          `json:"zipcode"      validate:"omitnil,len=5,number"`
	Price   decimal.Decimal  `json:"price"        validate:"digits=5:2"`
	Income  *decimal.Decimal `json:"income"       validate:"omitempty,digits=10:2"`
	Level   *string          `json:"level"        validate:"omitempty,oneof='High school' College"`
	Nested  *nested          `json:"nested"`
}

func ptr[T any](v T) *T { return &v }

func valid() sample {
	return sample{
		Phone: "+14086432477",
		Price: decimal.RequireFromString("999.99"),
	}
}

func TestValidSample(t *testing.T) {
	v := validation.New()

	s := valid()
	s.Zipcode = ptr("12345")
	s.Income = ptr(decimal.RequireFromString("12345678.90"))
	s.Level = ptr("High school")
	s.Nested = &nested{Value: ptr(100)}

	require.NoError(t, v.Validate(s))
}

func TestPhone(t *testing.T) {
	v := validation.New()

	for _, phone := range []string{"", "123", "abc4086432477", "+1234567890123456789"} {
		s := valid()
		s.Phone = phone

		err := v.Validate(s)

		var verr *validation.Error
		require.True(t, errors.As(err, &verr), phone)
		require.Contains(t, verr.Fields, "phone_number")
		require.ErrorIs(t, err, validation.ErrValidation)
	}

	s := valid()
	s.Phone = "4086432477"
	require.NoError(t, v.Validate(s))
}

func TestDigits(t *testing.T) {
	v := validation.New()

	tests := []struct {
		price string
		ok    bool
	}{
		{"0", true},
		{"5.5", true},
		{"-999.99", true},
		{"1000", false},
		{"1.234", false},
	}

	for _, tc := range tests {
		s := valid()
		s.Price = decimal.RequireFromString(tc.price)

		err := v.Validate(s)
		if tc.ok {
			require.NoError(t, err, tc.price)
		} else {
			require.Error(t, err, tc.price)
		}
	}
}

func TestNestedFieldPath(t *testing.T) {
	v := validation.New()

	s := valid()
	s.Nested = &nested{Value: ptr(101)}

	err := v.Validate(s)

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "must be less than or equal to 100", verr.Fields["nested.value"])
}

func TestZipcodeAndChoices(t *testing.T) {
	v := validation.New()

	s := valid()
	s.Zipcode = ptr("1234")
	s.Level = ptr("Kindergarten")

	err := v.Validate(s)

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "zipcode")
	require.Contains(t, verr.Fields, "level")

	for _, zip := range []string{"-1234", "+1234", "1.234", "1234a"} {
		s := valid()
		s.Zipcode = ptr(zip)

		err := v.Validate(s)

		var verr *validation.Error
		require.ErrorAs(t, err, &verr, zip)
		require.Equal(t, "must contain only digits", verr.Fields["zipcode"], zip)
	}
}
