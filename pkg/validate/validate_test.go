package validate_test

import (
	"testing"

	"github.com/Astemirdum/library-catalog/pkg/validate"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name   string `json:"name" validate:"required,max=5"`
	Status string `json:"status" validate:"required,oneof=m o a r"`
	Hidden string `json:"-" validate:"max=1"`
}

func TestCustomValidator_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		in     item
		fields map[string]string
	}{
		{
			name: "ok",
			in:   item{Name: "abc", Status: "m"},
		},
		{
			name: "required",
			in:   item{Status: "o"},
			fields: map[string]string{
				"name": "this field is required",
			},
		},
		{
			name: "too long and bad choice",
			in:   item{Name: "abcdef", Status: "x"},
			fields: map[string]string{
				"name":   "ensure this value has at most 5 characters",
				"status": "select a valid choice: x is not one of the available choices",
			},
		},
	}
	v := validate.NewCustomValidator()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Validate(tt.in)
			if tt.fields == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, tt.fields, validate.Fields(err))
		})
	}
}

func TestFields_NotValidationError(t *testing.T) {
	require.Nil(t, validate.Fields(errors.New("boom")))
	require.Nil(t, validate.Fields(nil))
}
