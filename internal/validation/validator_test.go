package validation_test

import (
	"math"
	"testing"

	cserrors "github.com/paveg/chartseries/internal/errors"
	"github.com/paveg/chartseries/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockShape struct {
	ndim int
}

func (m mockShape) NDim() int { return m.ndim }

func TestShapeValidator(t *testing.T) {
	t.Run("Within limit", func(t *testing.T) {
		assert.NoError(t, validation.ValidateShape(mockShape{2}, 2, "SeriesList"))
	})

	t.Run("Too many dimensions", func(t *testing.T) {
		err := validation.ValidateShape(mockShape{3}, 2, "SeriesList")
		require.Error(t, err)
		assert.ErrorIs(t, err, cserrors.ErrUnsupportedShape)
	})

	t.Run("Nil provider", func(t *testing.T) {
		assert.NoError(t, validation.NewShapeValidator(nil, 2, "SeriesList").Validate())
	})
}

func TestSelectorValidator(t *testing.T) {
	tests := []struct {
		name    string
		scalar  bool
		ndim    int
		wantErr bool
	}{
		{"mapping on 2-D", false, 2, false},
		{"scalar on 1-D", true, 1, false},
		{"scalar on 2-D", true, 2, true},
		{"scalar on 0-D", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.NewSelectorValidator("column name", tt.scalar, tt.ndim, "NewArrayConverter").Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, cserrors.ErrInvalidConfiguration)
				assert.Contains(t, err.Error(), "non-mapping column name")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultsValidator(t *testing.T) {
	assert.NoError(t, validation.NewDefaultsValidator(-1, "op").Validate())
	assert.Error(t, validation.NewDefaultsValidator(math.NaN(), "op").Validate())
	assert.Error(t, validation.NewDefaultsValidator(math.Inf(-1), "op").Validate())
}

func TestCompoundValidator(t *testing.T) {
	err := validation.ValidateAll(
		validation.NewDefaultsValidator(0, "op"),
		validation.NewShapeValidator(mockShape{4}, 2, "op"),
		validation.NewDefaultsValidator(math.NaN(), "op"),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, cserrors.ErrUnsupportedShape)
}
