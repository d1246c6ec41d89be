package validation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/reel/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSection struct {
	Mode  string        `mapstructure:"mode" validate:"oneof=fast slow"`
	Every time.Duration `mapstructure:"every" validate:"gt=0"`
}

type testConfig struct {
	Section testSection `mapstructure:"section"`
	Width   int         `mapstructure:"width" validate:"min=10"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()
	err := v.Validate(testConfig{
		Section: testSection{Mode: "fast", Every: time.Second},
		Width:   12,
	})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		cfg       testConfig
		wantField string
		wantMsg   string
	}{
		{
			name:      "enum",
			cfg:       testConfig{Section: testSection{Mode: "medium", Every: time.Second}, Width: 12},
			wantField: "section.mode",
			wantMsg:   "must be one of: fast slow",
		},
		{
			name:      "zero duration",
			cfg:       testConfig{Section: testSection{Mode: "slow"}, Width: 12},
			wantField: "section.every",
			wantMsg:   "must be greater than 0",
		},
		{
			name:      "minimum",
			cfg:       testConfig{Section: testSection{Mode: "slow", Every: time.Second}, Width: 3},
			wantField: "width",
			wantMsg:   "must be at least 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.cfg)
			require.Error(t, err)

			var verr *validation.Error
			require.True(t, errors.As(err, &verr))
			require.Contains(t, verr.Fields, tt.wantField)
			assert.Contains(t, verr.Fields[tt.wantField], tt.wantMsg)
			assert.Contains(t, err.Error(), tt.wantField)
		})
	}
}

func TestValidator_ReportsEveryField(t *testing.T) {
	err := validation.New().Validate(testConfig{Section: testSection{Mode: "x"}})

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
}
