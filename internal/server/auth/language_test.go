package auth

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/idkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLanguages(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"duplicates collapse", []string{"en", "en"}, []string{"en"}},
		{"canonical case", []string{"EN", "th"}, []string{"en", "th"}},
		{"region kept", []string{"en-us", "en"}, []string{"en-US", "en"}},
		{"order preserved", []string{"th", "en", "th"}, []string{"th", "en"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeLanguages(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeLanguages_Invalid(t *testing.T) {
	_, err := NormalizeLanguages([]string{"en", "not a language!"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
}
