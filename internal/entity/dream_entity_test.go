package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dream-journal-be/internal/pkg/apperror"
)

func TestValidateDreamText_Bounds(t *testing.T) {
	short := strings.Repeat("a", DreamTextMinLength-1)
	err := ValidateDreamText(short)
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)

	ok20 := strings.Repeat("a", DreamTextMinLength)
	assert.NoError(t, ValidateDreamText(ok20))

	long := strings.Repeat("a", DreamTextMaxLength+1)
	assert.Error(t, ValidateDreamText(long))
}

func TestValidateDreamText_CountsRunesNotBytes(t *testing.T) {
	// 20 Cyrillic characters are 40 bytes but still valid.
	text := strings.Repeat("с", DreamTextMinLength)
	assert.NoError(t, ValidateDreamText(text))
}

func TestValidateDreamText_TrimsBeforeCounting(t *testing.T) {
	padded := "   " + strings.Repeat("a", DreamTextMinLength-1) + "   "
	assert.Error(t, ValidateDreamText(padded))
}

func TestNormalizeDreamText(t *testing.T) {
	assert.Equal(t, "летел над городом", NormalizeDreamText("  летел над городом\n"))
}
