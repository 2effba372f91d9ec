package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sesi/membership/internal/pkg/apperrors"
)

func TestValidateUpload(t *testing.T) {
	t.Run("exe rejected regardless of size", func(t *testing.T) {
		err := ValidateUpload("mbbs_certificate", "setup.exe", 10)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
		assert.True(t, errors.Is(err, apperrors.ErrInvalidFile))
		assert.Contains(t, err.Error(), ".exe")
	})

	t.Run("six MiB pdf rejected", func(t *testing.T) {
		err := ValidateUpload("mbbs_certificate", "degree.pdf", 6<<20)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrFileTooLarge))
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	})

	t.Run("one KiB png accepted", func(t *testing.T) {
		assert.NoError(t, ValidateUpload("aadhar_card", "id.png", 1<<10))
	})

	t.Run("exactly five MiB accepted", func(t *testing.T) {
		assert.NoError(t, ValidateUpload("mbbs_certificate", "degree.PDF", MaxUploadSize))
	})

	t.Run("missing extension rejected", func(t *testing.T) {
		err := ValidateUpload("mbbs_certificate", "degree", 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "(none)")
	})

	t.Run("field is carried", func(t *testing.T) {
		err := ValidateUpload("orthopedic_certificate", "x.gif", 1)
		ce, ok := apperrors.AsCustom(err)
		require.True(t, ok)
		assert.Equal(t, "orthopedic_certificate", ce.Field)
	})
}

func TestValidateImageUpload(t *testing.T) {
	assert.NoError(t, ValidateImageUpload("images", "stage.JPG", 1<<10))

	err := ValidateImageUpload("images", "brochure.pdf", 1<<10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFile))
	assert.Contains(t, err.Error(), "not an image")

	err = ValidateImageUpload("images", "huge.png", 6<<20)
	assert.True(t, errors.Is(err, apperrors.ErrFileTooLarge))
}

func TestRegisterRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterRules(v))

	type form struct {
		Mobile  string `validate:"mobile"`
		Pincode string `validate:"pincode"`
	}

	assert.NoError(t, v.Struct(form{Mobile: "9876543210", Pincode: "560001"}))
	assert.NoError(t, v.Struct(form{Mobile: "+91 9876543210", Pincode: "110001"}))
	assert.Error(t, v.Struct(form{Mobile: "12345", Pincode: "560001"}))
	assert.Error(t, v.Struct(form{Mobile: "9876543210", Pincode: "060001"}))
}
