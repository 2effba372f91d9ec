package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilIfEmpty(t *testing.T) {
	assert.Nil(t, NilIfEmpty("  "))
	assert.Equal(t, "x", *NilIfEmpty(" x "))
	assert.Equal(t, "", Deref(nil))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "dr-a-k-rao", Slugify("Dr. A. K. Rao"))
	assert.Equal(t, "prof-meera-shetty-2025", Slugify("  Prof. Meera   Shetty (2025) "))
	assert.Equal(t, "", Slugify("--"))
}

func TestNormalizePage(t *testing.T) {
	page, size := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)

	_, size = NormalizePage(2, MaxPageSize)
	assert.Equal(t, MaxPageSize, size)

	_, size = NormalizePage(2, 500)
	assert.Equal(t, DefaultPageSize, size)

	offset, limit := CalculateOffsetLimit(3, 10)
	assert.Equal(t, uint64(20), offset)
	assert.Equal(t, uint64(10), limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 20)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, int64(45), info.TotalItems)

	empty := NewPaginationInfo(0, 1, 20)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestFormatApprovalDate(t *testing.T) {
	d := time.Date(2025, time.March, 7, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "March 07, 2025", FormatApprovalDate(d))
}
