package certificate

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() Data {
	return Data{
		FullName:         "Dr. Amit Kumar Rao",
		Qualification:    "MBBS, MS (Ortho)",
		Hospital:         "Apollo Hospital, Chennai",
		MembershipType:   "Life Member",
		MembershipNumber: "SESI-2025-0001",
		ApprovalDate:     "March 07, 2025",
		IssuedAt:         time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC),
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "SESI_Certificate_SESI-2025-0001.pdf", FileName("SESI-2025-0001"))
}

func TestPDFRenderer_Render(t *testing.T) {
	r := NewPDFRenderer("https://sesi.co.in")

	out, err := r.Render(context.Background(), sampleData())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFRenderer_DeterministicForSameInput(t *testing.T) {
	r := NewPDFRenderer("https://sesi.co.in")

	a, err := r.Render(context.Background(), sampleData())
	require.NoError(t, err)
	b, err := r.Render(context.Background(), sampleData())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPDFRenderer_OptionalLinesAndUnicode(t *testing.T) {
	r := NewPDFRenderer("https://sesi.co.in")
	d := sampleData()
	d.Qualification = ""
	d.Hospital = ""
	d.FullName = "Dr. Anaïs Müller"

	out, err := r.Render(context.Background(), d)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestPDFRenderer_RejectsIncompleteData(t *testing.T) {
	r := NewPDFRenderer("https://sesi.co.in")

	_, err := r.Render(context.Background(), Data{FullName: "Dr. X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "membership number is required")
}
