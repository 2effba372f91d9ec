package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestBuildFullName(t *testing.T) {
	assert.Equal(t, "Dr. Amit Rao", BuildFullName("Dr.", "Amit", nil, "Rao"))
	assert.Equal(t, "Dr. Amit Kumar Rao", BuildFullName("Dr.", "Amit", strPtr("Kumar"), "Rao"))
	assert.Equal(t, "Dr. Amit Rao", BuildFullName("Dr.", "Amit", strPtr("  "), "Rao"))
}

func TestParseApplicationStatus(t *testing.T) {
	for _, s := range ApplicationStatuses {
		got, ok := ParseApplicationStatus(string(s))
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := ParseApplicationStatus("archived")
	assert.False(t, ok)
	_, ok = ParseApplicationStatus("APPROVED")
	assert.False(t, ok)
}

func TestMemberFromApplication(t *testing.T) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	app := &MembershipApplication{
		ID:                  "app-1",
		FullName:            "Dr. Amit Rao",
		Email:               "amit@example.com",
		Qualification:       "MS Ortho",
		MembershipType:      "Life Member",
		MembershipNumber:    strPtr("SESI-2025-0001"),
		SpecialisedPractice: strPtr("Shoulder"),
		WorkHospital:        strPtr("AIIMS"),
		WorkAddress:         Address{StateName: "Delhi", DistrictName: "New Delhi"},
		YearsExperience:     12,
		MedicalCouncilRegNo: "DMC-1",
	}

	m := MemberFromApplication("m-1", app, "/uploads/certificates/x.pdf", now)

	assert.Equal(t, MemberActive, m.Status)
	assert.Equal(t, "app-1", *m.ApplicationID)
	assert.Equal(t, "SESI-2025-0001", *m.MembershipNumber)
	assert.Equal(t, "New Delhi", m.City)
	assert.Equal(t, "Delhi", m.State)
	assert.Equal(t, 12, *m.YearsExperience)
	assert.Equal(t, now, m.JoinedDate)
}

func TestDefaultPageSEO(t *testing.T) {
	seo := DefaultPageSEO("home")
	assert.Equal(t, "home", seo.PageName)
	assert.Equal(t, "Shoulder & Elbow Society of India", seo.Title)
}

func TestRequiredDocumentFields(t *testing.T) {
	assert.Equal(t, []string{"mbbs_certificate", "orthopedic_certificate", "state_registration_certificate"}, RequiredDocumentFields())
}
