package models

import (
	"strings"
	"time"
)

// ApplicationStatus is the review state of a membership application
type ApplicationStatus string

const (
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every valid status in lifecycle order
var ApplicationStatuses = []ApplicationStatus{StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected}

// ParseApplicationStatus returns the status for s or false
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	for _, st := range ApplicationStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// DocumentKind tags an uploaded application document
type DocumentKind string

const (
	DocMBBSCertificate              DocumentKind = "mbbs_certificate"
	DocOrthopedicCertificate        DocumentKind = "orthopedic_certificate"
	DocStateRegistrationCertificate DocumentKind = "state_registration_certificate"
	DocAadharCard                   DocumentKind = "aadhar_card"
	DocSpecialisationCertificate    DocumentKind = "specialisation_certificate"
)

// DocumentSlot ties a document kind to its multipart field
type DocumentSlot struct {
	Kind     DocumentKind
	Field    string
	Required bool
}

// DocumentSlots is the fixed set of intake uploads, in storage order
var DocumentSlots = []DocumentSlot{
	{Kind: DocMBBSCertificate, Field: "mbbs_certificate", Required: true},
	{Kind: DocOrthopedicCertificate, Field: "orthopedic_certificate", Required: true},
	{Kind: DocStateRegistrationCertificate, Field: "state_registration_certificate", Required: true},
	{Kind: DocAadharCard, Field: "aadhar", Required: false},
	{Kind: DocSpecialisationCertificate, Field: "specialisation_certificate", Required: false},
}

// RequiredDocumentFields lists the multipart fields an application must carry
func RequiredDocumentFields() []string {
	var out []string
	for _, slot := range DocumentSlots {
		if slot.Required {
			out = append(out, slot.Field)
		}
	}
	return out
}

// Document describes one stored upload
type Document struct {
	Kind         DocumentKind `json:"kind"`
	Path         string       `json:"path"`
	OriginalName string       `json:"original_name,omitempty"`
	Size         int64        `json:"size,omitempty"`
}

// Address is a postal address with its reference-data snapshot
type Address struct {
	Line         string `json:"address" db:"address"`
	Country      string `json:"country" db:"country"`
	StateID      string `json:"state_id" db:"state_id"`
	StateName    string `json:"state_name" db:"state_name"`
	DistrictID   string `json:"district_id" db:"district_id"`
	DistrictName string `json:"district_name" db:"district_name"`
	Pincode      string `json:"pincode" db:"pincode"`
}

// MembershipApplication is a membership request and its review state.
// Optional fields are pointers; nil means the applicant left them out.
type MembershipApplication struct {
	ID               string  `json:"id" db:"id"`
	RegionMembership string  `json:"region_membership" db:"region_membership"`
	MembershipType   string  `json:"membership_type" db:"membership_type"`
	Title            string  `json:"title" db:"title"`
	FirstName        string  `json:"first_name" db:"first_name"`
	MiddleName       *string `json:"middle_name" db:"middle_name"`
	LastName         string  `json:"last_name" db:"last_name"`
	FullName         string  `json:"full_name" db:"full_name"`
	Mobile           string  `json:"mobile" db:"mobile"`
	Email            string  `json:"email" db:"email"`
	Gender           string  `json:"gender" db:"gender"`

	MedicalCouncilRegNo string  `json:"medical_council_reg_no" db:"medical_council_reg_no"`
	Qualification       string  `json:"qualification" db:"qualification"`
	CurrentAppointments *string `json:"current_appointments" db:"current_appointments"`
	SpecialisedPractice *string `json:"specialised_practice" db:"specialised_practice"`
	YearsExperience     int     `json:"years_experience" db:"years_experience"`
	ProposalName1       string  `json:"proposal_name_1" db:"proposal_name_1"`
	ProposalName2       string  `json:"proposal_name_2" db:"proposal_name_2"`

	CommAddress  Address `json:"comm_address"`
	WorkAddress  Address `json:"work_address"`
	WorkHospital *string `json:"work_hospital" db:"work_hospital"`

	Documents []Document `json:"documents" db:"documents"`

	Status           ApplicationStatus `json:"status" db:"status"`
	AdminNotes       *string           `json:"admin_notes" db:"admin_notes"`
	MembershipNumber *string           `json:"membership_number" db:"membership_number"`
	CertificatePath  *string           `json:"certificate_path" db:"certificate_path"`
	SubmittedAt      time.Time         `json:"submitted_at" db:"submitted_at"`
	ReviewedAt       *time.Time        `json:"reviewed_at" db:"reviewed_at"`
	ReviewedBy       *string           `json:"reviewed_by" db:"reviewed_by"`
	ApprovedAt       *time.Time        `json:"approved_date" db:"approved_at"`
	SchemaVersion    int               `json:"schema_version" db:"schema_version"`
}

// BuildFullName joins title, first, optional middle and last name with single spaces
func BuildFullName(title, first string, middle *string, last string) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{title, first, deref(middle), last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// IsApproved reports whether the application has been approved
func (a *MembershipApplication) IsApproved() bool {
	return a.Status == StatusApproved
}

// HasDocument reports whether a document of kind k was stored
func (a *MembershipApplication) HasDocument(k DocumentKind) bool {
	for _, d := range a.Documents {
		if d.Kind == k {
			return true
		}
	}
	return false
}

// Review holds the fields stamped on every status update
type Review struct {
	Status     ApplicationStatus
	AdminNotes *string
	ReviewedAt time.Time
	ReviewedBy string
}

// Approval is the review plus the allocated membership number
type Approval struct {
	Review
	MembershipNumber string
	ApprovedAt       time.Time
}

// ApplicationFilter narrows admin listings
type ApplicationFilter struct {
	Status *ApplicationStatus
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
