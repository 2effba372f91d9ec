package dto

import (
	"time"

	"github.com/sesi/membership/internal/app/models"
)

// SubmitApplicationRequest is the text part of the multipart intake form.
// Files are read separately per models.DocumentSlots.
type SubmitApplicationRequest struct {
	RegionMembership    string  `form:"region_membership" binding:"required"`
	MembershipType      string  `form:"membership_type" binding:"required"`
	Title               string  `form:"title" binding:"required"`
	FirstName           string  `form:"first_name" binding:"required"`
	MiddleName          *string `form:"middle_name"`
	LastName            string  `form:"last_name" binding:"required"`
	Mobile              string  `form:"mobile" binding:"required,mobile"`
	Email               string  `form:"email" binding:"required,email"`
	Gender              string  `form:"gender" binding:"required"`
	MedicalCouncilRegNo string  `form:"medical_council_reg_no" binding:"required"`
	Qualification       string  `form:"qualification" binding:"required"`
	CurrentAppointments *string `form:"current_appointments"`
	SpecialisedPractice *string `form:"specialised_practice"`
	YearsExperience     int     `form:"years_experience" binding:"min=0,max=80"`
	ProposalName1       string  `form:"proposal_name_1" binding:"required"`
	ProposalName2       string  `form:"proposal_name_2" binding:"required"`

	CommAddress    string `form:"comm_address" binding:"required"`
	CommStateID    string `form:"comm_state_id" binding:"required"`
	CommDistrictID string `form:"comm_district_id" binding:"required"`
	CommPincode    string `form:"comm_pincode" binding:"required,pincode"`

	WorkAddress    string  `form:"work_address" binding:"required"`
	WorkStateID    string  `form:"work_state_id" binding:"required"`
	WorkDistrictID string  `form:"work_district_id" binding:"required"`
	WorkPincode    string  `form:"work_pincode" binding:"required,pincode"`
	WorkHospital   *string `form:"work_hospital"`
}

// SubmitApplicationResponse is returned after a successful intake
type SubmitApplicationResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ApplicationID string `json:"application_id"`
	Email         string `json:"email"`
}

// PublicApplicationView is the only projection an applicant can look up
type PublicApplicationView struct {
	ID          string                   `json:"id"`
	FullName    string                   `json:"full_name"`
	Email       string                   `json:"email"`
	Status      models.ApplicationStatus `json:"status"`
	SubmittedAt time.Time                `json:"submitted_at"`
}

// NewPublicApplicationView projects an application for the public lookup
func NewPublicApplicationView(a *models.MembershipApplication) PublicApplicationView {
	return PublicApplicationView{
		ID:          a.ID,
		FullName:    a.FullName,
		Email:       a.Email,
		Status:      a.Status,
		SubmittedAt: a.SubmittedAt,
	}
}

// UpdateStatusRequest is the optional JSON body of the status update.
// Query parameters take precedence when both are present.
type UpdateStatusRequest struct {
	Status     string  `json:"status" form:"status"`
	AdminNotes *string `json:"admin_notes" form:"admin_notes"`
}

// UpdateStatusResponse is returned by the status update. The approval fields
// are only set when the update approved a previously unapproved application.
type UpdateStatusResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	MembershipNumber string `json:"membership_number,omitempty"`
	CertificatePath  string `json:"certificate_path,omitempty"`
	MemberID         string `json:"member_id,omitempty"`
}

// ApplicationDetail is the full admin view, flattened the way the admin panel reads it
type ApplicationDetail struct {
	ID                  string  `json:"id"`
	RegionMembership    string  `json:"region_membership"`
	MembershipType      string  `json:"membership_type"`
	Title               string  `json:"title"`
	FirstName           string  `json:"first_name"`
	MiddleName          *string `json:"middle_name"`
	LastName            string  `json:"last_name"`
	FullName            string  `json:"full_name"`
	Mobile              string  `json:"mobile"`
	Email               string  `json:"email"`
	Gender              string  `json:"gender"`
	MedicalCouncilRegNo string  `json:"medical_council_reg_no"`
	Qualification       string  `json:"qualification"`
	CurrentAppointments *string `json:"current_appointments"`
	SpecialisedPractice *string `json:"specialised_practice"`
	YearsExperience     int     `json:"years_experience"`
	ProposalName1       string  `json:"proposal_name_1"`
	ProposalName2       string  `json:"proposal_name_2"`

	CommAddress      string `json:"comm_address"`
	CommCountry      string `json:"comm_country"`
	CommStateID      string `json:"comm_state_id"`
	CommStateName    string `json:"comm_state_name"`
	CommDistrictID   string `json:"comm_district_id"`
	CommDistrictName string `json:"comm_district_name"`
	CommPincode      string `json:"comm_pincode"`

	WorkAddress      string  `json:"work_address"`
	WorkCountry      string  `json:"work_country"`
	WorkStateID      string  `json:"work_state_id"`
	WorkStateName    string  `json:"work_state_name"`
	WorkDistrictID   string  `json:"work_district_id"`
	WorkDistrictName string  `json:"work_district_name"`
	WorkPincode      string  `json:"work_pincode"`
	WorkHospital     *string `json:"work_hospital"`

	Documents        []models.Document        `json:"documents"`
	Status           models.ApplicationStatus `json:"status"`
	AdminNotes       *string                  `json:"admin_notes"`
	MembershipNumber *string                  `json:"membership_number"`
	CertificatePath  *string                  `json:"certificate_path"`
	SubmittedAt      time.Time                `json:"submitted_at"`
	ReviewedAt       *time.Time               `json:"reviewed_at"`
	ReviewedBy       *string                  `json:"reviewed_by"`
	ApprovedAt       *time.Time               `json:"approved_date"`
	SchemaVersion    int                      `json:"schema_version"`
}

// NewApplicationDetail flattens an application for the admin API
func NewApplicationDetail(a *models.MembershipApplication) ApplicationDetail {
	docs := a.Documents
	if docs == nil {
		docs = []models.Document{}
	}
	return ApplicationDetail{
		ID:                  a.ID,
		RegionMembership:    a.RegionMembership,
		MembershipType:      a.MembershipType,
		Title:               a.Title,
		FirstName:           a.FirstName,
		MiddleName:          a.MiddleName,
		LastName:            a.LastName,
		FullName:            a.FullName,
		Mobile:              a.Mobile,
		Email:               a.Email,
		Gender:              a.Gender,
		MedicalCouncilRegNo: a.MedicalCouncilRegNo,
		Qualification:       a.Qualification,
		CurrentAppointments: a.CurrentAppointments,
		SpecialisedPractice: a.SpecialisedPractice,
		YearsExperience:     a.YearsExperience,
		ProposalName1:       a.ProposalName1,
		ProposalName2:       a.ProposalName2,

		CommAddress:      a.CommAddress.Line,
		CommCountry:      a.CommAddress.Country,
		CommStateID:      a.CommAddress.StateID,
		CommStateName:    a.CommAddress.StateName,
		CommDistrictID:   a.CommAddress.DistrictID,
		CommDistrictName: a.CommAddress.DistrictName,
		CommPincode:      a.CommAddress.Pincode,

		WorkAddress:      a.WorkAddress.Line,
		WorkCountry:      a.WorkAddress.Country,
		WorkStateID:      a.WorkAddress.StateID,
		WorkStateName:    a.WorkAddress.StateName,
		WorkDistrictID:   a.WorkAddress.DistrictID,
		WorkDistrictName: a.WorkAddress.DistrictName,
		WorkPincode:      a.WorkAddress.Pincode,
		WorkHospital:     a.WorkHospital,

		Documents:        docs,
		Status:           a.Status,
		AdminNotes:       a.AdminNotes,
		MembershipNumber: a.MembershipNumber,
		CertificatePath:  a.CertificatePath,
		SubmittedAt:      a.SubmittedAt,
		ReviewedAt:       a.ReviewedAt,
		ReviewedBy:       a.ReviewedBy,
		ApprovedAt:       a.ApprovedAt,
		SchemaVersion:    a.SchemaVersion,
	}
}

// NewApplicationDetails maps a slice
func NewApplicationDetails(apps []*models.MembershipApplication) []ApplicationDetail {
	out := make([]ApplicationDetail, 0, len(apps))
	for _, a := range apps {
		out = append(out, NewApplicationDetail(a))
	}
	return out
}
