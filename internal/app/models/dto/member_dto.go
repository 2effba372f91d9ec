package dto

import (
	"time"

	"github.com/sesi/membership/internal/app/models"
)

// MemberRequest creates or replaces a directory entry from the admin panel
type MemberRequest struct {
	FullName            string     `json:"full_name" binding:"required"`
	Email               string     `json:"email" binding:"required,email"`
	Mobile              string     `json:"mobile" binding:"omitempty,mobile"`
	Qualification       string     `json:"qualification"`
	Specialization      *string    `json:"specialization"`
	Hospital            *string    `json:"hospital"`
	City                string     `json:"city"`
	State               string     `json:"state"`
	MembershipType      string     `json:"membership_type" binding:"required"`
	MembershipNumber    *string    `json:"membership_number"`
	JoinedDate          *time.Time `json:"joined_date"`
	Status              string     `json:"status" binding:"omitempty,oneof=active inactive"`
	YearsExperience     *int       `json:"years_experience" binding:"omitempty,min=0"`
	MedicalCouncilRegNo *string    `json:"medical_council_reg_no"`
}

// ToModel fills a member from the request, leaving identity and timestamps to the caller
func (r *MemberRequest) ToModel() *models.Member {
	status := models.MemberActive
	if r.Status != "" {
		status = models.MemberStatus(r.Status)
	}
	m := &models.Member{
		FullName:            r.FullName,
		Email:               r.Email,
		Mobile:              r.Mobile,
		Qualification:       r.Qualification,
		Specialization:      r.Specialization,
		Hospital:            r.Hospital,
		City:                r.City,
		State:               r.State,
		MembershipType:      r.MembershipType,
		MembershipNumber:    r.MembershipNumber,
		Status:              status,
		YearsExperience:     r.YearsExperience,
		MedicalCouncilRegNo: r.MedicalCouncilRegNo,
	}
	if r.JoinedDate != nil {
		m.JoinedDate = *r.JoinedDate
	}
	return m
}

// MemberListQuery is the public directory filter
type MemberListQuery struct {
	State  string `form:"state"`
	City   string `form:"city"`
	Search string `form:"search"`
}

// PublicMember hides contact details from the public directory
type PublicMember struct {
	ID               string  `json:"id"`
	FullName         string  `json:"full_name"`
	Qualification    string  `json:"qualification"`
	Specialization   *string `json:"specialization"`
	Hospital         *string `json:"hospital"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	MembershipType   string  `json:"membership_type"`
	MembershipNumber *string `json:"membership_number"`
	Status           string  `json:"status"`
}

// NewPublicMembers projects members for the public directory
func NewPublicMembers(members []*models.Member) []PublicMember {
	out := make([]PublicMember, 0, len(members))
	for _, m := range members {
		out = append(out, PublicMember{
			ID:               m.ID,
			FullName:         m.FullName,
			Qualification:    m.Qualification,
			Specialization:   m.Specialization,
			Hospital:         m.Hospital,
			City:             m.City,
			State:            m.State,
			MembershipType:   m.MembershipType,
			MembershipNumber: m.MembershipNumber,
			Status:           string(m.Status),
		})
	}
	return out
}
