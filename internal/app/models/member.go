package models

import "time"

// MemberStatus is the lifecycle state of a directory entry
type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
)

// Member is a society member, usually materialized from an approved application
type Member struct {
	ID                  string       `json:"id" db:"id"`
	FullName            string       `json:"full_name" db:"full_name"`
	Email               string       `json:"email" db:"email"`
	Mobile              string       `json:"mobile" db:"mobile"`
	Qualification       string       `json:"qualification" db:"qualification"`
	Specialization      *string      `json:"specialization" db:"specialization"`
	Hospital            *string      `json:"hospital" db:"hospital"`
	City                string       `json:"city" db:"city"`
	State               string       `json:"state" db:"state"`
	MembershipType      string       `json:"membership_type" db:"membership_type"`
	MembershipNumber    *string      `json:"membership_number" db:"membership_number"`
	JoinedDate          time.Time    `json:"joined_date" db:"joined_date"`
	Status              MemberStatus `json:"status" db:"status"`
	CertificatePath     *string      `json:"certificate_path" db:"certificate_path"`
	ApplicationID       *string      `json:"application_id" db:"application_id"`
	YearsExperience     *int         `json:"years_experience" db:"years_experience"`
	MedicalCouncilRegNo *string      `json:"medical_council_reg_no" db:"medical_council_reg_no"`
	CreatedAt           time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at" db:"updated_at"`
}

// MemberFromApplication copies the applicant fields into a new active member
func MemberFromApplication(id string, app *MembershipApplication, certificatePath string, now time.Time) *Member {
	years := app.YearsExperience
	regNo := app.MedicalCouncilRegNo
	appID := app.ID
	return &Member{
		ID:                  id,
		FullName:            app.FullName,
		Email:               app.Email,
		Mobile:              app.Mobile,
		Qualification:       app.Qualification,
		Specialization:      app.SpecialisedPractice,
		Hospital:            app.WorkHospital,
		City:                app.WorkAddress.DistrictName,
		State:               app.WorkAddress.StateName,
		MembershipType:      app.MembershipType,
		MembershipNumber:    app.MembershipNumber,
		JoinedDate:          now,
		Status:              MemberActive,
		CertificatePath:     &certificatePath,
		ApplicationID:       &appID,
		YearsExperience:     &years,
		MedicalCouncilRegNo: &regNo,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// MemberFilter narrows directory listings
type MemberFilter struct {
	Status *MemberStatus
	State  string
	City   string
	// Search matches name, city, state, hospital and membership number
	Search string
	Offset uint64
	Limit  uint64
	// SortByName orders by full_name, otherwise by membership_number
	SortByName bool
}
