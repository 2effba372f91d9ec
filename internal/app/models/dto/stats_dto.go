package dto

// PublicStatistics is shown on the landing page
type PublicStatistics struct {
	TotalMembers      int64 `json:"total_members"`
	TotalEvents       int64 `json:"total_events"`
	UpcomingEvents    int64 `json:"upcoming_events"`
	TotalPublications int64 `json:"total_publications"`
}

// DashboardStats is the admin overview
type DashboardStats struct {
	TotalMembers         int64 `json:"total_members"`
	ActiveMembers        int64 `json:"active_members"`
	TotalEvents          int64 `json:"total_events"`
	UpcomingEvents       int64 `json:"upcoming_events"`
	TotalNews            int64 `json:"total_news"`
	TotalApplications    int64 `json:"total_applications"`
	PendingApplications  int64 `json:"pending_applications"`
	ApprovedApplications int64 `json:"approved_applications"`
	CommitteeMembers     int64 `json:"committee_members"`
	TotalAlbums          int64 `json:"total_albums"`
	TotalPublications    int64 `json:"total_publications"`
	NewContactMessages   int64 `json:"new_contact_messages"`
}
