package services

import (
	"github.com/sesi/membership/internal/app/models"
)

// checkTransition is the review policy. Every status may move to every other
// one; tightening the graph only needs a change here.
func checkTransition(_, _ models.ApplicationStatus) error {
	return nil
}

// materializes reports whether moving from -> to is the one edge that
// allocates a number, issues a certificate and creates the member.
func materializes(from, to models.ApplicationStatus) bool {
	return to == models.StatusApproved && from != models.StatusApproved
}
