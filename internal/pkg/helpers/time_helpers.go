package helpers

import "time"

// ApprovalDateLayout renders dates the way certificates and emails print them
const ApprovalDateLayout = "January 02, 2006"

// FormatApprovalDate formats t with ApprovalDateLayout
func FormatApprovalDate(t time.Time) string {
	return t.Format(ApprovalDateLayout)
}
