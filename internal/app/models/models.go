package models

// SchemaVersion is stamped on every persisted application
const SchemaVersion = 1

// DefaultCountry is recorded for both application addresses
const DefaultCountry = "India"

// RoleType defines the back-office user role
type RoleType string

const (
	RoleAdmin  RoleType = "admin"
	RoleEditor RoleType = "editor"
)

// Valid reports whether r is a known role
func (r RoleType) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}
