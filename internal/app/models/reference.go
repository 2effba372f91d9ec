package models

// State is an Indian state or union territory
type State struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Code string `json:"code" db:"code"`
}

// District belongs to a State
type District struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	StateID string `json:"state_id" db:"state_id"`
}
