package models

// Farm is a registered origin farm.
type Farm struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Owner       string `json:"owner"`
	ContactInfo string `json:"contactInfo,omitempty"`
	Description string `json:"description,omitempty"`
}
