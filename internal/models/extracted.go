package models

import "strings"

// ExtractedFields holds the normalized fields read off an uploaded document
// for subsequent matching against the master tables. Absence of a field is an
// empty string, not an error.
type ExtractedFields struct {
	FullName           string `json:"full_name"`
	RollNumber         string `json:"roll_number"`
	CollegeID          string `json:"college_id"`
	CollegeName        string `json:"college_name"`
	Department         string `json:"department"`
	PassingYear        string `json:"passing_year"`
	RegistrationNumber string `json:"registration_number"`
}

// HasIdentifier reports whether any of the identifier fields carried a value.
func (f ExtractedFields) HasIdentifier() bool {
	return f.RollNumber != "" || f.CollegeID != "" || f.RegistrationNumber != ""
}

// Overlay copies every non-empty field of o onto f. The overlay source is
// treated as authoritative when it has an opinion but never blanks a field.
func (f *ExtractedFields) Overlay(o ExtractedFields) {
	if s := strings.TrimSpace(o.FullName); s != "" {
		f.FullName = s
	}
	if s := strings.TrimSpace(o.RollNumber); s != "" {
		f.RollNumber = s
	}
	if s := strings.TrimSpace(o.CollegeID); s != "" {
		f.CollegeID = s
	}
	if s := strings.TrimSpace(o.CollegeName); s != "" {
		f.CollegeName = s
	}
	if s := strings.TrimSpace(o.Department); s != "" {
		f.Department = s
	}
	if s := strings.TrimSpace(o.PassingYear); s != "" {
		f.PassingYear = s
	}
	if s := strings.TrimSpace(o.RegistrationNumber); s != "" {
		f.RegistrationNumber = s
	}
}
