package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasIdentifier(t *testing.T) {
	assert.False(t, ExtractedFields{FullName: "Om Prakash Mishra"}.HasIdentifier())
	assert.True(t, ExtractedFields{RollNumber: "16931121009"}.HasIdentifier())
	assert.True(t, ExtractedFields{CollegeID: "AOT/CSE/2023/081"}.HasIdentifier())
	assert.True(t, ExtractedFields{RegistrationNumber: "211690100110192"}.HasIdentifier())
}

func TestOverlayPrefersNonEmptyFields(t *testing.T) {
	f := ExtractedFields{
		FullName:    "Om Prakash Mishre",
		CollegeID:   "AOT/SE/2023/081",
		CollegeName: "Academy of Technology",
	}
	f.Overlay(ExtractedFields{
		FullName:  "Om Prakash Mishra",
		CollegeID: "AOT/CSE/2023/081",
		// Empty and whitespace-only values never blank a field.
		CollegeName: "   ",
		Department:  "CSE",
	})

	assert.Equal(t, "Om Prakash Mishra", f.FullName)
	assert.Equal(t, "AOT/CSE/2023/081", f.CollegeID)
	assert.Equal(t, "Academy of Technology", f.CollegeName)
	assert.Equal(t, "CSE", f.Department)
}
