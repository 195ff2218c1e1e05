package verification

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"setu/internal/models"
)

// ErrNoRecord is returned by MasterStore lookups when no master row
// corroborates the extracted identifiers.
var ErrNoRecord = errors.New("no matching master record")

// MasterStore is the read-only reference dataset the pipeline corroborates
// extracted fields against. Records are seeded out of band.
type MasterStore interface {
	FindByCollegeAndIdentifier(ctx context.Context, role models.Role, collegeName, rollNumber, collegeID string) (*models.MasterRecord, error)
	FindByCollegeAndRegistration(ctx context.Context, collegeName, registrationNumber string) (*models.MasterRecord, error)
}

// MatchResult is the matcher verdict. A false Matched with a nil error is a
// legitimate non-match; infrastructure failures surface as errors instead.
type MatchResult struct {
	Matched bool   `json:"matched"`
	Reason  string `json:"reason"`
}

// Match corroborates extracted fields against the master dataset.
//
// Alumni holding a registration number match strictly on
// (college_name, registration_number); roll number and college ID are ignored
// in that branch. Everyone else matches on (college_name, roll OR college_id)
// with case-insensitive college comparison. An ID hit is still overridden by
// the secondary identity checks: name containment, and for alumni the
// passing year.
func Match(ctx context.Context, store MasterStore, f models.ExtractedFields, role models.Role) (MatchResult, error) {
	if f.CollegeName == "" || (f.RollNumber == "" && f.CollegeID == "") {
		return MatchResult{Matched: false, Reason: "Missing College Name or valid ID (Roll/College ID) in document"}, nil
	}

	var rec *models.MasterRecord
	var err error
	if role == models.RoleAlumni && f.RegistrationNumber != "" {
		rec, err = store.FindByCollegeAndRegistration(ctx, f.CollegeName, f.RegistrationNumber)
	} else {
		rec, err = store.FindByCollegeAndIdentifier(ctx, role, f.CollegeName, f.RollNumber, f.CollegeID)
	}
	if errors.Is(err, ErrNoRecord) {
		return MatchResult{Matched: false, Reason: "No record found matching your ID details. Please contact your college."}, nil
	}
	if err != nil {
		return MatchResult{}, err
	}

	// Identity check: the master name must contain the first token of the
	// extracted name. A correct roll number on someone else's card is not a
	// match.
	if !nameMatches(rec.FullName, f.FullName) {
		return MatchResult{Matched: false, Reason: "Name mismatch. Document name does not match college records."}, nil
	}

	if role == models.RoleAlumni {
		if strconv.Itoa(rec.PassingYear) != strings.TrimSpace(f.PassingYear) {
			return MatchResult{Matched: false, Reason: "Passing Year mismatch."}, nil
		}
	}

	return MatchResult{Matched: true, Reason: "Verified successfully"}, nil
}

func nameMatches(masterName, extractedName string) bool {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(extractedName)))
	if len(tokens) == 0 {
		return false
	}
	return strings.Contains(strings.ToLower(masterName), tokens[0])
}
