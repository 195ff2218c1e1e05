package verification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setu/internal/models"
)

type fakeMasterStore struct {
	record *models.MasterRecord
	err    error

	identifierCalls   int
	registrationCalls int
}

func (s *fakeMasterStore) FindByCollegeAndIdentifier(ctx context.Context, role models.Role, collegeName, rollNumber, collegeID string) (*models.MasterRecord, error) {
	s.identifierCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

func (s *fakeMasterStore) FindByCollegeAndRegistration(ctx context.Context, collegeName, registrationNumber string) (*models.MasterRecord, error) {
	s.registrationCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

func studentRecord() *models.MasterRecord {
	return &models.MasterRecord{
		Role:        models.RoleStudent,
		FullName:    "Om Prakash Mishra",
		CollegeID:   "AOT/CSE/2023/081",
		CollegeName: "Academy of Technology",
		Department:  "CSE",
	}
}

func alumniRecord() *models.MasterRecord {
	return &models.MasterRecord{
		Role:               models.RoleAlumni,
		FullName:           "ARATRIK BANDYOPADHYAY",
		RollNumber:         "16931121009",
		CollegeName:        "Academy of Technology",
		Department:         "CSE",
		PassingYear:        2025,
		RegistrationNumber: "211690100110192",
	}
}

func TestMatchRejectsMissingIdentity(t *testing.T) {
	store := &fakeMasterStore{}

	res, err := Match(context.Background(), store, models.ExtractedFields{
		FullName: "Om Prakash Mishra", RollNumber: "123",
	}, models.RoleStudent)
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Equal(t, "Missing College Name or valid ID (Roll/College ID) in document", res.Reason)

	res, err = Match(context.Background(), store, models.ExtractedFields{
		FullName: "Om Prakash Mishra", CollegeName: "Academy of Technology",
	}, models.RoleStudent)
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Equal(t, "Missing College Name or valid ID (Roll/College ID) in document", res.Reason)

	// Neither lookup runs for a rejected document.
	assert.Zero(t, store.identifierCalls)
	assert.Zero(t, store.registrationCalls)
}

func TestMatchStudentByCollegeID(t *testing.T) {
	store := &fakeMasterStore{record: studentRecord()}

	res, err := Match(context.Background(), store, models.ExtractedFields{
		FullName:    "Om Prakash Mishra",
		CollegeID:   "AOT/CSE/2023/081",
		CollegeName: "ACADEMY OF TECHNOLOGY",
	}, models.RoleStudent)
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, "Verified successfully", res.Reason)
	assert.Equal(t, 1, store.identifierCalls)
	assert.Zero(t, store.registrationCalls)
}

func TestMatchAlumniPrefersRegistration(t *testing.T) {
	store := &fakeMasterStore{record: alumniRecord()}

	res, err := Match(context.Background(), store, models.ExtractedFields{
		FullName:           "Aratrik Bandyopadhyay",
		RollNumber:         "16931121009",
		CollegeName:        "Academy of Technology",
		PassingYear:        "2025",
		RegistrationNumber: "211690100110192",
	}, models.RoleAlumni)
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, 1, store.registrationCalls)
	assert.Zero(t, store.identifierCalls)
}

func TestMatchAlumniWithoutRegistrationFallsBack(t *testing.T) {
	store := &fakeMasterStore{record: alumniRecord()}

	res, err := Match(context.Background(), store, models.ExtractedFields{
		FullName:    "Aratrik Bandyopadhyay",
		RollNumber:  "16931121009",
		CollegeName: "Academy of Technology",
		PassingYear: "2025",
	}, models.RoleAlumni)
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, 1, store.identifierCalls)
	assert.Zero(t, store.registrationCalls)
}

func TestMatchNameMismatchOverridesIDHit(t *testing.T) {
	store := &fakeMasterStore{record: studentRecord()}

	res, err := Match(context.Background(), store, models.ExtractedFields{
		FullName:    "Someone Else",
		CollegeID:   "AOT/CSE/2023/081",
		CollegeName: "Academy of Technology",
	}, models.RoleStudent)
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Equal(t, "Name mismatch. Document name does not match college records.", res.Reason)
}

func TestMatchAlumniPassingYearMismatch(t *testing.T) {
	store := &fakeMasterStore{record: alumniRecord()}

	res, err := Match(context.Background(), store, models.ExtractedFields{
		FullName:           "Aratrik Bandyopadhyay",
		CollegeName:        "Academy of Technology",
		RollNumber:         "16931121009",
		PassingYear:        "2024",
		RegistrationNumber: "211690100110192",
	}, models.RoleAlumni)
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Equal(t, "Passing Year mismatch.", res.Reason)
}

func TestMatchNoRecordIsNotAnError(t *testing.T) {
	store := &fakeMasterStore{err: ErrNoRecord}

	res, err := Match(context.Background(), store, models.ExtractedFields{
		FullName:    "Om Prakash Mishra",
		CollegeID:   "AOT/CSE/2023/999",
		CollegeName: "Academy of Technology",
	}, models.RoleStudent)
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Equal(t, "No record found matching your ID details. Please contact your college.", res.Reason)
}

func TestMatchSurfacesInfrastructureErrors(t *testing.T) {
	dbDown := errors.New("connection refused")
	store := &fakeMasterStore{err: dbDown}

	_, err := Match(context.Background(), store, models.ExtractedFields{
		FullName:    "Om Prakash Mishra",
		CollegeID:   "AOT/CSE/2023/081",
		CollegeName: "Academy of Technology",
	}, models.RoleStudent)
	assert.ErrorIs(t, err, dbDown)
}

func TestNameMatches(t *testing.T) {
	assert.True(t, nameMatches("OM PRAKASH MISHRA", "Om Prakash Mishra"))
	assert.True(t, nameMatches("ARATRIK BANDYOPADHYAY", "aratrik"))
	assert.False(t, nameMatches("OM PRAKASH MISHRA", "Someone Else"))
	assert.False(t, nameMatches("OM PRAKASH MISHRA", ""))
}
