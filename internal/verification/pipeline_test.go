package verification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setu/internal/models"
)

type staticRecognizer struct {
	name string
	text string
	err  error
}

func (s staticRecognizer) Name() string { return s.name }
func (s staticRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	return s.text, s.err
}

type fakeUserStore struct {
	userID   uint
	status   models.VerificationStatus
	verified bool
	calls    int
	err      error
}

func (s *fakeUserStore) UpdateVerification(ctx context.Context, userID uint, status models.VerificationStatus, isVerified bool) error {
	s.calls++
	s.userID = userID
	s.status = status
	s.verified = isVerified
	return s.err
}

type staticOverlay struct {
	fields models.ExtractedFields
	err    error
}

func (o staticOverlay) Name() string { return "static" }
func (o staticOverlay) Extract(ctx context.Context, image []byte) (models.ExtractedFields, error) {
	return o.fields, o.err
}

func newTestPipeline(text string, store *fakeMasterStore, users *fakeUserStore) *Pipeline {
	return &Pipeline{
		OCR:    NewChain(staticRecognizer{name: "static", text: text}),
		Users:  users,
		Master: store,
		Corr:   DefaultCorrections(),
	}
}

func TestVerifyDocumentSucceeds(t *testing.T) {
	users := &fakeUserStore{}
	p := newTestPipeline(sampleIDCardText, &fakeMasterStore{record: studentRecord()}, users)

	res := p.VerifyDocument(context.Background(), 7, FromBuffer([]byte("img")), models.RoleStudent)

	assert.Equal(t, models.StatusVerified, res.Status)
	assert.True(t, res.IsVerified)
	assert.Equal(t, "Verified successfully", res.Reason)
	assert.NotEmpty(t, res.AttemptID)
	assert.Equal(t, "AOT/CSE/2023/081", res.Extracted.CollegeID)

	require.Equal(t, 1, users.calls)
	assert.Equal(t, uint(7), users.userID)
	assert.Equal(t, models.StatusVerified, users.status)
	assert.True(t, users.verified)
}

func TestVerifyDocumentAlumniCertificate(t *testing.T) {
	users := &fakeUserStore{}
	store := &fakeMasterStore{record: alumniRecord()}
	p := newTestPipeline(sampleCertText, store, users)

	res := p.VerifyDocument(context.Background(), 3, FromBuffer([]byte("img")), models.RoleAlumni)

	assert.Equal(t, models.StatusVerified, res.Status)
	assert.True(t, res.IsVerified)
	assert.Equal(t, "2025", res.Extracted.PassingYear)
	assert.Equal(t, 1, store.registrationCalls)
}

func TestVerifyDocumentFailsWhenImageUnresolvable(t *testing.T) {
	users := &fakeUserStore{}
	p := newTestPipeline(sampleIDCardText, &fakeMasterStore{}, users)

	res := p.VerifyDocument(context.Background(), 1, ImageSource{}, models.RoleStudent)

	assert.Equal(t, models.StatusFailed, res.Status)
	assert.False(t, res.IsVerified)
	assert.Equal(t, "OCR failed to read document", res.Reason)
	assert.Equal(t, models.StatusFailed, users.status)
}

func TestVerifyDocumentFailsWhenNoTextRecognized(t *testing.T) {
	users := &fakeUserStore{}
	p := newTestPipeline("   ", &fakeMasterStore{}, users)

	res := p.VerifyDocument(context.Background(), 1, FromBuffer([]byte("img")), models.RoleStudent)

	assert.Equal(t, models.StatusFailed, res.Status)
	assert.Equal(t, "OCR failed to read document", res.Reason)
}

func TestVerifyDocumentFailsOnMissingMandatoryFields(t *testing.T) {
	users := &fakeUserStore{}
	p := newTestPipeline("unreadable smudge with no labels", &fakeMasterStore{}, users)

	res := p.VerifyDocument(context.Background(), 1, FromBuffer([]byte("img")), models.RoleStudent)

	assert.Equal(t, models.StatusFailed, res.Status)
	assert.Equal(t, "Missing mandatory fields (Name or ID) in document", res.Reason)
}

func TestVerifyDocumentPendingOnStoreError(t *testing.T) {
	users := &fakeUserStore{}
	p := newTestPipeline(sampleIDCardText, &fakeMasterStore{err: errors.New("connection refused")}, users)

	res := p.VerifyDocument(context.Background(), 1, FromBuffer([]byte("img")), models.RoleStudent)

	// Infrastructure failure leaves the account reviewable, not failed.
	assert.Equal(t, models.StatusPending, res.Status)
	assert.False(t, res.IsVerified)
	assert.Equal(t, "Database matching error", res.Reason)
}

func TestVerifyDocumentPendingOnNonMatch(t *testing.T) {
	users := &fakeUserStore{}
	p := newTestPipeline(sampleIDCardText, &fakeMasterStore{err: ErrNoRecord}, users)

	res := p.VerifyDocument(context.Background(), 1, FromBuffer([]byte("img")), models.RoleStudent)

	assert.Equal(t, models.StatusPending, res.Status)
	assert.False(t, res.IsVerified)
	assert.Equal(t, "No record found matching your ID details. Please contact your college.", res.Reason)
}

func TestVerifyDocumentOverlayTakesPrecedence(t *testing.T) {
	users := &fakeUserStore{}
	store := &fakeMasterStore{record: studentRecord()}
	p := newTestPipeline(sampleIDCardText, store, users)
	p.Overlay = staticOverlay{fields: models.ExtractedFields{CollegeID: "AOT/CSE/2023/082"}}

	res := p.VerifyDocument(context.Background(), 1, FromBuffer([]byte("img")), models.RoleStudent)

	assert.Equal(t, "AOT/CSE/2023/082", res.Extracted.CollegeID)
	// Fields the overlay had no opinion on survive.
	assert.Equal(t, "Om Prakash Mishra", res.Extracted.FullName)
}

func TestVerifyDocumentOverlayFailureIsNonFatal(t *testing.T) {
	users := &fakeUserStore{}
	p := newTestPipeline(sampleIDCardText, &fakeMasterStore{record: studentRecord()}, users)
	p.Overlay = staticOverlay{err: errors.New("rate limited")}

	res := p.VerifyDocument(context.Background(), 1, FromBuffer([]byte("img")), models.RoleStudent)

	assert.Equal(t, models.StatusVerified, res.Status)
	assert.Equal(t, "AOT/CSE/2023/081", res.Extracted.CollegeID)
}

func TestVerifyDocumentPersistsEveryTerminalPath(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		store      *fakeMasterStore
		wantStatus models.VerificationStatus
	}{
		{"verified", sampleIDCardText, &fakeMasterStore{record: studentRecord()}, models.StatusVerified},
		{"pending", sampleIDCardText, &fakeMasterStore{err: ErrNoRecord}, models.StatusPending},
		{"failed", "", &fakeMasterStore{}, models.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUserStore{}
			p := newTestPipeline(tt.text, tt.store, users)

			res := p.VerifyDocument(context.Background(), 9, FromBuffer([]byte("img")), models.RoleStudent)

			require.Equal(t, 1, users.calls)
			assert.Equal(t, tt.wantStatus, users.status)
			assert.Equal(t, res.IsVerified, users.verified)
			assert.Equal(t, res.Status == models.StatusVerified, res.IsVerified)
		})
	}
}
