package verification

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"setu/internal/models"
)

// UserStore is the account store the final verdict is written to.
type UserStore interface {
	UpdateVerification(ctx context.Context, userID uint, status models.VerificationStatus, isVerified bool) error
}

// GormMasterStore reads the two master tables through GORM and folds both
// row shapes into the tagged MasterRecord.
type GormMasterStore struct {
	DB *gorm.DB
}

func (s *GormMasterStore) FindByCollegeAndIdentifier(ctx context.Context, role models.Role, collegeName, rollNumber, collegeID string) (*models.MasterRecord, error) {
	// Empty identifiers must never match an empty column.
	if rollNumber == "" {
		rollNumber = "UNKNOWN_ROLL"
	}
	if collegeID == "" {
		collegeID = "UNKNOWN_COL_ID"
	}
	cond := "LOWER(college_name) = LOWER(?) AND (roll_number = ? OR college_id = ?)"

	if role == models.RoleAlumni {
		var m models.AlumniMaster
		if err := s.DB.WithContext(ctx).Where(cond, collegeName, rollNumber, collegeID).First(&m).Error; err != nil {
			return nil, translateErr(err)
		}
		rec := m.Record()
		return &rec, nil
	}

	var m models.StudentMaster
	if err := s.DB.WithContext(ctx).Where(cond, collegeName, rollNumber, collegeID).First(&m).Error; err != nil {
		return nil, translateErr(err)
	}
	rec := m.Record()
	return &rec, nil
}

func (s *GormMasterStore) FindByCollegeAndRegistration(ctx context.Context, collegeName, registrationNumber string) (*models.MasterRecord, error) {
	var m models.AlumniMaster
	err := s.DB.WithContext(ctx).
		Where("LOWER(college_name) = LOWER(?) AND registration_number = ?", collegeName, registrationNumber).
		First(&m).Error
	if err != nil {
		return nil, translateErr(err)
	}
	rec := m.Record()
	return &rec, nil
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoRecord
	}
	return err
}

// GormUserStore persists the verdict onto the user row.
type GormUserStore struct {
	DB *gorm.DB
}

func (s *GormUserStore) UpdateVerification(ctx context.Context, userID uint, status models.VerificationStatus, isVerified bool) error {
	return s.DB.WithContext(ctx).Model(&models.Users{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"verification_status": status,
			"is_verified":         isVerified,
		}).Error
}
