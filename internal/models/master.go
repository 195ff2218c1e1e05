package models

import "time"

// MasterRecord is the role-tagged view of a reference row from either master
// table. The matcher works only on this shape so student and alumni lookups
// share one code path.
type MasterRecord struct {
	Role               Role   `json:"role"`
	FullName           string `json:"full_name"`
	RollNumber         string `json:"roll_number"`
	CollegeID          string `json:"college_id"`
	CollegeName        string `json:"college_name"`
	Department         string `json:"department"`
	PassingYear        int    `json:"passing_year,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
}

// StudentMaster mirrors the college_students_master table. Rows are seeded
// and administered out of band; the pipeline only reads them.
type StudentMaster struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FullName    string    `gorm:"not null" json:"full_name"`
	RollNumber  string    `gorm:"size:50;uniqueIndex" json:"roll_number"`
	CollegeID   string    `gorm:"size:50;uniqueIndex" json:"college_id"`
	CollegeName string    `gorm:"not null" json:"college_name"`
	Department  string    `gorm:"size:100" json:"department"`
	CreatedAt   time.Time `json:"created_at"`
}

func (StudentMaster) TableName() string { return "college_students_master" }

func (m StudentMaster) Record() MasterRecord {
	return MasterRecord{
		Role:        RoleStudent,
		FullName:    m.FullName,
		RollNumber:  m.RollNumber,
		CollegeID:   m.CollegeID,
		CollegeName: m.CollegeName,
		Department:  m.Department,
	}
}

// AlumniMaster mirrors the college_alumni_master table. Registration number
// is the preferred alumni key when a certificate carries one.
type AlumniMaster struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	FullName           string    `gorm:"not null" json:"full_name"`
	RollNumber         string    `gorm:"size:50" json:"roll_number"`
	CollegeID          string    `gorm:"size:50" json:"college_id"`
	CollegeName        string    `gorm:"not null" json:"college_name"`
	Department         string    `gorm:"size:100" json:"department"`
	PassingYear        int       `gorm:"not null" json:"passing_year"`
	RegistrationNumber string    `gorm:"size:50" json:"registration_number"`
	Degree             string    `gorm:"size:100" json:"degree,omitempty"`
	UniversityName     string    `json:"university_name,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

func (AlumniMaster) TableName() string { return "college_alumni_master" }

func (m AlumniMaster) Record() MasterRecord {
	return MasterRecord{
		Role:               RoleAlumni,
		FullName:           m.FullName,
		RollNumber:         m.RollNumber,
		CollegeID:          m.CollegeID,
		CollegeName:        m.CollegeName,
		Department:         m.Department,
		PassingYear:        m.PassingYear,
		RegistrationNumber: m.RegistrationNumber,
	}
}
