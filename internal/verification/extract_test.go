package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"setu/internal/models"
)

const sampleCertText = `MAULANA ABUL KALAM AZAD UNIVERSITY OF TECHNOLOGY
PROVISIONAL CERTIFICATE
This is to certify that ARATRIK BANDYOPADHYAY (RolIN0: 16931121009 Reg No: 211690100110192 of 2021-25) ACADEMY OF TECHNOLOGY, has successfully completed the Bachelor of Technology in CSE degree in 2024-25.`

func TestExtractProvisionalCert(t *testing.T) {
	f := Extract(sampleCertText, models.RoleAlumni, DefaultCorrections())

	assert.Equal(t, "Aratrik Bandyopadhyay", f.FullName)
	assert.Equal(t, "16931121009", f.RollNumber)
	assert.Equal(t, "211690100110192", f.RegistrationNumber)
	assert.Equal(t, "Academy of Technology", f.CollegeName)
	assert.Equal(t, "CSE", f.Department)
	// "in 2024-25" is a program range; the passing year is its end.
	assert.Equal(t, "2025", f.PassingYear)
}

const sampleIDCardText = `ACADEMY OF TECHNOLOGY
Approved by AICTE
STUDENT IDENTITY CARD
Name: OM PRAKASH MISHRA
Dept: CSE
College ID
AOT/CSE/2023/081
Valid till 2027`

func TestExtractIDCard(t *testing.T) {
	f := Extract(sampleIDCardText, models.RoleStudent, DefaultCorrections())

	assert.Equal(t, "Om Prakash Mishra", f.FullName)
	assert.Equal(t, "AOT/CSE/2023/081", f.CollegeID)
	assert.Equal(t, "ACADEMY OF TECHNOLOGY", f.CollegeName)
	assert.Equal(t, "CSE", f.Department)
	assert.Equal(t, "", f.PassingYear)
}

func TestExtractIDCardMisreadPrefixAndBloodGroup(t *testing.T) {
	// No clean ORG/DEPT/YEAR/SEQ token anywhere: the label scan finds the
	// misread line, then cleanup strips the blood group and fixes the prefix.
	text := `ACADEMY OF TECHNOLOGY
Name: OM PRAKASH MISHRA
College ID
AOTICSE/2023/081 B+
Valid till 2027`

	f := Extract(text, models.RoleStudent, DefaultCorrections())
	assert.Equal(t, "AOT/CSE/2023/081", f.CollegeID)
}

func TestExtractIDCardPrintedNameHeuristic(t *testing.T) {
	text := `ACADEMY OF TECHNOLOGY
Approved by AICTE
ID CARD
OM PRAKASH MISHRA
Dept: CSE`

	f := Extract(text, models.RoleStudent, DefaultCorrections())
	assert.Equal(t, "Om Prakash Mishra", f.FullName)
}

func TestExtractIDCardAlumniPassingYear(t *testing.T) {
	text := `ACADEMY OF TECHNOLOGY
Name: ARATRIK BANDYOPADHYAY
Roll: 16931121009
Batch: 2025`

	f := Extract(text, models.RoleAlumni, DefaultCorrections())
	assert.Equal(t, "16931121009", f.RollNumber)
	assert.Equal(t, "2025", f.PassingYear)

	// Students never get a passing year off an ID card.
	f = Extract(text, models.RoleStudent, DefaultCorrections())
	assert.Equal(t, "", f.PassingYear)
}

func TestExtractStructuredJSONBypass(t *testing.T) {
	text := "```json\n" + `{
  "full_name": "Om Prakash Mishra",
  "roll_number": "",
  "college_id": "AOT/CSE/2023/081",
  "college_name": "Academy of Technology",
  "department": "CSE (Computer Science)",
  "passing_year": 2027,
  "registration_number": ""
}` + "\n```"

	f := Extract(text, models.RoleStudent, DefaultCorrections())
	assert.Equal(t, "Om Prakash Mishra", f.FullName)
	assert.Equal(t, "AOT/CSE/2023/081", f.CollegeID)
	assert.Equal(t, "Academy of Technology", f.CollegeName)
	assert.Equal(t, "CSE", f.Department)
	assert.Equal(t, "2027", f.PassingYear)
}

func TestExtractEmptyText(t *testing.T) {
	f := Extract("", models.RoleStudent, DefaultCorrections())
	assert.Equal(t, "", f.FullName)
	assert.False(t, f.HasIdentifier())
}

func TestCleanDepartment(t *testing.T) {
	corr := DefaultCorrections()
	assert.Equal(t, "CSE", cleanDepartment("CSE", corr))
	assert.Equal(t, "CSE", cleanDepartment("Department: CSE\nG.T. Road", corr))
	assert.Equal(t, "ECE", cleanDepartment("ECE Address: Aedconagar", corr))
	assert.Equal(t, "EEE", cleanDepartment("EEE", corr))
	assert.Equal(t, "EE", cleanDepartment("EE", corr))
}

func TestToTitleCase(t *testing.T) {
	assert.Equal(t, "Om Prakash Mishra", toTitleCase("OM PRAKASH MISHRA"))
	assert.Equal(t, "Aratrik Bandyopadhyay", toTitleCase("  aratrik   bandyopadhyay "))
	assert.Equal(t, "", toTitleCase(""))
}
