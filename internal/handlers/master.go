package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"setu/internal/db"
	"setu/internal/models"
)

var masterHeaders = []string{"full_name", "roll_number", "college_id", "college_name", "department", "passing_year", "registration_number"}

// BulkUploadMaster handles CSV bulk upload of master records, the reference
// dataset the verification pipeline reads. Gated by the admin key; master
// data is administered out of band, never by end users.
// POST /api/v1/master/bulk-upload?table=students|alumni
func BulkUploadMaster(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if Cfg.AdminAPIKey == "" || r.Header.Get("X-Admin-Key") != Cfg.AdminAPIKey {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	table := r.URL.Query().Get("table")
	if table != "students" && table != "alumni" {
		http.Error(w, "table must be 'students' or 'alumni'", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	file, header, err := formFile(r, "recordsCsv", "records", "csv", "file", "upload")
	if err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "recordsCsv file is required"})
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		http.Error(w, "unable to read CSV header", http.StatusBadRequest)
		return
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
	}
	if !equalStringSlices(headers, masterHeaders) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":    "Invalid CSV format. Please use the provided template.",
			"expected": masterHeaders,
			"got":      headers,
		})
		return
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "could not start transaction", http.StatusInternalServerError)
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	var count, duplicates int
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			tx.Rollback()
			http.Error(w, "failed to read CSV rows", http.StatusBadRequest)
			return
		}
		if len(rec) != len(masterHeaders) {
			tx.Rollback()
			http.Error(w, "row does not match header length", http.StatusBadRequest)
			return
		}

		fullName := strings.TrimSpace(rec[0])
		rollNumber := strings.TrimSpace(rec[1])
		collegeID := strings.TrimSpace(rec[2])
		collegeName := strings.TrimSpace(rec[3])
		department := strings.TrimSpace(rec[4])
		passingYearStr := strings.TrimSpace(rec[5])
		registrationNumber := strings.TrimSpace(rec[6])

		if fullName == "" || collegeName == "" || (rollNumber == "" && collegeID == "") {
			tx.Rollback()
			http.Error(w, "row missing full_name, college_name or an identifier", http.StatusBadRequest)
			return
		}

		passingYear := 0
		if passingYearStr != "" {
			y, err := strconv.Atoi(passingYearStr)
			if err != nil {
				tx.Rollback()
				http.Error(w, "invalid passing_year", http.StatusBadRequest)
				return
			}
			passingYear = y
		}

		if table == "students" {
			var dup int64
			if err := tx.Model(&models.StudentMaster{}).
				Where("roll_number = ? OR college_id = ?", rollNumber, collegeID).
				Count(&dup).Error; err != nil {
				tx.Rollback()
				http.Error(w, "database error during duplicate check", http.StatusInternalServerError)
				return
			}
			if dup > 0 {
				duplicates++
				continue
			}
			row := models.StudentMaster{
				FullName:    fullName,
				RollNumber:  rollNumber,
				CollegeID:   collegeID,
				CollegeName: collegeName,
				Department:  department,
			}
			if err := tx.Create(&row).Error; err != nil {
				tx.Rollback()
				http.Error(w, "failed to insert row", http.StatusInternalServerError)
				return
			}
		} else {
			if passingYear == 0 {
				tx.Rollback()
				http.Error(w, "alumni rows require passing_year", http.StatusBadRequest)
				return
			}
			var dup int64
			if err := tx.Model(&models.AlumniMaster{}).
				Where("roll_number = ? OR (registration_number <> '' AND registration_number = ?)", rollNumber, registrationNumber).
				Count(&dup).Error; err != nil {
				tx.Rollback()
				http.Error(w, "database error during duplicate check", http.StatusInternalServerError)
				return
			}
			if dup > 0 {
				duplicates++
				continue
			}
			row := models.AlumniMaster{
				FullName:           fullName,
				RollNumber:         rollNumber,
				CollegeID:          collegeID,
				CollegeName:        collegeName,
				Department:         department,
				PassingYear:        passingYear,
				RegistrationNumber: registrationNumber,
			}
			if err := tx.Create(&row).Error; err != nil {
				tx.Rollback()
				http.Error(w, "failed to insert row", http.StatusInternalServerError)
				return
			}
		}
		count++
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		http.Error(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"message":            fmt.Sprintf("Successfully imported %d records. Skipped %d duplicates.", count, duplicates),
		"inserted":           count,
		"duplicates_skipped": duplicates,
		"file":               header.Filename,
	})
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
