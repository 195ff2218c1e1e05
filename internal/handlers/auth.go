package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"setu/internal/db"
	"setu/internal/middleware"
	"setu/internal/models"
	"setu/internal/verification"
	"setu/pkg"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// StudentSignup: POST /api/auth/student/signup
// multipart/form-data with profile fields and an "id_card" file. The
// uploaded document is verified synchronously; signup itself never fails
// because verification did.
func StudentSignup(w http.ResponseWriter, r *http.Request) {
	signup(w, r, models.RoleStudent, "id_card")
}

// AlumniSignup: POST /api/auth/alumni/signup
// Same shape with a "document" file (ID card or provisional certificate).
func AlumniSignup(w http.ResponseWriter, r *http.Request) {
	signup(w, r, models.RoleAlumni, "document")
}

func signup(w http.ResponseWriter, r *http.Request, role models.Role, fileField string) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"success": false, "message": "failed to parse form or file too large"})
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")
	department := strings.TrimSpace(r.FormValue("department"))
	college := strings.TrimSpace(r.FormValue("college"))
	if college == "" {
		college = "Academy of Technology"
	}

	if fullName == "" || email == "" || password == "" {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"success": false, "message": "full_name, email and password are required"})
		return
	}
	if !emailRe.MatchString(email) {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Please provide a valid email address."})
		return
	}
	if len(password) < 6 {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Password must be at least 6 characters long."})
		return
	}

	batchYear := 0
	if v := strings.TrimSpace(r.FormValue("graduation_year")); v != "" {
		y, err := strconv.Atoi(v)
		now := time.Now().Year()
		if err != nil || y < now-10 || y > now+10 {
			writeJSONResp(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Please provide a valid graduation year."})
			return
		}
		batchYear = y
	}

	var existing models.Users
	err := db.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"success": false, "message": "A user with this email already exists."})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "database error"})
		return
	}

	var imgBytes []byte
	var docName string
	if file, header, ferr := formFile(r, fileField, "certificate", "file", "upload", "image"); ferr == nil {
		defer file.Close()
		if b, rerr := io.ReadAll(file); rerr == nil && len(b) > 0 {
			imgBytes = b
			docName = header.Filename
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "failed to process password"})
		return
	}

	user := models.Users{
		FullName:        fullName,
		Email:           email,
		Password:        string(hash),
		Role:            role,
		College:         college,
		Department:      department,
		BatchYear:       batchYear,
		CurrentCompany:  strings.TrimSpace(r.FormValue("current_company")),
		CurrentPosition: strings.TrimSpace(r.FormValue("current_position")),
	}

	// Best-effort durable storage of the document; the verification pipeline
	// works off the buffer either way.
	if len(imgBytes) > 0 && Uploader.Configured() {
		if url, uerr := Uploader.Upload(r.Context(), imgBytes, docName); uerr == nil {
			user.VerificationDocument = url
		} else {
			fmt.Println("signup: document upload failed:", uerr)
		}
	}

	if err := db.DB.Create(&user).Error; err != nil {
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "failed to create account"})
		return
	}

	result := verification.Result{Status: models.StatusPending}
	if len(imgBytes) > 0 {
		result = Pipeline.VerifyDocument(r.Context(), user.ID, verification.FromBuffer(imgBytes), role)
		user.VerificationStatus = result.Status
		user.IsVerified = result.IsVerified
	}

	token, err := pkg.CreateToken(user.ID, string(role))
	if err != nil {
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "failed to create session token"})
		return
	}

	writeJSONResp(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Account created successfully!",
		"data": map[string]any{
			"user":         user,
			"verification": result,
			"token":        token,
		},
	})
}

// Login: POST /api/auth/login
func Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := readJSONBody(r, &body); err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid JSON body"})
		return
	}
	if body.Email == "" || body.Password == "" {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Email and password are required."})
		return
	}

	var user models.Users
	err := db.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(body.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeJSONResp(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid email or password."})
		return
	} else if err != nil {
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "database error"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)) != nil {
		writeJSONResp(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid email or password."})
		return
	}

	// A role, if sent, must match the account type.
	if body.Role != "" && !strings.EqualFold(body.Role, string(user.Role)) {
		writeJSONResp(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid email or password."})
		return
	}

	token, err := pkg.CreateToken(user.ID, string(user.Role))
	if err != nil {
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "failed to create session token"})
		return
	}

	writeJSONResp(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful!",
		"data": map[string]any{
			"user":  user,
			"token": token,
		},
	})
}

// Me: GET /api/v1/auth/me (protected) — current account and its
// verification state.
func Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(uint)
	if !ok || userID == 0 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var user models.Users
	if err := db.DB.First(&user, userID).Error; err != nil {
		writeJSONResp(w, http.StatusNotFound, map[string]any{"error": "user not found"})
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"user": user,
		"authStatus": map[string]any{
			"isAuthenticated": true,
			"accountType":     user.Role,
		},
	})
}
