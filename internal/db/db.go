package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"setu/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(databaseURL string) {
	dsn := resolveDSN(databaseURL)
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("connection to db failed:", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("Failed to get db from GORM: ", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	fmt.Println("(SUCCESS): connected to database successfully")

	if err = DB.AutoMigrate(&models.Users{}); err != nil {
		log.Fatal("AutoMigration failed for Users: ", err)
	}
	if err = DB.AutoMigrate(&models.StudentMaster{}); err != nil {
		log.Fatal("AutoMigration failed for StudentMaster: ", err)
	}
	if err = DB.AutoMigrate(&models.AlumniMaster{}); err != nil {
		log.Fatal("AutoMigration failed for AlumniMaster: ", err)
	}

	seedMasterData()
}

// resolveDSN prefers the explicit value, then common hosting-provider env
// vars, then local dev settings.
func resolveDSN(databaseURL string) string {
	if databaseURL != "" {
		return databaseURL
	}
	if v := os.Getenv("DB_URL"); v != "" {
		return v
	}
	host := envOr("PGHOST", "localhost")
	port := envOr("PGPORT", "5432")
	user := envOr("PGUSER", "postgres")
	pass := envOr("PGPASSWORD", "postgres")
	name := envOr("PGDATABASE", "setu")
	ssl := envOr("PGSSLMODE", "disable")
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, name, ssl)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// seedMasterData inserts the demo master rows so a fresh database can verify
// the sample documents. Inserts are idempotent.
func seedMasterData() {
	students := []models.StudentMaster{
		{FullName: "Rahul Kumar", RollNumber: "R12345", CollegeID: "AOT123", CollegeName: "ACADEMY OF TECHNOLOGY", Department: "CSE"},
		{FullName: "Priya Sharma", RollNumber: "R67890", CollegeID: "AOT124", CollegeName: "ACADEMY OF TECHNOLOGY", Department: "ECE"},
		{FullName: "Om Prakash Mishra", RollNumber: "999999", CollegeID: "AOT/CSE/2023/081", CollegeName: "ACADEMY OF TECHNOLOGY", Department: "CSE"},
	}
	for _, s := range students {
		if err := DB.Where("roll_number = ?", s.RollNumber).FirstOrCreate(&s).Error; err != nil {
			log.Println("seed: failed to insert student master row:", err)
		}
	}

	alumni := []models.AlumniMaster{
		{FullName: "Amit Verma", RollNumber: "A11223", CollegeID: "AID999", CollegeName: "Academy of Technology", Department: "Electronics", PassingYear: 2023},
		{FullName: "Sneha Gupta", RollNumber: "A44556", CollegeID: "AID888", CollegeName: "Academy of Technology", Department: "Computer Science", PassingYear: 2022},
		{
			FullName: "ARATRIK BANDYOPADHYAY", RollNumber: "16931121009",
			CollegeName: "Academy of Technology", Department: "Computer Science & Engineering",
			PassingYear: 2025, RegistrationNumber: "211690100110192",
			Degree: "Bachelor of Technology", UniversityName: "Maulana Abul Kalam Azad University of Technology, West Bengal",
		},
	}
	for _, a := range alumni {
		if err := DB.Where("roll_number = ?", a.RollNumber).FirstOrCreate(&a).Error; err != nil {
			log.Println("seed: failed to insert alumni master row:", err)
		}
	}
}
