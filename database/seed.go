package database

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/gradglobe/counsel-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedUniversities(); err != nil {
		return fmt.Errorf("failed to seed universities: %w", err)
	}

	if err := s.SeedCourses(); err != nil {
		return fmt.Errorf("failed to seed courses: %w", err)
	}

	if err := s.SeedCounselors(); err != nil {
		return fmt.Errorf("failed to seed counselors: %w", err)
	}

	if err := s.SeedTutorials(); err != nil {
		return fmt.Errorf("failed to seed tutorials: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser promotes the configured identity-provider subject to admin.
// The row itself is provisioned lazily on first login; seeding only makes
// sure the admin flag is set when ADMIN_USER_ID/ADMIN_EMAIL are configured.
func (s *Seeder) SeedAdminUser() error {
	adminID := os.Getenv("ADMIN_USER_ID")
	adminEmail := os.Getenv("ADMIN_EMAIL")

	if adminID == "" || adminEmail == "" {
		log.Println("⚠️  ADMIN_USER_ID and ADMIN_EMAIL environment variables not set, skipping admin user creation")
		return nil
	}

	var count int64
	if err := s.db.Model(&model.User{}).Where("id = ?", adminID).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		if err := s.db.Model(&model.User{}).Where("id = ?", adminID).Update("is_admin", true).Error; err != nil {
			return err
		}
		log.Printf("✅ Promoted existing user %s to admin\n", adminID)
		return nil
	}

	admin := &model.User{
		ID:        adminID,
		Email:     adminEmail,
		FirstName: "Platform",
		LastName:  "Admin",
		IsAdmin:   true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Created admin user: %s\n", admin.Email)
	return nil
}

// SeedUniversities creates sample universities
func (s *Seeder) SeedUniversities() error {
	// Check if universities already exist
	var count int64
	if err := s.db.Model(&model.University{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Universities already exist, skipping...")
		return nil
	}

	universities := []model.University{
		{
			Name:     "University of Toronto",
			City:     "Toronto",
			Country:  "Canada",
			ImageURL: "https://images.gradglobe.com/universities/toronto.jpg",
		},
		{
			Name:     "University of Melbourne",
			City:     "Melbourne",
			Country:  "Australia",
			ImageURL: "https://images.gradglobe.com/universities/melbourne.jpg",
		},
		{
			Name:     "University of Manchester",
			City:     "Manchester",
			Country:  "United Kingdom",
			ImageURL: "https://images.gradglobe.com/universities/manchester.jpg",
		},
		{
			Name:     "Technical University of Munich",
			City:     "Munich",
			Country:  "Germany",
			ImageURL: "https://images.gradglobe.com/universities/tum.jpg",
		},
		{
			Name:     "University of Auckland",
			City:     "Auckland",
			Country:  "New Zealand",
			ImageURL: "https://images.gradglobe.com/universities/auckland.jpg",
		},
	}

	if err := s.db.Create(&universities).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d universities\n", len(universities))
	return nil
}

// SeedCourses creates sample courses
func (s *Seeder) SeedCourses() error {
	// Check if courses already exist
	var count int64
	if err := s.db.Model(&model.Course{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Courses already exist, skipping...")
		return nil
	}

	// Get universities
	var universities []model.University
	if err := s.db.Order("id").Find(&universities).Error; err != nil {
		return err
	}

	if len(universities) == 0 {
		log.Println("⚠️  No universities found, skipping course seeding")
		return nil
	}

	scholarships := func(names ...string) datatypes.JSON {
		data, _ := json.Marshal(names)
		return datatypes.JSON(data)
	}

	courses := []model.Course{
		{
			UniversityID:  universities[0].ID,
			Name:          "Computer Science",
			Level:         "Master",
			Faculty:       "Engineering",
			DurationYears: 2,
			TuitionFee:    32500.00,
			IELTSOverall:  6.5,
			IELTSMinBand:  6.0,
			Scholarships:  scholarships("International Merit Award", "Graduate Entrance Scholarship"),
		},
		{
			UniversityID:  universities[0].ID,
			Name:          "Business Administration",
			Level:         "Bachelor",
			Faculty:       "Business",
			DurationYears: 4,
			TuitionFee:    45000.00,
			IELTSOverall:  6.5,
			IELTSMinBand:  6.0,
			Scholarships:  scholarships("Lester B. Pearson Scholarship"),
		},
		{
			UniversityID:  universities[1].ID,
			Name:          "Data Science",
			Level:         "Master",
			Faculty:       "Science",
			DurationYears: 2,
			TuitionFee:    38900.00,
			IELTSOverall:  7.0,
			IELTSMinBand:  6.5,
			Scholarships:  scholarships("Melbourne Graduate Scholarship"),
		},
		{
			UniversityID:  universities[2].ID,
			Name:          "International Business",
			Level:         "Bachelor",
			Faculty:       "Business",
			DurationYears: 3,
			TuitionFee:    21000.00,
			IELTSOverall:  6.0,
			IELTSMinBand:  5.5,
			Scholarships:  scholarships("Manchester Global Futures Scholarship"),
		},
		{
			UniversityID:  universities[3].ID,
			Name:          "Mechanical Engineering",
			Level:         "Master",
			Faculty:       "Engineering",
			DurationYears: 2,
			TuitionFee:    6000.00,
			IELTSOverall:  6.5,
			IELTSMinBand:  6.0,
		},
		{
			UniversityID:  universities[4].ID,
			Name:          "Public Health",
			Level:         "Master",
			Faculty:       "Medicine",
			DurationYears: 1,
			TuitionFee:    29500.00,
			IELTSOverall:  6.5,
			IELTSMinBand:  6.0,
			Scholarships:  scholarships("Auckland International Student Excellence Scholarship"),
		},
	}

	if err := s.db.Create(&courses).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d courses\n", len(courses))
	return nil
}

// SeedCounselors creates the counseling team
func (s *Seeder) SeedCounselors() error {
	var count int64
	if err := s.db.Model(&model.Counselor{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Counselors already exist, skipping...")
		return nil
	}

	counselors := []model.Counselor{
		{
			Name:      "Aisha Rahman",
			Email:     "aisha@gradglobe.com",
			Specialty: "UK & Ireland admissions",
			PhotoURL:  "https://images.gradglobe.com/counselors/aisha.jpg",
			IsActive:  true,
		},
		{
			Name:      "Daniel Osei",
			Email:     "daniel@gradglobe.com",
			Specialty: "Canada & visa guidance",
			PhotoURL:  "https://images.gradglobe.com/counselors/daniel.jpg",
			IsActive:  true,
		},
		{
			Name:      "Mei Lin",
			Email:     "mei@gradglobe.com",
			Specialty: "Australia & New Zealand",
			PhotoURL:  "https://images.gradglobe.com/counselors/mei.jpg",
			IsActive:  true,
		},
	}

	if err := s.db.Create(&counselors).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d counselors\n", len(counselors))
	return nil
}

// SeedTutorials creates guidance tutorials
func (s *Seeder) SeedTutorials() error {
	var count int64
	if err := s.db.Model(&model.Tutorial{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Tutorials already exist, skipping...")
		return nil
	}

	tutorials := []model.Tutorial{
		{
			Title:       "How to choose the right course",
			Description: "A walkthrough of matching your profile to universities and programs.",
			VideoURL:    "https://videos.gradglobe.com/tutorials/choosing-a-course.mp4",
			IsActive:    true,
		},
		{
			Title:       "Preparing for IELTS",
			Description: "Band score requirements and a study plan that works.",
			VideoURL:    "https://videos.gradglobe.com/tutorials/ielts-prep.mp4",
			IsActive:    true,
		},
		{
			Title:       "Student visa checklist",
			Description: "Documents and timelines for the most common destinations.",
			VideoURL:    "https://videos.gradglobe.com/tutorials/visa-checklist.mp4",
			IsActive:    true,
		},
	}

	if err := s.db.Create(&tutorials).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d tutorials\n", len(tutorials))
	return nil
}

// RunSeeds is a convenience entrypoint used by cmd/seed
func RunSeeds(db *gorm.DB) error {
	seeder := NewSeeder(db)
	return seeder.SeedAll()
}
