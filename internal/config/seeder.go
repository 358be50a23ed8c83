package config

import (
	"log"

	"filmbox/internal/adapters/persistence/models"
	"filmbox/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("Admin seeder skipped: %v", err)
	}

	if err := s.seedFilms(); err != nil {
		log.Printf("Film seeder skipped: %v", err)
	}

	log.Println("Database seeding completed")
	return nil
}

// seedAdminUser seeds the default admin account.
// In production the password must be rotated after first login.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(getEnv("ADMIN_PASSWORD", "admin123456"))
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@filmbox.local",
		Password: hashedPassword,
		Role:     "admin",
		Balance:  0,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("Admin user created: %s", admin.Username)
	return nil
}

// seedFilms seeds a small starter catalog so a fresh install is browsable.
// Media keys are empty; admins attach video and cover through the film API.
func (s *Seeder) seedFilms() error {
	var count int64
	s.db.Model(&models.Film{}).Count(&count)
	if count > 0 {
		return nil
	}

	films := []models.Film{
		{
			Title:       "The Long Signal",
			Description: "A radio operator on a remote island intercepts a message that was never meant to arrive.",
			Director:    "Mara Ellison",
			ReleaseYear: 2019,
			Genres:      []string{"Drama", "Mystery"},
			Price:       120,
			Duration:    108,
		},
		{
			Title:       "Paper Bridges",
			Description: "Two estranged siblings rebuild their late father's workshop one weekend at a time.",
			Director:    "Tomas Reyes",
			ReleaseYear: 2021,
			Genres:      []string{"Drama"},
			Price:       90,
			Duration:    96,
		},
		{
			Title:       "Nightshift Orbit",
			Description: "The maintenance crew of an aging space station races a cascading systems failure.",
			Director:    "Ingrid Vale",
			ReleaseYear: 2023,
			Genres:      []string{"Sci-Fi", "Thriller"},
			Price:       150,
			Duration:    121,
		},
	}

	if err := s.db.Create(&films).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d films", len(films))
	return nil
}
