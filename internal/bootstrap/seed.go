package bootstrap

import (
	"log"

	"anoa.com/eventtech/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.AuditLog{},
		&entity.Event{},
		&entity.Registration{},
		&entity.CertificateLog{},
	)
}

// SeedAdminUser creates the development admin account when it is missing.
func SeedAdminUser(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&entity.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Username:     username,
		PasswordHash: string(hashedPasswordBytes),
		Role:         entity.RoleAdmin,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("✅ Admin user seeded successfully")
	log.Printf("   Username: %s", username)

	return nil
}

// SeedEvents inserts the given events when the table is empty.
func SeedEvents(db *gorm.DB, events []entity.Event) error {
	var count int64
	if err := db.Model(&entity.Event{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || len(events) == 0 {
		return nil
	}

	if err := db.Create(&events).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d events", len(events))
	return nil
}

// DefaultEvents are the tracks offered out of the box in development.
func DefaultEvents() []entity.Event {
	return []entity.Event{
		{EventName: "Coding Competition", Description: "Solve algorithmic problems against the clock."},
		{EventName: "Hackathon", Description: "Build a working prototype in 24 hours."},
		{EventName: "Tech Quiz", Description: "Test your knowledge of computing trivia."},
		{EventName: "Web Design", Description: "Design and ship a responsive website."},
	}
}
