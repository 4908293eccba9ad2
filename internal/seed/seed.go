// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"

	"recipehub/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoUsername = "demo"

// Demo seeds a demo user and five demo recipes. It is idempotent:
// recipes are matched by title and only created when missing.
func Demo(db *gorm.DB) error {
	user, err := ensureDemoUser(db)
	if err != nil {
		return err
	}

	created := 0
	for i := 1; i <= 5; i++ {
		title := fmt.Sprintf("Demo Recipe %d", i)

		var existing models.Recipe
		err := db.Where("title = ?", title).First(&existing).Error
		switch {
		case err == nil:
			continue
		case err != gorm.ErrRecordNotFound:
			return err
		}

		recipe := models.Recipe{
			Title:       title,
			Description: "A tasty demo recipe.",
			Ingredients: "Sugar\nSpice\nEverything Nice",
			Steps:       "Combine ingredients.\nCook well.\nServe hot.",
			AuthorID:    user.ID,
		}
		if err := db.Create(&recipe).Error; err != nil {
			return err
		}
		created++
	}

	log.Printf("Seed complete. Created %d recipes (user=%s).", created, demoUsername)
	return nil
}

func ensureDemoUser(db *gorm.DB) (*models.User, error) {
	var user models.User
	err := db.Where("username = ?", demoUsername).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("DemoPassword123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user = models.User{Username: demoUsername, Password: string(hashed)}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
