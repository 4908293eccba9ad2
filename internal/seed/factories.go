package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"recipehub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a synthetic user with the given password.
func (f *Factory) CreateUser(password string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), f.rng.Intn(10000)),
		Email:    gofakeit.Email(),
		Password: string(hashed),
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildRecipe constructs a synthetic recipe for the user without
// persisting it. Useful for batching.
func (f *Factory) BuildRecipe(user *models.User, overrides ...func(*models.Recipe)) *models.Recipe {
	ingredients := make([]string, 0, 5)
	for i := 0; i < 3+f.rng.Intn(3); i++ {
		ingredients = append(ingredients, gofakeit.Fruit())
	}

	recipe := &models.Recipe{
		Title:       strings.TrimSuffix(gofakeit.Sentence(4), "."),
		Description: gofakeit.Sentence(10),
		Ingredients: strings.Join(ingredients, "\n"),
		Steps:       gofakeit.Paragraph(1, 3, 8, "\n"),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		AuthorID:    user.ID,
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.rng.Intn(90)
	hoursBack := f.rng.Intn(24)
	recipe.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(recipe)
	}
	return recipe
}

// CreateRecipe persists a synthetic recipe for the user.
func (f *Factory) CreateRecipe(user *models.User, overrides ...func(*models.Recipe)) (*models.Recipe, error) {
	recipe := f.BuildRecipe(user, overrides...)
	if err := f.db.Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// Populate seeds the given number of users with recipes each. Intended
// for richer local datasets than the fixed Demo preset.
func (f *Factory) Populate(users, recipesPerUser int) error {
	for i := 0; i < users; i++ {
		user, err := f.CreateUser("Password123!")
		if err != nil {
			return err
		}
		for j := 0; j < recipesPerUser; j++ {
			if _, err := f.CreateRecipe(user); err != nil {
				return err
			}
		}
	}
	return nil
}
