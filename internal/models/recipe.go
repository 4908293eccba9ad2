package models

import (
	"time"

	"gorm.io/gorm"
)

// Recipe represents a recipe record. AuthorID is set once at creation
// and never changes afterwards; only the author may mutate or delete
// the record.
type Recipe struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:200;not null;index" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Ingredients string         `gorm:"type:text;not null" json:"ingredients"`
	Steps       string         `gorm:"type:text;not null" json:"steps"`
	ImageURL    string         `json:"image_url"`
	AuthorID    uint           `gorm:"not null;index" json:"-"`
	Author      User           `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// RecipeResponse is the wire shape for a recipe with its author embedded.
type RecipeResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Ingredients string     `json:"ingredients"`
	Steps       string     `json:"steps"`
	ImageURL    string     `json:"image_url"`
	Author      PublicUser `json:"author"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Response converts the recipe into its wire shape. The Author
// association must be preloaded.
func (r *Recipe) Response() RecipeResponse {
	return RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		ImageURL:    r.ImageURL,
		Author:      r.Author.Public(),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// RecipeResponses converts a slice of recipes into wire shapes.
func RecipeResponses(recipes []*Recipe) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.Response())
	}
	return out
}
