// Package service holds the business rules sitting between handlers and
// repositories.
package service

import (
	"context"

	"recipehub/internal/cache"
	"recipehub/internal/models"
	"recipehub/internal/observability"
	"recipehub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// RecipeService enforces the ownership rules for recipe mutations.
// Reads are universally allowed; create requires an authenticated
// actor and stamps that actor as the author; update and delete require
// the actor to be the author. The check is per object, not per action.
type RecipeService struct {
	recipeRepo repository.RecipeRepository
}

// NewRecipeService returns a new RecipeService.
func NewRecipeService(recipeRepo repository.RecipeRepository) *RecipeService {
	return &RecipeService{recipeRepo: recipeRepo}
}

// CanModify reports whether the actor may mutate or delete the recipe.
// An actor ID of zero means anonymous and is never allowed to write.
func CanModify(actorID uint, recipe *models.Recipe) bool {
	return actorID != 0 && recipe != nil && recipe.AuthorID == actorID
}

// RecipeInput carries the caller-supplied recipe fields. The author is
// never taken from input; it is derived from the authenticated actor.
// Fields are pointers so updates can tell an omitted field apart from
// an explicit empty string: omitted fields keep their stored value,
// while an explicit "" clears the optional fields.
type RecipeInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Ingredients *string `json:"ingredients"`
	Steps       *string `json:"steps"`
	ImageURL    *string `json:"image_url"`
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Create validates the input and persists a new recipe authored by the
// actor.
func (s *RecipeService) Create(ctx context.Context, actorID uint, in RecipeInput) (*models.Recipe, error) {
	span, ctx := observability.NewSpan(ctx, "recipe.create")
	defer span.End()

	if actorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	title := strVal(in.Title)
	if title == "" || strVal(in.Ingredients) == "" || strVal(in.Steps) == "" {
		return nil, models.NewValidationError("Title, ingredients, and steps are required")
	}
	if len(title) > 200 {
		return nil, models.NewValidationError("Title must not exceed 200 characters")
	}

	recipe := &models.Recipe{
		Title:       title,
		Description: strVal(in.Description),
		Ingredients: strVal(in.Ingredients),
		Steps:       strVal(in.Steps),
		ImageURL:    strVal(in.ImageURL),
		AuthorID:    actorID,
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		span.SetError(err)
		observability.RecipeMutations.WithLabelValues("create", "error").Inc()
		return nil, err
	}
	span.AddAttributes(attribute.Int("recipe.id", int(recipe.ID)))
	observability.RecipeMutations.WithLabelValues("create", "ok").Inc()

	// Reload with the author association for the response.
	return s.recipeRepo.GetByID(ctx, recipe.ID)
}

// Get returns a single recipe. Reads are public; anonymous lookups are
// served through the cache.
func (s *RecipeService) Get(ctx context.Context, id uint) (*models.RecipeResponse, error) {
	var resp models.RecipeResponse
	err := cache.Aside(ctx, cache.RecipeKey(id), &resp, cache.RecipeTTL, func() error {
		recipe, err := s.recipeRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		resp = recipe.Response()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns the scoped, ordered, paginated recipe set plus the total
// count of the scoped set.
func (s *RecipeService) List(ctx context.Context, filter repository.RecipeFilter, limit, offset int) ([]models.RecipeResponse, int64, error) {
	count, err := s.recipeRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	recipes, err := s.recipeRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return models.RecipeResponses(recipes), count, nil
}

// Update applies caller-supplied fields to an existing recipe. Only the
// author may update; the author and creation time never change.
func (s *RecipeService) Update(ctx context.Context, actorID, id uint, in RecipeInput) (*models.Recipe, error) {
	span, ctx := observability.NewSpan(ctx, "recipe.update")
	defer span.End()
	span.AddAttributes(attribute.Int("recipe.id", int(id)))

	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanModify(actorID, recipe) {
		observability.RecipeMutations.WithLabelValues("update", "forbidden").Inc()
		return nil, models.NewForbiddenError("You can only update your own recipes")
	}

	// Required fields may be omitted on partial updates but never
	// blanked; the optional description and image_url accept an
	// explicit empty string to clear them.
	if in.Title != nil {
		if *in.Title == "" {
			return nil, models.NewValidationError("Title must not be blank")
		}
		if len(*in.Title) > 200 {
			return nil, models.NewValidationError("Title must not exceed 200 characters")
		}
		recipe.Title = *in.Title
	}
	if in.Description != nil {
		recipe.Description = *in.Description
	}
	if in.Ingredients != nil {
		if *in.Ingredients == "" {
			return nil, models.NewValidationError("Ingredients must not be blank")
		}
		recipe.Ingredients = *in.Ingredients
	}
	if in.Steps != nil {
		if *in.Steps == "" {
			return nil, models.NewValidationError("Steps must not be blank")
		}
		recipe.Steps = *in.Steps
	}
	if in.ImageURL != nil {
		recipe.ImageURL = *in.ImageURL
	}

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		span.SetError(err)
		observability.RecipeMutations.WithLabelValues("update", "error").Inc()
		return nil, err
	}
	observability.RecipeMutations.WithLabelValues("update", "ok").Inc()
	return recipe, nil
}

// Delete removes a recipe. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, actorID, id uint) error {
	span, ctx := observability.NewSpan(ctx, "recipe.delete")
	defer span.End()
	span.AddAttributes(attribute.Int("recipe.id", int(id)))

	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !CanModify(actorID, recipe) {
		observability.RecipeMutations.WithLabelValues("delete", "forbidden").Inc()
		return models.NewForbiddenError("You can only delete your own recipes")
	}

	if err := s.recipeRepo.Delete(ctx, recipe.ID); err != nil {
		span.SetError(err)
		observability.RecipeMutations.WithLabelValues("delete", "error").Inc()
		return err
	}
	observability.RecipeMutations.WithLabelValues("delete", "ok").Inc()
	return nil
}
