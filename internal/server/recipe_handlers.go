package server

import (
	"recipehub/internal/models"
	"recipehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// recipeListResponse is the paginated list envelope.
type recipeListResponse struct {
	Count    int64                   `json:"count"`
	Next     *int                    `json:"next"`
	Previous *int                    `json:"previous"`
	Results  []models.RecipeResponse `json:"results"`
}

// ListRecipes handles GET /api/recipes
func (s *Server) ListRecipes(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 10)
	filter := parseRecipeFilter(c)

	results, count, err := s.recipeService.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	var next, previous *int
	if int64(page.Offset+len(results)) < count {
		n := page.Page + 1
		next = &n
	}
	if page.Page > 1 {
		p := page.Page - 1
		previous = &p
	}

	return c.JSON(recipeListResponse{
		Count:    count,
		Next:     next,
		Previous: previous,
		Results:  results,
	})
}

// GetRecipe handles GET /api/recipes/:id
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	recipe, err := s.recipeService.Get(ctx, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(recipe)
}

// CreateRecipe handles POST /api/recipes. The caller becomes the author.
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req service.RecipeInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, err := s.recipeService.Create(ctx, userID, req)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(recipe.Response())
}

// UpdateRecipe handles PUT and PATCH /api/recipes/:id
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.RecipeInput
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, err := s.recipeService.Update(ctx, userID, recipeID, req)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(recipe.Response())
}

// DeleteRecipe handles DELETE /api/recipes/:id
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.recipeService.Delete(ctx, userID, recipeID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
