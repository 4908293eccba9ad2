package service

import (
	"context"
	"errors"
	"testing"

	"recipehub/internal/models"
	"recipehub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRecipeRepository is a mock of the RecipeRepository interface
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) List(ctx context.Context, filter repository.RecipeFilter, limit, offset int) ([]*models.Recipe, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Count(ctx context.Context, filter repository.RecipeFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func str(s string) *string { return &s }

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestCanModify(t *testing.T) {
	recipe := &models.Recipe{ID: 1, AuthorID: 7}

	tests := []struct {
		name    string
		actorID uint
		recipe  *models.Recipe
		allowed bool
	}{
		{"Author may modify", 7, recipe, true},
		{"Other user may not", 8, recipe, false},
		{"Anonymous may not", 0, recipe, false},
		{"Nil recipe", 7, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanModify(tt.actorID, tt.recipe))
		})
	}
}

func TestRecipeServiceCreate(t *testing.T) {
	input := RecipeInput{
		Title:       str("Pancakes"),
		Ingredients: str("flour\neggs\nmilk"),
		Steps:       str("mix\nfry"),
	}

	t.Run("Author is forced to the actor", func(t *testing.T) {
		mockRepo := new(MockRecipeRepository)
		svc := NewRecipeService(mockRepo)

		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Recipe) bool {
			return r.AuthorID == 7 && r.Title == "Pancakes"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Recipe).ID = 42
		}).Return(nil)
		mockRepo.On("GetByID", mock.Anything, uint(42)).Return(&models.Recipe{
			ID:       42,
			Title:    "Pancakes",
			AuthorID: 7,
			Author:   models.User{ID: 7, Username: "alice"},
		}, nil)

		recipe, err := svc.Create(context.Background(), 7, input)
		require.NoError(t, err)
		assert.Equal(t, uint(7), recipe.AuthorID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Anonymous actor is rejected", func(t *testing.T) {
		mockRepo := new(MockRecipeRepository)
		svc := NewRecipeService(mockRepo)

		_, err := svc.Create(context.Background(), 0, input)
		assert.Equal(t, "UNAUTHORIZED", appErrCode(t, err))
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Missing required fields", func(t *testing.T) {
		mockRepo := new(MockRecipeRepository)
		svc := NewRecipeService(mockRepo)

		_, err := svc.Create(context.Background(), 7, RecipeInput{Title: str("No body")})
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
	})

	t.Run("Overlong title", func(t *testing.T) {
		mockRepo := new(MockRecipeRepository)
		svc := NewRecipeService(mockRepo)

		long := input
		long.Title = str(string(make([]byte, 201)))
		_, err := svc.Create(context.Background(), 7, long)
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
	})
}

func TestRecipeServiceUpdate(t *testing.T) {
	stored := func() *models.Recipe {
		return &models.Recipe{
			ID:          42,
			Title:       "Pancakes",
			Description: "Fluffy",
			Ingredients: "flour",
			Steps:       "mix",
			AuthorID:    7,
		}
	}

	t.Run("Author updates fields, ownership intact", func(t *testing.T) {
		mockRepo := new(MockRecipeRepository)
		svc := NewRecipeService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, uint(42)).Return(stored(), nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *models.Recipe) bool {
			return r.Title == "Waffles" && r.AuthorID == 7 && r.Description == "Fluffy"
		})).Return(nil)

		recipe, err := svc.Update(context.Background(), 7, 42, RecipeInput{Title: str("Waffles")})
		require.NoError(t, err)
		assert.Equal(t, "Waffles", recipe.Title)
		assert.Equal(t, uint(7), recipe.AuthorID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Explicit empty string clears optional fields", func(t *testing.T) {
		mockRepo := new(MockRecipeRepository)
		svc := NewRecipeService(mockRepo)

		existing := stored()
		existing.ImageURL = "https://example.com/pancakes.jpg"
		mockRepo.On("GetByID", mock.Anything, uint(42)).Return(existing, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *models.Recipe) bool {
			return r.Description == "" && r.ImageURL == "" && r.Title == "Pancakes"
		})).Return(nil)

		recipe, err := svc.Update(context.Background(), 7, 42, RecipeInput{
			Description: str(""),
			ImageURL:    str(""),
		})
		require.NoError(t, err)
		assert.Empty(t, recipe.Description)
		assert.Empty(t, recipe.ImageURL)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Omitted fields keep their stored value", func(t *testing.T) {
		mockRepo := new(MockRecipeRepository)
		svc := NewRecipeService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, uint(42)).Return(stored(), nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *models.Recipe) bool {
			return r.Title == "Waffles" && r.Description == "Fluffy" && r.Ingredients == "flour"
		})).Return(nil)

		_, err := svc.Update(context.Background(), 7, 42, RecipeInput{Title: str("Waffles")})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Required fields may not be blanked", func(t *testing.T) {
		mockRepo := new(MockRecipeRepository)
		svc := NewRecipeService(mockRepo)

		for _, in := range []RecipeInput{
			{Title: str("")},
			{Ingredients: str("")},
			{Steps: str("")},
		} {
			mockRepo.On("GetByID", mock.Anything, uint(42)).Return(stored(), nil)
			_, err := svc.Update(context.Background(), 7, 42, in)
			assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
		}
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Non-author is forbidden", func(t *testing.T) {
		mockRepo := new(MockRecipeRepository)
		svc := NewRecipeService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, uint(42)).Return(stored(), nil)

		_, err := svc.Update(context.Background(), 8, 42, RecipeInput{Title: str("Hijacked")})
		assert.Equal(t, "FORBIDDEN", appErrCode(t, err))
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Unknown recipe", func(t *testing.T) {
		mockRepo := new(MockRecipeRepository)
		svc := NewRecipeService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, models.NewNotFoundError("Recipe", 99))

		_, err := svc.Update(context.Background(), 7, 99, RecipeInput{Title: str("Anything")})
		assert.Equal(t, "NOT_FOUND", appErrCode(t, err))
	})
}

func TestRecipeServiceDelete(t *testing.T) {
	stored := &models.Recipe{ID: 42, Title: "Pancakes", AuthorID: 7}

	t.Run("Author deletes", func(t *testing.T) {
		mockRepo := new(MockRecipeRepository)
		svc := NewRecipeService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, uint(42)).Return(stored, nil)
		mockRepo.On("Delete", mock.Anything, uint(42)).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), 7, 42))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Non-author is forbidden", func(t *testing.T) {
		mockRepo := new(MockRecipeRepository)
		svc := NewRecipeService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, uint(42)).Return(stored, nil)

		err := svc.Delete(context.Background(), 8, 42)
		assert.Equal(t, "FORBIDDEN", appErrCode(t, err))
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
