package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"recipehub/internal/cache"
	"recipehub/internal/models"
	"recipehub/internal/observability"

	"gorm.io/gorm"
)

// RecipeFilter narrows the candidate recipe set before ordering and
// pagination. Title is a case-insensitive substring match. Author is a
// single parameter matched against the author's username
// (case-insensitive exact) OR the author's numeric ID. Search is a
// case-insensitive substring match over the title or the author's
// username. All dimensions compose with AND; an empty filter passes
// everything through.
type RecipeFilter struct {
	Title    string
	Author   string
	Search   string
	Ordering string
}

// IsZero reports whether the filter would pass the base set unchanged.
func (f RecipeFilter) IsZero() bool {
	return f.Title == "" && f.Author == "" && f.Search == "" && f.Ordering == ""
}

// RecipeRepository defines persistence operations for recipes.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	List(ctx context.Context, filter RecipeFilter, limit, offset int) ([]*models.Recipe, error)
	Count(ctx context.Context, filter RecipeFilter) (int64, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id uint) error
}

type recipeRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewRecipeRepository returns a new RecipeRepository implementation.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db, metrics: observability.NewDatabaseMetrics(db)}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	defer r.metrics.TrackQuery("create", "recipes")()
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	defer r.metrics.TrackQuery("get", "recipes")()
	var recipe models.Recipe
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recipe", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &recipe, nil
}

func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter, limit, offset int) ([]*models.Recipe, error) {
	defer r.metrics.TrackQuery("list", "recipes")()
	var recipes []*models.Recipe
	base := r.applyScope(r.db.WithContext(ctx).Model(&models.Recipe{}), filter).
		Preload("Author")
	err := applyOrdering(base, filter.Ordering).
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) Count(ctx context.Context, filter RecipeFilter) (int64, error) {
	defer r.metrics.TrackQuery("count", "recipes")()
	var count int64
	err := r.applyScope(r.db.WithContext(ctx).Model(&models.Recipe{}), filter).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// likeEscaper neutralizes LIKE metacharacters so filter values match
// as literals.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern builds a case-insensitive substring LIKE pattern for the
// given value. Use with an `ESCAPE '\'` clause.
func likePattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
}

// applyScope appends WHERE clauses for the requested filters. The
// author parameter is tried as a username and, when numeric, as an ID,
// combined with OR. Search matches the title or the author username.
func (r *recipeRepository) applyScope(db *gorm.DB, filter RecipeFilter) *gorm.DB {
	if filter.Author != "" || filter.Search != "" {
		db = db.Joins("JOIN users ON users.id = recipes.author_id")
	}

	if filter.Title != "" {
		db = db.Where(`LOWER(recipes.title) LIKE ? ESCAPE '\'`, likePattern(filter.Title))
	}

	if filter.Author != "" {
		if id, err := strconv.ParseUint(filter.Author, 10, 32); err == nil {
			db = db.Where("LOWER(users.username) = ? OR users.id = ?",
				strings.ToLower(filter.Author), uint(id))
		} else {
			db = db.Where("LOWER(users.username) = ?", strings.ToLower(filter.Author))
		}
	}

	if filter.Search != "" {
		like := likePattern(filter.Search)
		db = db.Where(`LOWER(recipes.title) LIKE ? ESCAPE '\' OR LOWER(users.username) LIKE ? ESCAPE '\'`,
			like, like)
	}

	return db
}

// applyOrdering appends the ORDER BY clause. Only created_at and title
// are orderable; a leading '-' selects descending order. Anything else
// falls back to newest-first.
func applyOrdering(db *gorm.DB, ordering string) *gorm.DB {
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")

	switch field {
	case "created_at", "title":
	default:
		return db.Order("recipes.created_at DESC")
	}

	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	return db.Order("recipes." + field + " " + direction)
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	defer r.metrics.TrackQuery("update", "recipes")()
	if err := r.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateRecipe(ctx, recipe.ID)
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	defer r.metrics.TrackQuery("delete", "recipes")()
	result := r.db.WithContext(ctx).Delete(&models.Recipe{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Recipe", id)
	}
	cache.InvalidateRecipe(ctx, id)
	return nil
}
