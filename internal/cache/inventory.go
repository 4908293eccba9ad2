package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix   = "user:%d"
	RecipeKeyPrefix = "recipe:%d"
	TokenKeyPrefix  = "token:%s"
)

const (
	UserTTL   = 5 * time.Minute
	RecipeTTL = 30 * time.Minute
	TokenTTL  = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func RecipeKey(recipeID uint) string {
	return fmt.Sprintf(RecipeKeyPrefix, recipeID)
}

// TokenKey maps an opaque token key to its resolved user ID.
func TokenKey(key string) string {
	return fmt.Sprintf(TokenKeyPrefix, key)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateRecipe(ctx context.Context, recipeID uint) {
	Invalidate(ctx, RecipeKey(recipeID))
}

func InvalidateToken(ctx context.Context, key string) {
	Invalidate(ctx, TokenKey(key))
}
