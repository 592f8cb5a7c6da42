package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dukapos/dukapos-api/internal/domain/repository"
	infraRepo "github.com/dukapos/dukapos-api/internal/infrastructure/repository"
	"github.com/dukapos/dukapos-api/internal/presentation/http/dto/response"
)

// StoreCodeHeader names the store a request acts on. Every terminal in a
// branch sends its branch code here.
const StoreCodeHeader = "X-Store-Code"

// StoreMiddleware resolves the acting store from the X-Store-Code header and
// scopes the request context to it. Admins without a store header operate
// across all stores.
func StoreMiddleware(storeRepo repository.StoreRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.TrimSpace(c.GetHeader(StoreCodeHeader))
		if code == "" {
			// Head office users may query across stores without picking one.
			if hasAnyRole(c, "admin", "manager") {
				ctx := infraRepo.WithSkipStoreScope(c.Request.Context(), true)
				c.Request = c.Request.WithContext(ctx)
			}
			c.Next()
			return
		}

		store, err := storeRepo.GetByCode(c.Request.Context(), strings.ToUpper(code))
		if err != nil || store == nil {
			response.NotFound(c, "Store not found")
			c.Abort()
			return
		}
		if !store.Active {
			response.Forbidden(c, "Store is not active")
			c.Abort()
			return
		}

		c.Set("store_id", store.ID)
		c.Set("store", store)

		ctx := infraRepo.WithStore(c.Request.Context(), store.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireStore ensures the request carries a resolved store context.
func RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, exists := c.Get("store_id")
		if !exists {
			response.BadRequest(c, "Store context required; send the X-Store-Code header")
			c.Abort()
			return
		}

		id, ok := storeID.(uuid.UUID)
		if !ok || id == uuid.Nil {
			response.BadRequest(c, "Invalid store context")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetStoreID retrieves the store ID from gin context
func GetStoreID(c *gin.Context) uuid.UUID {
	storeID, exists := c.Get("store_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := storeID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func hasAnyRole(c *gin.Context, roles ...string) bool {
	val, exists := c.Get("user_roles")
	if !exists {
		return false
	}
	userRoles, ok := val.([]string)
	if !ok {
		return false
	}
	for _, ur := range userRoles {
		for _, r := range roles {
			if ur == r {
				return true
			}
		}
	}
	return false
}
