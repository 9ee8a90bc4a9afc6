package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recurring-planner/internal/model"
)

const userIDKey = "user_id"

// UserFinder resolves a caller id to a known user.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// IdentityMiddleware resolves the X-User-ID header set by the upstream identity provider.
func IdentityMiddleware(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.GetHeader("X-User-ID"), 10, 64)
		if err != nil || id == 0 {
			abortWithError(c, http.StatusUnauthorized, MsgUnauthorized)
			return
		}
		user, err := users.FindByID(c.Request.Context(), uint(id))
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, MsgUnauthorized)
			return
		}
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) uint {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func GinZapMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if uid := currentUserID(c); uid != 0 {
			fields = append(fields, zap.Uint("user_id", uid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("http request", fields...)
			return
		}

		logger.Info("http request", fields...)
	}
}
