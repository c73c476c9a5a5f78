package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sjsage522/productscraper/logger"
	scerrors "sjsage522/productscraper/pkg/errors"
)

const bearerPrefix = "Bearer "

// BearerAuth rejects requests whose Authorization header does not carry the static token
func BearerAuth(token string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := checkBearer(c.GetHeader("Authorization"), token); err != nil {
			log.Warn().
				Str("path", c.FullPath()).
				Str("client_ip", c.ClientIP()).
				Msg(err.Message)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": err.Message})
			return
		}
		c.Next()
	}
}

func checkBearer(header, token string) *scerrors.ScraperError {
	if !strings.HasPrefix(header, bearerPrefix) {
		return scerrors.NewAuth("api", "Unauthorized: Invalid token format")
	}

	presented := strings.TrimPrefix(header, bearerPrefix)
	if token == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
		return scerrors.NewAuth("api", "Unauthorized: Invalid token")
	}
	return nil
}
