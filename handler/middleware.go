package handler

import (
	"net/http"
	"strings"

	"github.com/ShenShiNing/new-tube/entities"
	"github.com/ShenShiNing/new-tube/repository"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const userContextKey = "newtube_user"

type AuthMiddleware struct {
	secret []byte
	repo   repository.Repository
}

func NewAuthMiddleware(secret string, repo repository.Repository) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(secret),
		repo:   repo,
	}
}

type tokenClaims struct {
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

func (m *AuthMiddleware) resolve(c *gin.Context) (*entities.User, error) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, nil
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}

	return m.repo.UpsertUserByExternalID(c.Request.Context(), claims.Subject, claims.Name, claims.Picture)
}

// Required aborts with 401 when no valid identity is present.
func (m *AuthMiddleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.resolve(c)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("token validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// Optional attaches the viewer identity when a valid token is present and
// continues anonymously otherwise. Handlers read it as a nullable viewer,
// never as a singleton-or-empty membership set.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.resolve(c)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("ignoring invalid token on optional route")
		}
		if user != nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *entities.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*entities.User)
	if !ok {
		return nil
	}
	return user
}

// viewerID returns the optional viewer identity for viewer-relative reads.
func viewerID(c *gin.Context) *uuid.UUID {
	user := currentUser(c)
	if user == nil {
		return nil
	}
	id := user.ID
	return &id
}
