package app

import (
	"net/http"

	"lost_and_found_tool/db"
	"lost_and_found_tool/models"
	"lost_and_found_tool/service"
	"lost_and_found_tool/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

const principalKey = "principal"

// AuthRequired resolves the session cookie to a live user and puts the
// principal in the gin context. Role is re-read from the DB on every
// request so a promotion/demotion takes effect without re-login.
func AuthRequired(sessions *session.Store, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		sess, err := sessions.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		u, err := repo.FindUserByID(c.Request.Context(), sess.UserID)
		if err != nil {
			_ = sessions.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		c.Set(principalKey, service.Principal{ID: u.ID, Role: u.Role})
		c.Next()
	}
}

// AdminOnly assumes AuthRequired already ran.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if p.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func CurrentPrincipal(c *gin.Context) (service.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return service.Principal{}, false
	}
	p, ok := v.(service.Principal)
	return p, ok
}

// SetPrincipal exists for handler tests that bypass the session middleware.
func SetPrincipal(c *gin.Context, p service.Principal) {
	c.Set(principalKey, p)
}
