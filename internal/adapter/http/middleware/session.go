package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todoapp/internal/core/port"
)

const SessionCookieName = "session_id"

// SessionMiddleware guards the browser surface. Requests without a
// valid session are redirected to the login page, never answered with
// a JSON error.
func SessionMiddleware(sessions port.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)

		if err != nil || cookie == "" {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		session, err := sessions.Find(c.Request.Context(), cookie)

		if err != nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		c.Set("x-user-id", session.UserID)
		c.Set("x-session-id", session.ID)
		c.Next()
	}
}
