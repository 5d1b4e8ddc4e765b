package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/gensai-lab/sonae-go/internal/application/services"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/session"
)

// SessionHeader carries the client's session id. The resolved id is
// echoed back so first-time clients learn theirs.
const SessionHeader = "X-Sonae-Session-ID"

const sessionContextKey = "sonae_session"

// SessionMiddleware resolves the session aggregate for the request and
// stores it on the gin context.
func SessionMiddleware(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, id := sessions.Ensure(c.GetHeader(SessionHeader))
		c.Set(sessionContextKey, sess)
		c.Header(SessionHeader, id)
		c.Next()
	}
}

// GetSession retrieves the session aggregate from the gin context.
func GetSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}
