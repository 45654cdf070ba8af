package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-accounts/pkg/response"
)

// ErrMsgNotJSON is returned when a body-carrying request is not declared as JSON.
const ErrMsgNotJSON = "data must be sent as JSON"

// RequireJSON rejects requests whose media type is not application/json
// before the handler runs. Parameters such as charset are ignored.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.ContentType() != gin.MIMEJSON {
			response.Error(c, http.StatusBadRequest, ErrMsgNotJSON, map[string]string{
				"content_type": c.GetHeader("Content-Type"),
			})
			return
		}
		c.Next()
	}
}
