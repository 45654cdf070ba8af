package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-user-accounts/internal/interface/http"
	"github.com/oksasatya/go-user-accounts/internal/interface/middleware"
)

// UserModule wires the user account handlers:
// POST /user/add, POST /user/verification (JSON bodies only)
// GET /user/get, GET /user/get/:value?by=username|name|address
// GET /user/search, GET /health
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Handler.Health)

	user := rg.Group("/user")
	{
		user.POST("/add", middleware.RequireJSON(), m.Handler.AddUser)
		user.POST("/verification", middleware.RequireJSON(), m.Handler.Verification)
		user.GET("/get", m.Handler.ListUsers)
		user.GET("/get/:value", m.Handler.GetUser)
		user.GET("/search", m.Handler.Search)
	}
}
