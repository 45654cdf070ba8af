package router

import (
	"github.com/oksasatya/go-user-accounts/internal/container"
	handlers "github.com/oksasatya/go-user-accounts/internal/interface/http"
	"github.com/oksasatya/go-user-accounts/internal/router/modules"
)

type UserModuleDeps struct {
	Handler *handlers.UserHandler
}

func buildUserDeps(c *container.Container) UserModuleDeps {
	return UserModuleDeps{Handler: handlers.NewUserHandler(c.NewUserService(), c.Logger)}
}

// InitModules wires every feature module from the container and adds it to the registry.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	userDeps := buildUserDeps(c)
	r.Add(modules.NewUserModule(userDeps.Handler))

	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
