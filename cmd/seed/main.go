package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-accounts/config"
	userapp "github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/internal/container"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	username := flag.String("username", "demoUser", "username to seed")
	password := flag.String("password", "password123", "plaintext password")
	name := flag.String("name", "Demo User", "display name")
	address := flag.String("address", "1 Demo Street", "postal address")
	flag.Parse()

	ctx := context.Background()
	c, err := container.Build(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize dependencies")
	}
	defer c.Close()

	u, err := c.NewUserService().Register(ctx, userapp.RegisterInput{
		Username: *username,
		Password: *password,
		Name:     *name,
		Address:  *address,
	})
	if errors.Is(err, userapp.ErrUsernameTaken) {
		fmt.Printf("user %q already exists, nothing to do\n", *username)
		return
	}
	if err != nil {
		logger.WithError(err).Fatal("failed to seed user")
	}
	fmt.Printf("seeded user: id=%d username=%s name=%s password=%s\n", u.ID, u.Username, u.Name, *password)
}
