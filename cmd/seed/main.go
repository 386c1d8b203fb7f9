package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-auth-service/config"
	"github.com/oksasatya/go-ddd-auth-service/internal/application"
	pginfra "github.com/oksasatya/go-ddd-auth-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-auth-service/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2, MinConns: 1, MaxConnLife: cfg.DBMaxConnLife})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	hasher, err := helpers.NewPasswordHasher(cfg.BcryptCost, 1)
	if err != nil {
		log.Fatalf("password hasher: %v", err)
	}
	tokens, err := helpers.NewTokenIssuer(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}
	svc := application.NewService(pginfra.NewAccountRepository(pool), hasher, tokens, nil, logger)

	in := application.SignupInput{Name: "demoUser", Email: "demo@example.com", Password: "password123"}
	res, err := svc.Signup(ctx, in)
	switch {
	case errors.Is(err, application.ErrConflict):
		fmt.Printf("demo account already exists: email=%s\n", in.Email)
	case err != nil:
		log.Fatalf("failed to seed account: %v", err)
	default:
		fmt.Printf("seeded account: id=%s email=%s\n", res.User.ID, res.User.Email)
	}
}
