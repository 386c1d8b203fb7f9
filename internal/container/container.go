package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth-service/config"
	"github.com/oksasatya/go-ddd-auth-service/internal/application"
	"github.com/oksasatya/go-ddd-auth-service/internal/domain/repository"
	"github.com/oksasatya/go-ddd-auth-service/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router auto-wires modules from these singletons. Everything is set once in
// main before routes are registered and read-only afterwards.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	accountRepo repository.AccountRepository
	redisClient *redis.Client

	hasher   *helpers.PasswordHasher
	tokens   *helpers.TokenIssuer
	notifier application.Notifier
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger
}
func SetAccountRepo(r repository.AccountRepository) { accountRepo = r }
func GetAccountRepo() repository.AccountRepository  { return accountRepo }
func SetRedis(r *redis.Client)                      { redisClient = r }
func GetRedis() *redis.Client                       { return redisClient }
func SetHasher(h *helpers.PasswordHasher)           { hasher = h }
func GetHasher() *helpers.PasswordHasher            { return hasher }
func SetTokens(t *helpers.TokenIssuer)              { tokens = t }
func GetTokens() *helpers.TokenIssuer               { return tokens }
func SetNotifier(n application.Notifier)            { notifier = n }
func GetNotifier() application.Notifier             { return notifier }
