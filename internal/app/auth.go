// internal/app/auth.go
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"
)

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	Matricule string
	Role      string
}

type Auth struct {
	enabled     bool
	redis       *redis.Client
	keyTemplate string
	tokenHeader string
}

func NewAuth(config *Config) (*Auth, error) {
	if !config.Server.EnableAuth {
		return &Auth{enabled: false}, nil
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Auth{
		enabled:     true,
		redis:       client,
		keyTemplate: config.Auth.TokenKeyTemplate,
		tokenHeader: config.Auth.TokenHeader,
	}, nil
}

func (a *Auth) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func (a *Auth) Redis() *redis.Client {
	return a.redis
}

// ValidateToken resolves the identity behind a matricule+token pair. With
// auth disabled every caller is treated as admin, which keeps local
// development free of redis.
func (a *Auth) ValidateToken(ctx context.Context, matricule, token string) (*Identity, error) {
	if !a.enabled {
		return &Identity{Matricule: matricule, Role: RoleAdmin}, nil
	}

	key := strings.NewReplacer("{matricule}", matricule).Replace(a.keyTemplate)

	fields, err := a.redis.HGetAll(ctx, key).Result()
	if err == redis.Nil || len(fields) == 0 {
		logger.Debug.Printf("Token not found for key: %s", key)
		return nil, fmt.Errorf("token not found")
	}
	if err != nil {
		logger.Debug.Printf("Redis error: %v", err)
		return nil, fmt.Errorf("redis error: %w", err)
	}

	if fields["token"] != token {
		logger.Debug.Printf("Token mismatch for matricule %s and what's found in %s", matricule, key)
		return nil, fmt.Errorf("invalid token")
	}

	role := fields["role"]
	if role == "" {
		role = RoleEtudiant
	}

	return &Identity{Matricule: matricule, Role: role}, nil
}
