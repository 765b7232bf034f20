// Package bootstrap opens the backing store selected by configuration and
// prepares it for a server or seeder process.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"epicfails/internal/config"
	"epicfails/internal/database"
	"epicfails/internal/middleware"
	"epicfails/internal/models"
	"epicfails/internal/mongostore"
	"epicfails/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DevUsername is the account created by EnsureDevUser.
const DevUsername = "dev_flopper"

// Runtime holds the store and the connections behind it.
type Runtime struct {
	Store *repository.Store
	DB    *gorm.DB
	Mongo *mongo.Client
}

// Open connects to the store named by cfg.StoreDriver, migrating or indexing it.
func Open(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	if cfg.StoreDriver == config.StoreDriverMongo {
		client, db, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connection failed: %w", err)
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo index setup failed: %w", err)
		}
		return &Runtime{Store: mongostore.NewStore(db), Mongo: client}, nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return &Runtime{Store: repository.NewStore(db), DB: db}, nil
}

// Close releases every connection the runtime holds.
func (r *Runtime) Close(ctx context.Context) error {
	if r.DB != nil {
		sqlDB, err := r.DB.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("close sql DB: %w", err)
		}
	}
	if r.Mongo != nil {
		if err := r.Mongo.Disconnect(ctx); err != nil {
			return fmt.Errorf("disconnect mongo: %w", err)
		}
	}
	return nil
}

// EnsureDevUser makes sure a development account answers to cfg.DevAuthToken.
// It does nothing outside development or when no token is configured.
func EnsureDevUser(ctx context.Context, cfg *config.Config, store *repository.Store) (*models.User, error) {
	if cfg == nil || store == nil {
		return nil, nil
	}
	token := strings.TrimSpace(cfg.DevAuthToken)
	if !strings.EqualFold(cfg.Env, "development") || token == "" {
		return nil, nil
	}

	existing, err := store.Users.GetByToken(ctx, token)
	if err == nil {
		return existing, nil
	}
	if !models.IsNotFound(err, "User") {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash dev password: %w", err)
	}

	user := &models.User{
		Username:              DevUsername,
		Email:                 DevUsername + "@epicfails.local",
		PasswordHash:          string(hashed),
		AuthToken:             token,
		HasAcceptedGuidelines: true,
		Interests:             []models.Category{models.CategoryOther},
	}
	if err := store.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create dev user: %w", err)
	}

	middleware.Logger.InfoContext(ctx, "development user bootstrap ensured", "username", user.Username)
	return user, nil
}
