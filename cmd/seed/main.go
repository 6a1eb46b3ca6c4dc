// Command seed populates the database with a handful of test accounts and
// sample items so the API is usable right after a fresh start.
package main

import (
	"context"
	"os"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-users-api/auth"
	"github.com/goliatone/go-users-api/config"
	"github.com/goliatone/go-users-api/items"
	"github.com/goliatone/go-users-api/store"
)

type seedUser struct {
	email    string
	password string
}

// Seeded accounts start inactive, a login activates them.
var seedUsers = []seedUser{
	{email: "admin@test.com", password: "admin"},
	{email: "user@test.com", password: "password123!"},
	{email: "account@test.com", password: "P@ssw0rd"},
}

var seedItems = []*items.Item{
	{Title: "First Item", Description: "This is the first sample item"},
	{Title: "Second Item", Description: "This is the second sample item"},
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("seed"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)
	logger := lgr.GetLogger("main")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("database open error", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := store.Init(ctx, db); err != nil {
		logger.Error("database init error", "error", err)
		os.Exit(1)
	}

	users := auth.NewUsersRepository(db)

	for _, su := range seedUsers {
		if _, err := users.GetByEmail(ctx, su.email); err == nil {
			logger.Info("user exists, skipping", "email", su.email)
			continue
		}

		hash, err := auth.HashPassword(su.password)
		if err != nil {
			logger.Error("hash password error", "email", su.email, "error", err)
			os.Exit(1)
		}

		user, err := users.Create(ctx, &auth.User{
			Email:        su.email,
			PasswordHash: hash,
		})
		if err != nil {
			logger.Error("create user error", "email", su.email, "error", err)
			os.Exit(1)
		}

		logger.Info("created user", "user_id", user.ID, "email", user.Email)
	}

	itemsRepo := items.NewItemsRepository(db)

	existing, err := itemsRepo.List(ctx, 0, 1)
	if err != nil {
		logger.Error("list items error", "error", err)
		os.Exit(1)
	}

	if len(existing) > 0 {
		logger.Info("items exist, skipping")
		return
	}

	for _, record := range seedItems {
		created, err := itemsRepo.Create(ctx, record)
		if err != nil {
			logger.Error("create item error", "title", record.Title, "error", err)
			os.Exit(1)
		}
		logger.Info("created item", "item_id", created.ID, "title", created.Title)
	}
}
