// Command seed provisions a demo account with a handful of billers and a
// few months of payment history. Intended for local development only.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"billtrack/internal/adapter/repo"
	"billtrack/internal/auth"
	"billtrack/internal/db"
	"billtrack/internal/domain"
	"billtrack/internal/infra"
)

const (
	demoEmail    = "demo@billtrack.local"
	demoPassword = "password123"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	if err := db.Ensure(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	users := repo.NewUserRepository(pool)
	billers := repo.NewBillerRepository(pool)

	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to hash password")
	}
	user, err := users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Name:         "Demo User",
		Email:        demoEmail,
		PasswordHash: hash,
		Provider:     domain.AuthProviderLocal,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrEmailTaken) {
			logger.Fatal().Err(err).Msg("failed to create demo user")
		}
		user, err = users.GetByEmail(ctx, demoEmail)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load demo user")
		}
		logger.Info().Str("email", demoEmail).Msg("demo user already exists, reseeding billers")
	}

	bpiCutOff, metroCutOff := 5, 22
	bpiLimit, metroLimit := int64(50000), int64(30000)
	seedBillers := []domain.Biller{
		{Name: "Electric Company", Type: domain.BillerTypeBill, Amount: 2500, DueDay: 15, Category: domain.CategoryUtilities, Notes: "Average monthly consumption"},
		{Name: "Water District", Type: domain.BillerTypeBill, Amount: 800, DueDay: 18, Category: domain.CategoryUtilities},
		{Name: "Internet Provider", Type: domain.BillerTypeBill, Amount: 1699, DueDay: 20, Category: domain.CategorySubscription, Notes: "Fiber 100mbps plan"},
		{Name: "BPI Credit Card", Type: domain.BillerTypeCredit, Amount: 12500, DueDay: 25, CutOffDay: &bpiCutOff, CreditLimit: &bpiLimit, Category: domain.CategoryCreditCard},
		{Name: "Metrobank Card", Type: domain.BillerTypeCredit, Amount: 8200, DueDay: 10, CutOffDay: &metroCutOff, CreditLimit: &metroLimit, Category: domain.CategoryCreditCard},
	}

	now := time.Now()
	for i := range seedBillers {
		b := seedBillers[i]
		b.ID = uuid.NewString()
		b.UserID = user.ID
		b.IsActive = true
		b.PaidMonths = []domain.PaidMonth{}
		if err := b.Validate(); err != nil {
			logger.Fatal().Err(err).Str("name", b.Name).Msg("invalid seed biller")
		}
		created, err := billers.Create(ctx, &b)
		if err != nil {
			logger.Fatal().Err(err).Str("name", b.Name).Msg("failed to create biller")
		}

		// Mark the previous two months paid so the history charts have data.
		for back := 1; back <= 2; back++ {
			due := now.AddDate(0, -back, 0)
			paidAt := time.Date(due.Year(), due.Month(), b.DueDay, 9, 0, 0, 0, time.UTC)
			if _, err := billers.AddPaidMonth(ctx, user.ID, created.ID, domain.PaidMonth{
				Month:  int(due.Month()),
				Year:   due.Year(),
				PaidAt: paidAt,
			}); err != nil && !errors.Is(err, domain.ErrAlreadyPaid) {
				logger.Fatal().Err(err).Str("name", b.Name).Msg("failed to record payment")
			}
		}
		logger.Info().Str("name", b.Name).Msg("seeded biller")
	}

	logger.Info().Str("email", demoEmail).Str("password", demoPassword).Msg("seed complete")
}
