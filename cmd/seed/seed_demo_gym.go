package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"gymflow-be/internal/config"
	"gymflow-be/internal/dto"
	"gymflow-be/internal/pkg/apperror"
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/internal/repository/memory"
	"gymflow-be/internal/repository/unitofwork"
	"gymflow-be/internal/service"
	"gymflow-be/pkg/database"
	"gymflow-be/pkg/lifecycle"

	"github.com/shopspring/decimal"
)

// Seeds a demo gym with a starter catalog through the regular services, so every rule that
// applies to real owners applies here too. Re-running skips what already exists.
func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	if cfg.Auth.JWTSecret == "" {
		// Tokens are issued on registration; the value does not matter for seeding.
		cfg.Auth.JWTSecret = "seed-only"
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)
	engine := lifecycle.NewEngine(cfg.Lifecycle.Location(), cfg.Lifecycle.TrialDays)
	sysLogger := logger.NewNopLogger()

	auth := service.NewAuthService(uowFactory, engine, memory.NewLoginLimiter(100), memory.NewOwnerCache(time.Minute), cfg.Auth, sysLogger)
	plans := service.NewPlanService(uowFactory, sysLogger)

	email := getEnv("SEED_OWNER_EMAIL", "demo@gymflow.local")
	password := getEnv("SEED_OWNER_PASSWORD", "demo-password")

	session, err := auth.RegisterOwner(ctx, &dto.OwnerRegisterRequest{GymName: "GymFlow Demo", Email: email, Password: password})
	if errors.Is(err, apperror.ErrConflict) {
		log.Printf("Owner %s already exists, logging in...", email)
		session, err = auth.LoginOwner(ctx, &dto.LoginRequest{Email: email, Password: password})
	}
	if err != nil {
		log.Fatalf("Error: could not obtain demo owner: %v", err)
	}
	ownerId := session.Owner.Id

	catalog := []dto.PlanRequest{
		{Name: "Monthly", DurationMonths: 1, Price: decimal.NewFromInt(150000), Features: []string{"Gym floor", "Locker"}},
		{Name: "Quarterly", DurationMonths: 3, Price: decimal.NewFromInt(400000), Features: []string{"Gym floor", "Locker", "Group classes"}, IsPopular: true},
		{Name: "Half Year", DurationMonths: 6, Price: decimal.NewFromInt(750000), Features: []string{"Gym floor", "Locker", "Group classes", "Sauna"}},
		{Name: "Annual", DurationMonths: 12, Price: decimal.NewFromInt(1400000), Features: []string{"Gym floor", "Locker", "Group classes", "Sauna", "Personal trainer session"}},
	}
	for i := range catalog {
		plan, err := plans.CreatePlan(ctx, ownerId, &catalog[i])
		if errors.Is(err, apperror.ErrConflict) {
			log.Printf("Plan '%s' already exists, skipping...", catalog[i].Name)
			continue
		}
		if err != nil {
			log.Printf("Error creating plan '%s': %v", catalog[i].Name, err)
			continue
		}
		log.Printf("Created plan: %s (%d months)", plan.Name, plan.DurationMonths)
	}

	log.Printf("Demo gym ready. Owner: %s", email)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
