// docflow - document workflow tracking service
package main

import (
	"fmt"
	"os"

	"github.com/aethra/docflow/internal/api"
	"github.com/aethra/docflow/internal/auth"
	"github.com/aethra/docflow/internal/config"
	"github.com/aethra/docflow/internal/database"
	"github.com/aethra/docflow/internal/engine"
	"github.com/aethra/docflow/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Version = "1.0.0"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) > 1 {
		runCLI()
		return
	}
	startServer()
}

func startServer() {
	log.Info().Str("version", Version).Msg("docflow starting")

	cfg := config.Load()
	db := connectDB(cfg)
	log.Info().Msg("database connected")

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("migrations complete")

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = config.GenerateJWTSecret()
		log.Warn().Msg("JWT_SECRET not set, using random secret (not suitable for production)")
	}
	jwtService := auth.NewJWTService(secret, cfg.Auth.JWTExpiry)

	store := engine.NewStore(db)
	graph := engine.NewFlowGraph(db)
	ledger := engine.NewHistoryLedger(db)
	transition := engine.NewTransitionEngine(db, ledger)
	guard := engine.NewLifecycleGuard(db)

	handlers := api.Handlers{
		Auth:      api.NewAuthHandler(store, jwtService),
		Stations:  api.NewStationHandler(store, guard),
		Templates: api.NewTemplateHandler(store, guard),
		Documents: api.NewDocumentHandler(store, transition, ledger, guard),
		Flows:     api.NewFlowHandler(store, graph, guard),
	}
	router := api.SetupRouter(cfg, log.Logger, handlers, jwtService, store)

	log.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func connectDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	return db
}

// CLI
func runCLI() {
	switch os.Args[1] {
	case "serve":
		startServer()
	case "migrate":
		cfg := config.Load()
		db := connectDB(cfg)
		if err := database.RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		fmt.Println("Migrations complete")
	case "user":
		runUserCmd()
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println(`Usage: docflow <command>
Commands:
  serve                         Start server
  migrate                       Run migrations
  user list                     List users
  user create --username= --email= --password= [--role=admin]  Create user`)
}

func runUserCmd() {
	if len(os.Args) < 3 {
		printUsage()
		return
	}
	cfg := config.Load()
	db := connectDB(cfg)
	store := engine.NewStore(db)

	switch os.Args[2] {
	case "list":
		users, err := store.ListUsers()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to list users")
		}
		for _, u := range users {
			fmt.Printf("%s <%s> (%s)\n", u.Username, u.Email, u.Role)
		}
	case "create":
		username := getFlag("--username")
		email := getFlag("--email")
		password := getFlag("--password")
		if username == "" || email == "" || password == "" {
			printUsage()
			return
		}

		role := models.RoleUser
		if getFlag("--role") == string(models.RoleAdmin) {
			role = models.RoleAdmin
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to hash password")
		}
		user := &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			IsActive:     true,
		}
		if err := store.CreateUser(user); err != nil {
			log.Fatal().Err(err).Msg("failed to create user")
		}
		fmt.Printf("User created: %s\n", username)
	default:
		printUsage()
	}
}

func getFlag(name string) string {
	prefix := name + "="
	for _, arg := range os.Args {
		if len(arg) > len(prefix) && arg[:len(prefix)] == prefix {
			return arg[len(prefix):]
		}
	}
	return ""
}
