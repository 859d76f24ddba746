package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/rpupo63/ailabs-portal-backend/api"
	"github.com/rpupo63/ailabs-portal-backend/auth"
	"github.com/rpupo63/ailabs-portal-backend/config"
	"github.com/rpupo63/ailabs-portal-backend/database"
	"github.com/rpupo63/ailabs-portal-backend/services"
	"github.com/rpupo63/ailabs-portal-backend/storage"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Exiting")
	}
}

func run() error {
	var envFile, configFile string
	var columnReport bool

	flagSet := pflag.NewFlagSet("ailabs-portal", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "path to a .env file")
	flagSet.StringVar(&configFile, "config", "", "optional YAML config file; environment variables take precedence")
	flagSet.BoolVar(&columnReport, "column-report", false, "print columns present in the database but not in the models, then exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	envErr := godotenv.Load(envFile)

	c := config.New()
	setupLogger(c)
	if envErr != nil {
		log.Warn().Err(envErr).Str("file", envFile).Msg("Could not load env file, using process environment")
	}

	if configFile != "" {
		if err := config.LoadFile(c, configFile); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}

	ctx := context.Background()
	if prefix := config.GetString(c, "SSM_PARAMETER_PATH", ""); prefix != "" {
		if err := config.LoadSSM(ctx, c, prefix); err != nil {
			return fmt.Errorf("load SSM parameters: %w", err)
		}
		log.Info().Str("path", prefix).Msg("Loaded configuration from SSM")
	}

	db, err := database.Open(c)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	currentDB := database.New(db)

	if columnReport || config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		report, err := database.ColumnMismatchReport(db)
		if err != nil {
			return err
		}
		for table, columns := range report {
			fmt.Printf("%s: %s\n", table, strings.Join(columns, ", "))
		}
		return nil
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := ensureAdmin(c, currentDB); err != nil {
		return err
	}
	if removed, err := currentDB.SessionRepo().DeleteExpired(time.Now().UTC()); err != nil {
		log.Warn().Err(err).Msg("Failed to prune expired sessions")
	} else if removed > 0 {
		log.Info().Int64("removed", removed).Msg("Pruned expired sessions")
	}

	store, err := storage.New(ctx, c)
	if err != nil {
		return fmt.Errorf("configure upload storage: %w", err)
	}

	notifier := services.NewNotifier(c)
	log.Info().Strs("channels", notifier.Channels()).Msg("Submission notifications configured")

	opts := []api.Option{api.WithStore(store), api.WithNotifier(notifier)}
	if redisURL := config.GetString(c, "REDIS_URL", ""); redisURL != "" {
		rdb, err := api.ConnectRedis(ctx, redisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, submissions will not be rate limited")
		} else {
			defer rdb.Close()
			opts = append(opts, api.WithRedis(rdb))
		}
	}

	server, err := api.NewServer(c, currentDB, opts...)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	errChannel := make(chan error, 2)
	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
	return nil
}

// setupLogger writes JSON in production and colored console output otherwise.
func setupLogger(c map[string]string) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(c, "ENV", "development") == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

// ensureAdmin creates the administrator account on first boot.
func ensureAdmin(c map[string]string, db database.Database) error {
	username := config.GetString(c, "ADMIN_USERNAME", defaultAdminUsername)
	password := config.GetString(c, "ADMIN_PASSWORD", defaultAdminPassword)

	created, err := auth.EnsureAdmin(db.UserRepo(), username, password)
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	if created {
		log.Info().Str("username", username).Msg("Initial admin created")
	}

	usesDefault, err := auth.HasPassword(db.UserRepo(), username, defaultAdminPassword)
	if err != nil {
		return fmt.Errorf("check admin password: %w", err)
	}
	if usesDefault {
		log.Warn().Str("username", username).Msg("Admin uses the default password; change it")
	}
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
