package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cleansweep/internal/auth"
	"cleansweep/internal/config"
	"cleansweep/internal/logging"
	"cleansweep/internal/model"
	"cleansweep/internal/repository"
	"cleansweep/internal/service"
)

// env bundles what every subcommand needs.
type env struct {
	logger   *zap.Logger
	auth     service.AuthService
	activity service.ActivityRecorder
	close    func(context.Context) error
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "seed",
		Short: "Administrative setup for the CleanSweep store",
		Long: `Seed prepares accounts directly against the configured store
(STORE_DRIVER, MONGO_URI / MYSQL_DSN, read from the environment or .env).`,
		SilenceUsage: true,
	}
	root.AddCommand(superadminCmd(), promoteCmd())
	return root
}

func superadminCmd() *cobra.Command {
	var in service.Credentials
	cmd := &cobra.Command{
		Use:   "superadmin",
		Short: "Create the single superadmin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				user, err := e.auth.BootstrapSuperadmin(ctx, in)
				if err != nil {
					return err
				}
				e.logger.Info("superadmin created", zap.String("id", user.ID), zap.String("email", user.Email))
				fmt.Fprintf(cmd.OutOrStdout(), "Superadmin %s created\n", user.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Password, "password", "", "login password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func promoteCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Promote an existing user to admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				// the operator acts with superadmin rights
				operator := auth.Identity{Role: model.RoleSuperadmin}
				user, err := e.auth.Promote(ctx, operator, email)
				if err != nil {
					return err
				}
				e.logger.Info("user promoted", zap.String("id", user.ID), zap.String("email", user.Email))
				fmt.Fprintf(cmd.OutOrStdout(), "User %s promoted to admin\n", user.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user to promote")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func withEnv(ctx context.Context, fn func(context.Context, *env) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Printf("logger init: %v", err)
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	store, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Error("store init", zap.Error(err))
		return err
	}
	activity := service.NewActivityRecorder(store.Activity, logger)
	e := &env{
		logger:   logger,
		auth:     service.NewAuthService(store.Users, auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL), activity, logger),
		activity: activity,
		close:    closeStore,
	}
	defer func() {
		e.activity.Close()
		if err := e.close(context.Background()); err != nil {
			logger.Warn("store close", zap.Error(err))
		}
	}()

	return fn(ctx, e)
}
