package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"workload/cmd"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var envFile string

var rootCmd = &cobra.Command{
	Use:          "workload",
	Short:        "Order dispatch and work assignment service",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the scheduled jobs",
	RunE:  runServe,
}

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate the environment and the skill group catalog, then exit",
	RunE: func(c *cobra.Command, _ []string) error {
		configs, catalog, err := loadConfigs()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.OutOrStdout(), "configuration ok: %d skill groups, %d staff, postgres=%t, redis=%t\n",
			len(catalog.SkillGroups), len(catalog.Staff), configs.UsePostgres(), configs.RedisAddr != "")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd, checkConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfigs() (cmd.Config, cmd.Catalog, error) {
	configs, err := cmd.LoadConfig(envFile)
	if err != nil {
		return cmd.Config{}, cmd.Catalog{}, fmt.Errorf("invalid configuration: %w", err)
	}
	catalog, err := cmd.LoadCatalog(configs.SkillGroupsFile)
	if err != nil {
		return cmd.Config{}, cmd.Catalog{}, err
	}
	if _, err = catalog.Registry(); err != nil {
		return cmd.Config{}, cmd.Catalog{}, fmt.Errorf("invalid skill group catalog: %w", err)
	}
	if _, err = catalog.Members(); err != nil {
		return cmd.Config{}, cmd.Catalog{}, fmt.Errorf("invalid staff catalog: %w", err)
	}
	return configs, catalog, nil
}

func runServe(c *cobra.Command, _ []string) error {
	configs, catalog, err := loadConfigs()
	if err != nil {
		return err
	}
	logger := cmd.NewLogger(os.Stdout, configs.LogLevel, configs.LogFormat)

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cmd.NewCompositionRoot(ctx, configs, catalog, logger)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer app.Close()

	jobManager := app.Jobs()
	if err = jobManager.StartAll(); err != nil {
		return fmt.Errorf("failed to start jobs: %w", err)
	}
	defer jobManager.StopAll()

	e, err := app.Router()
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	go func() {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); startErr != nil &&
			!errors.Is(startErr, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", startErr)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
