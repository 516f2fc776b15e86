package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/kozmoz/thuisbezorgd-scraper/lib/configuration"
	"github.com/kozmoz/thuisbezorgd-scraper/lib/configutil"
	"github.com/kozmoz/thuisbezorgd-scraper/lib/telemetry"
	"github.com/kozmoz/thuisbezorgd-scraper/pkg/thuisbezorgd"

	"github.com/spf13/cobra"
)

type Config struct {
	thuisbezorgd.Config
	Database configuration.Database `json:"database"`
}

var (
	configPath string
	username   string
	password   string
	verbose    bool
	variant    string
	baseUrl    string
	dumpHttp   string

	config Config
	tel    telemetry.Telemetry
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "thuisbezorgd.json5", "The config file to read, a <name>.local.json5 next to it overrides its values.")
	flags.StringVarP(&username, "username", "u", "", "The username of the restaurant portal.")
	flags.StringVarP(&password, "password", "p", "", "The password of the restaurant portal.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every step the scraper takes.")
	flags.StringVar(&variant, "variant", "", `Which portal to use, "api" (default) or "legacy".`)
	flags.StringVar(&baseUrl, "base-url", "", "Overrides the host of the portal.")
	flags.StringVar(&dumpHttp, "dump-http", "", "Writes every http request and response to this directory.")
}

// loadConfig reads the config file when there is one and applies the flags on top of it.
func loadConfig(cmd *cobra.Command) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if errors.Is(err, os.ErrNotExist) && cmd.Flags().Changed("config") {
		return Config{}, fmt.Errorf("config file %s does not exist", configPath)
	}

	if username != "" {
		cfg.Username = username
	}
	if password != "" {
		cfg.Password = password
	}
	if verbose {
		cfg.Verbose = true
	}
	if variant != "" {
		cfg.Variant = thuisbezorgd.Variant(variant)
	}
	if baseUrl != "" {
		cfg.BaseUrl = baseUrl
	}
	if dumpHttp != "" {
		cfg.DumpHttpDir = dumpHttp
	}
	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:           "thuisbezorgd",
	Short:         "thuisbezorgd reads and updates the orders of a restaurant on Thuisbezorgd.nl.",
	Version:       thuisbezorgd.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = loadConfig(cmd)
		if err != nil {
			return err
		}
		telemetry.InitSlog(config.Verbose)

		tel, err = telemetry.SetupFromEnv(cmd.Context(), "thuisbezorgd")
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
		}
		return nil
	},
}

type errorOutput struct {
	ErrorCode      thuisbezorgd.ErrorCode `json:"errorCode"`
	ErrorMessage   string                 `json:"errorMessage"`
	HttpStatusCode int                    `json:"httpStatusCode,omitempty"`
}

func newErrorOutput(err error) errorOutput {
	var portalErr *thuisbezorgd.Error
	if errors.As(err, &portalErr) {
		return errorOutput{
			ErrorCode:      portalErr.Code,
			ErrorMessage:   portalErr.Message,
			HttpStatusCode: portalErr.HttpStatusCode,
		}
	}
	return errorOutput{
		ErrorCode:    "ERROR",
		ErrorMessage: err.Error(),
	}
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)

	shutdownErr := tel.Shutdown(context.WithoutCancel(ctx))
	if shutdownErr != nil {
		slog.Warn("failed to shutdown telemetry", "err", shutdownErr)
	}
	if err == nil {
		return
	}

	encoder := json.NewEncoder(os.Stderr)
	encoder.SetIndent("", "  ")
	if encodeErr := encoder.Encode(newErrorOutput(err)); encodeErr != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}
