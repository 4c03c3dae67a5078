package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	envContainerTag = "ELEMGEN_CONTAINER_TAG"
	envKeyPrefix    = "ELEMGEN_KEY_PREFIX"
	envFormat       = "ELEMGEN_FORMAT"

	defaultEnvFile = ".env"
)

type rootOptions struct {
	verbose bool
	envFile string
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(surveyPicker{})
}

func newRootCmdWith(choose picker) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "elemgen",
		Short: "Convert schema documents into element trees",
		Long: `elemgen reads schema documents (JSON or YAML nodes with a baseType,
props and children) and converts them into element trees, printed as HTML,
Markdown or JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(opts.logger)

			return loadEnv(opts.envFile, cmd.Flags().Changed("env"), opts.logger)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env", defaultEnvFile, "Environment file with ELEMGEN_* defaults")

	cmd.AddCommand(
		newRenderCmd(opts),
		newValidateCmd(opts),
		newPickCmd(opts, choose),
	)
	return cmd
}

// loadEnv applies the env file without overriding variables already set. A
// missing default file is ignored; a missing explicit file is an error.
func loadEnv(path string, explicit bool, logger *slog.Logger) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	logger.Debug("loaded env file", "path", path)
	return nil
}

// envDefault returns the flag value when it was set explicitly, otherwise the
// environment value when present, otherwise the flag default.
func envDefault(cmd *cobra.Command, flag, env string) string {
	value, _ := cmd.Flags().GetString(flag)
	if cmd.Flags().Changed(flag) {
		return value
	}
	if fromEnv, ok := os.LookupEnv(env); ok && strings.TrimSpace(fromEnv) != "" {
		return strings.TrimSpace(fromEnv)
	}
	return value
}
