package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chazu/elements/pkg/config"
	"github.com/chazu/elements/pkg/scenario"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var rootCmd = &cobra.Command{
	Use:           "elements",
	Short:         "Replay Euclid's constructions",
	Long:          "elements defines, validates and replays ruler-and-compass propositions, reporting the facts each step establishes.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in propositions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, cfg, err := setup()
		if err != nil {
			return err
		}
		return encode(cmd.OutOrStdout(), cfg.OutputFormat, app.List())
	},
}

var showCmd = &cobra.Command{
	Use:   "show <prop>",
	Short: "Replay a built-in proposition at its default positions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cfg, err := setup()
		if err != nil {
			return err
		}
		result, err := app.Show(args[0])
		if err != nil {
			return err
		}
		return report(cmd.OutOrStdout(), cfg.OutputFormat, result)
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval <file.elem>",
	Short: "Evaluate a proposition file and replay it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cfg, err := setup()
		if err != nil {
			return err
		}
		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		return report(cmd.OutOrStdout(), cfg.OutputFormat, app.Evaluate(string(source)))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <file.elem>",
	Short: "Check a proposition file without replaying it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cfg, err := setup()
		if err != nil {
			return err
		}
		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		return report(cmd.OutOrStdout(), cfg.OutputFormat, app.Validate(string(source)))
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay [prop]",
	Short: "Replay a built-in proposition under a drag scenario",
	Long:  "Replay a built-in proposition with its given points moved and free actions appended, as described by a TOML scenario file.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cfg, err := setup()
		if err != nil {
			return err
		}
		var sc *scenario.Scenario
		if path, _ := cmd.Flags().GetString("scenario"); path != "" {
			if sc, err = scenario.Load(path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		id, err := replayTarget(args, sc)
		if err != nil {
			return err
		}
		result, err := app.Replay(id, sc)
		if err != nil {
			return err
		}
		return report(cmd.OutOrStdout(), cfg.OutputFormat, result)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .elements.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: yaml or json")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("output"))

	replayCmd.Flags().String("scenario", "", "TOML scenario file")

	rootCmd.AddCommand(listCmd, showCmd, evalCmd, validateCmd, replayCmd)
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".elements")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("ELEMENTS")
	viper.AutomaticEnv()

	// A missing config file leaves the defaults in place.
	_ = viper.ReadInConfig()
}

func setup() (*App, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return nil, config.Config{}, err
	}
	return NewApp(cfg, logger), cfg, nil
}

// replayTarget picks the proposition to replay: the argument, else the
// scenario's. Both given and disagreeing is an error.
func replayTarget(args []string, sc *scenario.Scenario) (string, error) {
	switch {
	case len(args) == 1 && sc != nil && sc.Proposition != args[0]:
		return "", fmt.Errorf("scenario is for %s, not %s", sc.Proposition, args[0])
	case len(args) == 1:
		return args[0], nil
	case sc != nil:
		return sc.Proposition, nil
	}
	return "", fmt.Errorf("replay needs a proposition or a --scenario")
}

// report writes result and fails the command when it carries errors.
func report(w io.Writer, format string, result EvalResult) error {
	if err := encode(w, format, result); err != nil {
		return err
	}
	if n := len(result.Errors); n > 0 {
		return fmt.Errorf("%d error(s)", n)
	}
	return nil
}

func encode(w io.Writer, format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
