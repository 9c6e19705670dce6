// Package commands contains the dsdl CLI command definitions.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dsdl-go/internal/config"
	"dsdl-go/internal/output"
)

// Version is the CLI version, set at build time.
var Version = "dev"

// app is the state shared by every command of one invocation.
type app struct {
	v          *viper.Viper
	cfg        *config.Config
	out        *output.Printer
	logger     *slog.Logger
	configFile string
}

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "dsdl",
		Short: "Compile dataset schemas and validate samples against them",
		Long: `dsdl compiles DSDL dataset description schemas (YAML), validates
annotation samples against the compiled types and queries typed values
out of validated samples.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "Path to configuration file (default ./dsdl.yaml)")
	flags.BoolP("verbose", "v", false, "Show detailed output")
	flags.StringSliceP("import-path", "I", nil, "Directory searched for imported schemas (repeatable)")
	flags.String("mode", "", "Validation mode: lazy, eager or strict")
	flags.Int("workers", 0, "Concurrent validations (0 = one per CPU)")
	flags.String("media-root", "", "Directory that media locations are relative to")

	for key, name := range map[string]string{
		config.KeyVerbose:     "verbose",
		config.KeyImportPaths: "import-path",
		config.KeyMode:        "mode",
		config.KeyWorkers:     "workers",
		config.KeyMediaRoot:   "media-root",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	registerCheckCmd(rootCmd, a)
	registerValidateCmd(rootCmd, a)
	registerQueryCmd(rootCmd, a)
	registerKindsCmd(rootCmd, a)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("dsdl %s\n", Version)
		},
	})

	return rootCmd
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.out = output.New(cmd.OutOrStdout(), cfg.Verbose)

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if cfg.File != "" {
		a.out.Verbose("config: " + cfg.File)
	}

	return nil
}
