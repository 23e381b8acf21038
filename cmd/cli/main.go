// Command cli is the compiler driver: it reads sources and configuration
// from disk and the environment (the one place in this module allowed to do
// either — internal/* and pkg/compiler never do), builds a pkg/compiler.
// Options, and reports the result.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"synnergy-network/synthesis/pkg/config"
	"synnergy-network/synthesis/pkg/utils"
)

// maxSourceBytes caps how large a single source file this driver will read
// into memory; SOLC_MAX_SOURCE_BYTES overrides it for a caller that knows
// its own inputs are larger than the default allows.
func maxSourceBytes() uint64 {
	return utils.EnvOrDefaultUint64("SOLC_MAX_SOURCE_BYTES", 8<<20)
}

// readSources reads every path in args into memory, rejecting any file past
// maxSourceBytes so a stray huge input can't be read in full before the
// parser ever gets a chance to reject it.
func readSources(args []string) (map[string][]byte, error) {
	limit := maxSourceBytes()
	sources := make(map[string][]byte, len(args))
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if uint64(info.Size()) > limit {
			return nil, fmt.Errorf("%s is %d bytes, exceeds the %d byte limit (SOLC_MAX_SOURCE_BYTES)", path, info.Size(), limit)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		sources[path] = b
	}
	return sources, nil
}

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "solc-synth",
	Short: "compiler driver for the Synnergy contract dialect",
}

func init() {
	rootCmd.PersistentFlags().String("target", "", "t1-wasm-contracts | t2-sbf | t3-bounded-ledger")
	rootCmd.PersistentFlags().String("env", "", "config environment overlay (config/<env>.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "logrus level: debug, info, warn, error")
	_ = viper.BindPFlag("target.name", rootCmd.PersistentFlags().Lookup("target"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(buildCmd, idlCmd, lintCmd)
}

func loadConfig(cmd *cobra.Command) (*config.DriverConfig, error) {
	env, _ := cmd.Flags().GetString("env")
	cfg, err := config.Load(env)
	if err != nil {
		// No config file on disk is not fatal: flags and defaults still
		// produce a usable DriverConfig, since pkg/config sets nothing to
		// AppConfig until Unmarshal succeeds on whatever viper did find.
		logrus.WithError(err).Debug("no config file loaded, continuing with flags/defaults")
		cfg = &config.AppConfig
	}
	if t, _ := cmd.Flags().GetString("target"); t != "" {
		cfg.Target.Name = t
	}
	return cfg, nil
}

func configureLogging(cfg *config.DriverConfig) {
	if lvl, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(lvl)
	}
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
