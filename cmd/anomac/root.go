// Package anomac holds the command tree of the anomac client.
package anomac

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donyusuf12/namada/config"
	"github.com/donyusuf12/namada/logging"
)

var errNoWalletPassword = errors.New("anomac: wallet password not set (ANOMAC_WALLET_PASSWORD)")

// app is the state shared by every command once the root pre-run has loaded
// the configuration.
type app struct {
	v          *viper.Viper
	configFile string
	envFile    string
	dryRun     bool
	cfg        *config.Config
}

// BuildRootCmd assembles the anomac command tree.
func BuildRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:           "anomac",
		Short:         "Submit transactions to a ledger node",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Path to a configuration file")
	flags.StringVar(&a.envFile, "env-file", ".env", "Path to a .env file")
	flags.BoolVar(&a.dryRun, "dry-run", false, "Simulate the transaction without broadcasting it")
	flags.String("ledger-address", config.DefaultConfig().LedgerAddress, "Ledger node address (tcp://host:port)")
	flags.Duration("wait-timeout", 0, "Give up waiting for confirmation after this long (0 waits forever)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("data-dir", config.DefaultDataDir(), "Directory holding the wallet and journal")
	flags.String("dns-server", "", "Resolve node hosts through this DNS server instead of the system resolver")

	for key, name := range map[string]string{
		config.KeyLedgerAddress: "ledger-address",
		config.KeyWaitTimeout:   "wait-timeout",
		config.KeyLogLevel:      "log-level",
		config.KeyDataDir:       "data-dir",
		config.KeyDNSServer:     "dns-server",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	cmd.AddCommand(buildTxCmd(a))
	cmd.AddCommand(buildUpdateCmd(a))
	cmd.AddCommand(buildTransferCmd(a))
	cmd.AddCommand(buildWalletCmd(a))
	cmd.AddCommand(buildHistoryCmd(a))

	return cmd
}

func (a *app) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("anomac: create logger: %w", err)
	}
	cmd.SetContext(logging.With(cmd.Context(), log))
	return nil
}

func (a *app) walletPassword() (string, error) {
	if a.cfg.WalletPassword == "" {
		return "", errNoWalletPassword
	}
	return a.cfg.WalletPassword, nil
}
