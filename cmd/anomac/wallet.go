package anomac

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donyusuf12/namada/wallet"
)

func buildWalletCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage the local keystore",
	}

	cmd.AddCommand(buildWalletInitCmd(a))
	cmd.AddCommand(buildWalletAddCmd(a))
	cmd.AddCommand(buildWalletListCmd(a))

	return cmd
}

func buildWalletInitCmd(a *app) *cobra.Command {
	var (
		mnemonic   string
		passphrase string
		words      int
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the keystore from a new or existing mnemonic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := a.walletPassword()
			if err != nil {
				return err
			}

			generated := mnemonic == ""
			if generated {
				bits := wallet.Mnemonic12Words
				if words == 24 {
					bits = wallet.Mnemonic24Words
				} else if words != 12 {
					return fmt.Errorf("%w: %d words", wallet.ErrInvalidEntropy, words)
				}
				if mnemonic, err = wallet.GenerateMnemonic(bits); err != nil {
					return err
				}
			}

			ks, err := wallet.Create(a.cfg.WalletPath(), mnemonic, passphrase, password)
			if err != nil {
				return err
			}
			defer ks.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Keystore created at %s\n", a.cfg.WalletPath())
			if generated {
				fmt.Fprintf(out, "Mnemonic (write it down, it is not shown again):\n%s\n", mnemonic)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mnemonic, "mnemonic", "", "Restore from this mnemonic instead of generating one")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Optional BIP39 passphrase")
	cmd.Flags().IntVar(&words, "words", 12, "Words in a generated mnemonic (12 or 24)")

	return cmd
}

func buildWalletAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <alias>",
		Short: "Derive the next account under alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := a.openKeystore()
			if err != nil {
				return err
			}
			defer ks.Close()

			acct, err := ks.Add(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", acct.Alias, acct.Path(), acct.PublicKey)
			return nil
		},
	}
}

func buildWalletListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List keystore accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := a.openKeystore()
			if err != nil {
				return err
			}
			defer ks.Close()

			accts, err := ks.List()
			if err != nil {
				return err
			}
			for _, acct := range accts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", acct.Alias, acct.Path(), acct.PublicKey)
			}
			return nil
		},
	}
}

func (a *app) openKeystore() (*wallet.Keystore, error) {
	password, err := a.walletPassword()
	if err != nil {
		return nil, err
	}
	return wallet.Open(a.cfg.WalletPath(), password)
}
