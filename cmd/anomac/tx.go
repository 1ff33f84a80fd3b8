package anomac

import (
	"github.com/spf13/cobra"

	"github.com/donyusuf12/namada/client"
	"github.com/donyusuf12/namada/tx"
)

func (a *app) txArgs() client.TxArgs {
	return client.TxArgs{LedgerAddress: a.cfg.LedgerAddress, DryRun: a.dryRun}
}

func buildTxCmd(a *app) *cobra.Command {
	var codePath, dataPath string

	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Submit a transaction running custom code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, release, err := a.newClient(cmd, false)
			if err != nil {
				return err
			}
			defer release()

			_, err = c.SubmitCustom(cmd.Context(), client.CustomArgs{
				TxArgs:   a.txArgs(),
				CodePath: codePath,
				DataPath: dataPath,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&codePath, "code-path", "", "Path to the transaction code")
	cmd.Flags().StringVar(&dataPath, "data-path", "", "Path to the transaction data (optional)")
	_ = cmd.MarkFlagRequired("code-path")

	return cmd
}

func buildUpdateCmd(a *app) *cobra.Command {
	var address, codePath string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace the validity predicate of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, release, err := a.newClient(cmd, true)
			if err != nil {
				return err
			}
			defer release()

			_, err = c.SubmitUpdateVP(cmd.Context(), client.UpdateVPArgs{
				TxArgs:     a.txArgs(),
				Address:    address,
				VPCodePath: codePath,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Wallet alias of the account to update")
	cmd.Flags().StringVar(&codePath, "code-path", "", "Path to the new validity predicate code")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("code-path")

	return cmd
}

func buildTransferCmd(a *app) *cobra.Command {
	var source, target, token, amount string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer tokens between accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := tx.ParseAmount(amount)
			if err != nil {
				return err
			}
			c, release, err := a.newClient(cmd, true)
			if err != nil {
				return err
			}
			defer release()

			_, err = c.SubmitTransfer(cmd.Context(), client.TransferArgs{
				TxArgs: a.txArgs(),
				Source: source,
				Target: target,
				Token:  token,
				Amount: amt,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Wallet alias of the sending account")
	cmd.Flags().StringVar(&target, "target", "", "Receiving address")
	cmd.Flags().StringVar(&token, "token", "", "Token address")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to transfer, e.g. 10 or 0.25")
	for _, name := range []string{"source", "target", "token", "amount"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
