package anomac

import (
	"github.com/spf13/cobra"

	"github.com/donyusuf12/namada/client"
	"github.com/donyusuf12/namada/journal"
	"github.com/donyusuf12/namada/network"
	"github.com/donyusuf12/namada/wallet"
)

// newClient wires a client.Client from the loaded configuration. withKeys
// opens the keystore for commands that sign. The returned func releases
// whatever was opened.
func (a *app) newClient(cmd *cobra.Command, withKeys bool) (*client.Client, func(), error) {
	var closers []func() error
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	nodes := client.NodeNetwork{}
	if a.cfg.DNSServer != "" {
		nodes.Resolver = network.NewDNSResolver(a.cfg.DNSServer)
	}
	c := &client.Client{
		Wasm:        a.cfg.Wasm,
		Network:     nodes,
		Out:         cmd.OutOrStdout(),
		WaitTimeout: a.cfg.WaitTimeout,
	}

	if withKeys {
		password, err := a.walletPassword()
		if err != nil {
			return nil, nil, err
		}
		ks, err := wallet.Open(a.cfg.WalletPath(), password)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, ks.Close)
		c.Keys = ks
	}

	j, err := journal.Open(a.cfg.JournalPath())
	if err != nil {
		release()
		return nil, nil, err
	}
	closers = append(closers, j.Close)
	c.Journal = j

	return c, release, nil
}
