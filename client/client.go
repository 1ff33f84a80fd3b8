// Package client implements the transaction commands: custom code,
// validity-predicate update and token transfer. Each command reads its code
// blobs, builds and signs the transaction, and hands the bytes to a
// submit.Coordinator.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/donyusuf12/namada/config"
	"github.com/donyusuf12/namada/journal"
	"github.com/donyusuf12/namada/logging"
	"github.com/donyusuf12/namada/network"
	"github.com/donyusuf12/namada/submit"
	"github.com/donyusuf12/namada/tx"
	"github.com/donyusuf12/namada/wallet"
)

// Transaction kinds as recorded in the journal.
const (
	KindCustom   = "custom"
	KindUpdateVP = "update_vp"
	KindTransfer = "transfer"
)

var (
	// ErrFileNotFound indicates a code or data file does not exist.
	ErrFileNotFound = errors.New("client: file not found")

	// ErrNoKeystore indicates a signed transaction was requested without a keystore.
	ErrNoKeystore = errors.New("client: no keystore configured")
)

// KeyResolver resolves an account alias to its signing key.
// *wallet.Keystore satisfies it.
type KeyResolver interface {
	KeyOf(alias string) (*wallet.KeyPair, error)
}

// Recorder stores a summary of each submission. *journal.Journal satisfies it.
type Recorder interface {
	Put(rec *journal.Record) error
}

// Network builds the node collaborators for a ledger address.
type Network interface {
	Dialer(addr network.Address) network.Dialer
	Simulator(addr network.Address) network.Simulator
}

// NodeNetwork connects to real nodes: WebSocket for broadcasts and HTTP
// JSON-RPC for dry runs.
type NodeNetwork struct {
	// Resolver resolves node hosts. Nil means the system resolver.
	Resolver network.Resolver
}

// Dialer returns a WebSocket dialer for addr.
func (n NodeNetwork) Dialer(addr network.Address) network.Dialer {
	return &network.WSDialer{Address: addr, Resolver: n.Resolver}
}

// Simulator returns an HTTP JSON-RPC client for addr.
func (n NodeNetwork) Simulator(addr network.Address) network.Simulator {
	return network.NewRPCClient(addr)
}

// TxArgs are the submission options shared by every command.
type TxArgs struct {
	LedgerAddress string
	DryRun        bool
}

// CustomArgs submits arbitrary code with optional data. The transaction is
// not signed.
type CustomArgs struct {
	TxArgs
	CodePath string
	DataPath string // optional
}

// UpdateVPArgs replaces the validity predicate of Address.
type UpdateVPArgs struct {
	TxArgs
	Address    string
	VPCodePath string
}

// TransferArgs moves Amount of Token from Source to Target.
type TransferArgs struct {
	TxArgs
	Source string
	Target string
	Token  string
	Amount tx.Amount
}

// Client runs transaction commands.
type Client struct {
	Wasm    config.Wasm
	Keys    KeyResolver
	Network Network
	Journal Recorder // optional
	Out     io.Writer

	// WaitTimeout bounds a whole submission. Zero means no bound.
	WaitTimeout time.Duration
}

// SubmitCustom submits the code at args.CodePath with the optional data blob.
func (c *Client) SubmitCustom(ctx context.Context, args CustomArgs) (*submit.Result, error) {
	addr, err := network.ParseAddress(args.LedgerAddress)
	if err != nil {
		return nil, err
	}
	code, err := readFile(args.CodePath)
	if err != nil {
		return nil, err
	}
	var data []byte
	if args.DataPath != "" {
		if data, err = readFile(args.DataPath); err != nil {
			return nil, err
		}
	}

	return c.submit(ctx, KindCustom, addr, args.DryRun, tx.New(code, data))
}

// SubmitUpdateVP replaces the validity predicate of args.Address, signed by
// that account's key.
func (c *Client) SubmitUpdateVP(ctx context.Context, args UpdateVPArgs) (*submit.Result, error) {
	addr, err := network.ParseAddress(args.LedgerAddress)
	if err != nil {
		return nil, err
	}
	vpCode, err := readFile(args.VPCodePath)
	if err != nil {
		return nil, err
	}
	code, err := c.wasm(config.KindUpdateVP)
	if err != nil {
		return nil, err
	}
	key, err := c.keyOf(args.Address)
	if err != nil {
		return nil, err
	}

	data, err := tx.UpdateVP{Address: args.Address, VPCode: vpCode}.Encode()
	if err != nil {
		return nil, err
	}
	signed, err := tx.New(code, data).Sign(key.PrivateKey)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, KindUpdateVP, addr, args.DryRun, signed)
}

// SubmitTransfer submits a token transfer signed by the source account's key.
func (c *Client) SubmitTransfer(ctx context.Context, args TransferArgs) (*submit.Result, error) {
	addr, err := network.ParseAddress(args.LedgerAddress)
	if err != nil {
		return nil, err
	}
	code, err := c.wasm(config.KindTransfer)
	if err != nil {
		return nil, err
	}
	key, err := c.keyOf(args.Source)
	if err != nil {
		return nil, err
	}

	transfer := tx.Transfer{
		Source: args.Source,
		Target: args.Target,
		Token:  args.Token,
		Amount: args.Amount,
	}
	logging.From(ctx).Debugw("transfer data",
		"source", transfer.Source,
		"target", transfer.Target,
		"token", transfer.Token,
		"amount", transfer.Amount.String(),
	)
	data, err := transfer.Encode()
	if err != nil {
		return nil, err
	}
	signed, err := tx.New(code, data).Sign(key.PrivateKey)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, KindTransfer, addr, args.DryRun, signed)
}

func (c *Client) submit(ctx context.Context, kind string, addr network.Address, dryRun bool, t *tx.Transaction) (*submit.Result, error) {
	txBytes, err := t.Bytes()
	if err != nil {
		return nil, err
	}

	if c.WaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.WaitTimeout)
		defer cancel()
	}

	mode := submit.Broadcast
	if dryRun {
		mode = submit.DryRun
	}
	coord := submit.NewCoordinator(
		submit.WithSimulator(c.Network.Simulator(addr)),
		submit.WithAckHandler(func(ack *network.BroadcastResult) {
			fmt.Fprintf(c.out(), "Broadcast result: %s\n", ack)
		}),
	)

	res, err := coord.Submit(ctx, c.Network.Dialer(addr), txBytes, mode)
	if res != nil {
		if res.DryRun != nil {
			fmt.Fprintf(c.out(), "Dry run result: %s\n", res.DryRun)
		}
		if res.Event != nil {
			fmt.Fprintf(c.out(), "Transaction confirmed: %s\n", res.Event)
		}
	}
	c.record(ctx, journal.NewRecord(kind, addr.String(), res, err))
	return res, err
}

func (c *Client) record(ctx context.Context, rec *journal.Record) {
	if c.Journal == nil {
		return
	}
	if err := c.Journal.Put(rec); err != nil {
		logging.From(ctx).Warnw("journal write failed", "hash", rec.Hash, "error", err)
	}
}

func (c *Client) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Client) wasm(kind string) ([]byte, error) {
	path := c.Wasm[kind]
	if path == "" {
		return nil, fmt.Errorf("%w: %s", config.ErrMissingWasm, kind)
	}
	return readFile(path)
}

func (c *Client) keyOf(alias string) (*wallet.KeyPair, error) {
	if c.Keys == nil {
		return nil, ErrNoKeystore
	}
	return c.Keys.KeyOf(alias)
}

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("client: read %s: %w", path, err)
	}
	return b, nil
}
