// Package submit sends a transaction to a node and waits for the node's
// execution event for that exact transaction.
//
// A broadcast submission always installs its event subscription before the
// transaction is broadcast, so a node that executes the transaction quickly
// cannot emit the event before the client is listening. The subscription and
// the connection are released on every exit path.
package submit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/donyusuf12/namada/logging"
	"github.com/donyusuf12/namada/network"
	"github.com/donyusuf12/namada/tx"
)

// cleanupTimeout bounds the unsubscribe call made while tearing down. It
// applies even when the submission context is already cancelled.
const cleanupTimeout = 10 * time.Second

// Mode selects how Submit handles the transaction.
type Mode int

const (
	// Broadcast subscribes, broadcasts and waits for the confirmation event.
	Broadcast Mode = iota
	// DryRun simulates the transaction without touching any connection.
	DryRun
)

func (m Mode) String() string {
	switch m {
	case Broadcast:
		return "broadcast"
	case DryRun:
		return "dry-run"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Result is the outcome of one submission. Fields are filled as far as the
// submission got, so a failed Submit still returns the hash and, after a
// broadcast, the node's acknowledgment.
type Result struct {
	Hash   string
	Mode   Mode
	Ack    *network.BroadcastResult
	Event  *network.Event
	DryRun *network.DryRunResult

	// States lists the states the submission passed through, in order.
	States []State
}

// Confirmed reports whether the matching execution event was received.
func (r *Result) Confirmed() bool { return r != nil && r.Event != nil }

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSimulator sets the collaborator used for DryRun submissions.
func WithSimulator(sim network.Simulator) Option {
	return func(c *Coordinator) { c.sim = sim }
}

// WithAckHandler registers fn to be called with the broadcast acknowledgment
// as soon as it arrives, before the confirmation wait.
func WithAckHandler(fn func(*network.BroadcastResult)) Option {
	return func(c *Coordinator) { c.onAck = fn }
}

// Coordinator runs submissions. It holds no per-submission state and may be
// used for concurrent submissions as long as each gets its own connection.
type Coordinator struct {
	sim   network.Simulator
	onAck func(*network.BroadcastResult)
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit handles txBytes according to mode.
//
// In Broadcast mode the steps run strictly in order: hash, build query, dial,
// subscribe, broadcast, wait for the matching event, unsubscribe, close. If
// subscribe fails the transaction is never broadcast. Unsubscribe runs if and
// only if subscribe succeeded, Close if and only if dial succeeded, each at
// most once. A rejected broadcast (non-zero code) is reported as
// network.ErrBroadcastRejected with the acknowledgment kept in the Result.
//
// The confirmation wait is bounded only by ctx.
//
// In DryRun mode dialer is not used.
func (c *Coordinator) Submit(ctx context.Context, dialer network.Dialer, txBytes []byte, mode Mode) (*Result, error) {
	if len(txBytes) == 0 {
		return nil, ErrEmptyTx
	}

	res := &Result{Hash: tx.Hash(txBytes), Mode: mode}
	switch mode {
	case DryRun:
		return res, c.dryRun(ctx, txBytes, res)
	case Broadcast:
		return res, c.broadcast(ctx, dialer, txBytes, res)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
}

func (c *Coordinator) dryRun(ctx context.Context, txBytes []byte, res *Result) error {
	if c.sim == nil {
		return &StageError{Stage: StageDryRun, Err: ErrNoSimulator}
	}
	out, err := c.sim.DryRun(ctx, txBytes)
	if err != nil {
		return &StageError{Stage: StageDryRun, Err: err}
	}
	res.DryRun = out
	logging.From(ctx).Infow("dry run finished", "hash", res.Hash, "code", out.Code)
	return nil
}

func (c *Coordinator) broadcast(ctx context.Context, dialer network.Dialer, txBytes []byte, res *Result) (err error) {
	log := logging.From(ctx).With("hash", res.Hash)
	sm := &machine{res: res, log: log}
	sm.enter(StateIdle)

	query := network.TxQuery(res.Hash)

	conn, err := dialer.Dial(ctx)
	if err != nil {
		sm.enter(StateClosed)
		return stageErr(StageDial, network.ErrConnectionFailed, err)
	}
	sm.enter(StateConnected)
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			err = cleanupErr(log, err, StageClose, cerr)
		}
		sm.enter(StateClosed)
	}()

	if err := conn.Subscribe(ctx, query); err != nil {
		return stageErr(StageSubscribe, network.ErrSubscriptionFailed, err)
	}
	sm.enter(StateSubscribed)
	log.Debugw("subscribed", "query", query.String())
	defer func() {
		uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()
		if uerr := conn.Unsubscribe(uctx, query); uerr != nil {
			err = cleanupErr(log, err, StageUnsubscribe, uerr)
		}
	}()

	ack, err := conn.BroadcastTxSync(ctx, txBytes)
	if err != nil {
		return stageErr(StageBroadcast, network.ErrBroadcastFailed, err)
	}
	if ack == nil {
		return stageErr(StageBroadcast, network.ErrInvalidResponse, errors.New("no acknowledgment"))
	}
	res.Ack = ack
	sm.enter(StateBroadcast)
	log.Infow("broadcast acknowledged", "code", ack.Code, "log", ack.Log)
	if c.onAck != nil {
		c.onAck(ack)
	}
	if !ack.Accepted() {
		return &StageError{Stage: StageBroadcast, Err: fmt.Errorf("%w: %s", network.ErrBroadcastRejected, ack)}
	}
	if ack.Hash != "" && !strings.EqualFold(ack.Hash, res.Hash) {
		log.Warnw("node reported a different transaction hash", "node_hash", ack.Hash)
	}

	for {
		ev, err := conn.Receive(ctx)
		if err != nil {
			return &StageError{Stage: StageConfirm, Err: err}
		}
		if ev.Matches(res.Hash) {
			res.Event = ev
			sm.enter(StateConfirmed)
			log.Infow("transaction confirmed", "height", ev.Height())
			return nil
		}
		log.Debugw("skipping unrelated event", "event", ev.String())
	}
}

// cleanupErr folds a teardown failure into the submission's result. When the
// submission already failed, the first error wins and the teardown error
// is only logged.
func cleanupErr(log *zap.SugaredLogger, err error, stage Stage, cerr error) error {
	if err != nil {
		log.Warnw("cleanup failed", "stage", string(stage), "error", cerr)
		return err
	}
	return &StageError{Stage: stage, Err: cerr}
}
