package network

import (
	"context"
	"encoding/hex"
	"fmt"
)

// DryRunPath is the ABCI query path that simulates a transaction.
const DryRunPath = "dry_run_tx"

var _ Simulator = (*RPCClient)(nil)

type abciQueryParams struct {
	Path  string `json:"path"`
	Data  string `json:"data"`
	Prove bool   `json:"prove"`
}

type abciQueryResult struct {
	Response struct {
		Code      uint32 `json:"code"`
		Log       string `json:"log"`
		Info      string `json:"info"`
		Value     []byte `json:"value"`
		Height    string `json:"height"`
		Codespace string `json:"codespace"`
	} `json:"response"`
}

// DryRun simulates tx against the node's current state through abci_query.
// Nothing is broadcast and no subscription is made. A non-zero Code in the
// result means the transaction would fail; it is not returned as an error.
func (c *RPCClient) DryRun(ctx context.Context, tx []byte) (*DryRunResult, error) {
	if len(tx) == 0 {
		return nil, ErrEmptyTx
	}

	params := abciQueryParams{
		Path: DryRunPath,
		Data: hex.EncodeToString(tx),
	}
	var res abciQueryResult
	if err := c.Call(ctx, "abci_query", params, &res); err != nil {
		return nil, fmt.Errorf("network: dry run: %w", err)
	}

	r := res.Response
	return &DryRunResult{
		Code:   r.Code,
		Log:    r.Log,
		Info:   r.Info,
		Value:  r.Value,
		Height: r.Height,
	}, nil
}
