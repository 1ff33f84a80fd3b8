package network

import (
	"fmt"
	"strings"
)

// EventTypeTx is the event type the node emits when a transaction is executed.
const EventTypeTx = "Tx"

// Query is an event subscription filter in the node's query language, e.g.
//
//	tm.event = 'Tx' AND tx.hash = 'ABCD...'
type Query string

// NewQuery returns a query matching events of the given type.
func NewQuery(eventType string) Query {
	return Query(fmt.Sprintf("tm.event = %s", quote(eventType)))
}

// AndEq narrows the query to events whose key attribute equals value.
func (q Query) AndEq(key, value string) Query {
	cond := fmt.Sprintf("%s = %s", key, quote(value))
	if q == "" {
		return Query(cond)
	}
	return Query(string(q) + " AND " + cond)
}

// TxQuery matches the execution event of the transaction with the given hash.
func TxQuery(hash string) Query {
	return NewQuery(EventTypeTx).AndEq("tx.hash", hash)
}

func (q Query) String() string { return string(q) }

func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
}
