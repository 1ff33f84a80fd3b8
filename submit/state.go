package submit

import (
	"fmt"

	"go.uber.org/zap"
)

// State is a step of the broadcast state machine:
//
//	Idle -> Connected -> Subscribed -> Broadcast -> Confirmed -> Closed
//
// Any state may move straight to Closed on error. Closed is terminal.
type State int

const (
	StateIdle State = iota
	StateConnected
	StateSubscribed
	StateBroadcast
	StateConfirmed
	StateClosed
)

var stateNames = [...]string{
	StateIdle:       "idle",
	StateConnected:  "connected",
	StateSubscribed: "subscribed",
	StateBroadcast:  "broadcast",
	StateConfirmed:  "confirmed",
	StateClosed:     "closed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// machine records the state transitions of one submission.
type machine struct {
	res *Result
	log *zap.SugaredLogger
}

func (m *machine) current() (State, bool) {
	if len(m.res.States) == 0 {
		return 0, false
	}
	return m.res.States[len(m.res.States)-1], true
}

func (m *machine) enter(next State) {
	if cur, ok := m.current(); ok {
		if cur == StateClosed {
			panic(fmt.Sprintf("submit: transition out of terminal state to %s", next))
		}
		m.log.Debugw("state", "from", cur.String(), "to", next.String())
	}
	m.res.States = append(m.res.States, next)
}
