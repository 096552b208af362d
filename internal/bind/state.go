package bind

// State is the binding's synchronization guard. Exactly one state holds at
// a time and every event handler checks it on entry, so the reentrancy
// contract is an explicit type instead of a pair of booleans.
type State int

const (
	// StateIdle means no cross-apply or focus transfer is in progress.
	// While idle the session content is byte-identical to the bound
	// node's text.
	StateIdle State = iota

	// StateSyncing holds for the duration of exactly one cross-apply in
	// either direction. It is always cleared before the applying call
	// returns, never across an event-loop turn.
	StateSyncing

	// StateEscaping holds while focus moves out of the session to the
	// host. Focus and selection forwarding stay suppressed until the
	// transfer completes.
	StateEscaping
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSyncing:
		return "syncing"
	case StateEscaping:
		return "escaping"
	default:
		return "unknown"
	}
}

// enter moves the guard to s and returns a func restoring the previous
// state. Callers defer the restore so the guard cannot outlive the
// operation that set it.
func (b *Binding) enter(s State) func() {
	prev := b.state
	b.state = s
	return func() { b.state = prev }
}
