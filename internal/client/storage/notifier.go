package storage

// Op says what happened to a key.
type Op int

const (
	OpPut Op = iota
	OpDelete
)

func (o Op) String() string {
	if o == OpDelete {
		return "delete"
	}
	return "put"
}

// Event reports a change to one key, possibly made by another process.
type Event struct {
	Key string
	Op  Op
}

// Notifier delivers change events. Subscribe returns a receive channel and a
// cancel func; after cancel the channel is closed and no more events arrive.
type Notifier interface {
	Subscribe() (<-chan Event, func())
}
