package notify

// Event describes one mutation on a tracked table. The admin UI uses these
// to refresh its pending-count badges without polling.
type Event struct {
	Table  string `json:"table"`
	Action string `json:"action"` // create, edit, delete, restore, purge, import
}

// Notifier fans a change event out to whoever listens. Delivery is
// best-effort everywhere: a lost event only delays a badge refresh, and the
// polling counts endpoint satisfies the same contract on its own.
type Notifier interface {
	Changed(table, action string)
}

type noopNotifier struct{}

func (noopNotifier) Changed(table, action string) {}

// NewNoop returns a notifier that drops every event. Used in tests and in
// deployments that rely solely on polling.
func NewNoop() Notifier {
	return noopNotifier{}
}

// Broadcaster is the sink side, implemented by the websocket hub.
type Broadcaster interface {
	Broadcast(event Event)
}

type localNotifier struct {
	hub Broadcaster
}

// NewLocal returns a notifier that hands events straight to the hub.
// Suitable for single-process deployments without Redis.
func NewLocal(hub Broadcaster) Notifier {
	return &localNotifier{hub: hub}
}

func (n *localNotifier) Changed(table, action string) {
	n.hub.Broadcast(Event{Table: table, Action: action})
}
