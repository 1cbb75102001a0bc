package changefeed

// Event kinds announced on the change feed.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Hub is the broadcast surface the feed publishes to.
type Hub interface {
	BroadcastChange(table, event string, id uint)
}

// defaultHub lets controllers publish without each one being handed the
// WebSocket hub explicitly.
var defaultHub Hub

// SetHub wires the package-level hub used by Publish.
func SetHub(h Hub) {
	defaultHub = h
}

// Publish announces a mutation on a watched table. Dashboard and list
// clients re-fetch their full dataset on receipt. A nil hub (tests,
// early startup) makes this a no-op.
func Publish(table, event string, id uint) {
	if defaultHub == nil {
		return
	}
	defaultHub.BroadcastChange(table, event, id)
}
