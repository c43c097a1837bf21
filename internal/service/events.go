package service

// Realtime event names pushed to connected dashboards
const (
	EventStockChanged     = "stock_changed"
	EventSaleRecorded     = "sale_recorded"
	EventPurchaseReceived = "purchase_received"
)

// EventPublisher fans a named event out to live subscribers.
// Publish must not block the caller.
type EventPublisher interface {
	Publish(event string, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
