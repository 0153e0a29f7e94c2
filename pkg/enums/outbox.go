package enums

// OutboxEventType names the domain events recorded for asynchronous publication.
type OutboxEventType string

const (
	EventOrderCreated       OutboxEventType = "order.created"
	EventOrderStatusChanged OutboxEventType = "order.status_changed"
	EventOrderExpired       OutboxEventType = "order.expired"
	EventLicenseIssued      OutboxEventType = "license.issued"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateOrder   OutboxAggregateType = "order"
	AggregateLicense OutboxAggregateType = "license"
)
