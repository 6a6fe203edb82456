package messaging

// Kafka topics shared by the services.
const (
	TopicOrderPlaced    = "order.placed"
	TopicCatalogChanged = "catalog.changed"
)
