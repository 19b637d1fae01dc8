package main

import "github.com/imrishuroy/go-catalog/internal/events"

// Metric names recorded per catalog event type.
const (
	MetricItemsCreated = "ItemsCreated"
	MetricItemsUpdated = "ItemsUpdated"
	MetricItemsDeleted = "ItemsDeleted"
)

func metricName(eventType string) string {
	switch eventType {
	case events.TypeItemCreated:
		return MetricItemsCreated
	case events.TypeItemUpdated:
		return MetricItemsUpdated
	case events.TypeItemDeleted:
		return MetricItemsDeleted
	}
	return ""
}
