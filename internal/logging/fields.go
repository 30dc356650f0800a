package logging

import "log/slog"

// Common field names for consistent logging across the service.
const (
	FieldService  = "service"
	FieldIP       = "ip"
	FieldTopic    = "topic"
	FieldResource = "resource"
	FieldAction   = "action"
	FieldShop     = "shop"
	FieldStatus   = "status"
	FieldDuration = "duration_ms"
	FieldError    = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// IP returns a slog attribute for the client IP address.
func IP(ip string) slog.Attr {
	return slog.String(FieldIP, ip)
}

// Topic returns a slog attribute for the webhook topic.
func Topic(topic string) slog.Attr {
	return slog.String(FieldTopic, topic)
}

// Resource returns a slog attribute for the resource name.
func Resource(name string) slog.Attr {
	return slog.String(FieldResource, name)
}

// Action returns a slog attribute for the topic action.
func Action(action string) slog.Attr {
	return slog.String(FieldAction, action)
}

// Shop returns a slog attribute for the delivering shop domain.
func Shop(domain string) slog.Attr {
	return slog.String(FieldShop, domain)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
