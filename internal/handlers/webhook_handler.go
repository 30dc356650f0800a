package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopsync-io/shopsync/internal/logging"
	"github.com/shopsync-io/shopsync/internal/metrics"
	"github.com/shopsync-io/shopsync/internal/ratelimit"
	"github.com/shopsync-io/shopsync/internal/webhook"
)

// ShopDomainHeader identifies the delivering shop. Used as the rate-limit key
// and for logging; falls back to the client IP when absent.
const ShopDomainHeader = "X-Webhook-Shop-Domain"

// Pinger is the readiness surface of the document store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type deliveryResponse struct {
	Status   string `json:"status"`
	Resource string `json:"resource,omitempty"`
	Action   string `json:"action,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// WebhookHandler exposes the delivery pipeline over HTTP.
type WebhookHandler struct {
	pipeline    *webhook.Pipeline
	rateLimiter ratelimit.RateLimiter
	store       Pinger
	maxBodySize int64
	logger      *logging.Logger
}

// NewWebhookHandler wires the pipeline, rate limiter, and store readiness
// probe into an HTTP handler.
func NewWebhookHandler(pipeline *webhook.Pipeline, limiter ratelimit.RateLimiter, store Pinger, maxBodySize int64, logger *logging.Logger) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		pipeline:    pipeline,
		rateLimiter: limiter,
		store:       store,
		maxBodySize: maxBodySize,
		logger:      logger,
	}
}

// HandleDelivery processes one webhook delivery. The pipeline owns
// classification; this handler only reads the raw request, applies rate
// limiting, and maps error kinds onto HTTP statuses.
func (h *WebhookHandler) HandleDelivery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	shop := r.Header.Get(ShopDomainHeader)
	limitKey := shop
	if limitKey == "" {
		limitKey = getClientIP(r)
	}

	allowed, err := h.rateLimiter.Allow(r.Context(), limitKey)
	if err != nil {
		// Rate limiter outage must not drop deliveries.
		h.logger.WarnContext(r.Context(), "rate limiter unavailable", logging.Error(err))
		allowed = true
	}
	if !allowed {
		h.sendError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		h.sendError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	defer r.Body.Close()

	if len(body) == 0 {
		h.sendError(w, http.StatusBadRequest, "empty request body")
		return
	}
	metrics.DeliveryBytesTotal.Add(float64(len(body)))

	start := time.Now()
	result, err := h.pipeline.Process(r.Context(), webhook.Delivery{
		Headers: r.Header,
		Body:    body,
	})
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		h.handlePipelineError(w, r, shop, err)
		return
	}

	metrics.DeliveriesTotal.WithLabelValues(result.Resource(), result.Action(), "ok").Inc()
	h.logger.InfoContext(r.Context(), "delivery dispatched",
		logging.Topic(result.Topic()),
		logging.Shop(shop),
		logging.Duration(time.Since(start).Milliseconds()),
	)

	h.sendJSON(w, http.StatusOK, deliveryResponse{
		Status:   "ok",
		Resource: result.Resource(),
		Action:   result.Action(),
	})
}

func (h *WebhookHandler) handlePipelineError(w http.ResponseWriter, r *http.Request, shop string, err error) {
	var status int
	switch {
	case webhook.IsAuthenticationError(err):
		status = http.StatusUnauthorized
		metrics.VerificationFailures.Inc()
	case webhook.IsProtocolError(err):
		status = http.StatusBadRequest
	case webhook.IsUnrecognizedTopic(err):
		status = http.StatusUnprocessableEntity
	case webhook.IsStoreError(err):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	topic := r.Header.Get(webhook.TopicHeader)
	metrics.DeliveriesTotal.WithLabelValues(topicResource(topic), topicAction(topic), "error").Inc()
	h.logger.WarnContext(r.Context(), "delivery rejected",
		logging.Topic(topic),
		logging.Shop(shop),
		logging.Status(status),
		logging.Error(err),
	)

	h.sendError(w, status, err.Error())
}

// Health is the liveness probe.
func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready is the readiness probe: the service is ready when the store answers.
func (h *WebhookHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.sendJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *WebhookHandler) sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *WebhookHandler) sendError(w http.ResponseWriter, status int, msg string) {
	h.sendJSON(w, status, errorResponse{Error: msg})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// topicResource and topicAction extract metric labels from an unresolved
// topic header without failing on malformed values.
func topicResource(topic string) string {
	if res, _, ok := strings.Cut(topic, "/"); ok && res != "" {
		return res
	}
	return "unknown"
}

func topicAction(topic string) string {
	if _, action, ok := strings.Cut(topic, "/"); ok && action != "" {
		return action
	}
	return "unknown"
}
