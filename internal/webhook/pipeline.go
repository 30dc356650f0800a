// Package webhook implements the delivery processing pipeline: signature
// verification, topic resolution, payload normalization, and dispatch against
// the document store. The pipeline is stateless across invocations; every
// delivery is verified, resolved, normalized, and dispatched independently.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// Transport headers set by the delivering platform.
const (
	SignatureHeader = "X-Webhook-Hmac-Sha256"
	TopicHeader     = "X-Webhook-Topic"
)

// Store is the document-store surface the dispatcher mutates. Upsert must be
// a single atomic match-or-insert operation keyed on the document id; Delete
// removes at most one matching document and treats a missing document as a
// no-op.
type Store interface {
	Upsert(ctx context.Context, resource string, id any, doc map[string]any) error
	Delete(ctx context.Context, resource string, id any) error
}

// Delivery is one inbound webhook request: the raw body bytes plus the
// transport headers, passed explicitly so the pipeline never reads ambient
// request state.
type Delivery struct {
	Headers http.Header
	Body    []byte
}

// Outcome is the terminal state of a successfully dispatched delivery.
type Outcome int

const (
	OutcomeUpserted Outcome = iota + 1
	OutcomeDeleted
)

// Result is a read-only view of a completed pipeline run, exposed for
// host-side logging and auditing.
type Result struct {
	topic   Topic
	payload map[string]any
	outcome Outcome
}

// Topic returns the resolved topic string, "<resource>/<action>".
func (r *Result) Topic() string { return r.topic.String() }

// Resource returns the resolved resource name.
func (r *Result) Resource() string { return r.topic.Resource }

// Action returns the resolved action verb.
func (r *Result) Action() string { return r.topic.Action }

// Payload returns the normalized payload.
func (r *Result) Payload() map[string]any { return r.payload }

// Outcome returns whether the delivery was upserted or deleted.
func (r *Result) Outcome() Outcome { return r.outcome }

// Pipeline processes webhook deliveries against a shared secret and a
// document store. Constructed once at startup and safe for concurrent use.
type Pipeline struct {
	secret string
	store  Store
}

// NewPipeline constructs a Pipeline with the shared signing secret and the
// store the dispatcher mutates.
func NewPipeline(secret string, store Store) *Pipeline {
	return &Pipeline{
		secret: secret,
		store:  store,
	}
}

// Process runs one delivery through verify, resolve, normalize, and dispatch.
// Any stage failure halts processing at that stage; at most one store
// mutation happens per delivery and none on failure before dispatch.
func (p *Pipeline) Process(ctx context.Context, d Delivery) (*Result, error) {
	if err := VerifySignature(d.Body, d.Headers.Get(SignatureHeader), p.secret); err != nil {
		return nil, err
	}

	topic, err := ResolveTopic(d.Headers.Get(TopicHeader))
	if err != nil {
		return nil, err
	}

	payload, err := decodePayload(d.Body)
	if err != nil {
		return nil, err
	}
	payload = NormalizePayload(payload)

	outcome, err := p.dispatch(ctx, topic, payload)
	if err != nil {
		return nil, err
	}

	return &Result{topic: topic, payload: payload, outcome: outcome}, nil
}

func (p *Pipeline) dispatch(ctx context.Context, topic Topic, payload map[string]any) (Outcome, error) {
	switch ClassifyAction(topic.Action) {
	case ActionUpsert:
		// The id may be absent; the store layer rejects it, not the pipeline.
		if err := p.store.Upsert(ctx, topic.Resource, payload[KeyField], payload); err != nil {
			return 0, &StoreError{Op: "upsert", Resource: topic.Resource, Err: err}
		}
		return OutcomeUpserted, nil
	case ActionDelete:
		if err := p.store.Delete(ctx, topic.Resource, payload[KeyField]); err != nil {
			return 0, &StoreError{Op: "delete", Resource: topic.Resource, Err: err}
		}
		return OutcomeDeleted, nil
	default:
		return 0, &UnrecognizedTopicError{Topic: topic.String()}
	}
}

// decodePayload decodes the verified body into a nested mapping. Numbers are
// kept as json.Number so identifier values survive round-trips unchanged.
func decodePayload(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, ErrInvalidPayload
	}
	return payload, nil
}
