// Package store provides the OpenSearch-backed document store the webhook
// dispatcher mutates. Each upstream resource type maps 1:1 to an index, and
// the payload's designated identifier field becomes the document id, so
// upserts are a single atomic index-by-id call and deletes are idempotent.
package store

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"

	"github.com/shopsync-io/shopsync/internal/metrics"
)

// Config holds OpenSearch connection and index naming configuration.
type Config struct {
	URL           string
	Username      string
	Password      string
	TLSSkipVerify bool
	IndexPrefix   string
}

// DefaultConfig returns sensible defaults for OpenSearch configuration.
func DefaultConfig() Config {
	return Config{
		URL:           "https://localhost:9200",
		Username:      "admin",
		Password:      "admin",
		TLSSkipVerify: true,
		IndexPrefix:   "shopsync",
	}
}

// OpenSearchStore is a direct OpenSearch client implementing the dispatcher's
// store surface.
type OpenSearchStore struct {
	client *opensearch.Client
	config Config
}

// NewOpenSearchStore creates a new OpenSearch-backed store.
func NewOpenSearchStore(cfg Config) (*OpenSearchStore, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.TLSSkipVerify,
			},
		},
	}

	osCfg := opensearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: httpClient.Transport,
	}

	client, err := opensearch.NewClient(osCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	return &OpenSearchStore{
		client: client,
		config: cfg,
	}, nil
}

// Initialize verifies connectivity and installs the index template covering
// all resource indices. Template installation is best-effort at startup;
// dynamic mapping still applies without it.
func (s *OpenSearchStore) Initialize(ctx context.Context) error {
	info, err := s.client.Info(s.client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to connect to opensearch: %w", err)
	}
	defer info.Body.Close()

	if info.IsError() {
		return fmt.Errorf("opensearch returned error: %s", info.Status())
	}

	if err := s.createIndexTemplate(ctx); err != nil {
		return fmt.Errorf("failed to create index template: %w", err)
	}

	return nil
}

// Ping reports whether the store is reachable. Used by the readiness probe.
func (s *OpenSearchStore) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("opensearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch ping returned %s", res.Status())
	}
	return nil
}

// Upsert indexes the document under the canonicalized id, replacing any
// existing document with the same id. Indexing by document id is a single
// atomic operation on the OpenSearch side, so concurrent deliveries for the
// same resource id cannot interleave a read-then-write race.
func (s *OpenSearchStore) Upsert(ctx context.Context, resource string, id any, doc map[string]any) error {
	start := time.Now()
	defer func() {
		metrics.StoreDuration.WithLabelValues("upsert").Observe(time.Since(start).Seconds())
	}()

	docID, err := documentID(id)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("upsert").Inc()
		return err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("upsert").Inc()
		return fmt.Errorf("marshal document: %w", err)
	}

	res, err := s.client.Index(
		s.indexName(resource),
		bytes.NewReader(body),
		s.client.Index.WithDocumentID(docID),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("upsert").Inc()
		return fmt.Errorf("index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		metrics.StoreErrors.WithLabelValues("upsert").Inc()
		resBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf("opensearch index error: %s - %s", res.Status(), string(resBody))
	}
	return nil
}

// Delete removes the document with the canonicalized id. A missing document
// is not an error: redelivered delete events are a no-op.
func (s *OpenSearchStore) Delete(ctx context.Context, resource string, id any) error {
	start := time.Now()
	defer func() {
		metrics.StoreDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	}()

	docID, err := documentID(id)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("delete").Inc()
		return err
	}

	res, err := s.client.Delete(
		s.indexName(resource),
		docID,
		s.client.Delete.WithContext(ctx),
	)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("delete document: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		metrics.StoreErrors.WithLabelValues("delete").Inc()
		resBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf("opensearch delete error: %s - %s", res.Status(), string(resBody))
	}
	return nil
}

func (s *OpenSearchStore) indexName(resource string) string {
	if s.config.IndexPrefix == "" {
		return resource
	}
	return s.config.IndexPrefix + "-" + resource
}

func (s *OpenSearchStore) createIndexTemplate(ctx context.Context) error {
	pattern := s.config.IndexPrefix + "-*"
	if s.config.IndexPrefix == "" {
		pattern = "*"
	}

	template := map[string]any{
		"index_patterns": []string{pattern},
		"template": map[string]any{
			"settings": map[string]any{
				"number_of_shards":   1,
				"number_of_replicas": 0,
			},
			"mappings": map[string]any{
				"dynamic":        true,
				"date_detection": true,
				"dynamic_templates": []map[string]any{
					{
						"strings_as_keywords": map[string]any{
							"match_mapping_type": "string",
							"mapping": map[string]any{
								"type": "text",
								"fields": map[string]any{
									"keyword": map[string]any{
										"type":         "keyword",
										"ignore_above": 256,
									},
								},
							},
						},
					},
				},
			},
		},
		"priority": 100,
	}

	body, err := json.Marshal(template)
	if err != nil {
		return err
	}

	res, err := s.client.Indices.PutIndexTemplate(
		s.config.IndexPrefix+"-template",
		bytes.NewReader(body),
		s.client.Indices.PutIndexTemplate.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		resBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf("failed to create index template: %s - %s", res.Status(), string(resBody))
	}
	return nil
}

// documentID canonicalizes the payload's identifier value into an OpenSearch
// document id. A nil or empty id fails here, in the store layer.
func documentID(id any) (string, error) {
	switch v := id.(type) {
	case nil:
		return "", fmt.Errorf("document id missing from payload")
	case string:
		if v == "" {
			return "", fmt.Errorf("document id is empty")
		}
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return formatFloat(v), nil
	case int:
		return fmt.Sprintf("%d", v), nil
	case int64:
		return fmt.Sprintf("%d", v), nil
	default:
		return "", fmt.Errorf("unsupported document id type %T", id)
	}
}

func formatFloat(f float64) string {
	// json-style minimal representation: 42 not 42.000000
	b, _ := json.Marshal(f)
	return string(b)
}
