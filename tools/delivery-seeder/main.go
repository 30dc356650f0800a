// delivery-seeder posts signed sample webhook deliveries against a running
// shopsync instance. Useful for load testing and for exercising the full
// pipeline against a live OpenSearch.
package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	targetURL = flag.String("url", "http://localhost:8099/webhooks", "webhook endpoint URL")
	secret    = flag.String("secret", "", "shared signing secret (required)")
	count     = flag.Int("count", 100, "number of deliveries to send")
	interval  = flag.Duration("interval", 100*time.Millisecond, "interval between deliveries")
	resources = flag.String("resources", "orders,customers,products", "comma-separated resource types")
	shop      = flag.String("shop", "seed-shop.example.com", "shop domain header value")
)

var actions = []string{"create", "update", "update", "update", "deleted"}

func main() {
	flag.Parse()

	if *secret == "" {
		log.Fatal("signing secret is required. Use -secret flag")
	}

	gofakeit.Seed(time.Now().UnixNano())

	log.Printf("Starting delivery seeder:")
	log.Printf("  URL: %s", *targetURL)
	log.Printf("  Deliveries: %d", *count)
	log.Printf("  Interval: %v", *interval)

	kinds := strings.Split(*resources, ",")
	log.Printf("  Resources: %v", kinds)

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	successCount := 0
	failCount := 0

	for i := 0; i < *count; i++ {
		resource := kinds[rand.Intn(len(kinds))]
		action := actions[rand.Intn(len(actions))]

		payload := generatePayload(resource, i)
		if err := sendDelivery(client, resource, action, payload); err != nil {
			log.Printf("Failed to send delivery: %v", err)
			failCount++
		} else {
			successCount++
			if successCount%50 == 0 {
				log.Printf("Progress: %d/%d deliveries sent", successCount, *count)
			}
		}

		if *interval > 0 && i < *count-1 {
			time.Sleep(*interval)
		}
	}

	log.Printf("Seeding complete:")
	log.Printf("  Success: %d deliveries", successCount)
	log.Printf("  Failed: %d deliveries", failCount)
}

func generatePayload(resource string, index int) map[string]any {
	now := time.Now().UTC()
	base := map[string]any{
		"id":         1000 + index,
		"created_at": now.Add(-time.Duration(rand.Intn(72)) * time.Hour).Format(time.RFC3339),
		"updated_at": now.Format(time.RFC3339),
	}

	switch resource {
	case "orders":
		base["order_number"] = gofakeit.Number(10000, 99999)
		base["email"] = gofakeit.Email()
		base["total_price"] = fmt.Sprintf("%.2f", gofakeit.Price(5, 500))
		base["currency"] = gofakeit.CurrencyShort()
		base["line_items"] = []any{
			map[string]any{
				"id":       gofakeit.Number(1, 100000),
				"title":    gofakeit.ProductName(),
				"quantity": gofakeit.Number(1, 5),
			},
		}
	case "customers":
		base["email"] = gofakeit.Email()
		base["first_name"] = gofakeit.FirstName()
		base["last_name"] = gofakeit.LastName()
		base["verified_email"] = gofakeit.Bool()
	case "products":
		base["title"] = gofakeit.ProductName()
		base["vendor"] = gofakeit.Company()
		base["status"] = "active"
	default:
		base["note"] = gofakeit.Sentence(6)
	}

	return base
}

func sendDelivery(client *http.Client, resource, action string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(*secret))
	mac.Write(body)
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req, err := http.NewRequest(http.MethodPost, *targetURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Hmac-Sha256", signature)
	req.Header.Set("X-Webhook-Topic", resource+"/"+action)
	req.Header.Set("X-Webhook-Shop-Domain", *shop)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
