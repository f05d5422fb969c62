// Package alerts records low-stock events in Redis and mails a daily
// digest to whoever runs replenishment.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/retailops/erp-backend/internal/models"
)

var (
	alertFrom        = os.Getenv("ALERT_FROM")  // sender email
	alertTo          = os.Getenv("ALERT_TO")    // receiver email
	smtpServer       = os.Getenv("SMTP_SERVER") // smtp.example.com
	smtpPort         = os.Getenv("SMTP_PORT")   // e.g., 587
	smtpUser         = os.Getenv("SMTP_USER")
	smtpPassword     = os.Getenv("SMTP_PASS")
	smtpAuthDisabled = os.Getenv("SMTP_AUTH_DISABLED")

	rdb *redis.Client
	ctx context.Context
)

// SetRedis installs the client used for the event log. With no client
// set, alerting is a no-op; the sale path never depends on it.
func SetRedis(client *redis.Client, c context.Context) {
	rdb = client
	ctx = c
}

type LowStockEntry struct {
	ProductID int       `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	Threshold int       `json:"threshold"`
	Time      time.Time `json:"time"`
}

const DailyLowStockKey = "alerts:lowstock:daily"

// LogLowStock appends an event for a product that dropped below the
// stock threshold.
func LogLowStock(p models.Product, threshold int) {
	if rdb == nil {
		return
	}
	entry := LowStockEntry{
		ProductID: p.ID,
		Name:      p.Name,
		Stock:     p.Stock,
		Threshold: threshold,
		Time:      time.Now().UTC(),
	}
	data, _ := json.Marshal(entry)
	if err := rdb.RPush(ctx, DailyLowStockKey, data).Err(); err != nil {
		log.Printf("Failed to record low-stock event: %v", err)
	}
}

// StartDailySummary sends the digest at the end of each day.
func StartDailySummary(interval time.Duration) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(interval)
		}
		time.Sleep(time.Until(next))
		SendDailySummary()
	}
}

// SendDailySummary drains the event log and mails one digest line per
// product, keeping the lowest observed stock.
func SendDailySummary() {
	if rdb == nil {
		return
	}
	entries, err := rdb.LRange(ctx, DailyLowStockKey, 0, -1).Result()
	if err != nil || len(entries) == 0 {
		return
	}
	_ = rdb.Del(ctx, DailyLowStockKey).Err() // clear after reading

	lowest := map[int]LowStockEntry{}
	for _, raw := range entries {
		var entry LowStockEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		if current, ok := lowest[entry.ProductID]; !ok || entry.Stock < current.Stock {
			lowest[entry.ProductID] = entry
		}
	}

	var lines []string
	for _, entry := range lowest {
		lines = append(lines, fmt.Sprintf("%s (id %d): stock %d, threshold %d",
			entry.Name, entry.ProductID, entry.Stock, entry.Threshold))
	}

	subject := fmt.Sprintf("Low stock summary: %d products below threshold", len(lowest))
	body := strings.Join(lines, "\n")
	if err := sendMail(subject, body); err != nil {
		log.Printf("Failed to send low-stock summary: %v", err)
	}
}

func sendMail(subject, body string) error {
	if smtpServer == "" || alertTo == "" {
		return nil
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", alertFrom, alertTo, subject, body)

	addr := fmt.Sprintf("%s:%s", smtpServer, smtpPort)
	auth := smtp.PlainAuth("", smtpUser, smtpPassword, smtpServer)

	if smtpAuthDisabled != "" {
		auth = nil
	}

	return smtp.SendMail(addr, auth, alertFrom, []string{alertTo}, []byte(msg))
}
