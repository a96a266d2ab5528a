package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/stocktrace/stocktrace/internal/reports"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for transactional emails,
	// currently only password reset codes.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeLowStockScan is the nightly scan that reports products
	// under their minimum stock.
	TaskTypeLowStockScan = "stock:lowstock-scan"
	// TaskTypeDashboardWarmup recomputes the dashboard summary so the
	// first morning request does not pay for a cold cache.
	TaskTypeDashboardWarmup = "dashboard:warmup"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// NewLowStockScanTask constructs the scan task; it carries no payload.
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeLowStockScan, nil)
}

// NewDashboardWarmupTask constructs the warmup task.
func NewDashboardWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskTypeDashboardWarmup, nil)
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks.
// TODO: wire an SMTP sender; until then delivery is log-only.
func HandleSendEmailTask(logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		logger.Info("send email",
			slog.String("to", payload.To),
			slog.String("subject", payload.Subject))
		return nil
	}
}

// HandleLowStockScanTask logs every product/warehouse pair below its
// minimum stock so operators get a nightly picture without opening the
// report.
func HandleLowStockScanTask(logger *slog.Logger, svc *reports.Service) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		rows, err := svc.LowStock(ctx, "")
		if err != nil {
			return err
		}
		for _, row := range rows {
			logger.Warn("low stock",
				slog.String("sku", row.ProductSKU),
				slog.String("product", row.ProductName),
				slog.String("warehouse", row.WarehouseName),
				slog.Float64("current", row.CurrentStock),
				slog.Float64("min", row.MinStock))
		}
		logger.Info("low stock scan finished", slog.Int("flagged", len(rows)))
		return nil
	}
}

// HandleDashboardWarmupTask primes the dashboard summary cache. The
// warm function computes and caches the summary, discarding the value.
func HandleDashboardWarmupTask(logger *slog.Logger, warm func(context.Context) error) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		if err := warm(ctx); err != nil {
			return err
		}
		logger.Info("dashboard summary warmed")
		return nil
	}
}
