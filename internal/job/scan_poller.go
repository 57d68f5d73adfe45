package job

import (
	"context"
	"log"
	"time"

	"token-health-scan/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type ScanRunner interface {
	ScanAll(ctx context.Context) (domain.ScanRunResult, error)
}

// ScanPoller runs a full watchlist scan on a fixed interval.
type ScanPoller struct {
	tracer       trace.Tracer
	runner       ScanRunner
	pollInterval time.Duration
}

func NewScanPoller(tracer trace.Tracer, runner ScanRunner, pollInterval time.Duration) *ScanPoller {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Minute
	}
	return &ScanPoller{tracer: tracer, runner: runner, pollInterval: pollInterval}
}

func (j *ScanPoller) Start(ctx context.Context) {
	if j.runner == nil {
		log.Println("Scan poller disabled: no runner")
		<-ctx.Done()
		return
	}

	j.runOnce(ctx)
	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *ScanPoller) runOnce(ctx context.Context) {
	_, span := j.tracer.Start(ctx, "scan-poller.run-once")
	defer span.End()

	result, err := j.runner.ScanAll(ctx)
	if err != nil {
		log.Printf("Scan cycle error: %v", err)
		return
	}
	log.Printf(
		"Scan cycle complete scanned=%d written=%d anomalies=%d warnings=%d",
		result.TokensScanned,
		result.ReportsWritten,
		result.AnomaliesFlagged,
		len(result.Errors),
	)
}
