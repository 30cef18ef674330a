package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Status values recorded on crypto operations.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// StatusOf maps an operation error to a status attribute value.
func StatusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

// CryptoMetrics holds the instruments recorded by cryptographers and the
// token service. A nil *CryptoMetrics records nothing.
type CryptoMetrics struct {
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	tokenVerifyTotal  metric.Int64Counter
	tokenIssueTotal   metric.Int64Counter
}

// NewCryptoMetrics creates metric instruments on the given meter.
func NewCryptoMetrics(meter metric.Meter) (*CryptoMetrics, error) {
	operationTotal, err := meter.Int64Counter("crypto.operation.total",
		metric.WithDescription("Total number of encrypt and decrypt operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating crypto.operation.total counter: %w", err)
	}

	operationDuration, err := meter.Float64Histogram("crypto.operation.duration",
		metric.WithDescription("Duration of encrypt and decrypt operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating crypto.operation.duration histogram: %w", err)
	}

	tokenVerifyTotal, err := meter.Int64Counter("crypto.token.verify.total",
		metric.WithDescription("Token verifications by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating crypto.token.verify.total counter: %w", err)
	}

	tokenIssueTotal, err := meter.Int64Counter("crypto.token.issue.total",
		metric.WithDescription("Total number of tokens issued"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating crypto.token.issue.total counter: %w", err)
	}

	return &CryptoMetrics{
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		tokenVerifyTotal:  tokenVerifyTotal,
		tokenIssueTotal:   tokenIssueTotal,
	}, nil
}

// RecordOperation records one encrypt or decrypt call.
func (m *CryptoMetrics) RecordOperation(ctx context.Context, algorithm, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("algorithm", algorithm),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("algorithm", algorithm),
		attribute.String("operation", operation),
	))
}

// RecordTokenIssued records one issued token.
func (m *CryptoMetrics) RecordTokenIssued(ctx context.Context) {
	if m == nil {
		return
	}
	m.tokenIssueTotal.Add(ctx, 1)
}

// RecordTokenVerification records the outcome of one token verification.
func (m *CryptoMetrics) RecordTokenVerification(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.tokenVerifyTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
	))
}
