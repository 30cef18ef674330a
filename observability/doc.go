// Package observability wires OpenTelemetry tracing and metrics.
//
// Setup installs OTLP/HTTP exporters when enabled:
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, "cryptokit", version.Version)
//	defer shutdown(ctx)
//
// CryptoMetrics carries the instruments recorded by cryptographers and the
// token service:
//
//	metrics, err := observability.NewCryptoMetrics(observability.Meter("cryptokit"))
//	metrics.RecordOperation(ctx, "rijndael", "encrypt", observability.StatusOK, d)
//
// A nil *CryptoMetrics is valid and records nothing.
package observability
