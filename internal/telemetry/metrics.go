package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/projcalc/estimator/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const defaultMetricInterval = 10 * time.Second

var meterProvider *sdkmetric.MeterProvider

func metricInterval(cfg config.TelemetryCfg) time.Duration {
	if cfg.MetricIntervalSec <= 0 {
		return defaultMetricInterval
	}
	return time.Duration(cfg.MetricIntervalSec) * time.Second
}

// SetupMetrics pushes coordinator, gorm and redis instruments to the OTLP
// collector. Meters obtained from otel.Meter before this call start
// exporting once it returns.
func SetupMetrics(cfg *config.Config) (*sdkmetric.MeterProvider, error) {
	if !cfg.Telemetry.Enabled || cfg.Telemetry.OtlpEndpoint == "" {
		return nil, nil
	}

	res, err := serviceResource(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(grpcEndpoint(cfg.Telemetry.OtlpEndpoint)),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp metric exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(metricInterval(cfg.Telemetry)))
	meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader))
	otel.SetMeterProvider(meterProvider)
	return meterProvider, nil
}

// ShutdownMetrics exports what is buffered and stops the reader.
func ShutdownMetrics(ctx context.Context) error {
	if meterProvider == nil {
		return nil
	}
	return meterProvider.Shutdown(ctx)
}
