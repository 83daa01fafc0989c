package observability

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// SetupMetrics installs a global meter provider backed by a manual reader
// and returns the reader together with a shutdown function. The manual
// reader keeps collection in-process; callers decide when to collect.
func SetupMetrics(
	ctx context.Context,
	serviceName, serviceVersion string,
) (*sdkmetric.ManualReader, func(context.Context) error, error) {
	if serviceName == "" {
		return nil, nil, errors.New("service name cannot be empty")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(provider)

	return reader, provider.Shutdown, nil
}
