package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lottosettle/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// MetricsProvider manages OpenTelemetry metrics for the settlement engine
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	settlementsCounter           metric.Int64Counter
	settlementDurationHist       metric.Float64Histogram
	ledgerEntriesCounter         metric.Int64Counter
	drawsPublishedCounter        metric.Int64Counter
	wagersPlacedCounter          metric.Int64Counter
	natsMessagesReceivedCounter  metric.Int64Counter
	natsMessagesPublishedCounter metric.Int64Counter
	settingsCacheCounter         metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Info("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
			),
		),
	)

	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("lottosettle")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.settlementsCounter, err = mp.meter.Int64Counter(
		SettlementsTotal,
		metric.WithDescription("Total number of settlement attempts by kind and outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create settlements counter: %w", err)
	}

	mp.settlementDurationHist, err = mp.meter.Float64Histogram(
		SettlementDuration,
		metric.WithDescription("Duration of settlement transactions in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create settlement duration histogram: %w", err)
	}

	mp.ledgerEntriesCounter, err = mp.meter.Int64Counter(
		LedgerEntriesTotal,
		metric.WithDescription("Total number of ledger entries written"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create ledger entries counter: %w", err)
	}

	mp.drawsPublishedCounter, err = mp.meter.Int64Counter(
		DrawsPublishedTotal,
		metric.WithDescription("Total number of draw results published or edited"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create draws published counter: %w", err)
	}

	mp.wagersPlacedCounter, err = mp.meter.Int64Counter(
		WagersPlacedTotal,
		metric.WithDescription("Total number of wagers placed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create wagers placed counter: %w", err)
	}

	mp.natsMessagesReceivedCounter, err = mp.meter.Int64Counter(
		NATSMessagesReceivedTotal,
		metric.WithDescription("Total number of NATS messages received"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create NATS messages received counter: %w", err)
	}

	mp.natsMessagesPublishedCounter, err = mp.meter.Int64Counter(
		NATSMessagesPublishedTotal,
		metric.WithDescription("Total number of NATS messages published"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create NATS messages published counter: %w", err)
	}

	mp.settingsCacheCounter, err = mp.meter.Int64Counter(
		SettingsCacheLookupsTotal,
		metric.WithDescription("Settings snapshot lookups by cache result"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create settings cache counter: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordSettlement records one settlement attempt and how long its transaction took
func (mp *MetricsProvider) RecordSettlement(kind, outcome string, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelKind, kind),
		attribute.String(LabelOutcome, outcome),
	)
	mp.settlementsCounter.Add(context.Background(), 1, attrs)
	mp.settlementDurationHist.Record(context.Background(), duration.Seconds(), attrs)
}

// RecordLedgerEntries records ledger entries written by one operation
func (mp *MetricsProvider) RecordLedgerEntries(collection string, count int) {
	if !mp.isEnabled() || count == 0 {
		return
	}

	mp.ledgerEntriesCounter.Add(context.Background(), int64(count),
		metric.WithAttributes(
			attribute.String(LabelType, collection),
		),
	)
}

// RecordDrawPublished records a published or edited draw result
func (mp *MetricsProvider) RecordDrawPublished(edited bool) {
	if !mp.isEnabled() {
		return
	}

	mp.drawsPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.Bool(LabelEdited, edited),
		),
	)
}

// RecordWagerPlaced records an accepted wager
func (mp *MetricsProvider) RecordWagerPlaced(subType, tier string) {
	if !mp.isEnabled() {
		return
	}

	mp.wagersPlacedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelSubType, subType),
			attribute.String(LabelTier, tier),
		),
	)
}

// RecordNATSMessageReceived records a NATS message being received
func (mp *MetricsProvider) RecordNATSMessageReceived(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsMessagesReceivedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelEventType, eventType),
		),
	)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsMessagesPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelEventType, eventType),
		),
	)
}

// RecordSettingsCacheLookup records a settings cache hit or miss
func (mp *MetricsProvider) RecordSettingsCacheLookup(result string) {
	if !mp.isEnabled() {
		return
	}

	mp.settingsCacheCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelResult, result),
		),
	)
}

// MeasureSettlement returns a function that records a settlement when called with its outcome
// Usage:
//
//	done := mp.MeasureSettlement("recharge")
//	defer func() { done(outcome) }()
func (mp *MetricsProvider) MeasureSettlement(kind string) func(outcome string) {
	start := time.Now()
	return func(outcome string) {
		mp.RecordSettlement(kind, outcome, time.Since(start))
	}
}

// isEnabled checks if metrics are enabled and initialized. Safe on a nil provider.
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.config.OTelEnabled && mp.meter != nil
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
