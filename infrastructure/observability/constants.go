package observability

// Metric name prefixes
const (
	MetricPrefix = "lottosettle"
)

// Metric names
const (
	// Settlement metrics
	SettlementsTotal   = MetricPrefix + ".settlements.total"
	SettlementDuration = MetricPrefix + ".settlements.duration"

	// Ledger metrics
	LedgerEntriesTotal = MetricPrefix + ".ledger.entries_total"

	// Draw and wager metrics
	DrawsPublishedTotal = MetricPrefix + ".draws.published_total"
	WagersPlacedTotal   = MetricPrefix + ".wagers.placed_total"

	// NATS metrics
	NATSMessagesReceivedTotal  = MetricPrefix + ".nats.messages_received_total"
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Settings cache metrics
	SettingsCacheLookupsTotal = MetricPrefix + ".settings_cache.lookups_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelKind      = "kind"
	LabelOutcome   = "outcome"
	LabelSubType   = "sub_type"
	LabelTier      = "tier"
	LabelEdited    = "edited"
	LabelResult    = "result"
)

// Settlement outcomes
const (
	OutcomeApproved = "approved"
	OutcomeDeclined = "declined"
	OutcomeRejected = "rejected" // domain error, request left as it was
	OutcomeFailed   = "failed"   // infrastructure error
)

// Settings cache results
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)
