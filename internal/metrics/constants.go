package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Economy metric names
const (
	MetricNameSegmentsAcquired = "map_segments_acquired_total"
	MetricNameSegmentsRevoked  = "map_segments_revoked_total"
	MetricNamePointsCredited   = "points_credited_total"
	MetricNamePointsDebited    = "points_debited_total"
	MetricNameMapCompletions   = "map_completions_total"
	MetricNamePurchaseOutcomes = "map_purchase_outcomes_total"
)

// Gateway metric names
const (
	MetricNameDiscordCommands   = "discord_commands_total"
	MetricNameMapRenderDuration = "map_render_duration_seconds"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Economy metric help text
const (
	HelpTextSegmentsAcquired = "Total map segments acquired, by source"
	HelpTextSegmentsRevoked  = "Total map segments revoked by administrators"
	HelpTextPointsCredited   = "Total points added to balances"
	HelpTextPointsDebited    = "Total points removed from balances"
	HelpTextMapCompletions   = "Total maps completed"
	HelpTextPurchaseOutcomes = "Purchase attempts by operation and result"
)

// Gateway metric help text
const (
	HelpTextDiscordCommands   = "Discord interactions handled, by command and result"
	HelpTextMapRenderDuration = "Time spent composing a map image in seconds"
)

// ============================================================================
// Labels
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelSource    = "source"
	LabelOperation = "operation"
	LabelResult    = "result"
	LabelCommand   = "command"
)

// Label values
const (
	SourcePurchase = "purchase"
	SourceGrant    = "grant"

	OperationBuyOne = "buy_one"
	OperationBuyAll = "buy_all"

	ResultSuccess = "success"
	ResultError   = "error"
)

// ============================================================================
// Buckets
// ============================================================================

var (
	// HTTPLatencyBuckets covers fast reads up to slow image renders
	HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

	// RenderLatencyBuckets covers cache hits to cold full-map renders
	RenderLatencyBuckets = []float64{.001, .005, .01, .05, .1, .25, .5, 1}
)
