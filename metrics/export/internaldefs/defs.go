package internaldefs

import (
	goSSO "github.com/MrEthical07/goSSO"
)

// CounterDef defines a public type used by goSSO APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goSSO.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goSSO APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goSSO.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the SSO server.
var CounterDefs = []CounterDef{
	{ID: goSSO.MetricAttachSuccess, Name: "gosso_attach_success_total", Help: "Successful attach operations."},
	{ID: goSSO.MetricAttachFailure, Name: "gosso_attach_failure_total", Help: "Failed attach operations."},
	{ID: goSSO.MetricBrokerSessionSuccess, Name: "gosso_broker_session_success_total", Help: "Successful broker session starts."},
	{ID: goSSO.MetricBrokerSessionFailure, Name: "gosso_broker_session_failure_total", Help: "Failed broker session starts."},
	{ID: goSSO.MetricChecksumRejected, Name: "gosso_checksum_rejected_total", Help: "Credentials rejected for checksum mismatch."},
	{ID: goSSO.MetricDomainRejected, Name: "gosso_domain_rejected_total", Help: "Requests rejected by the broker domain allow-list."},
	{ID: goSSO.MetricUnknownBroker, Name: "gosso_unknown_broker_total", Help: "Lookups naming an unregistered broker."},
	{ID: goSSO.MetricLinkMiss, Name: "gosso_link_miss_total", Help: "Bearer tokens presented without an attached session."},
	{ID: goSSO.MetricSessionCreated, Name: "gosso_session_created_total", Help: "Fresh sessions created during attach."},
	{ID: goSSO.MetricInfrastructureError, Name: "gosso_infrastructure_error_total", Help: "Backend failures during handshake processing."},
}

// HistogramDefs is an exported constant or variable used by the SSO server.
var HistogramDefs = []HistogramDef{
	{ID: goSSO.MetricBearerLatency, Name: "gosso_bearer_latency_seconds", Help: "Broker session start latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the SSO server.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the SSO server.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
