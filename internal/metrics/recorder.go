package metrics

import "time"

// Recorder provides methods for recording metrics.
type Recorder struct{}

// NewRecorder creates a new metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordOperation records a ledger operation outcome.
func (r *Recorder) RecordOperation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	OperationsTotal.WithLabelValues(op, outcome).Inc()
}

// RecordExecution records an execution attempt and its resulting parent
// status.
func (r *Recorder) RecordExecution(side, status string) {
	ExecutionsTotal.WithLabelValues(side, status).Inc()
}

// RecordFill records filled quantities for a market.
func (r *Recorder) RecordFill(market string, baseFilled, quoteFilled uint64) {
	BaseFilledTotal.WithLabelValues(market).Add(float64(baseFilled))
	QuoteFilledTotal.WithLabelValues(market).Add(float64(quoteFilled))
}

// RecordTransferFailure records a failed custody transfer.
func (r *Recorder) RecordTransferFailure() {
	TransferFailuresTotal.Inc()
}

// RecordOpenOrders records the number of non-terminal parent orders.
func (r *Recorder) RecordOpenOrders(n int) {
	OpenOrders.Set(float64(n))
}

// RecordVenueUp records venue reachability.
func (r *Recorder) RecordVenueUp(up bool) {
	if up {
		VenueUp.Set(1)
	} else {
		VenueUp.Set(0)
	}
}

// RecordHeartbeat records a controller heartbeat.
func (r *Recorder) RecordHeartbeat() {
	HeartbeatTimestamp.Set(float64(time.Now().Unix()))
}

// Timer is a helper for measuring latency.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed duration.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// ObserveExecution observes the elapsed time as execution latency.
func (t *Timer) ObserveExecution() {
	ExecutionLatency.Observe(t.Elapsed().Seconds())
}
