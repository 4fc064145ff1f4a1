package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncTokenIssued is a no-op.
func (n *NoopRecorder) IncTokenIssued() {}

// IncAuthSuccess is a no-op.
func (n *NoopRecorder) IncAuthSuccess() {}

// IncAuthFailure is a no-op.
func (n *NoopRecorder) IncAuthFailure() {}

// IncItemCreated is a no-op.
func (n *NoopRecorder) IncItemCreated() {}

// IncItemUpdated is a no-op.
func (n *NoopRecorder) IncItemUpdated() {}

// IncItemDeleted is a no-op.
func (n *NoopRecorder) IncItemDeleted() {}
