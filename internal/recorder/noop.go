package recorder

import "OpportunityScanner/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScan(_ *model.ResultTable) error { return nil }
func (n *NoopRecorder) Close() error                          { return nil }
