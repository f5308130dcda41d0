package recorder

import "OpportunityScanner/internal/model"

// Recorder persists scan history for later analysis.
type Recorder interface {
	RecordScan(table *model.ResultTable) error
	Close() error
}
