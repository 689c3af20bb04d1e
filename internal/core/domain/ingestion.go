package domain

// IngestionResult is the outcome of one ingestion run.
// Success is false only when the run aborted on a fatal error.
type IngestionResult struct {
	RunID        string   `json:"run_id,omitempty"`
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	UpdatedCount int      `json:"updated_count"`
	Errors       []string `json:"errors"`
}

// BatchResult is what the validator produced for one upstream envelope.
type BatchResult struct {
	Records []RateRecord
	Failed  int
	Errors  []string
}

// TableTypeChange describes the effect of switching the active table type.
type TableTypeChange struct {
	Changed     bool      `json:"changed"`
	Previous    TableType `json:"previous"`
	Current     TableType `json:"current"`
	DeletedRows int64     `json:"deletedRows"`
}
