package models

// LedgerStatus summarizes the run ledger.
type LedgerStatus struct {
	Runs       int64  `json:"runs"`
	Documents  int64  `json:"documents"`
	Succeeded  int64  `json:"succeeded"`
	Failed     int64  `json:"failed"`
	RecentRuns []*Run `json:"recent_runs"`
}
