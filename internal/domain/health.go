package domain

// HealthStatus is the payload for GET /healthz.
type HealthStatus struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// MetricsSummary is the JSON snapshot for GET /v1/metrics/summary,
// a lightweight ops view for the dashboard (full detail lives on /metrics).
type MetricsSummary struct {
	TotalRequests      int64   `json:"totalRequests"`
	ErrorRate          float64 `json:"errorRate"`
	LedgerOperations   int64   `json:"ledgerOperations"`
	LedgerRollbacks    int64   `json:"ledgerRollbacks"`
	UserCacheHitRate   float64 `json:"userCacheHitRate"`
	ExternalErrorTotal int64   `json:"externalErrorTotal"`
}
