package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Operation completed successfully
	SymbolFail     = "✗" // Operation failed
	SymbolPending  = "○" // Not started / not monitoring
	SymbolActive   = "●" // Monitoring / live
	SymbolOutlier  = "▲" // Metric sample flagged as an outlier
	SymbolScaleUp  = "↑" // Scale-up decision
	SymbolScaleDn  = "↓" // Scale-down decision
	SymbolNoAction = "–" // No-action decision
)
