package ui

// Activity view limits.
const (
	// ActivityLineLimit is the number of trailing log lines the activity view
	// reads.
	ActivityLineLimit = 500
)
