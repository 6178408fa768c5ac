package psi

// StatusHealthy is the api_info.status value of a healthy upstream.
const StatusHealthy = "healthy"

const statusPrefix = "App Status:- "

// Status is the upstream API status prepared for display.
type Status struct {
	Value   string
	Healthy bool
	Text    string
}

// NewStatus reads the status of s. An absent status is reported as an empty,
// unhealthy value.
func NewStatus(s *Snapshot) Status {
	var value string
	if s != nil && s.Status != nil {
		value = *s.Status
	}
	return Status{
		Value:   value,
		Healthy: value == StatusHealthy,
		Text:    statusPrefix + value,
	}
}
