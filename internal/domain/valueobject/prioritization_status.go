package valueobject

import "fmt"

// PrioritizationStatus is an immutable value object representing the severity
// recommended for a risk report.
type PrioritizationStatus struct {
	value string
}

var (
	StatusCritical = PrioritizationStatus{value: "CRITICAL"}
	StatusWarning  = PrioritizationStatus{value: "WARNING"}
	StatusNormal   = PrioritizationStatus{value: "NORMAL"}
)

// AllStatuses returns every permitted status, most severe first.
func AllStatuses() []PrioritizationStatus {
	return []PrioritizationStatus{StatusCritical, StatusWarning, StatusNormal}
}

// StatusValues returns the wire representation of every permitted status.
func StatusValues() []string {
	all := AllStatuses()
	values := make([]string, len(all))
	for i, s := range all {
		values[i] = s.value
	}
	return values
}

// PrioritizationStatusFromString parses a status. Matching is exact: no case
// folding and no trimming.
func PrioritizationStatusFromString(s string) (PrioritizationStatus, error) {
	switch s {
	case "CRITICAL":
		return StatusCritical, nil
	case "WARNING":
		return StatusWarning, nil
	case "NORMAL":
		return StatusNormal, nil
	default:
		return PrioritizationStatus{}, fmt.Errorf("invalid prioritization status: %q", s)
	}
}

// String returns the string representation.
func (s PrioritizationStatus) String() string {
	return s.value
}

// Severity orders statuses: NORMAL=1, WARNING=2, CRITICAL=3. The zero value is 0.
func (s PrioritizationStatus) Severity() int {
	switch s.value {
	case "NORMAL":
		return 1
	case "WARNING":
		return 2
	case "CRITICAL":
		return 3
	default:
		return 0
	}
}

// IsZero returns true if the status has not been set.
func (s PrioritizationStatus) IsZero() bool {
	return s.value == ""
}

// Equal checks equality with another PrioritizationStatus.
func (s PrioritizationStatus) Equal(other PrioritizationStatus) bool {
	return s.value == other.value
}

// IsCritical returns true if the status is CRITICAL.
func (s PrioritizationStatus) IsCritical() bool {
	return s.value == "CRITICAL"
}
