package enums

import "fmt"

// ProgressStatus tracks how far a tracking record has advanced through the
// realization and reception stages. The values are the display strings the
// field teams report against, so they are stored verbatim.
type ProgressStatus string

const (
	ProgressStatusRealized        ProgressStatus = "Realise"
	ProgressStatusInProgress      ProgressStatus = "En cours"
	ProgressStatusTechReceived    ProgressStatus = "Receptionne"
	ProgressStatusSystemReceived  ProgressStatus = "Receptionne Sys"
	ProgressStatusSystemDeposited ProgressStatus = "Depose Sys"
	ProgressStatusToDeposit       ProgressStatus = "A déposer Sys"
)

var validProgressStatuses = []ProgressStatus{
	ProgressStatusRealized,
	ProgressStatusInProgress,
	ProgressStatusTechReceived,
	ProgressStatusSystemReceived,
	ProgressStatusSystemDeposited,
	ProgressStatusToDeposit,
}

// String implements fmt.Stringer.
func (p ProgressStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProgressStatus.
func (p ProgressStatus) IsValid() bool {
	for _, candidate := range validProgressStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProgressStatus converts raw input into a ProgressStatus.
func ParseProgressStatus(value string) (ProgressStatus, error) {
	for _, candidate := range validProgressStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid progress status %q", value)
}
