package enums

import "fmt"

// AlertKind identifies which delay sweep raised an alert for a tracking
// record. Each record carries at most one alert per kind.
type AlertKind string

const (
	AlertKindRealizationDelay   AlertKind = "realisation_delay"
	AlertKindTechReceptionDelay AlertKind = "tech_reception_delay"
)

var validAlertKinds = []AlertKind{
	AlertKindRealizationDelay,
	AlertKindTechReceptionDelay,
}

// String implements fmt.Stringer.
func (a AlertKind) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AlertKind.
func (a AlertKind) IsValid() bool {
	for _, candidate := range validAlertKinds {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertKind converts raw input into an AlertKind.
func ParseAlertKind(value string) (AlertKind, error) {
	for _, candidate := range validAlertKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert kind %q", value)
}
