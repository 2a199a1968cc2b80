package components

// Status is the derived epidemiological state of an agent.
type Status uint8

const (
	StatusSusceptible Status = iota
	StatusIncubating
	StatusContagious
	StatusImmune
)

// String returns the display name for a Status.
func (s Status) String() string {
	names := StatusNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// StatusNames returns the display names for all statuses.
// The order matches the Status constants.
func StatusNames() []string {
	return []string{"Susceptible", "Incubating", "Contagious", "Immune"}
}

// StatusCount returns the number of statuses.
func StatusCount() int {
	return len(StatusNames())
}
