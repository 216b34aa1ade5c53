package domain

import (
	"fmt"
	"strings"
)

// Status is a plan's payment status. Values are ordered so that the worst
// status across a customer's plans is the maximum.
type Status int

const (
	StatusCurrent Status = iota
	StatusCompleted
	StatusBehind
)

var statusNames = map[Status]string{
	StatusCurrent:   "current",
	StatusCompleted: "completed",
	StatusBehind:    "behind",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus converts a status name back into a Status
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return StatusCurrent, fmt.Errorf("unknown status %q", name)
}

// MarshalText renders the status by name in JSON and YAML output
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// WorstStatus returns the more severe of two statuses
func WorstStatus(a, b Status) Status {
	return max(a, b)
}

// ReduceStatus folds a list of statuses with WorstStatus. An empty list is current.
func ReduceStatus(statuses ...Status) Status {
	worst := StatusCurrent
	for _, s := range statuses {
		worst = WorstStatus(worst, s)
	}
	return worst
}
