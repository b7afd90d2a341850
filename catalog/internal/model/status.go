package model

import (
	"fmt"
	"strings"
)

// Status is the loan status of a book instance, stored as a one-letter code.
type Status string

const (
	StatusMaintenance Status = "m"
	StatusOnLoan      Status = "o"
	StatusAvailable   Status = "a"
	StatusReserved    Status = "r"
)

type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var statusLabels = []struct {
	status Status
	label  string
}{
	{StatusMaintenance, "Maintenance"},
	{StatusOnLoan, "On loan"},
	{StatusAvailable, "Available"},
	{StatusReserved, "Reserved"},
}

func (s Status) Label() string {
	for _, sl := range statusLabels {
		if sl.status == s {
			return sl.label
		}
	}
	return string(s)
}

func (s Status) Valid() bool {
	for _, sl := range statusLabels {
		if sl.status == s {
			return true
		}
	}
	return false
}

// StatusChoices lists the statuses in display order.
func StatusChoices() []Choice {
	choices := make([]Choice, 0, len(statusLabels))
	for _, sl := range statusLabels {
		choices = append(choices, Choice{Value: string(sl.status), Label: sl.label})
	}
	return choices
}

// ParseStatus accepts the stored code ("o"), the label ("On loan")
// or a slug ("on-loan", "on_loan").
func ParseStatus(v string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(v))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	for _, sl := range statusLabels {
		if norm == string(sl.status) || norm == strings.ToLower(sl.label) {
			return sl.status, nil
		}
	}
	return "", fmt.Errorf("select a valid choice: %s is not one of the available choices", v)
}
