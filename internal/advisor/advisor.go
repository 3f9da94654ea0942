package advisor

import (
	"context"

	"github.com/spec-kit/campus-helpdesk/internal/domain"
)

// Suggestion is the advisor's best-effort classification of a ticket.
// Option lists are ordered best guess first.
type Suggestion struct {
	SuggestedTitle    string                  `json:"suggested_title"`
	DepartmentOptions []string                `json:"department_options"`
	PriorityOptions   []domain.TicketPriority `json:"priority_options"`
	Explanation       string                  `json:"explanation"`
}

// TopDepartment returns the best department guess, empty when none.
func (s Suggestion) TopDepartment() string {
	if len(s.DepartmentOptions) == 0 {
		return ""
	}
	return s.DepartmentOptions[0]
}

// TopPriority returns the best priority guess, Low when none.
func (s Suggestion) TopPriority() domain.TicketPriority {
	if len(s.PriorityOptions) == 0 {
		return domain.TicketPriorityLow
	}
	return s.PriorityOptions[0]
}

// Advisor classifies free text against the valid departments. The call
// never fails: on any internal problem it degrades to the deterministic
// rule-based result, so the caller always has a usable suggestion.
type Advisor interface {
	Suggest(ctx context.Context, title, description string, departments []string) Suggestion
}
