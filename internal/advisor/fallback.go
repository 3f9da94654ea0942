package advisor

import (
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/campus-helpdesk/internal/domain"
)

// Urgency lexicon for the rule-based fallback. Turkish and English
// terms, matched case-insensitively over title plus description.
var (
	highUrgencyTerms = []string{
		"acil", "acıl", "hızlı", "urgent", "çok önemli", "kapalı", "sistem", "çöktü", "crash", "down",
	}
	mediumUrgencyTerms = []string{
		"yavaş", "sürekli", "kopuyor", "erişim", "bağlantı", "ağ", "internet", "slow", "connection",
	}
)

// FallbackPriority applies the keyword rule: High beats Medium beats Low.
func FallbackPriority(title, description string) domain.TicketPriority {
	text := strings.ToLower(title + " " + description)
	for _, term := range highUrgencyTerms {
		if strings.Contains(text, term) {
			return domain.TicketPriorityHigh
		}
	}
	for _, term := range mediumUrgencyTerms {
		if strings.Contains(text, term) {
			return domain.TicketPriorityMedium
		}
	}
	return domain.TicketPriorityLow
}

// Fallback produces the deterministic suggestion used whenever the
// advisory backend is unavailable or misbehaves. The category guess is
// the first configured department.
func Fallback(title, description string, departments []string) Suggestion {
	return Suggestion{
		SuggestedTitle:    backfillTitle(title, description),
		DepartmentOptions: rankDepartments("", departments),
		PriorityOptions:   rankPriorities(FallbackPriority(title, description)),
		Explanation:       "rule-based suggestion",
	}
}

// backfillTitle keeps the given title or derives one by truncating the
// description. Truncation counts runes so multibyte text stays valid.
func backfillTitle(title, description string) string {
	if strings.TrimSpace(title) != "" {
		return title
	}
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) <= 80 {
		return description
	}
	return string([]rune(description)[:80]) + "..."
}

// rankPriorities puts the best guess first, then the remaining labels.
func rankPriorities(top domain.TicketPriority) []domain.TicketPriority {
	ordered := []domain.TicketPriority{top}
	for _, p := range []domain.TicketPriority{domain.TicketPriorityHigh, domain.TicketPriorityMedium, domain.TicketPriorityLow} {
		if p != top {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

// rankDepartments puts the guess first when it is a valid department,
// then fills with remaining departments up to three options.
func rankDepartments(top string, departments []string) []string {
	var options []string
	for _, d := range departments {
		if d == top {
			options = append([]string{d}, options...)
			continue
		}
		options = append(options, d)
	}
	if len(options) > 3 {
		options = options[:3]
	}
	return options
}
