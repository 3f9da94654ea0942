package advisor

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spec-kit/campus-helpdesk/internal/domain"
)

func TestFallbackPriority(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        domain.TicketPriority
	}{
		{name: "urgent english", title: "urgent help", description: "", want: domain.TicketPriorityHigh},
		{name: "urgent turkish", title: "", description: "acil durum var", want: domain.TicketPriorityHigh},
		{name: "system down", title: "sistem çöktü", description: "", want: domain.TicketPriorityHigh},
		{name: "slow network", title: "", description: "internet çok yavaş", want: domain.TicketPriorityMedium},
		{name: "connection drops", title: "bağlantı kopuyor", description: "", want: domain.TicketPriorityMedium},
		{name: "no keywords", title: "question", description: "where is the library", want: domain.TicketPriorityLow},
		{name: "empty", title: "", description: "", want: domain.TicketPriorityLow},
		{name: "case insensitive", title: "URGENT", description: "", want: domain.TicketPriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FallbackPriority(tt.title, tt.description); got != tt.want {
				t.Errorf("FallbackPriority(%q, %q) = %v, want %v", tt.title, tt.description, got, tt.want)
			}
		})
	}
}

func TestFallbackSuggestion(t *testing.T) {
	departments := []string{"Bilgi Islem", "Yapi Isleri", "Ogrenci Isleri", "Akademik Danismanlik"}

	s := Fallback("", "no title", departments)

	if s.TopDepartment() != "Bilgi Islem" {
		t.Errorf("TopDepartment() = %q, want first configured department", s.TopDepartment())
	}
	if s.TopPriority() != domain.TicketPriorityLow {
		t.Errorf("TopPriority() = %v, want Low", s.TopPriority())
	}
	if s.SuggestedTitle != "no title" {
		t.Errorf("SuggestedTitle = %q, want description as title", s.SuggestedTitle)
	}
	if len(s.PriorityOptions) != 3 {
		t.Fatalf("PriorityOptions = %v, want all three labels", s.PriorityOptions)
	}
	if len(s.DepartmentOptions) > 3 {
		t.Errorf("DepartmentOptions = %v, want at most three options", s.DepartmentOptions)
	}
}

func TestFallbackTitleTruncation(t *testing.T) {
	long := strings.Repeat("x", 200)
	s := Fallback("", long, []string{"Bilgi Islem"})
	if len(s.SuggestedTitle) != 83 || !strings.HasSuffix(s.SuggestedTitle, "...") {
		t.Errorf("SuggestedTitle %q not truncated to 80 chars plus ellipsis", s.SuggestedTitle)
	}
}

func TestFallbackTitleMultibyteTruncation(t *testing.T) {
	long := strings.Repeat("ş", 100)
	s := Fallback("", long, []string{"Bilgi Islem"})
	if !utf8.ValidString(s.SuggestedTitle) {
		t.Fatalf("SuggestedTitle %q is not valid UTF-8", s.SuggestedTitle)
	}
	want := strings.Repeat("ş", 80) + "..."
	if s.SuggestedTitle != want {
		t.Errorf("SuggestedTitle = %q, want 80 runes plus ellipsis", s.SuggestedTitle)
	}
}

func TestFallbackNoDepartments(t *testing.T) {
	s := Fallback("t", "d", nil)
	if s.TopDepartment() != "" {
		t.Errorf("TopDepartment() = %q, want empty with no departments", s.TopDepartment())
	}
}

func TestRankPrioritiesBestFirst(t *testing.T) {
	got := rankPriorities(domain.TicketPriorityMedium)
	want := []domain.TicketPriority{domain.TicketPriorityMedium, domain.TicketPriorityHigh, domain.TicketPriorityLow}
	if len(got) != len(want) {
		t.Fatalf("rankPriorities() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rankPriorities()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
