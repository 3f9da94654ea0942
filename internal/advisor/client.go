package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/campus-helpdesk/internal/config"
	"github.com/spec-kit/campus-helpdesk/internal/domain"
)

// Client calls a chat-completions style backend for suggestions and
// degrades to the rule-based fallback on any failure. Retries are not
// attempted here; one bounded call, then the fallback.
type Client struct {
	cfg        config.AdvisorConfig
	httpClient *http.Client
	cache      *Cache
	logger     *zap.Logger
}

// NewClient builds the advisor client. The cache may be nil.
func NewClient(cfg config.AdvisorConfig, cache *Cache, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		cache:      cache,
		logger:     logger,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Suggest implements Advisor.
func (c *Client) Suggest(ctx context.Context, title, description string, departments []string) Suggestion {
	if cached, ok := c.cache.Get(ctx, title, description, departments); ok {
		return cached
	}

	suggestion, ok := c.remoteSuggest(ctx, title, description, departments)
	if !ok {
		return Fallback(title, description, departments)
	}

	c.cache.Set(ctx, title, description, departments, suggestion)
	return suggestion
}

func (c *Client) remoteSuggest(ctx context.Context, title, description string, departments []string) (Suggestion, bool) {
	if c.cfg.APIKey == "" {
		return Suggestion{}, false
	}

	prompt := fmt.Sprintf(
		"Classify the following support ticket. Respond with only a JSON object of the form "+
			`{"suggested_title": string, "department_options": [string], "priority_options": [string], "explanation": string}. `+
			"department_options must be drawn from: %s. priority_options must be drawn from: High, Medium, Low. "+
			"Order both lists best guess first.\n\nTitle: %s\nDescription: %s",
		strings.Join(departments, ", "), title, description)

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   200,
		Temperature: 0.1,
	})
	if err != nil {
		c.logger.Warn("advisor request marshal failed", zap.Error(err))
		return Suggestion{}, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("advisor request build failed", zap.Error(err))
		return Suggestion{}, false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("advisor call failed", zap.Error(err))
		return Suggestion{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("advisor returned non-200", zap.Int("status", resp.StatusCode))
		return Suggestion{}, false
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		c.logger.Warn("advisor response decode failed", zap.Error(err))
		return Suggestion{}, false
	}
	if len(completion.Choices) == 0 {
		return Suggestion{}, false
	}

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &suggestion); err != nil {
		c.logger.Warn("advisor returned non-JSON suggestion", zap.Error(err))
		return Suggestion{}, false
	}

	return sanitize(suggestion, title, description, departments), true
}

// sanitize constrains a remote suggestion to the valid label space and
// fills gaps from the fallback rules so the caller never sees an
// unusable result.
func sanitize(s Suggestion, title, description string, departments []string) Suggestion {
	valid := make(map[string]struct{}, len(departments))
	for _, d := range departments {
		valid[d] = struct{}{}
	}

	var depts []string
	seen := make(map[string]struct{})
	for _, d := range s.DepartmentOptions {
		if _, ok := valid[d]; !ok {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		depts = append(depts, d)
	}
	top := ""
	if len(depts) > 0 {
		top = depts[0]
	}
	s.DepartmentOptions = rankDepartments(top, departments)

	topPriority := domain.TicketPriority("")
	for _, p := range s.PriorityOptions {
		if domain.ValidPriority(p) {
			topPriority = p
			break
		}
	}
	if topPriority == "" {
		topPriority = FallbackPriority(title, description)
	}
	s.PriorityOptions = rankPriorities(topPriority)

	if strings.TrimSpace(s.SuggestedTitle) == "" {
		s.SuggestedTitle = backfillTitle(title, description)
	}
	if strings.TrimSpace(s.Explanation) == "" {
		s.Explanation = "model suggestion"
	}
	return s
}
