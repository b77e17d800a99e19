package responder

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront-chat/internal/model"
)

// KeywordSource lists the admin-curated rules that are currently active.
type KeywordSource interface {
	ListActive(ctx context.Context) ([]model.KeywordRule, error)
}

// KeywordMatcher answers with the response of the highest-priority rule
// whose keyword appears in the message. Equal priorities keep source order.
type KeywordMatcher struct {
	source  KeywordSource
	timeout time.Duration
	logger  *zap.Logger
}

func NewKeywordMatcher(source KeywordSource, timeout time.Duration, logger *zap.Logger) *KeywordMatcher {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeywordMatcher{source: source, timeout: timeout, logger: logger}
}

// Match returns false when no rule hits. An unreachable source counts as an
// empty rule set.
func (m *KeywordMatcher) Match(ctx context.Context, message string) (Reply, bool) {
	rules := m.activeRules(ctx)
	if len(rules) == 0 {
		return Reply{}, false
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})

	text := strings.ToLower(message)
	for _, rule := range rules {
		keyword := strings.ToLower(strings.TrimSpace(rule.Keyword))
		if keyword == "" {
			continue
		}
		if strings.Contains(text, keyword) {
			return NewReply(rule.Response), true
		}
	}
	return Reply{}, false
}

func (m *KeywordMatcher) activeRules(ctx context.Context) []model.KeywordRule {
	listCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	rules, err := m.source.ListActive(listCtx)
	if err != nil {
		m.logger.Warn("keyword rules unavailable, skipping keyword stage", zap.Error(err))
		return nil
	}

	active := make([]model.KeywordRule, 0, len(rules))
	for _, rule := range rules {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	return active
}
