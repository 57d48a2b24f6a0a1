package sheets

import "strings"

// Matcher is one tab-title resolution strategy. Strategies are tried in a
// fixed order; the first hit wins. Keeping them as an explicit list makes
// the fallback chain auditable and independently testable.
type Matcher interface {
	Name() string
	Match(titles []string, target string) (string, bool)
}

// ExactMatcher matches the target byte-for-byte.
type ExactMatcher struct{}

func (ExactMatcher) Name() string { return "exact" }

func (ExactMatcher) Match(titles []string, target string) (string, bool) {
	for _, title := range titles {
		if title == target {
			return title, true
		}
	}
	return "", false
}

// FoldMatcher matches the target ignoring case.
type FoldMatcher struct{}

func (FoldMatcher) Name() string { return "case-insensitive" }

func (FoldMatcher) Match(titles []string, target string) (string, bool) {
	for _, title := range titles {
		if strings.EqualFold(title, target) {
			return title, true
		}
	}
	return "", false
}

// SubstringMatcher matches when either string contains the other,
// case-insensitively. Tabs are often titled with a user's full name while
// the account holds only part of it, and vice versa.
type SubstringMatcher struct{}

func (SubstringMatcher) Name() string { return "substring" }

func (SubstringMatcher) Match(titles []string, target string) (string, bool) {
	lowTarget := strings.ToLower(target)
	for _, title := range titles {
		lowTitle := strings.ToLower(title)
		if strings.Contains(lowTitle, lowTarget) || strings.Contains(lowTarget, lowTitle) {
			return title, true
		}
	}
	return "", false
}

// TokenMatcher splits the target on whitespace and matches any tab whose
// title contains any token. Last resort before giving up.
type TokenMatcher struct{}

func (TokenMatcher) Name() string { return "token-overlap" }

func (TokenMatcher) Match(titles []string, target string) (string, bool) {
	tokens := strings.Fields(strings.ToLower(target))
	for _, title := range titles {
		lowTitle := strings.ToLower(title)
		for _, token := range tokens {
			if strings.Contains(lowTitle, token) {
				return title, true
			}
		}
	}
	return "", false
}

// DefaultMatchers is the resolution chain in precedence order.
var DefaultMatchers = []Matcher{
	ExactMatcher{},
	FoldMatcher{},
	SubstringMatcher{},
	TokenMatcher{},
}

// Resolve finds the tab for a target name using the full fallback chain.
func Resolve(titles []string, target string) (string, error) {
	return ResolveWith(DefaultMatchers, titles, target)
}

// ResolveExact finds the tab for a target name with no fuzzy fallback.
// Writes use this: appending to the wrong tab is worse than failing.
func ResolveExact(titles []string, target string) (string, error) {
	return ResolveWith([]Matcher{ExactMatcher{}}, titles, target)
}

// ResolveWith runs an explicit matcher chain.
func ResolveWith(matchers []Matcher, titles []string, target string) (string, error) {
	for _, m := range matchers {
		if title, ok := m.Match(titles, target); ok {
			return title, nil
		}
	}
	return "", &NotFoundError{Target: target}
}

// ListDataSheets filters scaffolding tabs out of a title list: the default
// "Sheet1", anything titled like a template or example, and blank titles.
// What remains is assumed to be one tab per tracked user.
func ListDataSheets(titles []string) []string {
	data := make([]string, 0, len(titles))
	for _, title := range titles {
		trimmed := strings.TrimSpace(title)
		if trimmed == "" {
			continue
		}
		low := strings.ToLower(trimmed)
		if low == "sheet1" || strings.Contains(low, "template") || strings.Contains(low, "example") {
			continue
		}
		data = append(data, title)
	}
	return data
}
