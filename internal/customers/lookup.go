package customers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
)

// MatchPolicy controls how a search query is compared with identifiers.
type MatchPolicy int

const (
	MatchExact MatchPolicy = iota
	MatchPrefix
	// MatchContains accepts identifiers containing the query and queries
	// containing the identifier.
	MatchContains
)

func (m MatchPolicy) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchPrefix:
		return "prefix"
	case MatchContains:
		return "contains"
	default:
		return fmt.Sprintf("MatchPolicy(%d)", int(m))
	}
}

func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return MatchExact, nil
	case "prefix":
		return MatchPrefix, nil
	case "contains":
		return MatchContains, nil
	default:
		return 0, fmt.Errorf("%w: unknown match policy %q", common.ErrorValidation, s)
	}
}

// AmbiguousMatchError lists every identifier a query matched.
type AmbiguousMatchError struct {
	Query      string
	Candidates []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%d identifiers match %q", len(e.Candidates), e.Query)
}

func (e *AmbiguousMatchError) Unwrap() error {
	return common.ErrAmbiguousMatch
}

// Lookup finds the single record matching query. An exact identifier match
// wins under every policy.
func Lookup(records map[string]*models.CustomerRecord, query string, policy MatchPolicy) (*models.CustomerRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.ErrorNotFound
	}
	if rec, ok := records[query]; ok {
		return rec, nil
	}
	if policy == MatchExact {
		return nil, common.ErrorNotFound
	}

	var candidates []string
	for id := range records {
		if matches(id, query, policy) {
			candidates = append(candidates, id)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, common.ErrorNotFound
	case 1:
		return records[candidates[0]], nil
	default:
		sort.Strings(candidates)
		return nil, &AmbiguousMatchError{Query: query, Candidates: candidates}
	}
}

func matches(id, query string, policy MatchPolicy) bool {
	switch policy {
	case MatchPrefix:
		return strings.HasPrefix(id, query)
	case MatchContains:
		return strings.Contains(id, query) || strings.Contains(query, id)
	default:
		return id == query
	}
}

// Recent returns up to n records, most recently active first. Records
// without any dated file come last.
func Recent(records map[string]*models.CustomerRecord, n int) []*models.CustomerRecord {
	out := Sorted(records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivity > out[j].LastActivity
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
