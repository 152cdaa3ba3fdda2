package service

import (
	"context"
	"sort"
	"strings"

	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/telemetry"
)

// DefaultSearchLimit caps knowledge search results when no limit is given
const DefaultSearchLimit = 5

// SearchableKnowledgeRepository defines the read interface for ranking
type SearchableKnowledgeRepository interface {
	FindSearchable(ctx context.Context, tenantID string, category domain.KnowledgeCategory) ([]*domain.KnowledgeDocument, error)
}

// KnowledgeSearchService ranks a tenant's searchable knowledge documents
// against a query using raw term frequency. This is a heuristic baseline, not
// semantic search; a future ranker can replace the scoring without changing
// the interface.
type KnowledgeSearchService struct {
	repo SearchableKnowledgeRepository
}

// NewKnowledgeSearchService creates a new KnowledgeSearchService instance
func NewKnowledgeSearchService(repo SearchableKnowledgeRepository) *KnowledgeSearchService {
	return &KnowledgeSearchService{repo: repo}
}

// SearchInput represents the input for a knowledge search
type SearchInput struct {
	TenantID string
	Query    string
	Category domain.KnowledgeCategory
	Limit    int
}

type rankedMatch struct {
	doc   *domain.KnowledgeDocument
	score int
}

// Search retrieves the tenant's searchable documents, optionally filtered by
// category, and returns the top matches by descending term-frequency score.
// Each whitespace token of the lower-cased query contributes its substring
// occurrence count in the lower-cased title plus content. Documents with
// score zero are excluded. Ties keep retrieval order. A query matching
// nothing yields an empty list, never an error.
func (s *KnowledgeSearchService) Search(ctx context.Context, input SearchInput) ([]*domain.KnowledgeDocument, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeSearchService.Search", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		Operation: "search",
	})
	defer span.End()

	if input.Category != "" && !domain.IsValidKnowledgeCategory(input.Category) {
		return nil, domain.ErrInvalidKnowledgeCategory
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	docs, err := s.repo.FindSearchable(ctx, input.TenantID, input.Category)
	if err != nil {
		return nil, err
	}

	terms := strings.Fields(strings.ToLower(input.Query))
	if len(terms) == 0 {
		return []*domain.KnowledgeDocument{}, nil
	}

	matches := make([]rankedMatch, 0, len(docs))
	for _, doc := range docs {
		text := strings.ToLower(doc.Title + " " + doc.Content)
		score := 0
		for _, term := range terms {
			score += strings.Count(text, term)
		}
		if score > 0 {
			matches = append(matches, rankedMatch{doc: doc, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]*domain.KnowledgeDocument, len(matches))
	for i, m := range matches {
		results[i] = m.doc
	}
	return results, nil
}
