package domain

import (
	"fmt"
	"time"
)

// KnowledgeCategory represents the topic of a knowledge document. It extends
// the ticket taxonomy with a deadlines bucket used only for policy documents.
type KnowledgeCategory string

const (
	KnowledgeCategoryFAFSA        KnowledgeCategory = "fafsa"
	KnowledgeCategoryVerification KnowledgeCategory = "verification"
	KnowledgeCategorySAPAppeal    KnowledgeCategory = "sap_appeal"
	KnowledgeCategoryBilling      KnowledgeCategory = "billing"
	KnowledgeCategoryGeneral      KnowledgeCategory = "general"
	KnowledgeCategoryDeadlines    KnowledgeCategory = "deadlines"
)

// KnowledgeDocument represents a tenant-scoped policy document. Only documents
// with Searchable set are visible to the relevance ranker.
type KnowledgeDocument struct {
	ID         string
	TenantID   string
	Title      string
	Content    string
	Category   KnowledgeCategory
	Searchable bool
	Tags       []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidateKnowledgeDocument validates a KnowledgeDocument instance
func ValidateKnowledgeDocument(d *KnowledgeDocument) error {
	if d == nil {
		return fmt.Errorf("knowledge document cannot be nil")
	}
	if d.ID == "" {
		return fmt.Errorf("knowledge document ID is required")
	}
	if d.TenantID == "" {
		return fmt.Errorf("knowledge document TenantID is required")
	}
	if d.Title == "" {
		return fmt.Errorf("knowledge document Title is required")
	}
	if d.Content == "" {
		return fmt.Errorf("knowledge document Content is required")
	}
	if !IsValidKnowledgeCategory(d.Category) {
		return fmt.Errorf("knowledge document Category is invalid: %s", d.Category)
	}
	return nil
}

// IsValidKnowledgeCategory checks if a KnowledgeCategory is valid
func IsValidKnowledgeCategory(c KnowledgeCategory) bool {
	switch c {
	case KnowledgeCategoryFAFSA, KnowledgeCategoryVerification, KnowledgeCategorySAPAppeal,
		KnowledgeCategoryBilling, KnowledgeCategoryGeneral, KnowledgeCategoryDeadlines:
		return true
	}
	return false
}
