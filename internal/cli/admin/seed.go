package admin

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/repository"
	"github.com/aidhubhq/aidhub/internal/service"
)

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed starter knowledge documents",
		Long:  "Load a starter set of financial aid knowledge documents for a tenant",
		RunE:  runSeed,
	}

	cmd.Flags().StringP("tenant", "t", "", "Tenant ID or name (required)")
	cmd.MarkFlagRequired("tenant")

	return cmd
}

type seedDocument struct {
	title    string
	content  string
	category domain.KnowledgeCategory
	tags     []string
}

var starterDocuments = []seedDocument{
	{
		title:    "FAFSA Filing Basics",
		category: domain.KnowledgeCategoryFAFSA,
		tags:     []string{"fafsa", "application"},
		content: "The Free Application for Federal Student Aid (FAFSA) must be submitted each " +
			"award year. Students need their FSA ID, prior-prior year tax information, and the " +
			"school code. Corrections can be submitted after processing if household information " +
			"changes. Students selected for verification will be contacted with a document request.",
	},
	{
		title:    "Verification Document Checklist",
		category: domain.KnowledgeCategoryVerification,
		tags:     []string{"verification", "documents"},
		content: "Students selected for verification must submit a verification worksheet, " +
			"an IRS tax return transcript or use of the IRS data retrieval tool, and W-2 forms " +
			"for all household earners. Aid cannot disburse until verification is complete. " +
			"Incomplete files are cancelled at the end of the enrollment period.",
	},
	{
		title:    "Satisfactory Academic Progress Appeals",
		category: domain.KnowledgeCategorySAPAppeal,
		tags:     []string{"sap", "appeal", "eligibility"},
		content: "Students who lose aid eligibility for not meeting Satisfactory Academic Progress " +
			"standards may appeal. A complete appeal includes a personal statement explaining the " +
			"circumstances, supporting documentation, and an academic plan signed by an advisor. " +
			"Appeals are reviewed by committee and decisions are final for the term.",
	},
	{
		title:    "Disbursement and Refund Timeline",
		category: domain.KnowledgeCategoryBilling,
		tags:     []string{"disbursement", "refund", "billing"},
		content: "Aid disburses to the student account no earlier than ten days before the start " +
			"of the term. Charges are paid first; any credit balance is refunded within fourteen " +
			"days of disbursement. Students should enroll in direct deposit to avoid mailed checks.",
	},
	{
		title:    "Priority Deadlines",
		category: domain.KnowledgeCategoryDeadlines,
		tags:     []string{"deadlines"},
		content: "The priority filing deadline for institutional aid is March 1. State grant " +
			"deadlines vary by program. Documents requested by the office are due within thirty " +
			"days of the request. Late submissions are processed in date order as funding allows.",
	},
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	tenantRef, _ := cmd.Flags().GetString("tenant")

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	tenantRepo := repository.NewTenantRepository(pool)
	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	knowledgeSvc := service.NewKnowledgeService(knowledgeRepo)

	tenantID, err := resolveTenantID(ctx, tenantRepo, tenantRef)
	if err != nil {
		return err
	}

	// Skip titles that already exist so reruns are safe
	existing, err := knowledgeRepo.ListByTenant(ctx, tenantID, "")
	if err != nil {
		return fmt.Errorf("failed to list existing documents: %w", err)
	}
	existingTitles := make(map[string]bool, len(existing))
	for _, doc := range existing {
		existingTitles[doc.Title] = true
	}

	created := 0
	for _, seed := range starterDocuments {
		if existingTitles[seed.title] {
			fmt.Printf("skipped (exists): %s\n", seed.title)
			continue
		}

		doc, err := knowledgeSvc.Create(ctx, service.CreateKnowledgeInput{
			TenantID:   tenantID,
			Title:      seed.title,
			Content:    seed.content,
			Category:   seed.category,
			Searchable: true,
			Tags:       seed.tags,
		})
		if err != nil {
			return fmt.Errorf("failed to create document %q: %w", seed.title, err)
		}
		fmt.Printf("created: %s (%s)\n", doc.Title, doc.ID)
		created++
	}

	fmt.Printf("seed complete: %d created, %d skipped\n", created, len(starterDocuments)-created)
	return nil
}
