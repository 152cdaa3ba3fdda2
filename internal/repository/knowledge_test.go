//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/testutil"
)

func newKnowledgeDoc(tenantID, title string, createdAt time.Time) *domain.KnowledgeDocument {
	return &domain.KnowledgeDocument{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		Title:      title,
		Content:    "Content for " + title,
		Category:   domain.KnowledgeCategoryFAFSA,
		Searchable: true,
		Tags:       []string{"fafsa", "deadlines"},
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestKnowledgeRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	kbRepo := NewKnowledgeRepository(pool)

	tenant := setupTenant(ctx, t, tenantRepo)
	doc := newKnowledgeDoc(tenant.ID, "FAFSA Priority Deadline", time.Now().UTC().Truncate(time.Microsecond))

	require.NoError(t, kbRepo.Create(ctx, doc))

	retrieved, err := kbRepo.GetByID(ctx, tenant.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, retrieved.Title)
	assert.Equal(t, doc.Content, retrieved.Content)
	assert.Equal(t, domain.KnowledgeCategoryFAFSA, retrieved.Category)
	assert.True(t, retrieved.Searchable)
	assert.Equal(t, []string{"fafsa", "deadlines"}, retrieved.Tags)
}

func TestKnowledgeRepository_GetByID_WrongTenant(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	kbRepo := NewKnowledgeRepository(pool)

	owner := setupTenant(ctx, t, tenantRepo)
	other := setupTenant(ctx, t, tenantRepo)

	doc := newKnowledgeDoc(owner.ID, "Private Policy", time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, kbRepo.Create(ctx, doc))

	_, err := kbRepo.GetByID(ctx, other.ID, doc.ID)
	assert.ErrorIs(t, err, domain.ErrKnowledgeNotFound)
}

func TestKnowledgeRepository_ListByTenant_CategoryFilter(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	kbRepo := NewKnowledgeRepository(pool)

	tenant := setupTenant(ctx, t, tenantRepo)
	now := time.Now().UTC().Truncate(time.Microsecond)

	fafsa := newKnowledgeDoc(tenant.ID, "FAFSA Guide", now)
	billing := newKnowledgeDoc(tenant.ID, "Billing Holds", now.Add(time.Second))
	billing.Category = domain.KnowledgeCategoryBilling
	require.NoError(t, kbRepo.Create(ctx, fafsa))
	require.NoError(t, kbRepo.Create(ctx, billing))

	all, err := kbRepo.ListByTenant(ctx, tenant.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	billingOnly, err := kbRepo.ListByTenant(ctx, tenant.ID, domain.KnowledgeCategoryBilling)
	require.NoError(t, err)
	require.Len(t, billingOnly, 1)
	assert.Equal(t, "Billing Holds", billingOnly[0].Title)
}

func TestKnowledgeRepository_FindSearchable(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	kbRepo := NewKnowledgeRepository(pool)

	tenant := setupTenant(ctx, t, tenantRepo)
	now := time.Now().UTC().Truncate(time.Microsecond)

	first := newKnowledgeDoc(tenant.ID, "Oldest Doc", now)
	second := newKnowledgeDoc(tenant.ID, "Newer Doc", now.Add(time.Second))
	hidden := newKnowledgeDoc(tenant.ID, "Hidden Doc", now.Add(2*time.Second))
	hidden.Searchable = false

	require.NoError(t, kbRepo.Create(ctx, first))
	require.NoError(t, kbRepo.Create(ctx, second))
	require.NoError(t, kbRepo.Create(ctx, hidden))

	docs, err := kbRepo.FindSearchable(ctx, tenant.ID, "")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Oldest Doc", docs[0].Title)
	assert.Equal(t, "Newer Doc", docs[1].Title)
}

func TestKnowledgeRepository_Update(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	kbRepo := NewKnowledgeRepository(pool)

	tenant := setupTenant(ctx, t, tenantRepo)
	doc := newKnowledgeDoc(tenant.ID, "Original Title", time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, kbRepo.Create(ctx, doc))

	doc.Title = "Updated Title"
	doc.Searchable = false
	doc.UpdatedAt = time.Now().UTC().Add(time.Second).Truncate(time.Microsecond)
	require.NoError(t, kbRepo.Update(ctx, doc))

	retrieved, err := kbRepo.GetByID(ctx, tenant.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", retrieved.Title)
	assert.False(t, retrieved.Searchable)
}

func TestKnowledgeRepository_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	kbRepo := NewKnowledgeRepository(pool)

	tenant := setupTenant(ctx, t, tenantRepo)
	doc := newKnowledgeDoc(tenant.ID, "Never Persisted", time.Now().UTC().Truncate(time.Microsecond))

	err := kbRepo.Update(ctx, doc)
	assert.ErrorIs(t, err, domain.ErrKnowledgeNotFound)
}

func TestKnowledgeRepository_Delete(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	kbRepo := NewKnowledgeRepository(pool)

	tenant := setupTenant(ctx, t, tenantRepo)
	doc := newKnowledgeDoc(tenant.ID, "To Delete", time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, kbRepo.Create(ctx, doc))

	require.NoError(t, kbRepo.Delete(ctx, tenant.ID, doc.ID))

	_, err := kbRepo.GetByID(ctx, tenant.ID, doc.ID)
	assert.ErrorIs(t, err, domain.ErrKnowledgeNotFound)

	err = kbRepo.Delete(ctx, tenant.ID, doc.ID)
	assert.ErrorIs(t, err, domain.ErrKnowledgeNotFound)
}
