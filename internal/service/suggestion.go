package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/telemetry"
)

// recordSuggestion persists an audit record for one generation invocation.
// Audit writes are best effort: a failed write is reported but never discards
// a result already produced for the caller.
func recordSuggestion(
	ctx context.Context,
	repo SuggestionRepositoryInterface,
	uuidGen UUIDGenerator,
	tenantID, ticketID string,
	kind domain.SuggestionType,
	inputContext string,
	output any,
) {
	if repo == nil {
		return
	}

	outputJSON, err := json.Marshal(output)
	if err != nil {
		telemetry.CaptureError(ctx, err)
		return
	}
	contextJSON, err := json.Marshal(map[string]string{"user_content": inputContext})
	if err != nil {
		telemetry.CaptureError(ctx, err)
		return
	}

	suggestion := &domain.Suggestion{
		ID:           uuidGen.NewString(),
		TenantID:     tenantID,
		TicketID:     ticketID,
		Type:         kind,
		InputContext: contextJSON,
		Output:       outputJSON,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(ctx, suggestion); err != nil {
		telemetry.CaptureError(ctx, err)
	}
}
