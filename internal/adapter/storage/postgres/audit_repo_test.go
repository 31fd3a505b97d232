package postgres

import (
	"context"
	"errors"
	"testing"

	"stack-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	entry := &domain.AuditLog{
		ID:           uuid.New(),
		UserID:       strPtr("user-1"),
		Action:       domain.AuditActionBurnConfirm,
		ResourceType: "burn",
		ResourceID:   "golden_touch",
		Details:      `{"status":200}`,
		IPAddress:    "10.0.0.1",
		CreatedAt:    ts(),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(entry.ID, entry.UserID, "BURN_CONFIRM", "burn", "golden_touch", entry.Details, "10.0.0.1", ts()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, NewAuditRepo(mock).Create(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_Create_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnError(errors.New("disk full"))

	err = NewAuditRepo(mock).Create(context.Background(), &domain.AuditLog{ID: uuid.New()})
	assert.Error(t, err)
}
