package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/leave"
	"github.com/attendly/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveRepository_Update_ExactlyOnce(t *testing.T) {
	db := requireTestDB(t)
	defer cleanupTestData(t, db)

	ctx := context.Background()
	u := createTestUser(t, ctx, db, "review@example.com")
	repo := postgresql.NewLeaveRepository(db)

	created, err := repo.Create(ctx, leave.Leave{
		UserID:    u.ID,
		Type:      leave.TypeSick,
		Reason:    "flu",
		StartDate: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Status:    leave.StatusPending,
	})
	require.NoError(t, err)

	created.Status = leave.StatusDeclined
	require.NoError(t, repo.Update(ctx, created))

	// A second decision, even a different one, affects zero rows
	created.Status = leave.StatusApproved
	err = repo.Update(ctx, created)
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)

	final, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusDeclined, final.Status)
}
