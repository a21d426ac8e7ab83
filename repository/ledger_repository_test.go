package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thelife/models"
	"thelife/repository/testutil"
)

func TestLedgerRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	repo := NewLedgerRepository(testDB.DB)

	player := testutil.CreateTestPlayer(time.Now())
	_, err := NewPlayerRepository(testDB.DB).Provision(ctx, player)
	require.NoError(t, err)

	first := testutil.CreateTestLedgerHistory(player.ID, 500, 650, models.ChangeTypeCrime)
	first.CreatedAt = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, repo.Record(ctx, first))

	second := testutil.CreateTestLedgerHistory(player.ID, 650, 0, models.ChangeTypeBribe)
	second.BankBefore = 9600
	second.BankAfter = 8900
	second.Metadata = map[string]any{"percentage": 11}
	require.NoError(t, repo.Record(ctx, second))

	t.Run("newest first", func(t *testing.T) {
		entries, err := repo.GetByPlayer(ctx, player.ID, 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, models.ChangeTypeBribe, entries[0].ChangeType)
		assert.Equal(t, int64(8900), entries[0].BankAfter)
		// JSON numbers come back as float64
		assert.Equal(t, float64(11), entries[0].Metadata["percentage"])
		assert.Equal(t, models.ChangeTypeCrime, entries[1].ChangeType)
	})

	t.Run("limit", func(t *testing.T) {
		entries, err := repo.GetByPlayer(ctx, player.ID, 1)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
