package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"postergen/internal/domain/entity"
)

func TestMemorySessionRepository(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	session, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, session.State)

	require.NoError(t, repo.UpdateState(ctx, 1, entity.StateAwaitingPhoto))
	session, err = repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, session.State)

	require.NoError(t, repo.Save(ctx, &entity.Session{UserID: 2, ChatID: 20, State: entity.StateProcessing}))
	session, err = repo.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, session.State)

	// изменения копии не попадают в хранилище без Save
	session.SetState(entity.StateMainMenu)
	session, err = repo.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, session.State)

	// неизвестный пользователь игнорируется
	require.NoError(t, repo.UpdateState(ctx, 99, entity.StateProcessing))
}

func TestMemorySessionRepository_Concurrent(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := repo.Get(ctx, 1, 10)
			require.NoError(t, err)
			_ = session.State
			if i%2 == 0 {
				require.NoError(t, repo.UpdateState(ctx, 1, entity.StateProcessing))
			}
		}()
	}
	wg.Wait()

	session, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, session.State)
}
