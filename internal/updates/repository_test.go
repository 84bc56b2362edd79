package updates

import (
	"context"
	"fmt"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_BoundedAndFiltered(t *testing.T) {
	repo := NewMemoryRepository(3)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		name := "a.docx"
		if i%2 == 1 {
			name = "b.docx"
		}
		require.NoError(t, repo.Append(ctx, &Update{ID: fmt.Sprint(i), DocumentName: name}))
	}

	all, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "2", all[0].ID)
	require.Equal(t, "4", all[2].ID)

	onlyA, err := repo.List(ctx, Filter{DocumentName: "a.docx"})
	require.NoError(t, err)
	require.Len(t, onlyA, 2)

	last, err := repo.List(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, last, 1)
	require.Equal(t, "4", last[0].ID)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository(0)
	ctx := context.Background()
	u := &Update{ID: "1", EventType: "update"}
	require.NoError(t, repo.Append(ctx, u))
	u.EventType = "changed"

	got, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	require.Equal(t, "update", got[0].EventType)
	got[0].EventType = "mutated"

	again, _ := repo.List(ctx, Filter{})
	require.Equal(t, "update", again[0].EventType)
}

func TestRedisRepository_AppendListTrim(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:updates", 2)
	ctx := context.Background()

	require.NoError(t, repo.Ping(ctx))
	require.NoError(t, repo.Append(ctx, &Update{ID: "1", DocumentName: "a.docx", ContentLength: Int64(10)}))
	require.NoError(t, repo.Append(ctx, &Update{ID: "2", DocumentName: "b.docx"}))
	require.NoError(t, repo.Append(ctx, &Update{ID: "3", DocumentName: "a.docx", PreviousLength: Int64(1), CurrentLength: Int64(2)}))

	all, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "2", all[0].ID)
	require.Equal(t, "3", all[1].ID)
	require.NotNil(t, all[1].CurrentLength)
	require.EqualValues(t, 2, *all[1].CurrentLength)
	require.Nil(t, all[1].ContentLength)

	onlyA, err := repo.List(ctx, Filter{DocumentName: "a.docx"})
	require.NoError(t, err)
	require.Len(t, onlyA, 1)

	last, err := repo.List(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, last, 1)
	require.Equal(t, "3", last[0].ID)
}
