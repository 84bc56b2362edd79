package updates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestReverse(t *testing.T) {
	list := []*Update{{ID: "3"}, {ID: "2"}, {ID: "1"}}
	reverse(list)
	require.Equal(t, "1", list[0].ID)
	require.Equal(t, "2", list[1].ID)
	require.Equal(t, "3", list[2].ID)

	reverse(nil)
	one := []*Update{{ID: "x"}}
	reverse(one)
	require.Equal(t, "x", one[0].ID)
}

func updateDoc(id string, at time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "timestamp", Value: at.Format(time.RFC3339)},
		{Key: "documentName", Value: "a.docx"},
		{Key: "eventType", Value: DefaultEventType},
		{Key: "receivedAt", Value: at},
	}
}

func TestMongoRepository_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("limit returns most recent in receive order", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		// the server answers newest first for the descending sort
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			updateDoc("3", base.Add(2*time.Second)),
			updateDoc("2", base.Add(time.Second)),
		))
		repo := &MongoRepository{col: mt.Coll}

		got, err := repo.List(context.Background(), Filter{DocumentName: "a.docx", Limit: 2})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		require.Equal(mt, "2", got[0].ID)
		require.Equal(mt, "3", got[1].ID)

		cmd := mt.GetStartedEvent().Command
		require.EqualValues(mt, 2, cmd.Lookup("limit").AsInt64())
		require.EqualValues(mt, -1, cmd.Lookup("sort", "receivedAt").AsInt64())
		require.Equal(mt, "a.docx", cmd.Lookup("filter", "documentName").StringValue())
	})

	mt.Run("no limit keeps ascending order", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			updateDoc("1", base),
			updateDoc("2", base.Add(time.Second)),
		))
		repo := &MongoRepository{col: mt.Coll}

		got, err := repo.List(context.Background(), Filter{})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		require.Equal(mt, "1", got[0].ID)
		require.Equal(mt, "2", got[1].ID)

		cmd := mt.GetStartedEvent().Command
		require.EqualValues(mt, 1, cmd.Lookup("sort", "receivedAt").AsInt64())
		_, err = cmd.LookupErr("limit")
		require.Error(mt, err)
	})

	mt.Run("empty result is an empty slice", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := &MongoRepository{col: mt.Coll}

		got, err := repo.List(context.Background(), Filter{Limit: 5})
		require.NoError(mt, err)
		require.NotNil(mt, got)
		require.Empty(mt, got)
	})

	mt.Run("append and index creation", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		repo, err := NewMongoRepository(context.Background(), mt.Coll)
		require.NoError(mt, err)
		require.NoError(mt, repo.Append(context.Background(), &Update{ID: "1", EventType: DefaultEventType, ReceivedAt: base}))

		require.Equal(mt, "createIndexes", mt.GetStartedEvent().CommandName)
		require.Equal(mt, "insert", mt.GetStartedEvent().CommandName)
	})

	mt.Run("find failure is wrapped", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad query", Name: "BadValue"}))
		repo := &MongoRepository{col: mt.Coll}

		_, err := repo.List(context.Background(), Filter{})
		require.ErrorContains(mt, err, "find updates")
	})
}
