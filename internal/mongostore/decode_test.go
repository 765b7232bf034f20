package mongostore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// cursorOf serves docs the way an aggregation reply would, without a server.
func cursorOf(t *testing.T, docs ...interface{}) *mongo.Cursor {
	t.Helper()
	cur, err := mongo.NewCursorFromDocuments(docs, nil, nil)
	require.NoError(t, err)
	return cur
}

func TestReadTallies(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	first := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	// $sum over 1 and $min over createdAt produce int32 and datetime.
	cur := cursorOf(t,
		bson.D{{Key: "_id", Value: a}, {Key: "wins", Value: int32(3)}, {Key: "firstWonAt", Value: first}},
		bson.D{{Key: "_id", Value: b}, {Key: "wins", Value: int32(1)}, {Key: "firstWonAt", Value: first.Add(time.Hour)}},
	)

	tallies, err := readTallies(context.Background(), cur)
	require.NoError(t, err)
	require.Len(t, tallies, 2)

	assert.Equal(t, a, tallies[0].PostID)
	assert.Equal(t, int64(3), tallies[0].Wins)
	assert.True(t, first.Equal(tallies[0].FirstWonAt))
	assert.Equal(t, b, tallies[1].PostID)
	assert.Equal(t, int64(1), tallies[1].Wins)
}

func TestReadTallies_StoredDuelIDs(t *testing.T) {
	winner := uuid.New()
	stored, err := bson.Marshal(bson.M{"winnerPostId": winner})
	require.NoError(t, err)

	// The $group key is copied from the stored field as-is.
	var doc bson.M
	require.NoError(t, bson.Unmarshal(stored, &doc))
	cur := cursorOf(t, bson.M{"_id": doc["winnerPostId"], "wins": int32(1), "firstWonAt": time.Now().UTC()})

	tallies, err := readTallies(context.Background(), cur)
	require.NoError(t, err)
	require.Len(t, tallies, 1)
	assert.Equal(t, winner, tallies[0].PostID)
}

func TestReadPostCounts(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	cur := cursorOf(t,
		bson.D{{Key: "_id", Value: p1}, {Key: "n", Value: int32(4)}},
		bson.D{{Key: "_id", Value: p2}, {Key: "n", Value: int32(1)}},
	)

	counts, err := readPostCounts(context.Background(), cur, map[uuid.UUID]int64{})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{p1: 4, p2: 1}, counts)
	assert.Equal(t, map[uuid.UUID]bool{p1: true, p2: true}, heldPosts(counts))
}

func TestReadCount(t *testing.T) {
	n, err := readCount(context.Background(), cursorOf(t, bson.D{{Key: "n", Value: int32(7)}}))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	n, err = readCount(context.Background(), cursorOf(t))
	require.NoError(t, err)
	assert.Zero(t, n)
}
