package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	mongooptions "go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/bunnys/nexus/integration/database/mongo"
)

// lazyStore builds a UserStore over a client that never dials; only code
// paths that fail before issuing a command are exercised.
func lazyStore(t *testing.T) *mongo.UserStore {
	t.Helper()

	opts := mongooptions.Client().
		ApplyURI("mongodb://127.0.0.1:27017").
		SetConnectTimeout(300 * time.Millisecond).
		SetServerSelectionTimeout(300 * time.Millisecond)

	client, err := mongodriver.Connect(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return mongo.NewUserStore(client.Database("nexus_test"))
}

func TestUserStore_CreateOrUpdate_Validation(t *testing.T) {
	t.Parallel()

	store := lazyStore(t)

	user, err := store.CreateOrUpdate(context.Background(), "", "bunny")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, mongo.ErrEmptyCallerID)

	user, err = store.CreateOrUpdate(context.Background(), "   ", "bunny")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, mongo.ErrEmptyCallerID)
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	recorder := mongo.NewRecorder(lazyStore(t))

	err := recorder.RecordCaller(context.Background(), "")
	assert.ErrorIs(t, err, mongo.ErrEmptyCallerID)
}
