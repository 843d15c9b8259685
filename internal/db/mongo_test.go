package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates unique indexes", func(mt *mtest.T) {
		for range 4 {
			mt.AddMockResponses(mtest.CreateSuccessResponse())
		}
		require.NoError(mt, EnsureIndexes(context.Background(), mt.DB))

		indexes := map[string]map[string]bson.Raw{}
		for _, evt := range mt.GetAllStartedEvents() {
			require.Equal(mt, "createIndexes", evt.CommandName)
			coll := evt.Command.Lookup("createIndexes").StringValue()
			values, err := evt.Command.Lookup("indexes").Array().Values()
			require.NoError(mt, err)
			indexes[coll] = map[string]bson.Raw{}
			for _, v := range values {
				doc := v.Document()
				indexes[coll][doc.Lookup("name").StringValue()] = doc
			}
		}
		require.Len(mt, indexes, 4)

		email := indexes[UsersCollection]["email_1"]
		require.NotNil(mt, email)
		assert.True(mt, email.Lookup("unique").Boolean())

		slot := indexes[UsersCollection]["superadmin_slot_1"]
		require.NotNil(mt, slot)
		assert.True(mt, slot.Lookup("unique").Boolean())
		partial := slot.Lookup("partialFilterExpression", "superadmin_slot", "$exists")
		assert.True(mt, partial.Boolean())

		claim := indexes[RedemptionsCollection]["user_id_1_title_1"]
		require.NotNil(mt, claim)
		assert.True(mt, claim.Lookup("unique").Boolean())

		assert.Contains(mt, indexes[ReportsCollection], "created_at_-1")
		assert.Contains(mt, indexes[ActivityCollection], "created_at_-1")
	})

	mt.Run("reports failures per collection", func(mt *mtest.T) {
		for range 4 {
			mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 85, Name: "IndexOptionsConflict", Message: "conflict"}))
		}
		err := EnsureIndexes(context.Background(), mt.DB)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "indexes")
	})
}
