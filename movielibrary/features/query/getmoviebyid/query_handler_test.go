package getmoviebyid_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/query/getmoviebyid"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/memoryengine"
	. "github.com/afarhat-dev/vertical-slice-poc/testutil/recordstore/helper" //nolint:revive
)

func Test_QueryHandler_Handle(t *testing.T) {
	// setup
	ctx := context.Background()
	store, err := memoryengine.NewRecordStore()
	require.NoError(t, err)
	movie := GivenMovieWasAdded(t, ctx, store, FixtureMovie("Alien"))
	handler := getmoviebyid.NewQueryHandler(store.Movies())

	t.Run("existing movie", func(t *testing.T) {
		// act
		found, err := handler.Handle(ctx, getmoviebyid.BuildQuery(movie.ID))

		// assert
		require.NoError(t, err)
		assert.Equal(t, movie.Title, found.Title)
		assert.True(t, found.Version.Equal(movie.Version))
	})

	t.Run("unknown movie", func(t *testing.T) {
		// act
		_, err := handler.Handle(ctx, getmoviebyid.BuildQuery(GivenUniqueID(t)))

		// assert
		assert.ErrorIs(t, err, recordstore.ErrNotFound)
	})
}
