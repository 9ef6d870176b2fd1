package listmovies_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/query/listmovies"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/memoryengine"
	. "github.com/afarhat-dev/vertical-slice-poc/testutil/recordstore/helper" //nolint:revive
)

func Test_QueryHandler_Handle_NewestFirst(t *testing.T) {
	// arrange
	ctx := context.Background()
	store, err := memoryengine.NewRecordStore(
		memoryengine.WithClock(FakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), time.Minute)),
	)
	require.NoError(t, err)
	GivenMovieWasAdded(t, ctx, store, FixtureMovie("Alien"))
	GivenMovieWasAdded(t, ctx, store, FixtureMovie("Aliens"))
	handler := listmovies.NewQueryHandler(store.Movies())

	// act
	result, err := handler.Handle(ctx, listmovies.Query{})

	// assert
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, "Aliens", result.Movies[0].Title)
	assert.Equal(t, "Alien", result.Movies[1].Title)
}

func Test_QueryHandler_Handle_EmptyCatalog(t *testing.T) {
	// arrange
	store, err := memoryengine.NewRecordStore()
	require.NoError(t, err)

	// act
	result, err := listmovies.NewQueryHandler(store.Movies()).Handle(context.Background(), listmovies.Query{})

	// assert
	require.NoError(t, err)
	assert.Zero(t, result.Count)
	assert.Empty(t, result.Movies)
}
