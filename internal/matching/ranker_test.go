package matching

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func vectorWithID(id int64, mutate func(*PreferenceVector)) *PreferenceVector {
    v := fullVector()
    v.UserID = id
    if mutate != nil {
        mutate(v)
    }
    return v
}

func TestRankCandidates_OrderedByScoreThenID(t *testing.T) {
    user := vectorWithID(1, nil)
    pool := []*PreferenceVector{
        vectorWithID(4, func(v *PreferenceVector) { v.Cleanliness = "somewhat_messy" }),
        vectorWithID(3, nil), // perfect lifestyle agreement
        vectorWithID(2, func(v *PreferenceVector) {
            v.Cleanliness = "somewhat_messy"
            v.NoiseTolerance = "loud"
        }),
    }

    ranked, err := rankCandidates(context.Background(), user, pool, 10)
    require.NoError(t, err)
    require.Len(t, ranked, 3)

    assert.Equal(t, int64(3), ranked[0].UserID)
    assert.Equal(t, int64(4), ranked[1].UserID)
    assert.Equal(t, int64(2), ranked[2].UserID)
    assert.Greater(t, ranked[0].Score, ranked[1].Score)
    assert.Greater(t, ranked[1].Score, ranked[2].Score)
}

func TestRankCandidates_TieBrokenByIDAscending(t *testing.T) {
    user := vectorWithID(1, nil)
    pool := []*PreferenceVector{
        vectorWithID(9, nil),
        vectorWithID(5, nil),
        vectorWithID(7, nil),
    }

    ranked, err := rankCandidates(context.Background(), user, pool, 10)
    require.NoError(t, err)
    require.Len(t, ranked, 3)

    assert.Equal(t, int64(5), ranked[0].UserID)
    assert.Equal(t, int64(7), ranked[1].UserID)
    assert.Equal(t, int64(9), ranked[2].UserID)
}

func TestRankCandidates_StableAcrossRuns(t *testing.T) {
    user := vectorWithID(1, nil)
    pool := []*PreferenceVector{
        vectorWithID(6, func(v *PreferenceVector) { v.SleepSchedule = "night_owl" }),
        vectorWithID(2, nil),
        vectorWithID(8, nil),
        vectorWithID(4, func(v *PreferenceVector) { v.TemperaturePreference = "warm" }),
    }

    first, err := rankCandidates(context.Background(), user, pool, 10)
    require.NoError(t, err)
    second, err := rankCandidates(context.Background(), user, pool, 10)
    require.NoError(t, err)

    require.Equal(t, len(first), len(second))
    for i := range first {
        assert.Equal(t, first[i].UserID, second[i].UserID)
        assert.Equal(t, first[i].Score, second[i].Score)
    }
}

func TestRankCandidates_CapsToTopN(t *testing.T) {
    user := vectorWithID(1, nil)
    pool := make([]*PreferenceVector, 0, 25)
    for id := int64(2); id <= 26; id++ {
        pool = append(pool, vectorWithID(id, nil))
    }

    ranked, err := rankCandidates(context.Background(), user, pool, 10)
    require.NoError(t, err)
    assert.Len(t, ranked, 10)
}

func TestRankCandidates_EmptyPoolIsNotAnError(t *testing.T) {
    ranked, err := rankCandidates(context.Background(), vectorWithID(1, nil), nil, 10)
    require.NoError(t, err)
    assert.Empty(t, ranked)
}

func TestRankCandidates_ExcludesSelfAndDuplicates(t *testing.T) {
    user := vectorWithID(1, nil)
    pool := []*PreferenceVector{
        vectorWithID(1, nil), // self slipped into the pool
        vectorWithID(2, nil),
        vectorWithID(2, nil), // duplicate candidate
    }

    ranked, err := rankCandidates(context.Background(), user, pool, 10)
    require.NoError(t, err)
    require.Len(t, ranked, 1)
    assert.Equal(t, int64(2), ranked[0].UserID)
}

func TestRankCandidates_HonorsCancellation(t *testing.T) {
    ctx, cancel := context.WithCancel(context.Background())
    cancel()

    pool := []*PreferenceVector{vectorWithID(2, nil)}
    _, err := rankCandidates(ctx, vectorWithID(1, nil), pool, 10)
    assert.ErrorIs(t, err, context.Canceled)
}
