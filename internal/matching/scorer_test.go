package matching

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func fullVector() *PreferenceVector {
    return &PreferenceVector{
        SleepSchedule:         "early_bird",
        SocialRoomPreference:  "balanced",
        OvernightGuests:       "comfortable",
        SharingComfort:        "share_all",
        Cleanliness:           "very_neat",
        TemperaturePreference: "moderate",
        EatingInRoom:          "occasional",
        NoiseTolerance:        "quiet",
        MBTIPersonality:       "INTJ",
    }
}

func TestScore_IdenticalVectors(t *testing.T) {
    x, y := fullVector(), fullVector()
    y.MBTIPersonality = "ENFP" // INTJ's ideal pair, full MBTI credit

    result := Score(x, y)
    assert.Equal(t, 100, result.Total)
    assert.Len(t, result.Breakdown, 9)
    for _, feature := range result.Breakdown {
        assert.True(t, feature.Compatible, feature.Feature)
    }
}

func TestScore_Deterministic(t *testing.T) {
    x, y := fullVector(), fullVector()
    y.Cleanliness = "somewhat_messy"
    y.NoiseTolerance = "loud"

    first := Score(x, y)
    second := Score(x, y)
    assert.Equal(t, first, second)
}

func TestScore_Symmetric(t *testing.T) {
    x := fullVector()
    y := &PreferenceVector{
        SleepSchedule:         "night_owl",
        SocialRoomPreference:  "introvert",
        OvernightGuests:       "when_absent",
        SharingComfort:        "no_sharing",
        Cleanliness:           "somewhat_messy",
        TemperaturePreference: "warm",
        EatingInRoom:          "never",
        NoiseTolerance:        "moderate_daytime",
        MBTIPersonality:       "ESFP",
    }

    assert.Equal(t, Score(x, y), Score(y, x))
}

func TestScore_Bounds(t *testing.T) {
    vectors := []*PreferenceVector{
        fullVector(),
        {SleepSchedule: "night_owl", Cleanliness: "somewhat_messy"},
        {TemperaturePreference: "warm", NoiseTolerance: "loud", MBTIPersonality: "ESTP"},
        {SocialRoomPreference: "extrovert", SharingComfort: "share_food"},
    }

    for _, x := range vectors {
        for _, y := range vectors {
            total := Score(x, y).Total
            assert.GreaterOrEqual(t, total, 0)
            assert.LessOrEqual(t, total, 100)
        }
    }
}

// Removing a feature from one side must renormalize, not dilute: a pair that
// is compatible on everything else stays at 100.
func TestScore_Renormalization(t *testing.T) {
    x, y := fullVector(), fullVector()
    require.Equal(t, 100, Score(x, y).Total)

    y.TemperaturePreference = ""
    result := Score(x, y)
    assert.Equal(t, 100, result.Total)
    assert.Len(t, result.Breakdown, 8, "unanswered feature excluded from breakdown")
}

func TestScore_NoOverlap(t *testing.T) {
    x := &PreferenceVector{SleepSchedule: "early_bird"}
    y := &PreferenceVector{Cleanliness: "very_neat"}

    result := Score(x, y)
    assert.Equal(t, 0, result.Total)
    assert.Empty(t, result.Breakdown)
}

func TestScore_OrdinalAdjacency(t *testing.T) {
    x := &PreferenceVector{TemperaturePreference: "cool"}
    moderate := &PreferenceVector{TemperaturePreference: "moderate"}
    warm := &PreferenceVector{TemperaturePreference: "warm"}

    assert.Equal(t, 50, Score(x, moderate).Total, "adjacent values earn half credit")
    assert.Equal(t, 0, Score(x, warm).Total, "two steps apart earn nothing")
}

func TestScore_SleepWildcard(t *testing.T) {
    early := &PreferenceVector{SleepSchedule: "early_bird"}
    night := &PreferenceVector{SleepSchedule: "night_owl"}
    unpredictable := &PreferenceVector{SleepSchedule: "unpredictable"}

    assert.Equal(t, 0, Score(early, night).Total)
    assert.Equal(t, 50, Score(early, unpredictable).Total)
    assert.Equal(t, 50, Score(night, unpredictable).Total)
    assert.Equal(t, 100, Score(unpredictable, unpredictable).Total)
}

func TestScore_SocialPolicy(t *testing.T) {
    extrovert := &PreferenceVector{SocialRoomPreference: "extrovert"}
    introvert := &PreferenceVector{SocialRoomPreference: "introvert"}
    balanced := &PreferenceVector{SocialRoomPreference: "balanced"}

    assert.Equal(t, 0, Score(extrovert, introvert).Total)
    assert.Equal(t, 50, Score(extrovert, balanced).Total)
    assert.Equal(t, 50, Score(introvert, balanced).Total)
}

func TestScore_SharingPolicy(t *testing.T) {
    all := &PreferenceVector{SharingComfort: "share_all"}
    clothing := &PreferenceVector{SharingComfort: "share_clothing"}
    food := &PreferenceVector{SharingComfort: "share_food"}
    none := &PreferenceVector{SharingComfort: "no_sharing"}

    assert.Equal(t, 100, Score(none, none).Total)
    assert.Equal(t, 0, Score(all, none).Total)
    assert.Equal(t, 50, Score(all, clothing).Total)
    assert.Equal(t, 50, Score(all, food).Total)
    assert.Equal(t, 0, Score(clothing, food).Total)
}

func TestScore_MBTITable(t *testing.T) {
    intj := &PreferenceVector{MBTIPersonality: "INTJ"}
    enfp := &PreferenceVector{MBTIPersonality: "ENFP"}
    istj := &PreferenceVector{MBTIPersonality: "ISTJ"}

    assert.Equal(t, 100, Score(intj, enfp).Total, "ideal pair")
    assert.Equal(t, 100, Score(enfp, intj).Total, "table is symmetric")
    assert.Equal(t, 50, Score(intj, intj).Total, "identical type half credit")
    assert.Equal(t, 0, Score(intj, istj).Total)
}

// MBTI must stay a minor signal: lifestyle agreement with an MBTI mismatch
// still scores far above the midpoint.
func TestScore_MBTIWeightIsLow(t *testing.T) {
    x, y := fullVector(), fullVector()
    y.MBTIPersonality = "ISTJ" // zero MBTI credit

    result := Score(x, y)
    assert.Greater(t, result.Total, 90)
}
