package matching

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func fullAnswers() map[int]string {
    return map[int]string{
        QuestionSleepSchedule:         "a",
        QuestionSocialRoomPreference:  "b",
        QuestionOvernightGuests:       "c",
        QuestionSharingComfort:        "d",
        QuestionCleanliness:           "a",
        QuestionTemperaturePreference: "b",
        QuestionEatingInRoom:          "c",
        QuestionNoiseTolerance:        "a",
        QuestionMBTIPersonality:       "INTJ",
    }
}

func TestNormalize_FullRoundTrip(t *testing.T) {
    vector, err := Normalize(fullAnswers())
    require.NoError(t, err)

    assert.Equal(t, "early_bird", vector.SleepSchedule)
    assert.Equal(t, "balanced", vector.SocialRoomPreference)
    assert.Equal(t, "when_absent", vector.OvernightGuests)
    assert.Equal(t, "no_sharing", vector.SharingComfort)
    assert.Equal(t, "very_neat", vector.Cleanliness)
    assert.Equal(t, "moderate", vector.TemperaturePreference)
    assert.Equal(t, "frequently", vector.EatingInRoom)
    assert.Equal(t, "quiet", vector.NoiseTolerance)
    assert.Equal(t, "INTJ", vector.MBTIPersonality)
}

func TestNormalize_UnknownCodeLeavesFieldUnset(t *testing.T) {
    answers := fullAnswers()
    answers[QuestionCleanliness] = "z"

    vector, err := Normalize(answers)
    require.NoError(t, err, "a single bad answer must not fail the submission")

    assert.Empty(t, vector.Cleanliness)
    assert.Equal(t, "early_bird", vector.SleepSchedule, "other fields unaffected")
}

func TestNormalize_MissingQuestionLeavesFieldUnset(t *testing.T) {
    answers := fullAnswers()
    delete(answers, QuestionNoiseTolerance)

    vector, err := Normalize(answers)
    require.NoError(t, err)
    assert.Empty(t, vector.NoiseTolerance)
}

func TestNormalize_AllUnrecognizedFails(t *testing.T) {
    answers := map[int]string{
        QuestionSleepSchedule: "x",
        QuestionCleanliness:   "q",
    }

    _, err := Normalize(answers)
    require.Error(t, err)
    assert.True(t, IsValidation(err))
}

func TestNormalize_EmptySubmissionFails(t *testing.T) {
    _, err := Normalize(map[int]string{})
    require.Error(t, err)
    assert.True(t, IsValidation(err))
}

func TestNormalize_InvalidMBTIRejected(t *testing.T) {
    answers := fullAnswers()
    answers[QuestionMBTIPersonality] = "ABCD"

    _, err := Normalize(answers)
    require.Error(t, err, "a bad MBTI code must be rejected, not dropped")
    assert.True(t, IsValidation(err))
}

func TestNormalize_CaseInsensitiveInput(t *testing.T) {
    answers := map[int]string{
        QuestionSleepSchedule:   "B",
        QuestionMBTIPersonality: " enfp ",
    }

    vector, err := Normalize(answers)
    require.NoError(t, err)
    assert.Equal(t, "night_owl", vector.SleepSchedule)
    assert.Equal(t, "ENFP", vector.MBTIPersonality)
}

func TestNormalize_AllSixteenMBTICodes(t *testing.T) {
    for code := range mbtiTypes {
        vector, err := Normalize(map[int]string{QuestionMBTIPersonality: code})
        require.NoError(t, err, code)
        assert.Equal(t, code, vector.MBTIPersonality)
    }
}
