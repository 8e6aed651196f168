package matching

import (
    "strings"
)

// Question identifiers as submitted by the questionnaire form.
const (
    QuestionSleepSchedule         = 1
    QuestionSocialRoomPreference  = 2
    QuestionOvernightGuests       = 3
    QuestionSharingComfort        = 4
    QuestionCleanliness           = 5
    QuestionTemperaturePreference = 6
    QuestionEatingInRoom          = 7
    QuestionNoiseTolerance        = 8
    QuestionMBTIPersonality       = 9
)

// answerTables maps each lifestyle question's option letter to its canonical
// preference value. Kept as one static structure so the whole normalization
// surface is auditable in one place.
var answerTables = map[int]map[string]string{
    QuestionSleepSchedule: {
        "a": "early_bird",
        "b": "night_owl",
        "c": "unpredictable",
    },
    QuestionSocialRoomPreference: {
        "a": "extrovert",
        "b": "balanced",
        "c": "introvert",
    },
    QuestionOvernightGuests: {
        "a": "comfortable",
        "b": "not_comfortable",
        "c": "when_absent",
    },
    QuestionSharingComfort: {
        "a": "share_all",
        "b": "share_clothing",
        "c": "share_food",
        "d": "no_sharing",
    },
    QuestionCleanliness: {
        "a": "very_neat",
        "b": "somewhat_messy",
    },
    QuestionTemperaturePreference: {
        "a": "cool",
        "b": "moderate",
        "c": "warm",
    },
    QuestionEatingInRoom: {
        "a": "never",
        "b": "occasional",
        "c": "frequently",
    },
    QuestionNoiseTolerance: {
        "a": "quiet",
        "b": "moderate_daytime",
        "c": "loud",
    },
}

// mbtiTypes is the closed set of valid personality codes.
var mbtiTypes = map[string]bool{
    "INTJ": true, "INTP": true, "ENTJ": true, "ENTP": true,
    "INFJ": true, "INFP": true, "ENFJ": true, "ENFP": true,
    "ISTJ": true, "ISFJ": true, "ESTJ": true, "ESFJ": true,
    "ISTP": true, "ISFP": true, "ESTP": true, "ESFP": true,
}

// Normalize converts raw questionnaire answers into a preference vector.
//
// Unrecognized option letters leave the corresponding field unset rather than
// failing the submission; only a submission with zero recognized answers is
// rejected. An MBTI answer that is present but not one of the 16 codes is a
// hard validation error, because MBTI is scored by exact table lookup and a
// bad value would poison that lookup silently.
func Normalize(rawAnswers map[int]string) (*PreferenceVector, error) {
    if len(rawAnswers) == 0 {
        return nil, &ValidationError{Reason: "no answers submitted"}
    }

    vector := &PreferenceVector{}
    recognized := 0

    assign := map[int]*string{
        QuestionSleepSchedule:         &vector.SleepSchedule,
        QuestionSocialRoomPreference:  &vector.SocialRoomPreference,
        QuestionOvernightGuests:       &vector.OvernightGuests,
        QuestionSharingComfort:        &vector.SharingComfort,
        QuestionCleanliness:           &vector.Cleanliness,
        QuestionTemperaturePreference: &vector.TemperaturePreference,
        QuestionEatingInRoom:          &vector.EatingInRoom,
        QuestionNoiseTolerance:        &vector.NoiseTolerance,
    }

    for question, field := range assign {
        answer, ok := rawAnswers[question]
        if !ok {
            continue
        }
        value, ok := answerTables[question][strings.ToLower(strings.TrimSpace(answer))]
        if !ok {
            continue // unknown letter, leave field unset
        }
        *field = value
        recognized++
    }

    if mbti, ok := rawAnswers[QuestionMBTIPersonality]; ok && strings.TrimSpace(mbti) != "" {
        code := strings.ToUpper(strings.TrimSpace(mbti))
        if !mbtiTypes[code] {
            return nil, &ValidationError{Field: "mbti_personality", Reason: "not a recognized MBTI type"}
        }
        vector.MBTIPersonality = code
        recognized++
    }

    if recognized == 0 {
        return nil, &ValidationError{Reason: "no recognized answers"}
    }

    return vector, nil
}
