package matching

import (
    "math"
)

// Feature weights. These are a product decision: the lifestyle questions the
// product treats as deal-breakers (sleep, cleanliness, noise) carry the most
// weight, and MBTI is deliberately a small bonus signal so it can never
// dominate the lifestyle score. Only the relative values matter since the
// total is renormalized over answered features.
const (
    weightSleepSchedule         = 15.0
    weightCleanliness           = 15.0
    weightNoiseTolerance        = 15.0
    weightOvernightGuests       = 10.0
    weightSharingComfort        = 10.0
    weightSocialRoomPreference  = 10.0
    weightTemperaturePreference = 8.0
    weightEatingInRoom          = 7.0
    weightMBTI                  = 5.0
)

// Ordinal adjacency ranks. Neighboring values earn half credit, values two
// steps apart earn nothing.
var ordinalRanks = map[string]map[string]int{
    "temperature_preference": {"cool": 0, "moderate": 1, "warm": 2},
    "noise_tolerance":        {"quiet": 0, "moderate_daytime": 1, "loud": 2},
    "eating_in_room":         {"never": 0, "occasional": 1, "frequently": 2},
}

// mbtiIdealPairs lists the classic complementary type pairings. Stored in one
// direction; lookups check both orders.
var mbtiIdealPairs = map[string]string{
    "INTJ": "ENFP",
    "INTP": "ENTJ",
    "ENTP": "INFJ",
    "INFP": "ENFJ",
    "ISTJ": "ESFP",
    "ISFJ": "ESTP",
    "ESTJ": "ISFP",
    "ESFJ": "ISTP",
}

type scoringFeature struct {
    name   string
    weight float64
    value  func(*PreferenceVector) string
    credit func(x, y string) float64
}

var scoringFeatures = []scoringFeature{
    {
        name:   "sleep_schedule",
        weight: weightSleepSchedule,
        value:  func(v *PreferenceVector) string { return v.SleepSchedule },
        credit: sleepCredit,
    },
    {
        name:   "cleanliness",
        weight: weightCleanliness,
        value:  func(v *PreferenceVector) string { return v.Cleanliness },
        credit: exactCredit,
    },
    {
        name:   "noise_tolerance",
        weight: weightNoiseTolerance,
        value:  func(v *PreferenceVector) string { return v.NoiseTolerance },
        credit: ordinalCredit("noise_tolerance"),
    },
    {
        name:   "overnight_guests",
        weight: weightOvernightGuests,
        value:  func(v *PreferenceVector) string { return v.OvernightGuests },
        credit: exactCredit,
    },
    {
        name:   "sharing_comfort",
        weight: weightSharingComfort,
        value:  func(v *PreferenceVector) string { return v.SharingComfort },
        credit: sharingCredit,
    },
    {
        name:   "social_room_preference",
        weight: weightSocialRoomPreference,
        value:  func(v *PreferenceVector) string { return v.SocialRoomPreference },
        credit: socialCredit,
    },
    {
        name:   "temperature_preference",
        weight: weightTemperaturePreference,
        value:  func(v *PreferenceVector) string { return v.TemperaturePreference },
        credit: ordinalCredit("temperature_preference"),
    },
    {
        name:   "eating_in_room",
        weight: weightEatingInRoom,
        value:  func(v *PreferenceVector) string { return v.EatingInRoom },
        credit: ordinalCredit("eating_in_room"),
    },
    {
        name:   "mbti_personality",
        weight: weightMBTI,
        value:  func(v *PreferenceVector) string { return v.MBTIPersonality },
        credit: mbtiCredit,
    },
}

// Score computes the 0-100 compatibility between two preference vectors.
//
// It is a pure function of the two vectors and the static tables above:
// identical inputs always produce identical output, and Score(x, y) equals
// Score(y, x). Features unset in either vector are excluded from both the
// numerator and the denominator, so partially completed questionnaires stay
// comparable with complete ones.
func Score(x, y *PreferenceVector) *ScoreResult {
    var earned, applicable float64
    var breakdown []FeatureScore

    for _, f := range scoringFeatures {
        vx, vy := f.value(x), f.value(y)
        if vx == "" || vy == "" {
            continue
        }
        credit := f.credit(vx, vy)
        earned += credit * f.weight
        applicable += f.weight
        breakdown = append(breakdown, FeatureScore{
            Feature:    f.name,
            Compatible: credit > 0,
            Credit:     credit,
            Weight:     f.weight,
        })
    }

    if applicable == 0 {
        return &ScoreResult{Total: 0}
    }

    return &ScoreResult{
        Total:     int(math.Round(earned / applicable * 100)),
        Breakdown: breakdown,
    }
}

func exactCredit(x, y string) float64 {
    if x == y {
        return 1.0
    }
    return 0
}

func ordinalCredit(feature string) func(x, y string) float64 {
    ranks := ordinalRanks[feature]
    return func(x, y string) float64 {
        rx, ok1 := ranks[x]
        ry, ok2 := ranks[y]
        if !ok1 || !ok2 {
            return 0
        }
        switch d := rx - ry; {
        case d == 0:
            return 1.0
        case d == 1 || d == -1:
            return 0.5
        default:
            return 0
        }
    }
}

// sleepCredit treats "unpredictable" as a half-credit wildcard: an
// unpredictable sleeper can live with anyone, but the pairing is not as good
// as two people on the same schedule.
func sleepCredit(x, y string) float64 {
    if x == y {
        return 1.0
    }
    if x == "unpredictable" || y == "unpredictable" {
        return 0.5
    }
    return 0 // early_bird vs night_owl
}

// socialCredit uses a similarity policy: matching temperaments are ideal,
// "balanced" pairs adequately with either extreme, and an extrovert with an
// introvert earns nothing.
func socialCredit(x, y string) float64 {
    if x == y {
        return 1.0
    }
    if x == "balanced" || y == "balanced" {
        return 0.5
    }
    return 0
}

func sharingCredit(x, y string) float64 {
    if x == y {
        return 1.0
    }
    if x == "no_sharing" || y == "no_sharing" {
        return 0
    }
    if x == "share_all" || y == "share_all" {
        return 0.5 // full sharer accommodates a partial sharer
    }
    return 0 // share_clothing vs share_food clash on both categories
}

func mbtiCredit(x, y string) float64 {
    if mbtiIdealPairs[x] == y || mbtiIdealPairs[y] == x {
        return 1.0
    }
    if x == y {
        return 0.5
    }
    return 0
}
