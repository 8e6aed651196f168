package matching

import (
    "time"
)

// Match statuses
const (
    StatusPending  = "pending"
    StatusAccepted = "accepted"
    StatusRejected = "rejected"
)

// Per-user match actions
const (
    ActionUnset  = ""
    ActionLiked  = "liked"
    ActionPassed = "passed"
)

// PreferenceVector is the normalized questionnaire result for one user.
// Empty string means the user has not answered that question.
type PreferenceVector struct {
    UserID                int64     `json:"user_id" db:"user_id"`
    SleepSchedule         string    `json:"sleep_schedule" db:"sleep_schedule"`
    SocialRoomPreference  string    `json:"social_room_preference" db:"social_room_preference"`
    OvernightGuests       string    `json:"overnight_guests" db:"overnight_guests"`
    SharingComfort        string    `json:"sharing_comfort" db:"sharing_comfort"`
    Cleanliness           string    `json:"cleanliness" db:"cleanliness"`
    TemperaturePreference string    `json:"temperature_preference" db:"temperature_preference"`
    EatingInRoom          string    `json:"eating_in_room" db:"eating_in_room"`
    NoiseTolerance        string    `json:"noise_tolerance" db:"noise_tolerance"`
    MBTIPersonality       string    `json:"mbti_personality" db:"mbti_personality"`
    UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}

type Match struct {
    ID                 int64     `json:"id" db:"id"`
    UserAID            int64     `json:"user_a_id" db:"user_a_id"`
    UserBID            int64     `json:"user_b_id" db:"user_b_id"`
    CompatibilityScore int       `json:"compatibility_score" db:"compatibility_score"`
    Status             string    `json:"status" db:"status"`
    ActionA            string    `json:"action_a" db:"action_a"`
    ActionB            string    `json:"action_b" db:"action_b"`
    CreatedAt          time.Time `json:"created_at" db:"created_at"`
    UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`

    // Joined field for list responses
    OtherUser *CandidateInfo `json:"other_user,omitempty"`
}

// IsParty reports whether userID is one of the two sides of the match.
func (m *Match) IsParty(userID int64) bool {
    return m.UserAID == userID || m.UserBID == userID
}

// ActionOf returns the recorded action for the given side.
func (m *Match) ActionOf(userID int64) string {
    if m.UserAID == userID {
        return m.ActionA
    }
    return m.ActionB
}

// CandidateInfo is the slimmed profile attached to matches and candidates.
type CandidateInfo struct {
    ID         int64   `json:"id" db:"id"`
    FirstName  string  `json:"first_name" db:"first_name"`
    LastName   string  `json:"last_name" db:"last_name"`
    University *string `json:"university,omitempty" db:"university"`
    Year       *string `json:"year,omitempty" db:"year"`
    Major      *string `json:"major,omitempty" db:"major"`
    AvatarURL  *string `json:"avatar_url,omitempty" db:"avatar_url"`
}

// FeatureScore is one line of a score breakdown.
type FeatureScore struct {
    Feature    string  `json:"feature"`
    Compatible bool    `json:"compatible"`
    Credit     float64 `json:"credit"`
    Weight     float64 `json:"weight"`
}

// ScoreResult is the output of the compatibility scorer.
type ScoreResult struct {
    Total     int            `json:"total"`
    Breakdown []FeatureScore `json:"breakdown"`
}

// ScoredCandidate is one entry of an ephemeral ranked candidate list.
// It is a computation result, never persisted.
type ScoredCandidate struct {
    UserID    int64          `json:"user_id"`
    Profile   *CandidateInfo `json:"profile,omitempty"`
    Score     int            `json:"score"`
    Breakdown []FeatureScore `json:"breakdown"`
}
