// internal/matching/service.go

package matching

import (
    "context"
    "log"
)

// Notifier receives lifecycle events so the notifications module can fan them
// out without this package depending on it.
type Notifier interface {
    MatchCreated(ctx context.Context, match *Match)
    MatchAccepted(ctx context.Context, match *Match)
}

type Service interface {
    // Questionnaire / preferences
    SubmitQuestionnaire(ctx context.Context, userID int64, answers map[int]string) (*PreferenceVector, error)
    GetPreferences(ctx context.Context, userID int64) (*PreferenceVector, error)

    // Scoring
    ScoreUsers(ctx context.Context, userX, userY int64) (*ScoreResult, error)

    // Ranking
    Discover(ctx context.Context, userID int64, filters *CandidateFilters) ([]*ScoredCandidate, error)

    // Match lifecycle
    PromoteMatch(ctx context.Context, userID, otherID int64) (*Match, error)
    GetMatch(ctx context.Context, matchID, userID int64) (*Match, error)
    GetMatches(ctx context.Context, userID int64, status string) ([]*Match, error)
    RecordAction(ctx context.Context, matchID, userID int64, action string) (*Match, error)
}

type service struct {
    repo     Repository
    notifier Notifier
    topN     int
}

func NewService(repo Repository, notifier Notifier, topN int) Service {
    if topN <= 0 {
        topN = DefaultTopN
    }
    return &service{repo: repo, notifier: notifier, topN: topN}
}

// SubmitQuestionnaire normalizes and stores a user's answers. The stored
// vector is superseded wholesale; afterwards every non-rejected match the
// user is part of gets its score recomputed against the new vector.
func (s *service) SubmitQuestionnaire(ctx context.Context, userID int64, answers map[int]string) (*PreferenceVector, error) {
    vector, err := Normalize(answers)
    if err != nil {
        return nil, err
    }
    vector.UserID = userID

    if err := s.repo.UpsertPreferences(ctx, vector); err != nil {
        return nil, err
    }
    RecordQuestionnaireSubmission()

    if err := s.refreshMatchScores(ctx, userID); err != nil {
        // Scores refresh on the next submission; the questionnaire itself
        // was stored.
        log.Printf("matching: failed to refresh scores for user %d: %v", userID, err)
    }

    return vector, nil
}

func (s *service) GetPreferences(ctx context.Context, userID int64) (*PreferenceVector, error) {
    return s.repo.GetPreferences(ctx, userID)
}

func (s *service) ScoreUsers(ctx context.Context, userX, userY int64) (*ScoreResult, error) {
    vectorX, err := s.repo.GetPreferences(ctx, userX)
    if err != nil {
        return nil, err
    }
    vectorY, err := s.repo.GetPreferences(ctx, userY)
    if err != nil {
        return nil, err
    }

    result := Score(vectorX, vectorY)
    RecordCompatibilityScore(result.Total)
    return result, nil
}

func (s *service) Discover(ctx context.Context, userID int64, filters *CandidateFilters) ([]*ScoredCandidate, error) {
    vector, err := s.repo.GetPreferences(ctx, userID)
    if err != nil {
        return nil, err
    }

    candidates, err := s.repo.FindCandidateVectors(ctx, userID, filters)
    if err != nil {
        return nil, err
    }

    topN := s.topN
    if filters != nil && filters.Limit > 0 && filters.Limit < topN {
        topN = filters.Limit
    }

    ranked, err := rankCandidates(ctx, vector, candidates, topN)
    if err != nil {
        return nil, err
    }
    if len(ranked) == 0 {
        return []*ScoredCandidate{}, nil
    }

    ids := make([]int64, 0, len(ranked))
    for _, candidate := range ranked {
        ids = append(ids, candidate.UserID)
    }
    info, err := s.repo.GetCandidateInfo(ctx, ids)
    if err != nil {
        return nil, err
    }
    for _, candidate := range ranked {
        candidate.Profile = info[candidate.UserID]
    }

    return ranked, nil
}

// PromoteMatch persists a candidate pair as a pending match with the score
// computed at creation time. A pair can only ever have one match record,
// including a rejected one.
func (s *service) PromoteMatch(ctx context.Context, userID, otherID int64) (*Match, error) {
    if userID == otherID {
        return nil, ErrSelfMatch
    }

    result, err := s.ScoreUsers(ctx, userID, otherID)
    if err != nil {
        return nil, err
    }

    match := &Match{
        UserAID:            userID,
        UserBID:            otherID,
        CompatibilityScore: result.Total,
        Status:             StatusPending,
        ActionA:            ActionUnset,
        ActionB:            ActionUnset,
    }

    if err := s.repo.CreateMatch(ctx, match); err != nil {
        return nil, err
    }
    RecordMatchCreated()

    if s.notifier != nil {
        s.notifier.MatchCreated(ctx, match)
    }
    return match, nil
}

// GetMatch returns a match the given user participates in.
func (s *service) GetMatch(ctx context.Context, matchID, userID int64) (*Match, error) {
    match, err := s.repo.GetMatch(ctx, matchID)
    if err != nil {
        return nil, err
    }
    if !match.IsParty(userID) {
        return nil, ErrNotParticipant
    }
    return match, nil
}

func (s *service) GetMatches(ctx context.Context, userID int64, status string) ([]*Match, error) {
    return s.repo.GetUserMatches(ctx, userID, status)
}

// RecordAction applies one side's liked/passed decision under a per-match row
// lock. Terminal statuses are sticky: the action field is still recorded for
// the acting user, but the status no longer moves.
func (s *service) RecordAction(ctx context.Context, matchID, userID int64, action string) (*Match, error) {
    var previous string
    match, err := s.repo.MutateMatch(ctx, matchID, func(m *Match) error {
        if !m.IsParty(userID) {
            return ErrNotParticipant
        }
        previous = m.Status
        applyAction(m, userID, action)
        return nil
    })
    if err != nil {
        return nil, err
    }

    RecordMatchAction(action)
    if match.Status == StatusAccepted && previous != StatusAccepted && s.notifier != nil {
        s.notifier.MatchAccepted(ctx, match)
    }
    return match, nil
}

// refreshMatchScores recomputes stored scores for every non-rejected match
// involving the user, after their vector changed.
func (s *service) refreshMatchScores(ctx context.Context, userID int64) error {
    matches, err := s.repo.GetNonRejectedMatches(ctx, userID)
    if err != nil {
        return err
    }

    for _, match := range matches {
        otherID := match.UserBID
        if otherID == userID {
            otherID = match.UserAID
        }

        result, err := s.ScoreUsers(ctx, userID, otherID)
        if err != nil {
            if err == ErrVectorNotFound {
                continue // other side has not answered yet
            }
            return err
        }
        if result.Total == match.CompatibilityScore {
            continue
        }
        if err := s.repo.UpdateMatchScore(ctx, match.ID, result.Total); err != nil {
            return err
        }
    }
    return nil
}
