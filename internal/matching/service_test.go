package matching

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

// fakeRepository is an in-memory Repository for exercising the service layer
// without a database. Single-goroutine tests only.
type fakeRepository struct {
    vectors map[int64]*PreferenceVector
    matches map[int64]*Match
    nextID  int64
}

func newFakeRepository() *fakeRepository {
    return &fakeRepository{
        vectors: make(map[int64]*PreferenceVector),
        matches: make(map[int64]*Match),
        nextID:  1,
    }
}

func (f *fakeRepository) UpsertPreferences(_ context.Context, v *PreferenceVector) error {
    copied := *v
    f.vectors[v.UserID] = &copied
    return nil
}

func (f *fakeRepository) GetPreferences(_ context.Context, userID int64) (*PreferenceVector, error) {
    v, ok := f.vectors[userID]
    if !ok {
        return nil, ErrVectorNotFound
    }
    copied := *v
    return &copied, nil
}

func (f *fakeRepository) FindCandidateVectors(_ context.Context, userID int64, _ *CandidateFilters) ([]*PreferenceVector, error) {
    var out []*PreferenceVector
    for id, v := range f.vectors {
        if id == userID {
            continue
        }
        copied := *v
        out = append(out, &copied)
    }
    return out, nil
}

func (f *fakeRepository) GetCandidateInfo(_ context.Context, userIDs []int64) (map[int64]*CandidateInfo, error) {
    info := make(map[int64]*CandidateInfo, len(userIDs))
    for _, id := range userIDs {
        info[id] = &CandidateInfo{ID: id}
    }
    return info, nil
}

func (f *fakeRepository) CreateMatch(_ context.Context, match *Match) error {
    if match.UserAID > match.UserBID {
        match.UserAID, match.UserBID = match.UserBID, match.UserAID
    }
    for _, existing := range f.matches {
        if existing.UserAID == match.UserAID && existing.UserBID == match.UserBID {
            return ErrMatchExists
        }
    }
    match.ID = f.nextID
    f.nextID++
    copied := *match
    f.matches[match.ID] = &copied
    return nil
}

func (f *fakeRepository) GetMatch(_ context.Context, id int64) (*Match, error) {
    m, ok := f.matches[id]
    if !ok {
        return nil, ErrMatchNotFound
    }
    copied := *m
    return &copied, nil
}

func (f *fakeRepository) GetUserMatches(_ context.Context, userID int64, status string) ([]*Match, error) {
    var out []*Match
    for _, m := range f.matches {
        if !m.IsParty(userID) {
            continue
        }
        if status != "" && status != "all" && m.Status != status {
            continue
        }
        copied := *m
        out = append(out, &copied)
    }
    return out, nil
}

func (f *fakeRepository) GetNonRejectedMatches(_ context.Context, userID int64) ([]*Match, error) {
    var out []*Match
    for _, m := range f.matches {
        if m.IsParty(userID) && m.Status != StatusRejected {
            copied := *m
            out = append(out, &copied)
        }
    }
    return out, nil
}

func (f *fakeRepository) UpdateMatchScore(_ context.Context, matchID int64, score int) error {
    m, ok := f.matches[matchID]
    if !ok {
        return ErrMatchNotFound
    }
    m.CompatibilityScore = score
    return nil
}

func (f *fakeRepository) MutateMatch(_ context.Context, matchID int64, fn func(*Match) error) (*Match, error) {
    m, ok := f.matches[matchID]
    if !ok {
        return nil, ErrMatchNotFound
    }
    if err := fn(m); err != nil {
        return nil, err
    }
    copied := *m
    return &copied, nil
}

type recordedNotification struct {
    event   string
    matchID int64
}

type fakeNotifier struct {
    events []recordedNotification
}

func (n *fakeNotifier) MatchCreated(_ context.Context, m *Match) {
    n.events = append(n.events, recordedNotification{"created", m.ID})
}

func (n *fakeNotifier) MatchAccepted(_ context.Context, m *Match) {
    n.events = append(n.events, recordedNotification{"accepted", m.ID})
}

func setupService(t *testing.T) (Service, *fakeRepository, *fakeNotifier) {
    t.Helper()
    repo := newFakeRepository()
    notifier := &fakeNotifier{}
    svc := NewService(repo, notifier, 10)

    // User 1 is INTJ; 2 and 3 carry its ideal pairing so identical lifestyle
    // answers score a clean 100.
    for _, id := range []int64{1, 2, 3} {
        v := fullVector()
        v.UserID = id
        if id != 1 {
            v.MBTIPersonality = "ENFP"
        }
        require.NoError(t, repo.UpsertPreferences(context.Background(), v))
    }
    return svc, repo, notifier
}

func TestService_PromoteMatchScoresAtCreation(t *testing.T) {
    svc, _, notifier := setupService(t)

    match, err := svc.PromoteMatch(context.Background(), 1, 2)
    require.NoError(t, err)

    assert.Equal(t, StatusPending, match.Status)
    assert.Equal(t, ActionUnset, match.ActionA)
    assert.Equal(t, ActionUnset, match.ActionB)
    assert.Equal(t, 100, match.CompatibilityScore)
    require.Len(t, notifier.events, 1)
    assert.Equal(t, "created", notifier.events[0].event)
}

func TestService_PromoteMatchRejectsSelf(t *testing.T) {
    svc, _, _ := setupService(t)

    _, err := svc.PromoteMatch(context.Background(), 1, 1)
    assert.ErrorIs(t, err, ErrSelfMatch)
}

func TestService_PairIsUniqueInEitherOrder(t *testing.T) {
    svc, _, _ := setupService(t)

    _, err := svc.PromoteMatch(context.Background(), 1, 2)
    require.NoError(t, err)

    _, err = svc.PromoteMatch(context.Background(), 1, 2)
    assert.ErrorIs(t, err, ErrMatchExists)

    _, err = svc.PromoteMatch(context.Background(), 2, 1)
    assert.ErrorIs(t, err, ErrMatchExists, "reversed pair is the same match")
}

func TestService_RejectedPairCannotBeRecreated(t *testing.T) {
    svc, _, _ := setupService(t)

    match, err := svc.PromoteMatch(context.Background(), 1, 2)
    require.NoError(t, err)

    _, err = svc.RecordAction(context.Background(), match.ID, 1, ActionPassed)
    require.NoError(t, err)

    _, err = svc.PromoteMatch(context.Background(), 2, 1)
    assert.ErrorIs(t, err, ErrMatchExists)
}

func TestService_RecordActionMutualAccept(t *testing.T) {
    svc, _, notifier := setupService(t)

    match, err := svc.PromoteMatch(context.Background(), 1, 2)
    require.NoError(t, err)

    updated, err := svc.RecordAction(context.Background(), match.ID, 1, ActionLiked)
    require.NoError(t, err)
    assert.Equal(t, StatusPending, updated.Status)

    updated, err = svc.RecordAction(context.Background(), match.ID, 2, ActionLiked)
    require.NoError(t, err)
    assert.Equal(t, StatusAccepted, updated.Status)

    var accepted int
    for _, e := range notifier.events {
        if e.event == "accepted" {
            accepted++
        }
    }
    assert.Equal(t, 1, accepted, "accepted notification fires exactly once")
}

func TestService_RecordActionErrors(t *testing.T) {
    svc, _, _ := setupService(t)

    _, err := svc.RecordAction(context.Background(), 999, 1, ActionLiked)
    assert.ErrorIs(t, err, ErrMatchNotFound)

    match, err := svc.PromoteMatch(context.Background(), 1, 2)
    require.NoError(t, err)

    _, err = svc.RecordAction(context.Background(), match.ID, 3, ActionLiked)
    assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestService_ResubmissionRefreshesMatchScores(t *testing.T) {
    svc, repo, _ := setupService(t)

    match, err := svc.PromoteMatch(context.Background(), 1, 2)
    require.NoError(t, err)
    require.Equal(t, 100, match.CompatibilityScore)

    // User 2 flips to a clashing lifestyle; the stored score must follow.
    answers := fullAnswers()
    answers[QuestionCleanliness] = "b"
    answers[QuestionNoiseTolerance] = "c"
    _, err = svc.SubmitQuestionnaire(context.Background(), 2, answers)
    require.NoError(t, err)

    stored, err := repo.GetMatch(context.Background(), match.ID)
    require.NoError(t, err)
    assert.Less(t, stored.CompatibilityScore, 100)
}

func TestService_DiscoverExcludesAndRanks(t *testing.T) {
    svc, repo, _ := setupService(t)

    // User 3 drifts from user 1's preferences.
    v := fullVector()
    v.UserID = 3
    v.SleepSchedule = "night_owl"
    v.Cleanliness = "somewhat_messy"
    require.NoError(t, repo.UpsertPreferences(context.Background(), v))

    candidates, err := svc.Discover(context.Background(), 1, nil)
    require.NoError(t, err)
    require.Len(t, candidates, 2)

    assert.Equal(t, int64(2), candidates[0].UserID)
    assert.Equal(t, int64(3), candidates[1].UserID)
    assert.Greater(t, candidates[0].Score, candidates[1].Score)
    require.NotNil(t, candidates[0].Profile)
}

func TestService_DiscoverWithoutQuestionnaire(t *testing.T) {
    svc, _, _ := setupService(t)

    _, err := svc.Discover(context.Background(), 42, nil)
    assert.ErrorIs(t, err, ErrVectorNotFound)
}
