package matching

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func newPendingMatch() *Match {
    return &Match{
        ID:      1,
        UserAID: 10,
        UserBID: 20,
        Status:  StatusPending,
        ActionA: ActionUnset,
        ActionB: ActionUnset,
    }
}

func TestLifecycle_MutualAccept(t *testing.T) {
    match := newPendingMatch()

    status := applyAction(match, 10, ActionLiked)
    assert.Equal(t, StatusPending, status, "one like keeps the match pending")

    status = applyAction(match, 20, ActionLiked)
    assert.Equal(t, StatusAccepted, status, "second like accepts the match")
    assert.Equal(t, ActionLiked, match.ActionA)
    assert.Equal(t, ActionLiked, match.ActionB)
}

func TestLifecycle_UnilateralRejectWins(t *testing.T) {
    match := newPendingMatch()

    applyAction(match, 10, ActionLiked)
    status := applyAction(match, 20, ActionPassed)
    assert.Equal(t, StatusRejected, status, "a single pass kills the match")

    // A later like from the other side is recorded but changes nothing.
    status = applyAction(match, 10, ActionLiked)
    assert.Equal(t, StatusRejected, status)
    assert.Equal(t, ActionLiked, match.ActionA)
}

func TestLifecycle_PassBeforeAnyLike(t *testing.T) {
    match := newPendingMatch()

    status := applyAction(match, 20, ActionPassed)
    assert.Equal(t, StatusRejected, status)
    assert.Equal(t, ActionUnset, match.ActionA)
    assert.Equal(t, ActionPassed, match.ActionB)
}

func TestLifecycle_AcceptedIsSticky(t *testing.T) {
    match := newPendingMatch()
    applyAction(match, 10, ActionLiked)
    applyAction(match, 20, ActionLiked)
    assert.Equal(t, StatusAccepted, match.Status)

    // Changing one's mind after acceptance updates the action only.
    status := applyAction(match, 10, ActionPassed)
    assert.Equal(t, StatusAccepted, status)
    assert.Equal(t, ActionPassed, match.ActionA)
}

func TestNextStatus_Table(t *testing.T) {
    cases := []struct {
        name             string
        current          string
        actionA, actionB string
        want             string
    }{
        {"both unset", StatusPending, ActionUnset, ActionUnset, StatusPending},
        {"one like", StatusPending, ActionLiked, ActionUnset, StatusPending},
        {"both liked", StatusPending, ActionLiked, ActionLiked, StatusAccepted},
        {"pass overrides like", StatusPending, ActionLiked, ActionPassed, StatusRejected},
        {"pass alone", StatusPending, ActionPassed, ActionUnset, StatusRejected},
        {"rejected stays rejected", StatusRejected, ActionLiked, ActionLiked, StatusRejected},
        {"accepted stays accepted", StatusAccepted, ActionPassed, ActionLiked, StatusAccepted},
    }

    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, nextStatus(tc.current, tc.actionA, tc.actionB))
        })
    }
}

func TestMatch_PartyHelpers(t *testing.T) {
    match := newPendingMatch()

    assert.True(t, match.IsParty(10))
    assert.True(t, match.IsParty(20))
    assert.False(t, match.IsParty(30))

    applyAction(match, 10, ActionLiked)
    assert.Equal(t, ActionLiked, match.ActionOf(10))
    assert.Equal(t, ActionUnset, match.ActionOf(20))
}
