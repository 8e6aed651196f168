package matching

// nextStatus evaluates the lifecycle transition rules against a consistent
// prior state. Acceptance requires mutual consent (both liked); rejection is
// unilateral (a single pass kills the match); both terminal states are
// sticky.
func nextStatus(current, actionA, actionB string) string {
    if current == StatusAccepted || current == StatusRejected {
        return current
    }
    if actionA == ActionPassed || actionB == ActionPassed {
        return StatusRejected
    }
    if actionA == ActionLiked && actionB == ActionLiked {
        return StatusAccepted
    }
    return StatusPending
}

// applyAction records userID's action on the match in memory and returns the
// resulting status. The caller is responsible for holding the row lock and
// persisting the result; this keeps the transition rules a pure function.
func applyAction(match *Match, userID int64, action string) string {
    if match.UserAID == userID {
        match.ActionA = action
    } else {
        match.ActionB = action
    }
    match.Status = nextStatus(match.Status, match.ActionA, match.ActionB)
    return match.Status
}
