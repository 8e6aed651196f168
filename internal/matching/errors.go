package matching

import (
    "errors"
    "fmt"
)

var (
    ErrUserNotFound   = errors.New("user not found")
    ErrVectorNotFound = errors.New("preferences not found for user")
    ErrMatchNotFound  = errors.New("match not found")
    ErrNotParticipant = errors.New("user is not a party to this match")
    ErrMatchExists    = errors.New("a match already exists for this pair")
    ErrSelfMatch      = errors.New("cannot match a user with themselves")
    ErrConflict       = errors.New("concurrent update conflict, retry the request")
)

// ValidationError reports malformed questionnaire input. Callers should
// re-prompt the user rather than retry.
type ValidationError struct {
    Field  string
    Reason string
}

func (e *ValidationError) Error() string {
    if e.Field == "" {
        return fmt.Sprintf("invalid questionnaire submission: %s", e.Reason)
    }
    return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
    var ve *ValidationError
    return errors.As(err, &ve)
}
