// internal/matching/dto.go
package matching

// DTOs for API requests/responses

type SubmitQuestionnaireDTO struct {
    // Question id -> selected option code ("a".."d", or a 4-letter MBTI code
    // for question 9).
    Answers map[int]string `json:"answers" validate:"required,min=1"`
}

type RecordActionDTO struct {
    Action string `json:"action" validate:"required,oneof=liked passed"`
}

type CreateMatchDTO struct {
    UserID int64 `json:"user_id" validate:"required"`
}

type CandidateFilters struct {
    Gender string `json:"gender,omitempty"`
    Limit  int    `json:"limit,omitempty"`
}

type ActionResultDTO struct {
    MatchID int64  `json:"match_id"`
    Status  string `json:"status"`
    ActionA string `json:"action_a"`
    ActionB string `json:"action_b"`
}
