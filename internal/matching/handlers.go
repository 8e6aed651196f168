package matching

import (
    "encoding/json"
    "errors"
    "net/http"
    "strconv"

    "github.com/gorilla/mux"

    "github.com/coha-app/coha-backend/internal/common/utils"
)

type Handler struct {
    service Service
}

func NewHandler(service Service) *Handler {
    return &Handler{service: service}
}

func (h *Handler) SubmitQuestionnaire(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    var dto SubmitQuestionnaireDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }
    if err := utils.ValidateStruct(dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    vector, err := h.service.SubmitQuestionnaire(r.Context(), userID, dto.Answers)
    if err != nil {
        if IsValidation(err) {
            utils.RespondWithError(w, http.StatusBadRequest, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save questionnaire")
        return
    }

    utils.RespondWithJSON(w, http.StatusCreated, vector)
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    vector, err := h.service.GetPreferences(r.Context(), userID)
    if err != nil {
        if errors.Is(err, ErrVectorNotFound) {
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get preferences")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, vector)
}

func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    otherID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
        return
    }

    result, err := h.service.ScoreUsers(r.Context(), userID, otherID)
    if err != nil {
        if errors.Is(err, ErrVectorNotFound) {
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute compatibility")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    filters := &CandidateFilters{
        Gender: r.URL.Query().Get("gender"),
    }
    if limit := r.URL.Query().Get("limit"); limit != "" {
        if l, err := strconv.Atoi(limit); err == nil {
            filters.Limit = l
        }
    }

    candidates, err := h.service.Discover(r.Context(), userID, filters)
    if err != nil {
        if errors.Is(err, ErrVectorNotFound) {
            utils.RespondWithError(w, http.StatusNotFound, "Complete the questionnaire first")
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to rank candidates")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, candidates)
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    var dto CreateMatchDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }
    if err := utils.ValidateStruct(dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    match, err := h.service.PromoteMatch(r.Context(), userID, dto.UserID)
    if err != nil {
        switch {
        case errors.Is(err, ErrMatchExists):
            utils.RespondWithError(w, http.StatusConflict, err.Error())
        case errors.Is(err, ErrSelfMatch):
            utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        case errors.Is(err, ErrVectorNotFound):
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
        default:
            utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create match")
        }
        return
    }

    utils.RespondWithJSON(w, http.StatusCreated, match)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    matchID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid match ID")
        return
    }

    match, err := h.service.GetMatch(r.Context(), matchID, userID)
    if err != nil {
        switch {
        case errors.Is(err, ErrMatchNotFound):
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
        case errors.Is(err, ErrNotParticipant):
            utils.RespondWithError(w, http.StatusForbidden, err.Error())
        default:
            utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get match")
        }
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, match)
}

func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    status := r.URL.Query().Get("status")
    matches, err := h.service.GetMatches(r.Context(), userID, status)
    if err != nil {
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get matches")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, matches)
}

func (h *Handler) RecordAction(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    matchID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid match ID")
        return
    }

    var dto RecordActionDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }
    if err := utils.ValidateStruct(dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    match, err := h.service.RecordAction(r.Context(), matchID, userID, dto.Action)
    if err != nil {
        switch {
        case errors.Is(err, ErrMatchNotFound):
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
        case errors.Is(err, ErrNotParticipant):
            utils.RespondWithError(w, http.StatusForbidden, err.Error())
        case errors.Is(err, ErrConflict):
            utils.RespondWithError(w, http.StatusConflict, err.Error())
        default:
            utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record action")
        }
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, &ActionResultDTO{
        MatchID: match.ID,
        Status:  match.Status,
        ActionA: match.ActionA,
        ActionB: match.ActionB,
    })
}
