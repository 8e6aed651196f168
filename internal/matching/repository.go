package matching

import (
    "context"
    "database/sql"
    "errors"

    "github.com/jmoiron/sqlx"
    "github.com/lib/pq"
)

type Repository interface {
    // Preferences
    UpsertPreferences(ctx context.Context, vector *PreferenceVector) error
    GetPreferences(ctx context.Context, userID int64) (*PreferenceVector, error)

    // Candidates
    FindCandidateVectors(ctx context.Context, userID int64, filters *CandidateFilters) ([]*PreferenceVector, error)
    GetCandidateInfo(ctx context.Context, userIDs []int64) (map[int64]*CandidateInfo, error)

    // Matches
    CreateMatch(ctx context.Context, match *Match) error
    GetMatch(ctx context.Context, id int64) (*Match, error)
    GetUserMatches(ctx context.Context, userID int64, status string) ([]*Match, error)
    GetNonRejectedMatches(ctx context.Context, userID int64) ([]*Match, error)
    UpdateMatchScore(ctx context.Context, matchID int64, score int) error

    // MutateMatch loads the match under a row lock, applies fn to it and
    // persists the result in the same transaction. Concurrent calls for one
    // match are serialized; fn sees a consistent prior state.
    MutateMatch(ctx context.Context, matchID int64, fn func(*Match) error) (*Match, error)
}

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

func (r *postgresRepository) UpsertPreferences(ctx context.Context, v *PreferenceVector) error {
    query := `
        INSERT INTO user_preferences (
            user_id, sleep_schedule, social_room_preference, overnight_guests,
            sharing_comfort, cleanliness, temperature_preference, eating_in_room,
            noise_tolerance, mbti_personality, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP)
        ON CONFLICT (user_id) DO UPDATE SET
            sleep_schedule = $2,
            social_room_preference = $3,
            overnight_guests = $4,
            sharing_comfort = $5,
            cleanliness = $6,
            temperature_preference = $7,
            eating_in_room = $8,
            noise_tolerance = $9,
            mbti_personality = $10,
            updated_at = CURRENT_TIMESTAMP
        RETURNING updated_at
    `

    return r.db.QueryRowxContext(
        ctx, query,
        v.UserID, v.SleepSchedule, v.SocialRoomPreference, v.OvernightGuests,
        v.SharingComfort, v.Cleanliness, v.TemperaturePreference, v.EatingInRoom,
        v.NoiseTolerance, v.MBTIPersonality,
    ).Scan(&v.UpdatedAt)
}

func (r *postgresRepository) GetPreferences(ctx context.Context, userID int64) (*PreferenceVector, error) {
    var v PreferenceVector
    query := `SELECT * FROM user_preferences WHERE user_id = $1`

    err := r.db.GetContext(ctx, &v, query, userID)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrVectorNotFound
    }
    if err != nil {
        return nil, err
    }
    return &v, nil
}

// FindCandidateVectors applies the hard exclusions in SQL: same university,
// not self, no existing non-rejected match with the requesting user, and a
// stored preference vector. Gender is an optional equality constraint.
func (r *postgresRepository) FindCandidateVectors(ctx context.Context, userID int64, filters *CandidateFilters) ([]*PreferenceVector, error) {
    query := `
        SELECT up.*
        FROM user_preferences up
        JOIN profiles p ON p.user_id = up.user_id
        JOIN profiles me ON me.user_id = $1
        WHERE up.user_id != $1
          AND p.university_id = me.university_id
          AND NOT EXISTS (
              SELECT 1 FROM matches m
              WHERE m.status != 'rejected'
                AND ((m.user_a_id = $1 AND m.user_b_id = up.user_id)
                  OR (m.user_b_id = $1 AND m.user_a_id = up.user_id))
          )
    `
    args := []interface{}{userID}

    if filters != nil && filters.Gender != "" {
        query += ` AND p.gender = $2`
        args = append(args, filters.Gender)
    }
    query += ` ORDER BY up.user_id`

    var vectors []*PreferenceVector
    if err := r.db.SelectContext(ctx, &vectors, query, args...); err != nil {
        return nil, err
    }
    return vectors, nil
}

func (r *postgresRepository) GetCandidateInfo(ctx context.Context, userIDs []int64) (map[int64]*CandidateInfo, error) {
    info := make(map[int64]*CandidateInfo, len(userIDs))
    if len(userIDs) == 0 {
        return info, nil
    }

    query := `
        SELECT p.user_id AS id, p.first_name, p.last_name, p.year, p.major,
               p.avatar_url, u.name AS university
        FROM profiles p
        LEFT JOIN universities u ON u.id = p.university_id
        WHERE p.user_id = ANY($1)
    `

    var rows []*CandidateInfo
    if err := r.db.SelectContext(ctx, &rows, query, pq.Array(userIDs)); err != nil {
        return nil, err
    }
    for _, row := range rows {
        info[row.ID] = row
    }
    return info, nil
}

func (r *postgresRepository) CreateMatch(ctx context.Context, match *Match) error {
    // Lower user ID is always stored as side A so the unordered pair is unique.
    if match.UserAID > match.UserBID {
        match.UserAID, match.UserBID = match.UserBID, match.UserAID
    }

    query := `
        INSERT INTO matches (user_a_id, user_b_id, compatibility_score, status, action_a, action_b)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `

    err := r.db.QueryRowxContext(
        ctx, query,
        match.UserAID, match.UserBID, match.CompatibilityScore,
        match.Status, match.ActionA, match.ActionB,
    ).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)

    var pqErr *pq.Error
    if errors.As(err, &pqErr) && pqErr.Code == "23505" {
        return ErrMatchExists
    }
    return err
}

func (r *postgresRepository) GetMatch(ctx context.Context, id int64) (*Match, error) {
    var match Match
    query := `
        SELECT id, user_a_id, user_b_id, compatibility_score, status,
               action_a, action_b, created_at, updated_at
        FROM matches WHERE id = $1
    `

    err := r.db.GetContext(ctx, &match, query, id)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrMatchNotFound
    }
    if err != nil {
        return nil, err
    }
    return &match, nil
}

func (r *postgresRepository) GetUserMatches(ctx context.Context, userID int64, status string) ([]*Match, error) {
    query := `
        SELECT m.id, m.user_a_id, m.user_b_id, m.compatibility_score, m.status,
               m.action_a, m.action_b, m.created_at, m.updated_at,
               p.user_id AS "other_user.id",
               p.first_name AS "other_user.first_name",
               p.last_name AS "other_user.last_name",
               p.year AS "other_user.year",
               p.major AS "other_user.major",
               p.avatar_url AS "other_user.avatar_url",
               u.name AS "other_user.university"
        FROM matches m
        JOIN profiles p
          ON p.user_id = CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END
        LEFT JOIN universities u ON u.id = p.university_id
        WHERE (m.user_a_id = $1 OR m.user_b_id = $1)
    `
    args := []interface{}{userID}

    if status != "" && status != "all" {
        query += ` AND m.status = $2`
        args = append(args, status)
    }
    query += ` ORDER BY m.compatibility_score DESC, m.id ASC`

    rows, err := r.db.QueryxContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var matches []*Match
    for rows.Next() {
        var match Match
        var other CandidateInfo
        err := rows.Scan(
            &match.ID, &match.UserAID, &match.UserBID, &match.CompatibilityScore,
            &match.Status, &match.ActionA, &match.ActionB,
            &match.CreatedAt, &match.UpdatedAt,
            &other.ID, &other.FirstName, &other.LastName,
            &other.Year, &other.Major, &other.AvatarURL, &other.University,
        )
        if err != nil {
            return nil, err
        }
        match.OtherUser = &other
        matches = append(matches, &match)
    }
    return matches, rows.Err()
}

func (r *postgresRepository) GetNonRejectedMatches(ctx context.Context, userID int64) ([]*Match, error) {
    var matches []*Match
    query := `
        SELECT id, user_a_id, user_b_id, compatibility_score, status,
               action_a, action_b, created_at, updated_at
        FROM matches
        WHERE (user_a_id = $1 OR user_b_id = $1) AND status != 'rejected'
    `
    if err := r.db.SelectContext(ctx, &matches, query, userID); err != nil {
        return nil, err
    }
    return matches, nil
}

func (r *postgresRepository) UpdateMatchScore(ctx context.Context, matchID int64, score int) error {
    query := `UPDATE matches SET compatibility_score = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`
    _, err := r.db.ExecContext(ctx, query, matchID, score)
    return err
}

// MutateMatch takes a FOR UPDATE row lock so concurrent actions on the same
// match are serialized and each transition is evaluated against a consistent
// prior state.
func (r *postgresRepository) MutateMatch(ctx context.Context, matchID int64, fn func(*Match) error) (*Match, error) {
    tx, err := r.db.BeginTxx(ctx, nil)
    if err != nil {
        return nil, err
    }
    defer tx.Rollback()

    var match Match
    query := `
        SELECT id, user_a_id, user_b_id, compatibility_score, status,
               action_a, action_b, created_at, updated_at
        FROM matches WHERE id = $1
        FOR UPDATE
    `
    err = tx.GetContext(ctx, &match, query, matchID)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrMatchNotFound
    }
    if err != nil {
        return nil, translateLockError(err)
    }

    if err := fn(&match); err != nil {
        return nil, err
    }

    update := `
        UPDATE matches
        SET action_a = $2, action_b = $3, status = $4, updated_at = CURRENT_TIMESTAMP
        WHERE id = $1
        RETURNING updated_at
    `
    err = tx.QueryRowxContext(ctx, update, match.ID, match.ActionA, match.ActionB, match.Status).
        Scan(&match.UpdatedAt)
    if err != nil {
        return nil, translateLockError(err)
    }

    if err := tx.Commit(); err != nil {
        return nil, translateLockError(err)
    }
    return &match, nil
}

// translateLockError maps Postgres serialization and deadlock failures to
// ErrConflict so callers know to retry the whole recordAction call.
func translateLockError(err error) error {
    var pqErr *pq.Error
    if errors.As(err, &pqErr) {
        switch pqErr.Code {
        case "40001", "40P01":
            return ErrConflict
        }
    }
    return err
}
