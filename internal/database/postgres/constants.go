package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"

	// PgErrorCodeForeignKeyViolation is raised when a row references a missing profile
	PgErrorCodeForeignKeyViolation = "23503"

	// PgErrorCodeCheckViolation is raised when a CHECK constraint rejects a row
	PgErrorCodeCheckViolation = "23514"
)

// Profile queries
const (
	profileColumns = `id, member_id, guild_id, points, created_at`

	queryInsertProfileIfAbsent = `
		INSERT INTO profile (member_id, guild_id) VALUES ($1, $2)
		ON CONFLICT (member_id, guild_id) DO NOTHING`

	querySelectProfileByMember = `SELECT ` + profileColumns + ` FROM profile WHERE member_id = $1 AND guild_id = $2`

	querySelectProfile = `SELECT ` + profileColumns + ` FROM profile WHERE id = $1`

	querySelectProfileForUpdate = querySelectProfile + ` FOR UPDATE`

	queryAdjustPoints = `
		UPDATE profile SET points = points + $2
		WHERE id = $1 AND points + $2 >= 0
		RETURNING ` + profileColumns

	queryProfileExists = `SELECT EXISTS (SELECT 1 FROM profile WHERE id = $1)`

	queryTopByPoints = `
		SELECT ` + profileColumns + ` FROM profile
		WHERE guild_id = $1
		ORDER BY points DESC, id ASC
		LIMIT $2 OFFSET $3`
)

// Transaction log queries
const (
	queryInsertTransaction = `INSERT INTO "transaction" (profile_id, amount, reason) VALUES ($1, $2, $3)`

	queryListTransactions = `
		SELECT id, profile_id, amount, reason, created_at FROM "transaction"
		WHERE profile_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
)

// Segment queries
const (
	queryOwnedSegments = `SELECT number FROM map_segment WHERE profile_id = $1 ORDER BY number`

	queryInsertSegment = `INSERT INTO map_segment (profile_id, number) VALUES ($1, $2)`

	queryInsertSegmentsBulk = `INSERT INTO map_segment (profile_id, number) SELECT $1, unnest($2::int[])`

	queryDeleteSegment = `DELETE FROM map_segment WHERE profile_id = $1 AND number = $2`

	querySegmentCounts = `
		SELECT p.id, p.member_id, count(s.number) AS owned
		FROM profile p
		JOIN map_segment s ON s.profile_id = p.id
		WHERE p.guild_id = $1
		GROUP BY p.id, p.member_id
		ORDER BY owned DESC, p.member_id ASC
		LIMIT $2 OFFSET $3`
)

// Completion queries
const (
	// queryLockGuildCompletions serialises completion numbering within a guild
	// until the enclosing transaction ends
	queryLockGuildCompletions = `SELECT pg_advisory_xact_lock($1)`

	queryCountCompletions = `
		SELECT count(*) FROM map_completion c
		JOIN profile p ON p.id = c.profile_id
		WHERE p.guild_id = $1`

	queryInsertCompletion = `
		INSERT INTO map_completion (profile_id, completed_at) VALUES ($1, clock_timestamp())
		RETURNING completed_at`

	queryGetCompletion = `
		SELECT c.profile_id, p.member_id, p.guild_id, c.completed_at,
			(SELECT count(*) FROM map_completion c2
			 JOIN profile p2 ON p2.id = c2.profile_id
			 WHERE p2.guild_id = p.guild_id
			   AND (c2.completed_at, c2.profile_id) <= (c.completed_at, c.profile_id)) AS position
		FROM map_completion c
		JOIN profile p ON p.id = c.profile_id
		WHERE c.profile_id = $1`

	queryListCompletions = `
		SELECT c.profile_id, p.member_id, p.guild_id, c.completed_at
		FROM map_completion c
		JOIN profile p ON p.id = c.profile_id
		WHERE p.guild_id = $1
		ORDER BY c.completed_at ASC, c.profile_id ASC
		LIMIT $2 OFFSET $3`
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Ledger Operations
const (
	ErrMsgFailedToCreateProfile      = "failed to create profile"
	ErrMsgFailedToGetProfile         = "failed to get profile"
	ErrMsgFailedToLockProfile        = "failed to lock profile"
	ErrMsgFailedToAdjustPoints       = "failed to adjust points"
	ErrMsgFailedToInsertTransaction  = "failed to insert transaction"
	ErrMsgFailedToQueryTopByPoints   = "failed to query top profiles by points"
	ErrMsgFailedToQueryTransactions  = "failed to query transactions"
	ErrMsgFailedToCheckProfileExists = "failed to check profile existence"
)

// Error Messages - Collection Operations
const (
	ErrMsgFailedToQuerySegments      = "failed to query owned segments"
	ErrMsgFailedToInsertSegment      = "failed to insert segment"
	ErrMsgFailedToInsertSegments     = "failed to insert segments"
	ErrMsgFailedToDeleteSegment      = "failed to delete segment"
	ErrMsgFailedToQuerySegmentCounts = "failed to query segment counts"
	ErrMsgFailedToLockGuild          = "failed to lock guild completions"
	ErrMsgFailedToCountCompletions   = "failed to count completions"
	ErrMsgFailedToInsertCompletion   = "failed to insert completion"
	ErrMsgFailedToGetCompletion      = "failed to get completion"
	ErrMsgFailedToQueryCompletions   = "failed to query completions"
)
