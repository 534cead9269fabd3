package sqlite

// Profile queries
const (
	profileColumns = `id, member_id, guild_id, points, created_at`

	queryInsertProfileIfAbsent = `
		INSERT INTO profile (member_id, guild_id, points, created_at) VALUES (?, ?, 0, ?)
		ON CONFLICT (member_id, guild_id) DO NOTHING`

	querySelectProfileByMember = `SELECT ` + profileColumns + ` FROM profile WHERE member_id = ? AND guild_id = ?`

	querySelectProfile = `SELECT ` + profileColumns + ` FROM profile WHERE id = ?`

	queryAdjustPoints = `
		UPDATE profile SET points = points + ?1
		WHERE id = ?2 AND points + ?1 >= 0
		RETURNING ` + profileColumns

	queryProfileExists = `SELECT EXISTS (SELECT 1 FROM profile WHERE id = ?)`

	queryTopByPoints = `
		SELECT ` + profileColumns + ` FROM profile
		WHERE guild_id = ?
		ORDER BY points DESC, id ASC
		LIMIT ? OFFSET ?`
)

// Transaction log queries
const (
	queryInsertTransaction = `INSERT INTO "transaction" (profile_id, amount, reason, created_at) VALUES (?, ?, ?, ?)`

	queryListTransactions = `
		SELECT id, profile_id, amount, reason, created_at FROM "transaction"
		WHERE profile_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`
)

// Segment queries
const (
	queryOwnedSegments = `SELECT number FROM map_segment WHERE profile_id = ? ORDER BY number`

	queryInsertSegment = `INSERT INTO map_segment (profile_id, number, acquired_at) VALUES (?, ?, ?)`

	queryDeleteSegment = `DELETE FROM map_segment WHERE profile_id = ? AND number = ?`

	querySegmentCounts = `
		SELECT p.id, p.member_id, count(s.number) AS owned
		FROM profile p
		JOIN map_segment s ON s.profile_id = p.id
		WHERE p.guild_id = ?
		GROUP BY p.id, p.member_id
		ORDER BY owned DESC, p.member_id ASC
		LIMIT ? OFFSET ?`
)

// Completion queries
const (
	queryCountCompletions = `
		SELECT count(*) FROM map_completion c
		JOIN profile p ON p.id = c.profile_id
		WHERE p.guild_id = ?`

	queryInsertCompletion = `INSERT INTO map_completion (profile_id, completed_at) VALUES (?, ?)`

	queryGetCompletion = `
		SELECT c.profile_id, p.member_id, p.guild_id, c.completed_at,
			(SELECT count(*) FROM map_completion c2
			 JOIN profile p2 ON p2.id = c2.profile_id
			 WHERE p2.guild_id = p.guild_id
			   AND (c2.completed_at, c2.profile_id) <= (c.completed_at, c.profile_id)) AS position
		FROM map_completion c
		JOIN profile p ON p.id = c.profile_id
		WHERE c.profile_id = ?`

	queryListCompletions = `
		SELECT c.profile_id, p.member_id, p.guild_id, c.completed_at
		FROM map_completion c
		JOIN profile p ON p.id = c.profile_id
		WHERE p.guild_id = ?
		ORDER BY c.completed_at ASC, c.profile_id ASC
		LIMIT ? OFFSET ?`
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
	ErrMsgFailedToDeleteSegment      = "failed to delete segment"
	ErrMsgFailedToQuerySegmentCounts = "failed to query segment counts"
	ErrMsgFailedToCountCompletions   = "failed to count completions"
	ErrMsgFailedToInsertCompletion   = "failed to insert completion"
	ErrMsgFailedToGetCompletion      = "failed to get completion"
	ErrMsgFailedToQueryCompletions   = "failed to query completions"
)
