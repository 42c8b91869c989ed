package migrations

import "github.com/itmanager1341/fsg-talent-hub-sub001/internal/database/schema"

var CreateSyncLogsTable = schema.Migration{
	Version:     1,
	Description: "Create job_sync_logs table",
	Up: `
		CREATE TABLE IF NOT EXISTS job_sync_logs (
			source_id UUID,
			started_at DateTime,
			completed_at DateTime,
			status LowCardinality(String),
			jobs_found UInt32,
			jobs_new UInt32,
			jobs_duplicates UInt32,
			error_message String
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(started_at)
		ORDER BY (source_id, started_at)
		SETTINGS index_granularity = 8192
	`,
	Down: `DROP TABLE IF EXISTS job_sync_logs`,
}

// All lists every migration in apply order.
var All = []schema.Migration{
	CreateSyncLogsTable,
}
