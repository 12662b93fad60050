package distributor

const (
	Version   = "v0.1.0"
	DBVersion = 1

	// SnapshotJobName names the daily snapshot in scheduler logs.
	SnapshotJobName = "daily-snapshot"
)
