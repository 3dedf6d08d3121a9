package e

// This defines reusable error messages

const (
	MsgUnknownInternalServerError = "Unknown Internal Server Error"

	// migrations
	MsgMigrationNotInstalled      = "Migration ledger not installed"
	MsgMigrationFileNameInvalid   = "Invalid migration file name"
	MsgMigrationDuplicateSequence = "Duplicate migration sequence"
	MsgMigrationUnknownApplied    = "Ledger references unknown migration"
	MsgMigrationFailed            = "Migration failed"
	MsgMigrationCancelled         = "Migration run cancelled"
	MsgMigrationDrift             = "Schema drift detected"
	MsgMigrationInstallFailed     = "Migration ledger installation failed"
	MsgMigrationAlreadyRecorded   = "Migration already recorded in ledger"

	// composer
	MsgComposerExists    = "Composer already exists"
	MsgComposerNotExists = "Composer does not exist"
)
