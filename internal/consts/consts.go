// Package consts defines application-wide constants.
package consts

// AppDirName is the per-user directory name used for configuration,
// downloads, and logs.
const AppDirName = "oxyget"

// Format selector values.
const (
	// FormatAuto lets the format policy pick the best available container or codec.
	FormatAuto = "auto"
)

// Job option defaults, applied by the settings store on first run and reset.
const (
	// DefaultSegments is the default concurrent segment count per download.
	DefaultSegments = 4
	// DefaultRetries is the default connection-level retry count.
	DefaultRetries = 5
	// DefaultBufferSize is the default transfer buffer size string.
	DefaultBufferSize = "16M"
)

// HTTP response messages.
const (
	// RespInvalidRequestBody is returned when the request body is invalid.
	RespInvalidRequestBody = "invalid request body"
	// RespUnprocessableEntity is returned when the request cannot be processed.
	RespUnprocessableEntity = "unprocessable entity"
	// RespJobEnqueued is returned when a job is successfully enqueued.
	RespJobEnqueued = "job enqueued"
	// RespJobEnqueueFail is returned when a job cannot be enqueued.
	RespJobEnqueueFail = "job enqueue failed"
	// RespSettingsRetrieved is returned when settings are successfully retrieved.
	RespSettingsRetrieved = "settings retrieved"
	// RespSettingsUpdated is returned when a setting is successfully updated.
	RespSettingsUpdated = "settings updated"
	// RespSettingsUpdateFail is returned when a setting cannot be updated.
	RespSettingsUpdateFail = "settings update failed"
	// RespSettingsReset is returned when settings are reset to defaults.
	RespSettingsReset = "settings reset"
	// RespAuthSaved is returned when an auth entry is saved.
	RespAuthSaved = "auth entry saved"
	// RespAuthSaveFail is returned when an auth entry cannot be saved.
	RespAuthSaveFail = "auth entry save failed"
	// RespAuthDeleted is returned when an auth entry is deleted.
	RespAuthDeleted = "auth entry deleted"
	// RespAuthNotFound is returned when an auth entry does not exist.
	RespAuthNotFound = "auth entry not found"
	// RespAuthListed is returned when auth entries are listed.
	RespAuthListed = "auth entries retrieved"
	// RespLogsRetrieved is returned when log records are retrieved.
	RespLogsRetrieved = "log records retrieved"
	// RespLogsReloaded is returned when log segments are reloaded from disk.
	RespLogsReloaded = "log records reloaded"
	// RespLogsReloadFail is returned when log segments cannot be reloaded.
	RespLogsReloadFail = "log records reload failed"
	// RespProgressRetrieved is returned when the latest progress is retrieved.
	RespProgressRetrieved = "progress retrieved"
)

// Engine identifiers.
const (
	// EngineYTdlp is the yt-dlp media engine identifier.
	EngineYTdlp = "ytdlp"
	// EngineMock is the mock media engine identifier for testing.
	EngineMock = "mock"
)
