package constants

// Context keys
const (
	ContextTokenData = "token_data"
	ContextRequestID = "request_id"
)

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Time layouts used across the scheduling engine. All wall-clock values are
// interpreted in the single configured local zone.
const (
	DateLayout    = "2006-01-02"
	TimeLayout    = "15:04"
	DisplayLayout = "15:04"
)

// Cache key scopes
const (
	CacheScopeSlots        = "slots"
	CacheScopeCalendar     = "calendar"
	CacheScopeInterviewers = "interviewers"
	CacheScopeDirectory    = "directory"
)

// Notification task types
const (
	TaskInterviewBooked      = "notification:interview_booked"
	TaskInterviewCancelled   = "notification:interview_cancelled"
	TaskInterviewRescheduled = "notification:interview_rescheduled"
)
