package logging

// Standardized field names for structured logging.
const (
	FieldEvent       = "event_type"
	FieldJobID       = "job_id"
	FieldProfileID   = "profile_id"
	FieldAccountID   = "account_id"
	FieldFileKey     = "file_key"
	FieldMessageID   = "message_id"
	FieldParser      = "parser"
	FieldFitID       = "fit_id"
	FieldStage       = "stage"
	FieldStep        = "step"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldCount       = "count"
	FieldMatched     = "matched"
	FieldDuration    = "duration_ms"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldWorker      = "worker"
	FieldQueue       = "queue"
	FieldEndpoint    = "endpoint"
	FieldHTTPStatus  = "http_status"
	FieldRecipient   = "recipient"
	FieldNotifyEvent = "notification_event"
)

// Pipeline event types, attached to log lines with Event.
const (
	EventJobStarted          = "INGESTION_JOB_STARTED"
	EventOFXParsed           = "OFX_PARSED"
	EventEmptyFile           = "INGESTION_EMPTY_FILE"
	EventFetchCategoriesFail = "FETCH_CATEGORIES_FAIL"
	EventAIStart             = "AI_CATEGORIZATION_START"
	EventAIFinished          = "AI_CATEGORIZATION_FINISHED"
	EventAIFail              = "AI_CATEGORIZATION_FAIL"
	EventPersisting          = "TRANSACTIONS_PERSISTING"
	EventPersistFail         = "PERSIST_TRANSACTIONS_FAIL"
	EventJobCompleted        = "INGESTION_JOB_COMPLETED"
	EventJobFailed           = "INGESTION_JOB_FAILED"
	EventUpdateStatusFail    = "UPDATE_STATUS_FAIL"
	EventNotificationFail    = "NOTIFICATION_PUBLISH_FAIL"
)
