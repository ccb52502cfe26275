package domain

var (
	QUIZ_GENERATE_SUCCESS        = "Quiz questions generated"
	QUIZ_GENERATE_FAILED         = "Failed to generate quiz questions"
	QUIZ_SESSION_START_SUCCESS   = "Quiz session started"
	QUIZ_SESSION_START_FAILED    = "Failed to start quiz session"
	QUIZ_SESSION_GET_SUCCESS     = "Quiz session retrieved"
	QUIZ_SESSION_GET_FAILED      = "Failed to get quiz session"
	QUIZ_SESSION_ANSWER_SUCCESS  = "Answer recorded"
	QUIZ_SESSION_ANSWER_FAILED   = "Failed to record answer"
	QUIZ_SESSION_TIMEOUT_SUCCESS = "Timeout recorded"
	QUIZ_SESSION_TIMEOUT_FAILED  = "Failed to record timeout"
	QUIZ_SESSION_SYNC_SUCCESS    = "Pending results synced"
	QUIZ_SESSION_SYNC_FAILED     = "Failed to sync pending results"
	QUIZ_SESSION_ABANDON_SUCCESS = "Quiz session abandoned"
	QUIZ_SESSION_ABANDON_FAILED  = "Failed to abandon quiz session"
)
