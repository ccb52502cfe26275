package domain

var (
	PROGRESS_GET_SUCCESS          = "Progress retrieved"
	PROGRESS_GET_FAILED           = "Failed to get progress"
	PROGRESS_STATS_SUCCESS        = "Progress stats retrieved"
	PROGRESS_STATS_FAILED         = "Failed to get progress stats"
	PROGRESS_SAVE_GRAMMAR_SUCCESS = "Grammar point saved successfully"
	PROGRESS_SAVE_GRAMMAR_FAILED  = "Error saving grammar point"
	PROGRESS_UNSAVE_SUCCESS       = "Grammar point removed successfully"
	PROGRESS_UNSAVE_FAILED        = "Error removing saved grammar"
	PROGRESS_MASTERED_SUCCESS     = "Mastery updated"
	PROGRESS_MASTERED_FAILED      = "Error updating mastery"
	PROGRESS_QUIZ_RESULT_SUCCESS  = "Quiz result recorded successfully"
	PROGRESS_QUIZ_RESULT_FAILED   = "Error recording quiz result"
	PROGRESS_STUDY_TIME_SUCCESS   = "Study time updated successfully"
	PROGRESS_STUDY_TIME_FAILED    = "Error updating study time"
	PROGRESS_WEEKLY_GOAL_SUCCESS  = "Weekly goal updated"
	PROGRESS_WEEKLY_GOAL_FAILED   = "Error updating weekly goal"
)
