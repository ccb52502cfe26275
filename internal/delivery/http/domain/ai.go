package domain

var (
	AI_EXPLAIN_SUCCESS = "Explanation generated"
	AI_EXPLAIN_FAILED  = "Failed to generate explanation"
)
