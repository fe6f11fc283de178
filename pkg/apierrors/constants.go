package apierrors

const (
	MsgFailListTask       = "errorListTask"
	MsgInvalidTaskID      = "invalidTaskID"
	MsgInvalidTaskPayload = "invalidTaskPayload"
	MsgInvalidFilter      = "invalidFilter"
	MsgTaskNotFound       = "taskNotFound"
	MsgTaskPending        = "taskPending"
	MsgFailCreateTask     = "failCreateTask"
	MsgFailUpdateTask     = "failUpdateTask"
	MsgFailDeleteTask     = "failDeleteTask"
	MsgFailToggleTask     = "failToggleTask"
	MsgFailCategorize     = "failCategorize"

	MsgProjectNotFound       = "projectNotFound"
	MsgInvalidProjectPayload = "invalidProjectPayload"
	MsgFailListProjects      = "failListProjects"
	MsgFailCreateProject     = "failCreateProject"
	MsgFailUpdateProject     = "failUpdateProject"
	MsgFailDeleteProject     = "failDeleteProject"

	MsgNoticeTaskCompleted = "noticeTaskCompleted"
	MsgNoticeTaskRestored  = "noticeTaskRestored"
	MsgNoticeTaskReopened  = "noticeTaskReopened"
)
