package dto

type TaskItem struct {
	ID          string   `json:"id"`
	Pending     bool     `json:"pending,omitempty"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     *string  `json:"due_date,omitempty"`
	Tags        []string `json:"tags"`
	ProjectID   *string  `json:"project_id,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type CreateTaskRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=65535"`
	Status      *string  `json:"status" binding:"omitempty,oneof=backlog todo in_progress done archived"`
	Priority    *string  `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *string  `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Tags        []string `json:"tags" binding:"omitempty,dive,required,max=64"`
	ProjectID   *string  `json:"project_id" binding:"omitempty,max=64"`
}

type UpdateTaskRequest struct {
	Title       *string   `json:"title" binding:"omitempty,max=255"`
	Description *string   `json:"description" binding:"omitempty,max=65535"`
	Status      *string   `json:"status" binding:"omitempty,oneof=backlog todo in_progress done archived"`
	Priority    *string   `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *string   `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Tags        *[]string `json:"tags" binding:"omitempty,dive,required,max=64"`
	ProjectID   *string   `json:"project_id" binding:"omitempty,max=64"`
}

type ToggleResponse struct {
	Task       TaskItem `json:"task"`
	Transition string   `json:"transition"`
	State      string   `json:"state"`
	Notice     string   `json:"notice,omitempty"`
}

type CategoriesResponse struct {
	Counts  map[string]int        `json:"counts"`
	Buckets map[string][]TaskItem `json:"buckets"`
}
