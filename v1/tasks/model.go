package tasks

// Status is the closed set of task states.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in progress"
	StatusDone       Status = "done"
)

// Statuses lists every valid Status in declaration order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is one of Statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
)

// Task is a persisted task. The embedding column is written on insert and
// never read back, so it has no field here.
type Task struct {
	ID          int64  `json:"id" gorm:"column:id;primaryKey"`
	Title       string `json:"title" gorm:"column:title"`
	Description string `json:"description" gorm:"column:description"`
	Status      Status `json:"status" gorm:"column:status"`
}

func (Task) TableName() string {
	return "tasks"
}

// CreateInput is the client-supplied part of a new task.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
