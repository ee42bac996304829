package tasks

import "fmt"

// Config controls schema management and search.
type Config struct {
	// AutoMigrate creates the vector extension and the tasks table on start.
	AutoMigrate bool `env:"TASKS_AUTO_MIGRATE" envDefault:"true"`

	// SearchLimit is the number of nearest tasks a search returns.
	SearchLimit int `env:"TASKS_SEARCH_LIMIT" envDefault:"3"`
}

func (c Config) Validate() error {
	if c.SearchLimit <= 0 {
		return fmt.Errorf("tasks: TASKS_SEARCH_LIMIT must be positive, got %d", c.SearchLimit)
	}
	return nil
}
