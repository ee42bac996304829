// Package tasks holds the task model, its PostgreSQL store and the Service
// that ties validation, embedding and storage together.
//
// Creating a task runs through Validating, Embedding, Encoding and Persisting.
// Input is validated before the embedding service is contacted; an embedding
// failure or a vector of the wrong shape aborts the creation before anything is
// written, and the insert itself is a single statement.
//
// Errors returned by Service match one of ErrValidation (the message is
// client-safe), ErrEmbeddingUnavailable or ErrStore via errors.Is.
//
//	svc := tasks.NewService(tasks.ServiceParams{...})
//	task, err := svc.Create(ctx, tasks.CreateInput{
//	    Title:       "Buy milk",
//	    Description: "Get milk from the store",
//	    Status:      "todo",
//	})
//	hits, err := svc.Search(ctx, "milk")
package tasks
