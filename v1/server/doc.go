// Package server exposes the task service over HTTP with gin.
//
//	GET    /               plain-text banner
//	GET    /health         liveness, always 200
//	GET    /health/ready   200 when Postgres and the embedding service answer
//	GET    /tasks          all tasks, newest first
//	POST   /tasks          create a task from {title, description, status}
//	DELETE /tasks/:id      delete a task; missing ids still return 204
//	GET    /tasks/search   ?q=text, the closest tasks by embedding distance
//
// Errors are returned as {"error": "<message>"} with a short fixed message.
// Every response carries nosniff, frame-deny and XSS-protection headers, CORS
// is open to any origin, and each request is logged, traced and counted.
package server
