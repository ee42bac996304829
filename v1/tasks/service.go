package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/tasksearch/tasksearch/v1/embedding"
	"github.com/tasksearch/tasksearch/v1/logger"
	"github.com/tasksearch/tasksearch/v1/metrics"
	"github.com/tasksearch/tasksearch/v1/postgres"
	"github.com/tasksearch/tasksearch/v1/tracer"
	"github.com/tasksearch/tasksearch/v1/vector"
)

// Stage is a step of task creation. A creation moves through the stages in
// declaration order and stops at the first failure.
type Stage string

const (
	StageValidating Stage = "validating"
	StageEmbedding  Stage = "embedding"
	StageEncoding   Stage = "encoding"
	StagePersisting Stage = "persisting"
	StageDone       Stage = "done"
)

// ServiceParams groups the dependencies of a Service.
type ServiceParams struct {
	fx.In

	Config     Config
	Repository Repository
	Embedder   embedding.Embedder
	Codec      *vector.Codec
	Metrics    metrics.MetricsCollector
	Tracer     *tracer.Tracer
	Logger     logger.Logger
}

// Service validates requests, obtains embeddings and talks to the store.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	repo        Repository
	embedder    embedding.Embedder
	codec       *vector.Codec
	metrics     metrics.MetricsCollector
	tracer      *tracer.Tracer
	logger      logger.Logger
	searchLimit int

	failures      *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
}

func NewService(params ServiceParams) *Service {
	limit := params.Config.SearchLimit
	if limit <= 0 {
		limit = 3
	}

	return &Service{
		repo:        params.Repository,
		embedder:    params.Embedder,
		codec:       params.Codec,
		metrics:     params.Metrics,
		tracer:      params.Tracer,
		logger:      params.Logger,
		searchLimit: limit,
		failures: params.Metrics.CreateCounter("task_failures_total",
			"Failed task operations by operation and error category",
			[]string{"operation", "category"}),
		storeDuration: params.Metrics.CreateHistogram("store_duration_seconds",
			"Latency of task store calls in seconds",
			[]string{"operation"}, prometheus.DefBuckets),
	}
}

// recordFailure reports err on span and in the log together with its error
// category and retryability.
func (s *Service) recordFailure(ctx context.Context, span trace.Span, op, msg string, err error, fields map[string]interface{}) {
	category := postgres.GetErrorCategory(err)
	retryable := postgres.IsRetryable(err)

	s.tracer.SetAttributes(span, map[string]interface{}{
		"error.category":  string(category),
		"error.retryable": retryable,
	})
	s.tracer.RecordErrorOnSpan(span, err)
	s.failures.WithLabelValues(op, string(category)).Inc()

	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["error_category"] = string(category)
	fields["retryable"] = retryable
	s.logger.ErrorWithContext(ctx, msg, err, fields)
}

func (s *Service) observeStore(op string, start time.Time) {
	s.storeDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Validate checks in against the creation rules, in order: required fields,
// status, title length, description length. Lengths are counted in runes.
func (in CreateInput) Validate() error {
	switch {
	case in.Title == "" || in.Description == "" || in.Status == "":
		return invalid(MsgMissingFields)
	case !Status(in.Status).Valid():
		return invalid(MsgInvalidStatus)
	case utf8.RuneCountInString(in.Title) > MaxTitleLength:
		return invalid(MsgTitleTooLong)
	case utf8.RuneCountInString(in.Description) > MaxDescriptionLength:
		return invalid(MsgDescTooLong)
	}
	return nil
}

// Create validates in, embeds its description and persists the task.
// Either the whole task is stored or nothing is.
func (s *Service) Create(ctx context.Context, in CreateInput) (Task, error) {
	ctx, span := s.tracer.StartSpan(ctx, "tasks.create")
	defer span.End()

	stage := StageValidating
	fail := func(err error) (Task, error) {
		s.tracer.SetAttributes(span, map[string]interface{}{"tasks.stage": string(stage)})
		if errors.Is(err, ErrValidation) {
			s.tracer.RecordErrorOnSpan(span, err)
			s.logger.DebugWithContext(ctx, "Task creation rejected", err, map[string]interface{}{
				"stage": string(stage),
			})
		} else {
			s.recordFailure(ctx, span, "create", "Task creation failed", err, map[string]interface{}{
				"stage": string(stage),
			})
		}
		return Task{}, err
	}

	if err := in.Validate(); err != nil {
		return fail(err)
	}

	stage = StageEmbedding
	vec, err := s.embed(ctx, in.Description)
	if err != nil {
		return fail(err)
	}

	stage = StageEncoding
	encoded, err := s.codec.Encode(vec)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err))
	}

	stage = StagePersisting
	start := time.Now()
	task, err := s.repo.Create(ctx, in.Title, in.Description, Status(in.Status), encoded)
	s.observeStore("create", start)
	if err != nil {
		return fail(err)
	}

	stage = StageDone
	s.metrics.IncrementTasksCreated()
	s.tracer.SetAttributes(span, map[string]interface{}{
		"tasks.stage": string(stage),
		"tasks.id":    task.ID,
	})
	s.logger.InfoWithContext(ctx, "Task created", nil, map[string]interface{}{
		"id":     task.ID,
		"status": string(task.Status),
	})
	return task, nil
}

// List returns all tasks, newest first.
func (s *Service) List(ctx context.Context) ([]Task, error) {
	ctx, span := s.tracer.StartSpan(ctx, "tasks.list")
	defer span.End()

	start := time.Now()
	tasks, err := s.repo.List(ctx)
	s.observeStore("list", start)
	if err != nil {
		s.recordFailure(ctx, span, "list", "Listing tasks failed", err, nil)
		return nil, err
	}
	return tasks, nil
}

// Delete removes the task with id. Deleting a missing task succeeds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.StartSpan(ctx, "tasks.delete")
	defer span.End()

	start := time.Now()
	err := s.repo.Delete(ctx, id)
	s.observeStore("delete", start)
	if err != nil {
		s.recordFailure(ctx, span, "delete", "Deleting task failed", err, map[string]interface{}{"id": id})
		return err
	}
	return nil
}

// Search returns the tasks whose embeddings are closest to the embedding of
// query, nearest first. A blank query is a validation error and is rejected
// before the embedding service is called. A whitespace-only query counts as
// blank too, which is stricter than rejecting only an empty q.
func (s *Service) Search(ctx context.Context, query string) ([]Task, error) {
	ctx, span := s.tracer.StartSpan(ctx, "tasks.search")
	defer span.End()

	if strings.TrimSpace(query) == "" {
		return nil, invalid(MsgMissingQuery)
	}

	fail := func(err error) ([]Task, error) {
		s.recordFailure(ctx, span, "search", "Search failed", err, nil)
		return nil, err
	}

	vec, err := s.embed(ctx, query)
	if err != nil {
		return fail(err)
	}

	encoded, err := s.codec.Encode(vec)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err))
	}

	start := time.Now()
	tasks, err := s.repo.Nearest(ctx, encoded, s.searchLimit)
	s.observeStore("nearest", start)
	if err != nil {
		return fail(err)
	}

	s.metrics.ObserveSearchResults(len(tasks))
	s.tracer.SetAttributes(span, map[string]interface{}{"tasks.results": len(tasks)})
	return tasks, nil
}

func (s *Service) embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.metrics.ObserveEmbedding(start, metrics.OutcomeFailure)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	s.metrics.ObserveEmbedding(start, metrics.OutcomeSuccess)
	return vec, nil
}
