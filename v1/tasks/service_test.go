package tasks

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tasksearch/tasksearch/v1/embedding"
	"github.com/tasksearch/tasksearch/v1/logger"
	"github.com/tasksearch/tasksearch/v1/metrics"
	"github.com/tasksearch/tasksearch/v1/postgres"
	"github.com/tasksearch/tasksearch/v1/tracer"
	"github.com/tasksearch/tasksearch/v1/vector"
)

const testDim = 4

type serviceFixture struct {
	svc      *Service
	repo     *MockRepository
	embedder *embedding.MockEmbedder
}

// newServiceFixture builds a Service on mocks. expect runs before the catch-all
// logger expectations are added, so its expectations match first.
func newServiceFixture(t *testing.T, expect ...func(*logger.MockLogger)) serviceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockLogger := logger.NewMockLogger(ctrl)
	for _, e := range expect {
		e(mockLogger)
	}
	mockLogger.EXPECT().InfoWithContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().DebugWithContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().ErrorWithContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	codec, err := vector.NewCodec(testDim)
	require.NoError(t, err)
	tr, err := tracer.NewClient(tracer.Config{ServiceName: "tasks-test"})
	require.NoError(t, err)

	f := serviceFixture{
		repo:     NewMockRepository(ctrl),
		embedder: embedding.NewMockEmbedder(ctrl),
	}
	f.svc = NewService(ServiceParams{
		Config:     Config{SearchLimit: 3},
		Repository: f.repo,
		Embedder:   f.embedder,
		Codec:      codec,
		Metrics:    metrics.NewMetrics(metrics.Config{ServiceName: "tasks-test"}),
		Tracer:     tr,
		Logger:     mockLogger,
	})
	return f
}

func TestCreateValidationNeverEmbeds(t *testing.T) {
	tests := []struct {
		name  string
		input CreateInput
		msg   string
	}{
		{"missing title", CreateInput{Description: "d", Status: "todo"}, MsgMissingFields},
		{"missing description", CreateInput{Title: "t", Status: "todo"}, MsgMissingFields},
		{"missing status", CreateInput{Title: "t", Description: "d"}, MsgMissingFields},
		{"missing fields before bad status", CreateInput{Title: "t", Status: "later"}, MsgMissingFields},
		{"unknown status", CreateInput{Title: "t", Description: "d", Status: "later"}, MsgInvalidStatus},
		{"status is case sensitive", CreateInput{Title: "t", Description: "d", Status: "Done"}, MsgInvalidStatus},
		{"status before length", CreateInput{Title: strings.Repeat("t", 101), Description: "d", Status: "x"}, MsgInvalidStatus},
		{"title too long", CreateInput{Title: strings.Repeat("t", 101), Description: "d", Status: "todo"}, MsgTitleTooLong},
		{"title before description", CreateInput{Title: strings.Repeat("t", 101), Description: strings.Repeat("d", 1001), Status: "todo"}, MsgTitleTooLong},
		{"description too long", CreateInput{Title: "t", Description: strings.Repeat("d", 1001), Status: "done"}, MsgDescTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			// No EXPECT on embedder or repo: any call fails the test.

			_, err := f.svc.Create(context.Background(), tt.input)
			require.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.msg, verr.Message)
		})
	}
}

func TestCreateInputLengthBounds(t *testing.T) {
	in := CreateInput{
		Title:       strings.Repeat("t", MaxTitleLength),
		Description: strings.Repeat("d", MaxDescriptionLength),
		Status:      "in progress",
	}
	assert.NoError(t, in.Validate())

	// Multi-byte characters count once.
	in.Title = strings.Repeat("é", MaxTitleLength)
	in.Description = strings.Repeat("日", MaxDescriptionLength)
	assert.NoError(t, in.Validate())

	in.Title += "é"
	assert.ErrorIs(t, in.Validate(), ErrValidation)
}

func TestCreateSuccess(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.embedder.EXPECT().Embed(gomock.Any(), "Get milk from the store").
		Return([]float32{0.1, 0.2, 0.3, 0.4}, nil)
	f.repo.EXPECT().Create(gomock.Any(), "Buy milk", "Get milk from the store", StatusTodo, "[0.1,0.2,0.3,0.4]").
		Return(Task{ID: 7, Title: "Buy milk", Description: "Get milk from the store", Status: StatusTodo}, nil)

	task, err := f.svc.Create(ctx, CreateInput{
		Title:       "Buy milk",
		Description: "Get milk from the store",
		Status:      "todo",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), task.ID)
	assert.Equal(t, StatusTodo, task.Status)
}

func TestCreateEmbeddingFailurePersistsNothing(t *testing.T) {
	input := CreateInput{Title: "t", Description: "d", Status: "todo"}

	tests := []struct {
		name string
		vec  []float32
		err  error
	}{
		{"service unavailable", nil, embedding.ErrUnavailable},
		{"wrong dimension", []float32{1, 2, 3}, nil},
		{"too many components", []float32{1, 2, 3, 4, 5}, nil},
		{"non-finite component", []float32{1, float32(math.NaN()), 3, 4}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			f.embedder.EXPECT().Embed(gomock.Any(), "d").Return(tt.vec, tt.err)
			// repo.Create is not expected.

			_, err := f.svc.Create(context.Background(), input)
			assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
			assert.NotErrorIs(t, err, ErrStore)
		})
	}
}

func TestCreateStoreFailure(t *testing.T) {
	f := newServiceFixture(t)
	storeErr := errors.Join(ErrStore, postgres.ErrConnection)

	f.embedder.EXPECT().Embed(gomock.Any(), gomock.Any()).Return([]float32{1, 2, 3, 4}, nil)
	f.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(Task{}, storeErr)

	_, err := f.svc.Create(context.Background(), CreateInput{Title: "t", Description: "d", Status: "done"})
	assert.ErrorIs(t, err, ErrStore)
	assert.NotErrorIs(t, err, ErrEmbeddingUnavailable)
}

func TestFailuresCarryErrorCategory(t *testing.T) {
	tests := []struct {
		name      string
		storeErr  error
		embedErr  error
		category  postgres.ErrorCategory
		retryable bool
	}{
		{
			name:      "connection lost",
			storeErr:  fmt.Errorf("%w: create task: %w", ErrStore, postgres.ErrConnection),
			category:  postgres.CategoryConnection,
			retryable: true,
		},
		{
			name:      "statement timeout",
			storeErr:  fmt.Errorf("%w: create task: %w", ErrStore, postgres.ErrTimeout),
			category:  postgres.CategoryTimeout,
			retryable: true,
		},
		{
			name:     "check violation",
			storeErr: fmt.Errorf("%w: create task: %w", ErrStore, postgres.ErrCheckViolation),
			category: postgres.CategoryConstraint,
		},
		{
			name:     "embedding down",
			embedErr: embedding.ErrUnavailable,
			category: postgres.CategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logged map[string]interface{}
			f := newServiceFixture(t, func(l *logger.MockLogger) {
				l.EXPECT().
					ErrorWithContext(gomock.Any(), "Task creation failed", gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, _ string, _ error, fields ...map[string]interface{}) {
						logged = fields[0]
					})
			})

			if tt.embedErr != nil {
				f.embedder.EXPECT().Embed(gomock.Any(), gomock.Any()).Return(nil, tt.embedErr)
			} else {
				f.embedder.EXPECT().Embed(gomock.Any(), gomock.Any()).Return([]float32{1, 2, 3, 4}, nil)
				f.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(Task{}, tt.storeErr)
			}

			_, err := f.svc.Create(context.Background(), CreateInput{Title: "t", Description: "d", Status: "done"})
			require.Error(t, err)

			require.NotNil(t, logged)
			assert.Equal(t, string(tt.category), logged["error_category"])
			assert.Equal(t, tt.retryable, logged["retryable"])
			assert.Contains(t, logged, "stage")
			assert.Equal(t, 1.0, testutil.ToFloat64(f.svc.failures.WithLabelValues("create", string(tt.category))))
		})
	}
}

func TestStoreCallsAreTimed(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.repo.EXPECT().List(gomock.Any()).Return(nil, nil)
	f.repo.EXPECT().Delete(gomock.Any(), int64(1)).Return(fmt.Errorf("%w: delete task: %w", ErrStore, postgres.ErrConnection))

	_, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Error(t, f.svc.Delete(ctx, 1))

	assert.Equal(t, 2, testutil.CollectAndCount(f.svc.storeDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.svc.failures.WithLabelValues("delete", string(postgres.CategoryConnection))))
}

func TestListAndDeleteDelegate(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	want := []Task{{ID: 2, Title: "b"}, {ID: 1, Title: "a"}}
	f.repo.EXPECT().List(gomock.Any()).Return(want, nil)

	got, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Deleting twice is fine; the store treats missing ids as success.
	f.repo.EXPECT().Delete(gomock.Any(), int64(999999)).Return(nil).Times(2)
	assert.NoError(t, f.svc.Delete(ctx, 999999))
	assert.NoError(t, f.svc.Delete(ctx, 999999))

	f.repo.EXPECT().List(gomock.Any()).Return(nil, ErrStore)
	_, err = f.svc.List(ctx)
	assert.ErrorIs(t, err, ErrStore)
}

func TestSearch(t *testing.T) {
	t.Run("blank query is rejected before embedding", func(t *testing.T) {
		f := newServiceFixture(t)
		for _, q := range []string{"", "   ", "\t\n"} {
			_, err := f.svc.Search(context.Background(), q)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, MsgMissingQuery, verr.Message)
		}
	})

	t.Run("uses configured limit", func(t *testing.T) {
		f := newServiceFixture(t)
		hits := []Task{{ID: 1}, {ID: 3}}

		f.embedder.EXPECT().Embed(gomock.Any(), "milk").Return([]float32{1, 0, 0, 0}, nil)
		f.repo.EXPECT().Nearest(gomock.Any(), "[1,0,0,0]", 3).Return(hits, nil)

		got, err := f.svc.Search(context.Background(), "milk")
		require.NoError(t, err)
		assert.Equal(t, hits, got)
	})

	t.Run("embedding failure", func(t *testing.T) {
		f := newServiceFixture(t)
		f.embedder.EXPECT().Embed(gomock.Any(), "milk").Return(nil, embedding.ErrUnavailable)

		_, err := f.svc.Search(context.Background(), "milk")
		assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newServiceFixture(t)
		f.embedder.EXPECT().Embed(gomock.Any(), "milk").Return([]float32{1, 0, 0, 0}, nil)
		f.repo.EXPECT().Nearest(gomock.Any(), gomock.Any(), 3).Return(nil, ErrStore)

		_, err := f.svc.Search(context.Background(), "milk")
		assert.ErrorIs(t, err, ErrStore)
	})
}

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("").Valid())
	assert.False(t, Status("in-progress").Valid())
}
