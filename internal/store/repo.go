package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/placeprep/internal/assessment"
)

// ErrNotFound is returned when a row addressed by ID does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Learner roles.
const (
	RoleLearner = "learner"
	RoleAdmin   = "admin"
)

// Learner is a registered local account.
type Learner struct {
	ID        string
	Name      string
	Role      string
	Token     string
	CreatedAt time.Time
}

// LearnerRepo manages local learner accounts.
type LearnerRepo interface {
	// Upsert creates the learner, or updates role and token when a learner
	// with the same name exists. It returns the stored row.
	Upsert(ctx context.Context, l Learner) (*Learner, error)

	// Get returns the learner with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Learner, error)

	// ByName returns the learner with name, or ErrNotFound.
	ByName(ctx context.Context, name string) (*Learner, error)
}

// ResultRecord is one submitted attempt's result.
type ResultRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AttemptID string
	LearnerID string
	ContextID string
	Result    assessment.Result
}

// Standing aggregates a learner's results for one context.
type Standing struct {
	ContextID string
	Attempts  int
	BestScore int
	Passed    bool
}

// ResultRepo stores attempt results.
type ResultRepo interface {
	// Append stores a result and assigns its sequence and timestamp.
	Append(ctx context.Context, rec *ResultRecord) error

	// List returns a learner's results, newest first.
	List(ctx context.Context, learnerID string, opts QueryOpts) ([]ResultRecord, error)

	// Standings returns per-context aggregates for a learner.
	Standings(ctx context.Context, learnerID string) ([]Standing, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

// Review statuses of a pending question.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusRejected = "rejected"
)

// PendingQuestion is a generated question awaiting admin review.
type PendingQuestion struct {
	ID         string
	Sequence   int64
	Topic      string
	Question   assessment.Question
	Status     string
	ReviewedBy string
	CreatedAt  time.Time
	ReviewedAt time.Time
}

// PendingRepo stores generated questions and their review status.
type PendingRepo interface {
	// Add stores questions as pending under topic. IDs are taken from the
	// questions.
	Add(ctx context.Context, topic string, qs []assessment.Question) ([]PendingQuestion, error)

	// List returns questions with status in queue order. An empty status
	// lists every question.
	List(ctx context.Context, status string) ([]PendingQuestion, error)

	// SetStatus records a review decision. It returns ErrNotFound for an
	// unknown id.
	SetStatus(ctx context.Context, id, status, reviewer string) error

	// Verified returns verified questions grouped by topic.
	Verified(ctx context.Context) (map[string][]assessment.Question, error)
}
