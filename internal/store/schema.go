package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column definitions in the shape ent's migrate package expects.
// Tables are created or upgraded on Open.

const (
	learnersTableName = "learners"
	resultsTableName  = "result_records"
	llmTableName      = "llm_request_events"
	pendingTableName  = "pending_questions"
	sequenceTableName = "global_sequence"
)

var (
	learnersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "role", Type: field.TypeString, Default: "learner"},
		{Name: "token", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	learnersTable = &schema.Table{
		Name:       learnersTableName,
		Columns:    learnersColumns,
		PrimaryKey: []*schema.Column{learnersColumns[0]},
	}

	resultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "attempt_id", Type: field.TypeString, Unique: true},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "context_id", Type: field.TypeString},
		{Name: "correct_count", Type: field.TypeInt},
		{Name: "total_count", Type: field.TypeInt},
		{Name: "score_percent", Type: field.TypeInt},
		{Name: "passed", Type: field.TypeBool},
		{Name: "threshold", Type: field.TypeInt},
	}
	resultsTable = &schema.Table{
		Name:       resultsTableName,
		Columns:    resultsColumns,
		PrimaryKey: []*schema.Column{resultsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "resultrecord_learner_id_context_id", Columns: []*schema.Column{resultsColumns[4], resultsColumns[5]}},
			{Name: "resultrecord_timestamp", Columns: []*schema.Column{resultsColumns[2]}},
		},
	}

	llmColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmTable = &schema.Table{
		Name:       llmTableName,
		Columns:    llmColumns,
		PrimaryKey: []*schema.Column{llmColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmColumns[5]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{llmColumns[9]}},
		},
	}

	pendingColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "topic", Type: field.TypeString},
		{Name: "question", Type: field.TypeString, Size: 2147483647},
		{Name: "status", Type: field.TypeString, Default: "pending"},
		{Name: "reviewed_by", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "reviewed_at", Type: field.TypeTime, Nullable: true},
	}
	pendingTable = &schema.Table{
		Name:       pendingTableName,
		Columns:    pendingColumns,
		PrimaryKey: []*schema.Column{pendingColumns[0]},
		Indexes: []*schema.Index{
			{Name: "pendingquestion_status", Columns: []*schema.Column{pendingColumns[4]}},
			{Name: "pendingquestion_topic", Columns: []*schema.Column{pendingColumns[2]}},
		},
	}

	// sequenceTable holds a single row (id 1) with the next sequence value.
	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequenceTable = &schema.Table{
		Name:       sequenceTableName,
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	tables = []*schema.Table{
		learnersTable,
		resultsTable,
		llmTable,
		pendingTable,
		sequenceTable,
	}
)
