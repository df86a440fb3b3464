package pipeline

import (
	"context"
	"fmt"
	"io"

	"poupeai/statement-ingestion/internal/categorizer"
	"poupeai/statement-ingestion/internal/logging"
	"poupeai/statement-ingestion/internal/mapper"
	"poupeai/statement-ingestion/internal/models"
	"poupeai/statement-ingestion/internal/parser"
)

// Stage is a milestone reached by a pipeline run.
type Stage string

const (
	StageStarted           Stage = "STARTED"
	StageDownloaded        Stage = "DOWNLOADED"
	StageParsed            Stage = "PARSED"
	StageCategoriesFetched Stage = "CATEGORIES_FETCHED"
	StageCategorized       Stage = "CATEGORIZED"
	StagePersisted         Stage = "PERSISTED"
	StageCompleted         Stage = "COMPLETED"
	StageFailed            Stage = "FAILED"
)

// Outcome tells the runner what to do after a step.
type Outcome int

const (
	// Continue moves on to the next step.
	Continue Outcome = iota
	// Skipped means the step had nothing to do.
	Skipped
	// Degraded means the step failed but the run goes on without its output.
	Degraded
	// Halt ends the run early without an error (empty statement).
	Halt
	// Fatal ends the run as FAILED.
	Fatal
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Skipped:
		return "skipped"
	case Degraded:
		return "degraded"
	case Halt:
		return "halt"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// StepResult is what every step returns to the runner. Stage is recorded when
// non-empty and the run goes on. Propagate marks a Fatal error that Run must
// return to its caller.
type StepResult struct {
	Outcome   Outcome
	Stage     Stage
	Err       error
	Propagate bool
}

func reached(stage Stage) StepResult { return StepResult{Outcome: Continue, Stage: stage} }

func fatal(err error) StepResult { return StepResult{Outcome: Fatal, Err: err} }

// Step is a single unit of the ingestion pipeline.
type Step interface {
	Name() string
	Execute(ctx context.Context, state *State) StepResult
}

// State holds the data passed between the steps of one run.
type State struct {
	Payload       *models.IngestionJobPayload
	Logger        logging.Logger
	Stream        io.ReadCloser
	Transactions  []models.BankTransaction
	Categories    []models.Category
	AICategorized int
}

// downloadStep opens the statement stream.
type downloadStep struct {
	store ObjectStore
}

func (s *downloadStep) Name() string { return "download" }

func (s *downloadStep) Execute(ctx context.Context, state *State) StepResult {
	stream, err := s.store.Download(ctx, state.Payload.FileKey)
	if err != nil {
		return fatal(fmt.Errorf("download %s: %w", state.Payload.FileKey, err))
	}
	state.Stream = stream
	return reached(StageDownloaded)
}

// parseStep turns the stream into transactions. An empty result halts the run.
type parseStep struct {
	parser parser.Parser
}

func (s *parseStep) Name() string { return "parse" }

func (s *parseStep) Execute(ctx context.Context, state *State) StepResult {
	txs, err := s.parser.Parse(state.Stream)
	if err != nil {
		return fatal(err)
	}
	state.Transactions = txs
	state.Logger.Info("Statement parsed",
		logging.Event(logging.EventOFXParsed),
		logging.F(logging.FieldCount, len(txs)))

	if len(txs) == 0 {
		state.Logger.Warn("No transactions found in statement",
			logging.Event(logging.EventEmptyFile))
		return StepResult{Outcome: Halt, Stage: StageParsed}
	}
	return reached(StageParsed)
}

// fetchCategoriesStep loads the profile's categories; failure degrades to none.
type fetchCategoriesStep struct {
	provider CategoryProvider
}

func (s *fetchCategoriesStep) Name() string { return "fetch_categories" }

func (s *fetchCategoriesStep) Execute(ctx context.Context, state *State) StepResult {
	categories, err := s.provider.GetCategories(ctx, state.Payload.Profile.ID)
	if err != nil {
		state.Logger.WithError(err).Warn("Failed to fetch categories, continuing without AI categorization",
			logging.Event(logging.EventFetchCategoriesFail))
		state.Categories = nil
		return StepResult{Outcome: Degraded, Stage: StageCategoriesFetched, Err: err}
	}
	state.Categories = categories
	state.Logger.Debug("Categories fetched", logging.F(logging.FieldCount, len(categories)))
	return reached(StageCategoriesFetched)
}

// categorizeStep asks the predictor for categories and merges the answers.
type categorizeStep struct {
	predictor CategorizationPredictor
}

func (s *categorizeStep) Name() string { return "categorize" }

func (s *categorizeStep) Execute(ctx context.Context, state *State) StepResult {
	if s.predictor == nil || len(state.Categories) == 0 {
		return StepResult{Outcome: Skipped}
	}

	descriptions := models.Descriptions(state.Transactions)
	state.Logger.Info("Starting AI categorization",
		logging.Event(logging.EventAIStart),
		logging.F(logging.FieldCount, len(descriptions)))

	predictions, err := s.predictor.Predict(ctx, descriptions, state.Categories)
	if err != nil {
		state.Logger.WithError(err).Warn("AI categorization failed, continuing without predictions",
			logging.Event(logging.EventAIFail))
		return StepResult{Outcome: Degraded, Err: err}
	}

	merged, matched := categorizer.Merge(state.Transactions, predictions)
	state.Transactions = merged
	state.AICategorized = matched
	state.Logger.Info("AI categorization finished",
		logging.Event(logging.EventAIFinished),
		logging.F(logging.FieldMatched, matched),
		logging.F(logging.FieldCount, len(merged)))
	return reached(StageCategorized)
}

// persistStep maps every transaction and sends them in one batch.
type persistStep struct {
	sink TransactionSink
}

func (s *persistStep) Name() string { return "persist" }

func (s *persistStep) Execute(ctx context.Context, state *State) StepResult {
	p := state.Payload
	m := mapper.New(p.Profile.ID, p.BankAccount.ID, p.FallbackIncomeCategoryID, p.FallbackExpenseCategoryID)
	batch := m.ToPersistableAll(state.Transactions)

	state.Logger.Info("Persisting transactions",
		logging.Event(logging.EventPersisting),
		logging.F(logging.FieldCount, len(batch)))

	if err := s.sink.CreateBatch(ctx, batch); err != nil {
		state.Logger.WithError(err).Error("Failed to persist transactions",
			logging.Event(logging.EventPersistFail))
		return StepResult{Outcome: Fatal, Err: err, Propagate: true}
	}
	return reached(StagePersisted)
}
