// Package pipeline runs one statement ingestion job end to end: download,
// parse, categorize, persist, then report the job status and notify the user.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"poupeai/statement-ingestion/internal/logging"
	"poupeai/statement-ingestion/internal/models"
	"poupeai/statement-ingestion/internal/parser"
)

// Summary messages stored with the job status.
const (
	MessageStarting       = "Iniciando download e leitura do arquivo..."
	MessageCompleted      = "Processamento concluído com sucesso."
	MessageNoTransactions = "Arquivo processado, mas nenhuma transação válida encontrada."
	NotifyNoTransactions  = "Nenhuma transação encontrada no arquivo."

	errorDetailsPrefix   = "Erro interno: "
	notifyInternalPrefix = "Erro ao processar arquivo: "
)

// Result describes how a run ended.
type Result struct {
	Stages        []Stage
	Final         Stage
	Total         int
	AICategorized int
}

// Reached reports whether the run went through stage.
func (r Result) Reached(stage Stage) bool {
	for _, s := range r.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Dependencies are the collaborators a Runner needs. Predictor may be nil, in
// which case AI categorization is skipped.
type Dependencies struct {
	Store      ObjectStore
	Parser     parser.Parser
	Categories CategoryProvider
	Predictor  CategorizationPredictor
	Sink       TransactionSink
	Status     JobStatusUpdater
	Notifier   Notifier
	Logger     logging.Logger
}

// Runner executes ingestion jobs. It is safe for concurrent use as long as
// its collaborators are.
type Runner struct {
	steps    []Step
	status   JobStatusUpdater
	notifier Notifier
	logger   logging.Logger
}

// New creates a Runner with the standard step sequence.
func New(deps Dependencies) (*Runner, error) {
	switch {
	case deps.Store == nil:
		return nil, errors.New("pipeline: object store is required")
	case deps.Parser == nil:
		return nil, errors.New("pipeline: parser is required")
	case deps.Categories == nil:
		return nil, errors.New("pipeline: category provider is required")
	case deps.Sink == nil:
		return nil, errors.New("pipeline: transaction sink is required")
	case deps.Status == nil:
		return nil, errors.New("pipeline: job status updater is required")
	case deps.Notifier == nil:
		return nil, errors.New("pipeline: notifier is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	return &Runner{
		steps: []Step{
			&downloadStep{store: deps.Store},
			&parseStep{parser: deps.Parser},
			&fetchCategoriesStep{provider: deps.Categories},
			&categorizeStep{predictor: deps.Predictor},
			&persistStep{sink: deps.Sink},
		},
		status:   deps.Status,
		notifier: deps.Notifier,
		logger:   logger,
	}, nil
}

// Run processes one ingestion event. Only a persistence failure is returned
// as an error; every other failure is reported through the job status and the
// notification and ends the run with a nil error. Events that fail validation
// are returned as errors without any side effect.
func (r *Runner) Run(ctx context.Context, event models.IngestionEvent) (Result, error) {
	if err := event.Validate(); err != nil {
		return Result{}, err
	}
	payload := event.Payload
	started := time.Now()

	state := &State{
		Payload: payload,
		Logger: r.logger.WithFields(
			logging.F(logging.FieldJobID, payload.JobID),
			logging.F(logging.FieldProfileID, payload.Profile.ID),
			logging.F(logging.FieldFileKey, payload.FileKey),
		),
	}
	defer func() {
		if state.Stream == nil {
			return
		}
		if err := state.Stream.Close(); err != nil {
			state.Logger.WithError(err).Debug("Failed to close statement stream")
		}
	}()

	result := Result{Stages: []Stage{StageStarted}}
	state.Logger.Info("Ingestion job started",
		logging.Event(logging.EventJobStarted),
		logging.F(logging.FieldMessageID, event.MessageID))
	r.updateStatus(ctx, state, models.JobStatusProcessing, summary{Message: MessageStarting, Step: "START"}, "")

	for _, step := range r.steps {
		res := step.Execute(ctx, state)
		state.Logger.Debug("Step finished",
			logging.F(logging.FieldStep, step.Name()),
			logging.F(logging.FieldStatus, res.Outcome.String()))

		switch res.Outcome {
		case Continue, Degraded:
			if res.Stage != "" {
				result.Stages = append(result.Stages, res.Stage)
			}
		case Skipped:
		case Halt:
			if res.Stage != "" {
				result.Stages = append(result.Stages, res.Stage)
			}
			return r.finishEmpty(ctx, state, result), nil
		case Fatal:
			return r.fail(ctx, state, result, step.Name(), res)
		}
	}

	result.Total = len(state.Transactions)
	result.AICategorized = state.AICategorized
	result.Stages = append(result.Stages, StageCompleted)
	result.Final = StageCompleted

	total, ai := result.Total, result.AICategorized
	r.updateStatus(ctx, state, models.JobStatusCompleted,
		summary{Message: MessageCompleted, TotalTransactions: &total, AICategorized: &ai}, "")
	r.notify(ctx, state, models.NewSuccessNotification(recipientOf(payload), payload.FileName(), accountNameOf(payload)))

	state.Logger.Info("Ingestion job completed",
		logging.Event(logging.EventJobCompleted),
		logging.F(logging.FieldCount, total),
		logging.F(logging.FieldMatched, ai),
		logging.F(logging.FieldDuration, time.Since(started).Milliseconds()))
	return result, nil
}

func (r *Runner) finishEmpty(ctx context.Context, state *State, result Result) Result {
	p := state.Payload
	zero := 0
	r.updateStatus(ctx, state, models.JobStatusCompleted,
		summary{Message: MessageNoTransactions, TotalTransactions: &zero}, "")
	r.notify(ctx, state, models.NewErrorNotification(recipientOf(p), p.FileName(), accountNameOf(p),
		models.ErrorCodeNoTransactions, NotifyNoTransactions))

	result.Stages = append(result.Stages, StageCompleted)
	result.Final = StageCompleted
	return result
}

func (r *Runner) fail(ctx context.Context, state *State, result Result, stepName string, res StepResult) (Result, error) {
	p := state.Payload
	err := res.Err
	if err == nil {
		err = fmt.Errorf("step %s failed", stepName)
	}

	state.Logger.WithError(err).Error("Ingestion job failed",
		logging.Event(logging.EventJobFailed),
		logging.F(logging.FieldStep, stepName))

	r.updateStatus(ctx, state, models.JobStatusFailed, summary{}, errorDetailsPrefix+err.Error())
	r.notify(ctx, state, models.NewErrorNotification(recipientOf(p), p.FileName(), accountNameOf(p),
		models.ErrorCodeInternal, notifyInternalPrefix+err.Error()))

	result.Total = len(state.Transactions)
	result.AICategorized = state.AICategorized
	result.Stages = append(result.Stages, StageFailed)
	result.Final = StageFailed

	if res.Propagate {
		return result, fmt.Errorf("ingestion job %s: %s: %w", p.JobID, stepName, err)
	}
	return result, nil
}

// summary is the JSON document stored as the job status summary.
type summary struct {
	Message           string `json:"message"`
	Step              string `json:"step,omitempty"`
	TotalTransactions *int   `json:"total_transactions,omitempty"`
	AICategorized     *int   `json:"ai_categorized,omitempty"`
}

// updateStatus is best-effort: failures are logged and swallowed. A zero
// summary sends no summary, an empty errorDetails sends no details.
func (r *Runner) updateStatus(ctx context.Context, state *State, status models.JobStatus, s summary, errorDetails string) {
	jobID := state.Payload.JobID
	if jobID == "" {
		state.Logger.Debug("No job id, skipping status update", logging.F(logging.FieldStatus, string(status)))
		return
	}

	update := models.JobStatusUpdate{Status: status}
	if s.Message != "" {
		body, err := json.Marshal(s)
		if err != nil {
			state.Logger.WithError(err).Warn("Failed to encode job summary")
		} else {
			text := string(body)
			update.Summary = &text
		}
	}
	if errorDetails != "" {
		update.ErrorDetails = &errorDetails
	}

	if err := r.status.UpdateStatus(ctx, jobID, update); err != nil {
		state.Logger.WithError(err).Error("Failed to update job status",
			logging.Event(logging.EventUpdateStatusFail),
			logging.F(logging.FieldStatus, string(status)))
	}
}

// notify is best-effort like updateStatus.
func (r *Runner) notify(ctx context.Context, state *State, event models.NotificationEvent) {
	if err := r.notifier.Publish(ctx, event); err != nil {
		state.Logger.WithError(err).Error("Failed to publish notification",
			logging.Event(logging.EventNotificationFail),
			logging.F(logging.FieldNotifyEvent, event.EventType))
	}
}

func recipientOf(p *models.IngestionJobPayload) models.NotificationRecipient {
	return models.NotificationRecipient{
		UserID: p.Profile.ID,
		Email:  p.Profile.Email,
		Name:   p.Profile.Name,
	}
}

func accountNameOf(p *models.IngestionJobPayload) string {
	return p.BankAccount.Name
}
