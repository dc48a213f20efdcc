package app

import (
	"context"
	"fmt"
	"time"

	"tabclass/domain/classification"
	"tabclass/domain/core"
	"tabclass/domain/dataset"
	"tabclass/internal"
	"tabclass/internal/errors"
	"tabclass/internal/evaluation"
	"tabclass/internal/threshold"
	"tabclass/ports"
)

// EvaluationService trains through the external trainer, tunes the binary
// decision threshold on validation rows and evaluates on test rows
type EvaluationService struct {
	trainer ports.ModelTrainer
	reports ports.ReportRepository
	tuner   *threshold.Tuner
	logger  *internal.Logger
}

// NewEvaluationService creates an evaluation service. reports may be nil.
func NewEvaluationService(trainer ports.ModelTrainer, reports ports.ReportRepository, tuner *threshold.Tuner, logger *internal.Logger) *EvaluationService {
	if tuner == nil {
		tuner = threshold.NewTuner(1)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &EvaluationService{
		trainer: trainer,
		reports: reports,
		tuner:   tuner,
		logger:  logger.WithComponent("Evaluation"),
	}
}

// Run trains, tunes and evaluates a prepared dataset and stores the report
func (s *EvaluationService) Run(ctx context.Context, prepared *PreparedDataset) (*classification.PipelineReport, error) {
	if prepared == nil {
		return nil, fmt.Errorf("%w: nothing prepared", core.ErrEmptyOrMalformedTable)
	}
	if s.trainer == nil {
		return nil, core.ErrNoTrainer
	}
	startTime := time.Now()

	model, err := s.trainer.Train(ctx, prepared.TrainingSet())
	if err != nil {
		return nil, errors.ExternalServiceError("trainer", err)
	}

	report := &classification.PipelineReport{
		ID:          prepared.RunID,
		Source:      prepared.Source,
		Fingerprint: prepared.Fingerprint,
		Suitability: prepared.Suitability,
		Algorithm:   prepared.Algorithm,
		Label:       prepared.Label.Name,
		Counts:      prepared.Counts,
		Weights:     prepared.Weights,
		CreatedAt:   core.Now(),
	}
	if report.ID.String() == "" {
		report.ID = core.NewRunID()
	}

	switch prepared.Task {
	case classification.TaskBinary:
		err = s.evaluateBinary(ctx, model, prepared, report)
	case classification.TaskTextual:
		err = s.evaluateTextual(ctx, model, prepared, report)
	default:
		err = core.NewLabelNotFoundError("binary or textual")
	}
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("run %s evaluated in %dms", report.ID, time.Since(startTime).Milliseconds())
	return report, nil
}

// ScoredRun is a binary run whose partitions were scored by an external
// trainer. Validation rows tune the threshold unless Threshold is given;
// test rows are evaluated at the resulting cutoff.
type ScoredRun struct {
	RunID       core.RunID                   `json:"run_id,omitempty"`
	Source      string                       `json:"source"`
	Fingerprint core.Hash                    `json:"fingerprint,omitempty"`
	Suitability classification.Suitability   `json:"suitability,omitempty"`
	Algorithm   classification.Algorithm     `json:"algorithm,omitempty"`
	Label       string                       `json:"label"`
	Counts      dataset.SplitCounts          `json:"counts"`
	Weights     *classification.ClassWeights `json:"weights,omitempty"`
	Validation  []classification.ScoredRow   `json:"validation,omitempty"`
	Test        []classification.ScoredRow   `json:"test"`
	Threshold   *float64                     `json:"threshold,omitempty"`
}

// Record builds a report from externally scored rows and stores it
func (s *EvaluationService) Record(ctx context.Context, run ScoredRun) (*classification.PipelineReport, error) {
	if len(run.Test) == 0 {
		return nil, fmt.Errorf("%w: no scored test rows", core.ErrNoScores)
	}
	if run.RunID.String() == "" {
		run.RunID = core.NewRunID()
	} else if _, err := core.ParseRunID(run.RunID.String()); err != nil {
		return nil, errors.InvalidInput(err.Error())
	}
	if run.Suitability == "" {
		run.Suitability = classification.BinarySuitable
	}
	if run.Counts == (dataset.SplitCounts{}) {
		run.Counts = dataset.SplitCounts{Validation: len(run.Validation), Test: len(run.Test)}
	}

	report := &classification.PipelineReport{
		ID:          run.RunID,
		Source:      run.Source,
		Fingerprint: run.Fingerprint,
		Suitability: run.Suitability,
		Algorithm:   run.Algorithm,
		Label:       run.Label,
		Counts:      run.Counts,
		Weights:     run.Weights,
		CreatedAt:   core.Now(),
	}

	cutoff := threshold.DefaultThreshold
	if len(run.Validation) > 0 {
		result, err := s.Tune(ctx, run.Validation)
		if err != nil {
			return nil, err
		}
		report.Threshold = &result
		cutoff = result.Threshold
	}
	if run.Threshold != nil {
		cutoff = *run.Threshold
	}

	metrics, err := evaluation.Binary(run.Test, cutoff)
	if err != nil {
		return nil, err
	}
	report.Binary = &metrics

	if err := s.save(ctx, report); err != nil {
		return nil, err
	}
	s.logger.Info("run %s recorded: f1=%.3f auc=%.3f at %.2f", report.ID, metrics.F1, metrics.AUC, cutoff)
	return report, nil
}

func (s *EvaluationService) save(ctx context.Context, report *classification.PipelineReport) error {
	if s.reports == nil {
		return nil
	}
	if err := s.reports.Save(ctx, report); err != nil {
		return errors.Wrap(err, "failed to save report")
	}
	return nil
}

// Tune searches the F1-optimal threshold and warns on single-class input
func (s *EvaluationService) Tune(ctx context.Context, rows []classification.ScoredRow) (classification.ThresholdResult, error) {
	result, err := s.tuner.Optimize(ctx, rows)
	if err != nil {
		return result, err
	}
	if result.Degenerate {
		s.logger.Warn("validation rows hold a single class; threshold %.2f has F1 %.3f", result.Threshold, result.F1)
	}
	return result, nil
}

// Report fetches a stored report
func (s *EvaluationService) Report(ctx context.Context, id core.RunID) (*classification.PipelineReport, error) {
	if s.reports == nil {
		return nil, core.NewReportNotFoundError(id.String())
	}
	return s.reports.Get(ctx, id)
}

// Reports lists stored reports, newest first
func (s *EvaluationService) Reports(ctx context.Context, limit, offset int) ([]*classification.PipelineReport, error) {
	if s.reports == nil {
		return nil, nil
	}
	return s.reports.List(ctx, limit, offset)
}

func (s *EvaluationService) evaluateBinary(ctx context.Context, model ports.TrainedModel, prepared *PreparedDataset, report *classification.PipelineReport) error {
	var cutoff float64
	if prepared.Split.HasValidation() && len(prepared.Split.Validation) > 0 {
		outputs, err := model.Predict(ctx, prepared.Split.Validation)
		if err != nil {
			return errors.ExternalServiceError("trainer", err)
		}
		rows, err := evaluation.ScoredRows(outputs)
		if err != nil {
			return err
		}
		result, err := s.Tune(ctx, rows)
		if err != nil {
			return err
		}
		report.Threshold = &result
		cutoff = result.Threshold
	}

	outputs, err := model.Predict(ctx, prepared.Split.Test)
	if err != nil {
		return errors.ExternalServiceError("trainer", err)
	}
	ext, err := evaluation.Extract(outputs)
	if err != nil {
		return err
	}
	if report.Threshold == nil {
		cutoff = evaluation.DefaultCutoff(ext.Source)
		if !model.HasProbability() {
			cutoff = evaluation.DefaultCutoff(classification.SourceRawScore)
		}
	}

	rows, err := evaluation.ScoredRows(outputs)
	if err != nil {
		return err
	}
	metrics, err := evaluation.Binary(rows, cutoff)
	if err != nil {
		return err
	}
	report.Binary = &metrics
	s.logger.Debug("binary test metrics: accuracy=%.3f f1=%.3f auc=%.3f at %.2f", metrics.Accuracy, metrics.F1, metrics.AUC, cutoff)
	return nil
}

func (s *EvaluationService) evaluateTextual(ctx context.Context, model ports.TrainedModel, prepared *PreparedDataset, report *classification.PipelineReport) error {
	outputs, err := model.Predict(ctx, prepared.Split.Test)
	if err != nil {
		return errors.ExternalServiceError("trainer", err)
	}
	metrics, err := evaluation.Multiclass(outputs, prepared.Classes())
	if err != nil {
		return err
	}
	report.Multiclass = &metrics
	s.logger.Debug("multiclass test metrics: accuracy=%.3f macro_f1=%.3f", metrics.Accuracy, metrics.MacroF1)
	return nil
}
