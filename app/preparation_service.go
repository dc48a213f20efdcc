package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tabclass/domain/classification"
	"tabclass/domain/core"
	"tabclass/domain/dataset"
	"tabclass/internal"
	"tabclass/internal/characterize"
	"tabclass/internal/config"
	"tabclass/internal/features"
	"tabclass/internal/partition"
	"tabclass/internal/weighting"
	"tabclass/ports"
)

// PreparationService is the pipeline entry point: it characterizes a table,
// picks its label and produces the partitions handed to a trainer
type PreparationService struct {
	loader ports.TableLoader
	config config.PipelineConfig
	logger *internal.Logger
}

// PrepareRequest carries the user's file selection and algorithm choice
type PrepareRequest struct {
	Path  string
	Table *dataset.Table // used instead of Path when set
	// Algorithm selects the preparation variant; empty means none
	Algorithm string
	// FeatureCount, when positive, must match the detected feature count
	FeatureCount int
	Validation   bool
	LabelsToKeep []string // textual tasks only
}

// CharacterizeResult describes a table's suitability for classification
type CharacterizeResult struct {
	Source      string                       `json:"source"`
	Fingerprint core.Hash                    `json:"fingerprint"`
	Suitability classification.Suitability   `json:"suitability"`
	Description string                       `json:"description"`
	Label       *dataset.LabelColumn         `json:"label,omitempty"`
	Rows        int                          `json:"rows"`
	Columns     int                          `json:"columns"`
	Headers     []string                     `json:"headers"`
	Profiles    []characterize.ColumnProfile `json:"profiles"`
}

// PreparedDataset is the output of preparation
type PreparedDataset struct {
	RunID        core.RunID                   `json:"run_id"`
	Source       string                       `json:"source"`
	Fingerprint  core.Hash                    `json:"fingerprint"`
	Suitability  classification.Suitability   `json:"suitability"`
	Task         classification.TaskKind      `json:"task"`
	Algorithm    classification.Algorithm     `json:"algorithm"`
	Label        dataset.LabelColumn          `json:"label"`
	Text         *dataset.LabelColumn         `json:"text,omitempty"`
	Features     []string                     `json:"features"`
	Split        dataset.Split                `json:"-"`
	Counts       dataset.SplitCounts          `json:"counts"`
	Weights      *classification.ClassWeights `json:"weights,omitempty"`
	TrainWeights []float64                    `json:"-"`
	Standardizer *features.Standardizer       `json:"standardizer,omitempty"`
	Generic      bool                         `json:"generic"`
	RuntimeMs    int64                        `json:"runtime_ms"`
}

// TrainingSet builds the trainer input from the training partition
func (p *PreparedDataset) TrainingSet() ports.TrainingSet {
	return ports.TrainingSet{
		Columns:   p.Split.Columns,
		Label:     p.Label,
		Features:  p.Features,
		Rows:      p.Split.Train,
		Weights:   p.TrainWeights,
		Task:      p.Task,
		Algorithm: p.Algorithm,
	}
}

// Classes returns the sorted distinct training labels
func (p *PreparedDataset) Classes() []string {
	seen := make(map[string]struct{})
	for _, row := range p.Split.Train {
		seen[p.Label.Of(row).String()] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

// NewPreparationService creates a preparation service
func NewPreparationService(loader ports.TableLoader, cfg config.PipelineConfig, logger *internal.Logger) *PreparationService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PreparationService{
		loader: loader,
		config: cfg,
		logger: logger.WithComponent("Preparation"),
	}
}

// Characterize loads a table and reports its suitability and label column
func (s *PreparationService) Characterize(ctx context.Context, req PrepareRequest) (*CharacterizeResult, error) {
	table, source, err := s.resolveTable(ctx, req)
	if err != nil {
		return nil, err
	}

	label, suitability, ok := characterize.FindLabelColumn(table)
	result := &CharacterizeResult{
		Source:      source,
		Fingerprint: table.Fingerprint(),
		Suitability: suitability,
		Description: suitability.Describe(),
		Rows:        table.RowCount(),
		Columns:     table.ColumnCount(),
		Headers:     table.Headers(),
		Profiles:    characterize.Profile(table),
	}
	if ok {
		result.Label = &label
	}
	s.logger.Info("%s: %s (%d rows, %d columns)", source, suitability, result.Rows, result.Columns)
	return result, nil
}

// Prepare runs the classification preparation for the detected or
// requested task
func (s *PreparationService) Prepare(ctx context.Context, req PrepareRequest) (*PreparedDataset, error) {
	startTime := time.Now()

	algorithm, err := classification.ParseAlgorithm(req.Algorithm)
	if err != nil {
		return nil, err
	}

	table, source, err := s.resolveTable(ctx, req)
	if err != nil {
		return nil, err
	}

	suitability := characterize.Classify(table)
	task := algorithm.Task()
	if task == "" {
		task = suitability.Task()
	}

	var prepared *PreparedDataset
	switch task {
	case classification.TaskBinary:
		prepared, err = s.prepareBinary(table, algorithm, req)
	case classification.TaskTextual:
		prepared, err = s.prepareTextual(table, algorithm, req)
	default:
		err = core.NewLabelNotFoundError("binary or textual")
	}
	if err != nil {
		s.logger.Warn("%s: preparation failed: %v", source, err)
		return nil, err
	}

	if req.FeatureCount > 0 && req.FeatureCount != len(prepared.Features) {
		return nil, fmt.Errorf("%w: expected %d features, found %d", core.ErrEmptyOrMalformedTable, req.FeatureCount, len(prepared.Features))
	}

	prepared.RunID = core.NewRunID()
	prepared.Source = source
	prepared.Fingerprint = table.Fingerprint()
	prepared.Suitability = suitability
	prepared.Counts = prepared.Split.Counts()
	prepared.RuntimeMs = time.Since(startTime).Milliseconds()

	s.logger.Info("%s: prepared %s task on %q with %s (train=%d validation=%d test=%d)",
		source, prepared.Task, prepared.Label.Name, algorithmName(prepared.Algorithm),
		prepared.Counts.Train, prepared.Counts.Validation, prepared.Counts.Test)
	return prepared, nil
}

// PrepareGeneric splits a table without task-specific handling. The label
// is the detected label column, or the last column when none qualifies.
func (s *PreparationService) PrepareGeneric(ctx context.Context, req PrepareRequest) (*PreparedDataset, error) {
	startTime := time.Now()

	table, source, err := s.resolveTable(ctx, req)
	if err != nil {
		return nil, err
	}

	label, suitability, ok := characterize.FindLabelColumn(table)
	if !ok {
		last := len(table.Columns) - 1
		label = dataset.LabelColumn{Name: table.Columns[last].Name, Index: last, Kind: table.Columns[last].Kind}
		s.logger.Debug("%s: no eligible label, using last column %q", source, label.Name)
	}

	opts := s.splitOptions(req.Validation, suitability == classification.BinarySuitable)
	split, err := partition.Split(table, label, opts)
	if err != nil {
		return nil, err
	}

	return &PreparedDataset{
		RunID:       core.NewRunID(),
		Source:      source,
		Fingerprint: table.Fingerprint(),
		Suitability: suitability,
		Task:        suitability.Task(),
		Algorithm:   classification.AlgorithmNone,
		Label:       label,
		Features:    features.Names(len(table.Columns) - 1),
		Split:       split,
		Counts:      split.Counts(),
		Generic:     true,
		RuntimeMs:   time.Since(startTime).Milliseconds(),
	}, nil
}

func (s *PreparationService) prepareBinary(table *dataset.Table, algorithm classification.Algorithm, req PrepareRequest) (*PreparedDataset, error) {
	label, ok := characterize.FindHintedBinaryColumn(table, characterize.DefaultLabelHints)
	if !ok {
		label, ok = characterize.FindBinaryColumn(table)
	}
	if !ok {
		return nil, core.NewLabelNotFoundError("binary")
	}

	rows := partition.DropIncomplete(table.Rows, label, nil)
	if dropped := table.RowCount() - len(rows); dropped > 0 {
		s.logger.Debug("dropped %d rows with a null label", dropped)
	}

	split, err := partition.Split(table.WithRows(rows), label, s.splitOptions(req.Validation, true))
	if err != nil {
		return nil, err
	}

	standardizer := features.Fit(split.Columns, label, split.Train)
	split = standardizer.Apply(split)

	prepared := &PreparedDataset{
		Task:         classification.TaskBinary,
		Algorithm:    algorithm,
		Label:        label,
		Features:     features.Names(len(table.Columns) - 1),
		Split:        split,
		Standardizer: standardizer,
	}

	if algorithm.UsesInstanceWeights() {
		weights, trainWeights, err := weighting.Weigh(split.Train, label)
		if err != nil {
			return nil, err
		}
		prepared.Weights = &weights
		prepared.TrainWeights = trainWeights
		s.logger.Debug("class weights true=%.4f false=%.4f", weights.True, weights.False)
	}
	return prepared, nil
}

func (s *PreparationService) prepareTextual(table *dataset.Table, algorithm classification.Algorithm, req PrepareRequest) (*PreparedDataset, error) {
	if algorithm.Task() != classification.TaskTextual {
		return nil, fmt.Errorf("%w: textual preparation needs %s or %s", core.ErrNoAlgorithmSelected,
			classification.AlgorithmNaiveBayes, classification.AlgorithmFastForest)
	}

	label, ok := characterize.FindTextualColumn(table)
	if !ok {
		return nil, core.NewLabelNotFoundError("textual")
	}

	var textCol *dataset.LabelColumn
	if text, ok := characterize.TextFeatureColumn(table, label); ok {
		textCol = &text
	}

	rows := partition.DropIncomplete(table.Rows, label, textCol)
	rows = partition.FilterLabels(rows, label, req.LabelsToKeep)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows left after filtering", core.ErrEmptyOrMalformedTable)
	}

	split, err := partition.Split(table.WithRows(rows), label, s.splitOptions(req.Validation, false))
	if err != nil {
		return nil, err
	}

	balanced, err := partition.Balance(split.Train, label, s.config.MaxBalancedRows)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("balanced training rows %d -> %d", len(split.Train), len(balanced))
	split.Train = balanced

	return &PreparedDataset{
		Task:      classification.TaskTextual,
		Algorithm: algorithm,
		Label:     label,
		Text:      textCol,
		Features:  features.Names(len(table.Columns) - 1),
		Split:     split,
	}, nil
}

func (s *PreparationService) resolveTable(ctx context.Context, req PrepareRequest) (*dataset.Table, string, error) {
	table, source := req.Table, req.Path
	if table == nil {
		if s.loader == nil || req.Path == "" {
			return nil, "", fmt.Errorf("%w: no table or file given", core.ErrEmptyOrMalformedTable)
		}
		loaded, err := s.loader.Load(ctx, req.Path)
		if err != nil {
			return nil, "", err
		}
		table = loaded
	}
	if source == "" {
		source = "inline"
	}
	if table.IsEmpty() {
		return nil, "", fmt.Errorf("%w: %s has no rows or columns", core.ErrEmptyOrMalformedTable, source)
	}
	return table, source, nil
}

func (s *PreparationService) splitOptions(validation, stratify bool) partition.Options {
	opts := s.config.SplitOptions()
	opts.WithValidation = validation
	opts.Stratify = stratify
	return opts
}

func algorithmName(a classification.Algorithm) string {
	if a == classification.AlgorithmNone {
		return "no algorithm"
	}
	return string(a)
}
