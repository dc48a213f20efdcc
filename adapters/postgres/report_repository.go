package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tabclass/domain/classification"
	"tabclass/domain/core"
	"tabclass/ports"
)

// reportRecord is the row shape of classification_reports
type reportRecord struct {
	ID          string         `db:"id"`
	Source      string         `db:"source"`
	Fingerprint string         `db:"fingerprint"`
	Suitability string         `db:"suitability"`
	Algorithm   string         `db:"algorithm"`
	Label       string         `db:"label"`
	TrainRows   int            `db:"train_rows"`
	ValRows     int            `db:"validation_rows"`
	TestRows    int            `db:"test_rows"`
	Weights     sql.NullString `db:"weights"`
	Threshold   sql.NullString `db:"threshold"`
	Binary      sql.NullString `db:"binary_metrics"`
	Multiclass  sql.NullString `db:"multiclass_metrics"`
	CreatedAt   time.Time      `db:"created_at"`
}

const reportColumns = `id, source, fingerprint, suitability, algorithm, label,
	train_rows, validation_rows, test_rows,
	weights, threshold, binary_metrics, multiclass_metrics, created_at`

// reportRepository implements the ReportRepository interface
type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &reportRepository{db: db}
}

// Save inserts a report, replacing any earlier report with the same ID
func (r *reportRepository) Save(ctx context.Context, report *classification.PipelineReport) error {
	record, err := toRecord(report)
	if err != nil {
		return err
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO classification_reports (`+reportColumns+`) VALUES (
			:id, :source, :fingerprint, :suitability, :algorithm, :label,
			:train_rows, :validation_rows, :test_rows,
			:weights, :threshold, :binary_metrics, :multiclass_metrics, :created_at
		)
		ON CONFLICT (id) DO UPDATE SET
			threshold = EXCLUDED.threshold,
			binary_metrics = EXCLUDED.binary_metrics,
			multiclass_metrics = EXCLUDED.multiclass_metrics
	`, record)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Get retrieves a report by its run ID
func (r *reportRepository) Get(ctx context.Context, id core.RunID) (*classification.PipelineReport, error) {
	var record reportRecord
	err := r.db.GetContext(ctx, &record, `SELECT `+reportColumns+` FROM classification_reports WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewReportNotFoundError(id.String())
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return fromRecord(record)
}

// List returns reports newest first
func (r *reportRepository) List(ctx context.Context, limit, offset int) ([]*classification.PipelineReport, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var records []reportRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT `+reportColumns+`
		FROM classification_reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]*classification.PipelineReport, 0, len(records))
	for _, record := range records {
		report, err := fromRecord(record)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func toRecord(report *classification.PipelineReport) (reportRecord, error) {
	if report == nil {
		return reportRecord{}, fmt.Errorf("report is nil")
	}
	created := report.CreatedAt.Time()
	if report.CreatedAt.IsZero() {
		created = time.Now().UTC()
	}

	record := reportRecord{
		ID:          report.ID.String(),
		Source:      report.Source,
		Fingerprint: report.Fingerprint.String(),
		Suitability: string(report.Suitability),
		Algorithm:   string(report.Algorithm),
		Label:       report.Label,
		TrainRows:   report.Counts.Train,
		ValRows:     report.Counts.Validation,
		TestRows:    report.Counts.Test,
		CreatedAt:   created,
	}

	var err error
	if record.Weights, err = marshalOptional(report.Weights, "weights"); err != nil {
		return record, err
	}
	if record.Threshold, err = marshalOptional(report.Threshold, "threshold"); err != nil {
		return record, err
	}
	if record.Binary, err = marshalOptional(report.Binary, "binary metrics"); err != nil {
		return record, err
	}
	if record.Multiclass, err = marshalOptional(report.Multiclass, "multiclass metrics"); err != nil {
		return record, err
	}
	return record, nil
}

func fromRecord(record reportRecord) (*classification.PipelineReport, error) {
	report := &classification.PipelineReport{
		ID:          core.RunID(record.ID),
		Source:      record.Source,
		Fingerprint: core.Hash(record.Fingerprint),
		Suitability: classification.Suitability(record.Suitability),
		Algorithm:   classification.Algorithm(record.Algorithm),
		Label:       record.Label,
		CreatedAt:   core.NewTimestamp(record.CreatedAt),
	}
	report.Counts.Train = record.TrainRows
	report.Counts.Validation = record.ValRows
	report.Counts.Test = record.TestRows

	if record.Weights.Valid {
		report.Weights = &classification.ClassWeights{}
		if err := json.Unmarshal([]byte(record.Weights.String), report.Weights); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weights: %w", err)
		}
	}
	if record.Threshold.Valid {
		report.Threshold = &classification.ThresholdResult{}
		if err := json.Unmarshal([]byte(record.Threshold.String), report.Threshold); err != nil {
			return nil, fmt.Errorf("failed to unmarshal threshold: %w", err)
		}
	}
	if record.Binary.Valid {
		report.Binary = &classification.BinaryMetrics{}
		if err := json.Unmarshal([]byte(record.Binary.String), report.Binary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal binary metrics: %w", err)
		}
	}
	if record.Multiclass.Valid {
		report.Multiclass = &classification.MulticlassMetrics{}
		if err := json.Unmarshal([]byte(record.Multiclass.String), report.Multiclass); err != nil {
			return nil, fmt.Errorf("failed to unmarshal multiclass metrics: %w", err)
		}
	}
	return report, nil
}

// marshalOptional stores nil sections as SQL NULL
func marshalOptional[T any](v *T, what string) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
