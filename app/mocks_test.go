package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tabclass/domain/classification"
	"tabclass/domain/dataset"
	"tabclass/ports"
)

type MockTableLoader struct {
	mock.Mock
}

func (m *MockTableLoader) Load(ctx context.Context, path string) (*dataset.Table, error) {
	args := m.Called(ctx, path)
	table, _ := args.Get(0).(*dataset.Table)
	return table, args.Error(1)
}

type MockModelTrainer struct {
	mock.Mock
}

func (m *MockModelTrainer) Train(ctx context.Context, set ports.TrainingSet) (ports.TrainedModel, error) {
	args := m.Called(ctx, set)
	model, _ := args.Get(0).(ports.TrainedModel)
	return model, args.Error(1)
}

type MockTrainedModel struct {
	mock.Mock
}

func (m *MockTrainedModel) Predict(ctx context.Context, rows []dataset.Row) ([]classification.ModelOutput, error) {
	args := m.Called(ctx, rows)
	outputs, _ := args.Get(0).([]classification.ModelOutput)
	return outputs, args.Error(1)
}

func (m *MockTrainedModel) HasProbability() bool {
	return m.Called().Bool(0)
}
