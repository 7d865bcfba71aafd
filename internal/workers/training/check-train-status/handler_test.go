package checktrainstatus

import (
	"bytes"
	"context"
	"testing"

	apperrors "luis-provisioner/internal/common/errors"
	"luis-provisioner/internal/common/logger"
	"luis-provisioner/internal/common/luis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetTrainingStatus(ctx context.Context, appID, version string) ([]luis.ModelTrainingInfo, error) {
	args := m.Called(ctx, appID, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]luis.ModelTrainingInfo), args.Error(1)
}

func model(id, status string) luis.ModelTrainingInfo {
	return luis.ModelTrainingInfo{ModelID: id, Details: luis.ModelTrainingDetails{Status: status}}
}

var testApp = luis.ApplicationInfo{ID: "app-123", Version: "0.1"}

func TestHandler_Execute_PrintsFirstStatusOnly(t *testing.T) {
	client := new(MockClient)
	client.On("GetTrainingStatus", mock.Anything, "app-123", "0.1").Return([]luis.ModelTrainingInfo{
		model("m1", luis.StatusInProgress),
		model("m2", luis.StatusFail),
	}, nil)

	var out bytes.Buffer
	h := NewHandler(LoadConfig(), client, logger.NewTestLogger(t), &out)

	result, err := h.Execute(context.Background(), &Input{App: testApp})
	require.NoError(t, err)
	assert.Equal(t, "InProgress\n", out.String())
	assert.Equal(t, luis.StatusInProgress, result.Status)
	assert.Len(t, result.Models, 2)
}

func TestHandler_Execute_EmptyStatus(t *testing.T) {
	client := new(MockClient)
	client.On("GetTrainingStatus", mock.Anything, mock.Anything, mock.Anything).Return([]luis.ModelTrainingInfo{}, nil)

	h := NewHandler(LoadConfig(), client, logger.NewNoOpLogger(), &bytes.Buffer{})

	_, err := h.Execute(context.Background(), &Input{App: testApp})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeStatusEmpty, apperrors.CodeOf(err))
}
