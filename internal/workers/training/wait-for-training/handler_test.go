package waitfortraining

import (
	"bytes"
	"context"
	"testing"
	"time"

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

func statuses(s ...string) []luis.ModelTrainingInfo {
	out := make([]luis.ModelTrainingInfo, len(s))
	for i, v := range s {
		out[i] = luis.ModelTrainingInfo{ModelID: string(rune('a' + i)), Details: luis.ModelTrainingDetails{Status: v}}
	}
	return out
}

var testApp = luis.ApplicationInfo{ID: "app-123", Version: "0.1"}

func fastConfig() *Config {
	return &Config{PollInterval: time.Millisecond, MaxWait: time.Second}
}

func TestHandler_Execute_PollsUntilTerminal(t *testing.T) {
	client := new(MockClient)
	client.On("GetTrainingStatus", mock.Anything, "app-123", "0.1").Return(statuses(luis.StatusQueued, luis.StatusQueued), nil).Once()
	client.On("GetTrainingStatus", mock.Anything, "app-123", "0.1").Return(statuses(luis.StatusSuccess, luis.StatusInProgress), nil).Once()
	client.On("GetTrainingStatus", mock.Anything, "app-123", "0.1").Return(statuses(luis.StatusSuccess, luis.StatusUpToDate), nil).Once()

	var out bytes.Buffer
	h := NewHandler(fastConfig(), client, logger.NewTestLogger(t), &out)

	result, err := h.Execute(context.Background(), &Input{App: testApp})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Polls)
	assert.True(t, result.Publishable)
	assert.Equal(t, "Training status: Success\n", out.String())
	client.AssertExpectations(t)
}

func TestHandler_Execute_Failure(t *testing.T) {
	failed := statuses(luis.StatusSuccess, luis.StatusFail)
	failed[1].Details.FailureReason = "FewLabels"

	client := new(MockClient)
	client.On("GetTrainingStatus", mock.Anything, mock.Anything, mock.Anything).Return(failed, nil)

	h := NewHandler(fastConfig(), client, logger.NewNoOpLogger(), &bytes.Buffer{})

	_, err := h.Execute(context.Background(), &Input{App: testApp})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTrainingFailed, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "b: FewLabels")
}

func TestHandler_Execute_Timeout(t *testing.T) {
	client := new(MockClient)
	client.On("GetTrainingStatus", mock.Anything, mock.Anything, mock.Anything).Return(statuses(luis.StatusInProgress), nil)

	h := NewHandler(&Config{PollInterval: 5 * time.Millisecond, MaxWait: 30 * time.Millisecond}, client, logger.NewNoOpLogger(), &bytes.Buffer{})

	_, err := h.Execute(context.Background(), &Input{App: testApp})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTrainingTimeout, apperrors.CodeOf(err))
}

func TestHandler_Execute_ParentCancelled(t *testing.T) {
	client := new(MockClient)
	client.On("GetTrainingStatus", mock.Anything, mock.Anything, mock.Anything).Return(statuses(luis.StatusQueued), nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	h := NewHandler(&Config{PollInterval: 2 * time.Millisecond, MaxWait: time.Minute}, client, logger.NewNoOpLogger(), &bytes.Buffer{})

	_, err := h.Execute(ctx, &Input{App: testApp})
	require.ErrorIs(t, err, context.Canceled)
}

func TestTerminal(t *testing.T) {
	done, pending := terminal(nil)
	assert.False(t, done)
	assert.Zero(t, pending)

	done, pending = terminal(statuses(luis.StatusSuccess, luis.StatusQueued, luis.StatusInProgress))
	assert.False(t, done)
	assert.Equal(t, 2, pending)

	done, _ = terminal(statuses(luis.StatusFail, luis.StatusUpToDate))
	assert.True(t, done)
}
