package publishversion

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"luis-provisioner/internal/common/logger"
	"luis-provisioner/internal/common/luis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Publish(ctx context.Context, appID string, obj luis.ApplicationPublishObject) (*luis.ProductionOrStagingEndpointInfo, error) {
	args := m.Called(ctx, appID, obj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*luis.ProductionOrStagingEndpointInfo), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyPublished(ctx context.Context, app luis.ApplicationInfo, info *luis.ProductionOrStagingEndpointInfo) error {
	return m.Called(ctx, app, info).Error(0)
}

var testApp = luis.ApplicationInfo{ID: "app-123", Version: "0.1"}

const endpointURL = "https://westus.api.cognitive.microsoft.com/luis/v2.0/apps/app-123"

func TestHandler_Execute_Staging(t *testing.T) {
	info := &luis.ProductionOrStagingEndpointInfo{VersionID: "0.1", IsStaging: true, EndpointURL: endpointURL, Region: "westus"}

	client := new(MockClient)
	client.On("Publish", mock.Anything, "app-123", luis.ApplicationPublishObject{VersionID: "0.1", IsStaging: true}).Return(info, nil).Once()

	notifier := new(MockNotifier)
	notifier.On("NotifyPublished", mock.Anything, testApp, info).Return(nil).Once()

	var out bytes.Buffer
	h := NewHandler(&Config{IsStaging: true}, client, notifier, logger.NewTestLogger(t), &out)

	result, err := h.Execute(context.Background(), &Input{App: testApp})
	require.NoError(t, err)
	assert.Equal(t, endpointURL, result.EndpointURL)
	assert.True(t, result.IsStaging)
	assert.Equal(t, "Endpoint URL: "+endpointURL+"\n", out.String())
	client.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestHandler_Execute_NotifierFailureIsNotFatal(t *testing.T) {
	client := new(MockClient)
	client.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(&luis.ProductionOrStagingEndpointInfo{EndpointURL: endpointURL}, nil)

	notifier := new(MockNotifier)
	notifier.On("NotifyPublished", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("sns down"))

	h := NewHandler(&Config{IsStaging: true}, client, notifier, logger.NewNoOpLogger(), &bytes.Buffer{})

	result, err := h.Execute(context.Background(), &Input{App: testApp})
	require.NoError(t, err)
	assert.Equal(t, endpointURL, result.EndpointURL)
}

func TestHandler_Execute_Error(t *testing.T) {
	client := new(MockClient)
	client.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("400 version not trained"))

	var out bytes.Buffer
	h := NewHandler(&Config{IsStaging: true}, client, nil, logger.NewNoOpLogger(), &out)

	_, err := h.Execute(context.Background(), &Input{App: testApp})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish version 0.1")
	assert.Empty(t, out.String())
}
