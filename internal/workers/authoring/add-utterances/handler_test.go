package addutterances

import (
	"bytes"
	"context"
	"errors"
	"testing"

	apperrors "luis-provisioner/internal/common/errors"
	"luis-provisioner/internal/common/logger"
	"luis-provisioner/internal/common/luis"
	"luis-provisioner/internal/labeling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) BatchExamples(ctx context.Context, appID, version string, examples []luis.ExampleLabelObject) ([]luis.BatchLabelExample, error) {
	args := m.Called(ctx, appID, version, examples)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]luis.BatchLabelExample), args.Error(1)
}

var testApp = luis.ApplicationInfo{ID: "app-123", Version: "0.1"}

func pictureBotUtterances() []labeling.Utterance {
	return []labeling.Utterance{
		{Intent: "SearchPic", Text: "find outdoor pics", Labels: map[string]string{"facet": "outdoor"}},
		{Intent: "SearchPic", Text: "are there pictures of a train?", Labels: map[string]string{"facet": "train"}},
		{Intent: "SearchPic", Text: "show me baby pics", Labels: map[string]string{"facet": "baby"}},
	}
}

func success(id int, text string) luis.BatchLabelExample {
	return luis.BatchLabelExample{Value: luis.LabelExampleResponse{ExampleID: id, UtteranceText: text}}
}

func TestHandler_Execute_Success(t *testing.T) {
	client := new(MockClient)
	client.On("BatchExamples", mock.Anything, "app-123", "0.1", mock.MatchedBy(func(ex []luis.ExampleLabelObject) bool {
		return len(ex) == 3 &&
			ex[0].EntityLabels[0] == luis.EntityLabelObject{EntityName: "facet", StartCharIndex: 5, EndCharIndex: 12} &&
			ex[1].EntityLabels[0] == luis.EntityLabelObject{EntityName: "facet", StartCharIndex: 24, EndCharIndex: 29} &&
			ex[2].IntentName == "SearchPic"
	})).Return([]luis.BatchLabelExample{
		success(11, "find outdoor pics"),
		success(12, "are there pictures of a train?"),
		success(13, "show me baby pics"),
	}, nil).Once()

	var out bytes.Buffer
	h := NewHandler(&Config{Utterances: pictureBotUtterances()}, client, logger.NewTestLogger(t), &out)

	result, err := h.Execute(context.Background(), &Input{App: testApp})
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 3)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, "are there pictures of a train?", result.Outcomes[1].Text)
	assert.Equal(t, "11 succeeded\n12 succeeded\n13 succeeded\n", out.String())
	client.AssertExpectations(t)
}

func TestHandler_Execute_PartialFailureIsReported(t *testing.T) {
	client := new(MockClient)
	client.On("BatchExamples", mock.Anything, "app-123", "0.1", mock.Anything).Return([]luis.BatchLabelExample{
		success(11, "find outdoor pics"),
		{HasError: true, Error: &luis.OperationError{Code: "FAILED", Message: "intent does not exist"}},
		success(13, "show me baby pics"),
	}, nil)

	var out bytes.Buffer
	h := NewHandler(&Config{Utterances: pictureBotUtterances()}, client, logger.NewNoOpLogger(), &out)

	result, err := h.Execute(context.Background(), &Input{App: testApp})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.False(t, result.Outcomes[1].Succeeded)
	assert.Equal(t, "intent does not exist", result.Outcomes[1].Error)
	assert.Equal(t, "11 succeeded\n0 failed\n13 succeeded\n", out.String())
}

func TestHandler_Execute_OutcomeCountMismatch(t *testing.T) {
	client := new(MockClient)
	client.On("BatchExamples", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]luis.BatchLabelExample{success(11, "find outdoor pics")}, nil)

	h := NewHandler(&Config{Utterances: pictureBotUtterances()}, client, logger.NewNoOpLogger(), &bytes.Buffer{})

	_, err := h.Execute(context.Background(), &Input{App: testApp})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeBatchOutcomeMismatch, apperrors.CodeOf(err))
}

func TestHandler_Execute_UnresolvedLabel(t *testing.T) {
	utterances := []labeling.Utterance{
		{Intent: "SearchPic", Text: "show me beach pics", Labels: map[string]string{"facet": "mountain"}},
	}

	t.Run("strict mode fails before submission", func(t *testing.T) {
		client := new(MockClient)
		h := NewHandler(&Config{Utterances: utterances, Mode: labeling.Strict}, client, logger.NewNoOpLogger(), &bytes.Buffer{})

		_, err := h.Execute(context.Background(), &Input{App: testApp})
		require.Error(t, err)
		assert.ErrorIs(t, err, labeling.ErrValueNotFound)
		assert.Contains(t, err.Error(), "label utterance 0")
		client.AssertNotCalled(t, "BatchExamples")
	})

	t.Run("legacy mode submits the unresolved span", func(t *testing.T) {
		client := new(MockClient)
		client.On("BatchExamples", mock.Anything, "app-123", "0.1", []luis.ExampleLabelObject{{
			Text:         "show me beach pics",
			IntentName:   "SearchPic",
			EntityLabels: []luis.EntityLabelObject{{EntityName: "facet", StartCharIndex: -1, EndCharIndex: 7}},
		}}).Return([]luis.BatchLabelExample{{HasError: true}}, nil).Once()

		h := NewHandler(&Config{Utterances: utterances, Mode: labeling.Legacy}, client, logger.NewNoOpLogger(), &bytes.Buffer{})

		result, err := h.Execute(context.Background(), &Input{App: testApp})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		client.AssertExpectations(t)
	})
}

func TestHandler_Execute_TransportError(t *testing.T) {
	client := new(MockClient)
	client.On("BatchExamples", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("EOF"))

	h := NewHandler(&Config{Utterances: pictureBotUtterances()}, client, logger.NewNoOpLogger(), &bytes.Buffer{})

	_, err := h.Execute(context.Background(), &Input{App: testApp})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "submit 3 examples")
}
