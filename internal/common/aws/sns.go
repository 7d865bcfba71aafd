// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"luis-provisioner/internal/common/luis"
)

// snsPublisher is the subset of *sns.Client used here.
type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// PublishNotifier announces a published application version on an SNS topic.
type PublishNotifier struct {
	client   snsPublisher
	topicARN string
}

func NewPublishNotifier(ctx context.Context, region, topicARN string) (*PublishNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &PublishNotifier{client: sns.NewFromConfig(cfg), topicARN: topicARN}, nil
}

type publishedMessage struct {
	AppID       string `json:"appId"`
	Version     string `json:"version"`
	IsStaging   bool   `json:"isStaging"`
	EndpointURL string `json:"endpointUrl"`
	Region      string `json:"region,omitempty"`
}

func (n *PublishNotifier) NotifyPublished(ctx context.Context, app luis.ApplicationInfo, info *luis.ProductionOrStagingEndpointInfo) error {
	body, err := json.Marshal(publishedMessage{
		AppID:       app.ID,
		Version:     app.Version,
		IsStaging:   info.IsStaging,
		EndpointURL: info.EndpointURL,
		Region:      info.Region,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal publish notification: %w", err)
	}

	slot := "production"
	if info.IsStaging {
		slot = "staging"
	}

	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(n.topicARN),
		Subject:  awssdk.String(fmt.Sprintf("LUIS app %s version %s published", app.ID, app.Version)),
		Message:  awssdk.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"slot": {DataType: awssdk.String("String"), StringValue: awssdk.String(slot)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish sns notification: %w", err)
	}
	return nil
}
