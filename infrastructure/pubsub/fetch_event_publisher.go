package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"yt-channel-fetcher/domain/dto"
	"yt-channel-fetcher/domain/repository"
	"yt-channel-fetcher/infrastructure/logger"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

const EventFetchCompleted = "channel.fetch.completed"

// NewPubSub connects to Pub/Sub. An empty project ID disables publishing.
func NewPubSub(ctx context.Context, projectID string, opts ...option.ClientOption) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, errors.New("pubsub project id is empty")
	}
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return client, nil
}

type FetchEventPublisher struct {
	client  *pubsub.Client
	topicID string

	mu    sync.Mutex
	topic *pubsub.Topic
}

// NewFetchEventPublisher returns a publisher that does nothing when client is nil.
func NewFetchEventPublisher(client *pubsub.Client, topicID string) *FetchEventPublisher {
	return &FetchEventPublisher{client: client, topicID: topicID}
}

var _ repository.IFetchEventPublisher = (*FetchEventPublisher)(nil)

func (p *FetchEventPublisher) PublishFetchCompleted(ctx context.Context, event *dto.FetchCompletedEvent) error {
	if p.client == nil || p.topicID == "" {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal fetch event: %w", err)
	}
	topic, err := p.ensureTopic(ctx)
	if err != nil {
		return err
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event":      EventFetchCompleted,
			"channel_id": event.ChannelID,
		},
	}).Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to publish fetch event: %w", err)
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"server_id":  serverID,
		"channel_id": event.ChannelID,
	}).Info("Fetch event published")
	return nil
}

// Stop flushes pending messages.
func (p *FetchEventPublisher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		p.topic.Stop()
	}
}

func (p *FetchEventPublisher) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		return p.topic, nil
	}

	topic := p.client.Topic(p.topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic %s: %w", p.topicID, err)
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topicID).Info("Topic doesn't exist - creating it")
		if topic, err = p.client.CreateTopic(ctx, p.topicID); err != nil {
			return nil, fmt.Errorf("failed to create topic %s: %w", p.topicID, err)
		}
	}
	p.topic = topic
	return topic, nil
}
