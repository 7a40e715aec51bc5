package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	errProjectIDRequired = errors.New("gcp project id is required")
	errNotInitialized    = errors.New("pubsub client not initialized")
)

// Client holds the discount topic and subscription resource names for one
// GCP project. Both must exist before the client is handed out.
type Client struct {
	client       *pubsub.Client
	topic        string
	subscription string
}

func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	project := strings.TrimSpace(gcp.ProjectID)
	if project == "" {
		return nil, errProjectIDRequired
	}
	topic := resourceName(project, "topics", cfg.DiscountsTopic)
	subscription := resourceName(project, "subscriptions", cfg.DiscountsSubscription)
	if topic == "" || subscription == "" {
		return nil, errors.New("pubsub discounts topic and subscription are required")
	}

	raw, err := pubsub.NewClient(ctx, project, clientOptions(gcp)...)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}
	c := &Client{client: raw, topic: topic, subscription: subscription}
	if err := c.verify(ctx); err != nil {
		_ = raw.Close()
		return nil, err
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{"topic": topic, "subscription": subscription}), "pubsub.connected")
	}
	return c, nil
}

// clientOptions prefers inline credentials over a key file; with neither the
// client uses application default credentials.
func clientOptions(gcp config.GCPConfig) []option.ClientOption {
	if js := strings.TrimSpace(gcp.CredentialsJSON); js != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(js))}
	}
	if path := strings.TrimSpace(gcp.ApplicationCredentials); path != "" {
		return []option.ClientOption{option.WithCredentialsFile(path)}
	}
	return nil
}

// verify checks the topic exists and the subscription is attached to it.
func (c *Client) verify(ctx context.Context) error {
	if _, err := c.client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: c.topic}); err != nil {
		return lookupError("topic", c.topic, err)
	}
	sub, err := c.client.SubscriptionAdminClient.GetSubscription(ctx, &pubsubpb.GetSubscriptionRequest{Subscription: c.subscription})
	if err != nil {
		return lookupError("subscription", c.subscription, err)
	}
	return checkAttached(sub.GetTopic(), c.topic, c.subscription)
}

func checkAttached(actualTopic, wantTopic, subscription string) error {
	if actualTopic != wantTopic {
		return fmt.Errorf("subscription %s reads %s, expected %s", subscription, actualTopic, wantTopic)
	}
	return nil
}

func lookupError(kind, name string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("pubsub %s %s does not exist", kind, name)
	}
	return fmt.Errorf("checking pubsub %s %s: %w", kind, name, err)
}

func (c *Client) DiscountsPublisher() *pubsub.Publisher {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Publisher(c.topic)
}

func (c *Client) DiscountsSubscription() *pubsub.Subscriber {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Subscriber(c.subscription)
}

// Ping re-runs the startup resource checks.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errNotInitialized
	}
	return c.verify(ctx)
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// resourceName expands a bare id to projects/<p>/<kind>/<id>; qualified
// names pass through.
func resourceName(projectID, kind, name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return ""
	case strings.HasPrefix(name, "projects/") && strings.Contains(name, "/"+kind+"/"):
		return name
	case strings.TrimSpace(projectID) == "":
		return ""
	}
	return "projects/" + strings.TrimSpace(projectID) + "/" + kind + "/" + name
}
