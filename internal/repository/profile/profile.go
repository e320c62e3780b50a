package profile

import (
	"context"

	"github.com/Taichi-iskw/yt-live/internal/model"
)

// Repository defines operations for Profile and subscription persistence
type Repository interface {
	// Create creates a new profile record (subscriptions are ignored)
	Create(ctx context.Context, profile *model.Profile) error

	// GetByID retrieves a profile with its subscription list
	GetByID(ctx context.Context, id string) (*model.Profile, error)

	// List retrieves all profiles without their subscriptions
	List(ctx context.Context) ([]*model.Profile, error)

	// Delete deletes a profile and its subscriptions
	Delete(ctx context.Context, id string) error

	// AddSubscription subscribes a profile to a channel
	AddSubscription(ctx context.Context, profileID string, channel model.Channel) error

	// RemoveSubscription unsubscribes a profile from a channel
	RemoveSubscription(ctx context.Context, profileID, channelID string) error

	// ImportSubscriptions bulk-inserts subscriptions and returns the number of rows copied
	ImportSubscriptions(ctx context.Context, profileID string, channels []model.Channel) (int64, error)
}
