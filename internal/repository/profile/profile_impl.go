package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/Taichi-iskw/yt-live/internal/errors"
	"github.com/Taichi-iskw/yt-live/internal/model"
	"github.com/Taichi-iskw/yt-live/internal/repository/common"
)

// repository implements Repository using PostgreSQL
type repository struct {
	pool common.Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool common.Pool) Repository {
	return &repository{
		pool: pool,
	}
}

// Create creates a new profile record
func (r *repository) Create(ctx context.Context, profile *model.Profile) error {
	if profile.ID == "" {
		return apperrors.New(apperrors.CodeInvalidArg, "profile ID is required")
	}

	sql := "INSERT INTO profiles (id, name) VALUES ($1, $2)"
	_, err := r.pool.Exec(ctx, sql, profile.ID, profile.Name)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to create profile")
	}
	return nil
}

// GetByID retrieves a profile with its subscriptions
func (r *repository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	sql := "SELECT id, name FROM profiles WHERE id = $1"
	row := r.pool.QueryRow(ctx, sql, id)

	var profile model.Profile
	if err := row.Scan(&profile.ID, &profile.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "profile not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get profile")
	}

	sql = "SELECT channel_id, name, url FROM subscriptions WHERE profile_id = $1 ORDER BY created_at, channel_id"
	rows, err := r.pool.Query(ctx, sql, id)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to get subscriptions")
	}
	defer rows.Close()

	profile.Subscriptions = []model.Channel{}
	for rows.Next() {
		var channel model.Channel
		if err := rows.Scan(&channel.ID, &channel.Name, &channel.URL); err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan subscription row")
		}
		profile.Subscriptions = append(profile.Subscriptions, channel)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate subscription rows")
	}

	return &profile, nil
}

// List retrieves all profiles ordered by ID
func (r *repository) List(ctx context.Context) ([]*model.Profile, error) {
	sql := "SELECT id, name FROM profiles ORDER BY id"
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list profiles")
	}
	defer rows.Close()

	profiles := []*model.Profile{}
	for rows.Next() {
		var profile model.Profile
		if err := rows.Scan(&profile.ID, &profile.Name); err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan profile row")
		}
		profiles = append(profiles, &profile)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate profile rows")
	}

	return profiles, nil
}

// Delete deletes a profile by its ID
func (r *repository) Delete(ctx context.Context, id string) error {
	sql := "DELETE FROM profiles WHERE id = $1"
	tag, err := r.pool.Exec(ctx, sql, id)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to delete profile")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "profile not found")
	}
	return nil
}

// AddSubscription subscribes a profile to a channel
func (r *repository) AddSubscription(ctx context.Context, profileID string, channel model.Channel) error {
	sql := "INSERT INTO subscriptions (profile_id, channel_id, name, url) VALUES ($1, $2, $3, $4)"
	_, err := r.pool.Exec(ctx, sql, profileID, channel.ID, channel.Name, channel.URL)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to add subscription")
	}
	return nil
}

// RemoveSubscription unsubscribes a profile from a channel
func (r *repository) RemoveSubscription(ctx context.Context, profileID, channelID string) error {
	sql := "DELETE FROM subscriptions WHERE profile_id = $1 AND channel_id = $2"
	tag, err := r.pool.Exec(ctx, sql, profileID, channelID)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to remove subscription")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "subscription not found")
	}
	return nil
}

// ImportSubscriptions bulk-inserts subscriptions using COPY FROM
func (r *repository) ImportSubscriptions(ctx context.Context, profileID string, channels []model.Channel) (int64, error) {
	if len(channels) == 0 {
		return 0, nil
	}

	rows := make([][]any, len(channels))
	for i, channel := range channels {
		rows[i] = []any{profileID, channel.ID, channel.Name, channel.URL}
	}

	tableName := pgx.Identifier{"subscriptions"}
	columnNames := []string{"profile_id", "channel_id", "name", "url"}

	n, err := r.pool.CopyFrom(ctx, tableName, columnNames, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, common.HandlePostgreSQLError(err, "failed to import subscriptions using COPY FROM")
	}
	return n, nil
}
