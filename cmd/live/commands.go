package live

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/Taichi-iskw/yt-live/internal/errors"
	"github.com/Taichi-iskw/yt-live/internal/model"
	liveSvc "github.com/Taichi-iskw/yt-live/internal/service/live"
)

// refreshTimeout bounds a whole run of the live command
const refreshTimeout = 10 * time.Minute

// Loader is the part of liveSvc.Feed the command drives
type Loader interface {
	Load(ctx context.Context, profile *model.Profile) liveSvc.State
	Refresh(ctx context.Context, profile *model.Profile) liveSvc.State
}

// ProfileGetter looks up profiles with their subscriptions
type ProfileGetter interface {
	GetByID(ctx context.Context, id string) (*model.Profile, error)
}

// Options are the command line overrides of the stored preferences
type Options struct {
	Backend  string
	ForceRSS bool
	Verbose  bool
}

// Session holds everything one run of the live command needs
type Session struct {
	Feed          Loader
	Profiles      ProfileGetter
	ActiveProfile string
	Close         func()
}

// Factory creates sessions
type Factory interface {
	CreateSession(ctx context.Context, opts Options) (*Session, error)
}

// NewLiveCommand creates the live command
func NewLiveCommand(factory Factory) *cobra.Command {
	var (
		profileID string
		refresh   bool
		opts      Options
		format    string
	)

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Show live streams of subscribed channels",
		Long: `Show the live and upcoming streams of the channels the active profile is subscribed to.
Cached results are used when every channel has one; --refresh always fetches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := GetFormatter(format)
			if err != nil {
				return err
			}
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")

			ctx, cancel := context.WithTimeout(cmd.Context(), refreshTimeout)
			defer cancel()

			session, err := factory.CreateSession(ctx, opts)
			if err != nil {
				return err
			}
			defer session.Close()

			if profileID == "" {
				profileID = session.ActiveProfile
			}
			profile, err := session.Profiles.GetByID(ctx, profileID)
			if err != nil {
				if apperrors.IsNotFound(err) {
					return fmt.Errorf("profile %q not found, create it with 'ytlive profile create'", profileID)
				}
				return fmt.Errorf("failed to load profile: %w", err)
			}

			var state liveSvc.State
			if refresh {
				state = session.Feed.Refresh(ctx, profile)
			} else {
				state = session.Feed.Load(ctx, profile)
			}

			return writeState(cmd.OutOrStdout(), formatter, state)
		},
	}

	cmd.Flags().StringVarP(&profileID, "profile", "p", "", "Profile to show (default: active_profile from config)")
	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "Fetch from remote even when the cache is complete")
	cmd.Flags().BoolVar(&opts.ForceRSS, "rss", false, "Use RSS feeds for this run")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "Backend for this run (local or invidious)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, text)")

	return cmd
}

func writeState(w io.Writer, formatter Formatter, state liveSvc.State) error {
	output, err := formatter.Format(state)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, output)
	return err
}
