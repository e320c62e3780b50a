package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Taichi-iskw/yt-live/internal/config"
	"github.com/Taichi-iskw/yt-live/internal/model"
	"github.com/Taichi-iskw/yt-live/internal/repository/profile"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile and subscription operations",
	Long:  `Manage profiles and the channels they are subscribed to.`,
}

// profileCreateCmd creates a profile
var profileCreateCmd = &cobra.Command{
	Use:   "create [ID] [NAME]",
	Short: "Create a profile",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := &model.Profile{ID: args[0], Name: args[0]}
		if len(args) > 1 {
			p.Name = args[1]
		}

		return withProfileRepository(func(ctx context.Context, repo profile.Repository) error {
			if err := repo.Create(ctx, p); err != nil {
				return fmt.Errorf("failed to create profile: %w", err)
			}
			fmt.Printf("Profile created: %s\n", p.ID)
			return nil
		})
	},
}

// profileListCmd lists all profiles
var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProfileRepository(func(ctx context.Context, repo profile.Repository) error {
			profiles, err := repo.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list profiles: %w", err)
			}
			return printJSON(profiles)
		})
	},
}

// profileShowCmd shows a profile with its subscriptions
var profileShowCmd = &cobra.Command{
	Use:   "show [ID]",
	Short: "Show a profile and its subscriptions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProfileRepository(func(ctx context.Context, repo profile.Repository) error {
			p, err := repo.GetByID(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get profile: %w", err)
			}
			return printJSON(p)
		})
	},
}

// profileDeleteCmd deletes a profile
var profileDeleteCmd = &cobra.Command{
	Use:   "delete [ID]",
	Short: "Delete a profile and its subscriptions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProfileRepository(func(ctx context.Context, repo profile.Repository) error {
			if err := repo.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete profile: %w", err)
			}
			fmt.Printf("Profile deleted: %s\n", args[0])
			return nil
		})
	},
}

// profileSubscribeCmd subscribes a profile to a channel
var profileSubscribeCmd = &cobra.Command{
	Use:   "subscribe [PROFILE_ID] [CHANNEL_ID] [NAME]",
	Short: "Subscribe a profile to a channel",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel := model.Channel{
			ID:  args[1],
			URL: "https://www.youtube.com/channel/" + args[1],
		}
		if len(args) > 2 {
			channel.Name = args[2]
		}

		return withProfileRepository(func(ctx context.Context, repo profile.Repository) error {
			if err := repo.AddSubscription(ctx, args[0], channel); err != nil {
				return fmt.Errorf("failed to subscribe: %w", err)
			}
			fmt.Printf("Subscribed %s to %s\n", args[0], channel.ID)
			return nil
		})
	},
}

// profileUnsubscribeCmd unsubscribes a profile from a channel
var profileUnsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe [PROFILE_ID] [CHANNEL_ID]",
	Short: "Unsubscribe a profile from a channel",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProfileRepository(func(ctx context.Context, repo profile.Repository) error {
			if err := repo.RemoveSubscription(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to unsubscribe: %w", err)
			}
			fmt.Printf("Unsubscribed %s from %s\n", args[0], args[1])
			return nil
		})
	},
}

// profileImportCmd bulk-imports subscriptions from a YAML or JSON file
var profileImportCmd = &cobra.Command{
	Use:   "import [PROFILE_ID] [FILE]",
	Short: "Import subscriptions from a file",
	Long: `Import subscriptions from a YAML or JSON list of channels, e.g.

  - id: UCxxxxxxxxxxxxxxxxxxxxxx
    name: Some channel`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		channels, err := readChannelList(args[1])
		if err != nil {
			return err
		}

		return withProfileRepository(func(ctx context.Context, repo profile.Repository) error {
			n, err := repo.ImportSubscriptions(ctx, args[0], channels)
			if err != nil {
				return fmt.Errorf("failed to import subscriptions: %w", err)
			}
			fmt.Printf("Imported %d subscriptions into %s\n", n, args[0])
			return nil
		})
	},
}

// readChannelList parses a YAML (or JSON) channel list
func readChannelList(path string) ([]model.Channel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subscriptions file: %w", err)
	}

	var channels []model.Channel
	if err := yaml.Unmarshal(data, &channels); err != nil {
		return nil, fmt.Errorf("failed to parse subscriptions file: %w", err)
	}

	for i, ch := range channels {
		if ch.ID == "" {
			return nil, fmt.Errorf("entry %d has no channel id", i+1)
		}
		if ch.URL == "" {
			channels[i].URL = "https://www.youtube.com/channel/" + ch.ID
		}
	}
	return channels, nil
}

// withProfileRepository connects to the database and runs fn with a profile repository
func withProfileRepository(fn func(ctx context.Context, repo profile.Repository) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbPool.Close()

	return fn(ctx, profile.NewRepository(dbPool))
}

func printJSON(v any) error {
	result, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	fmt.Println(string(result))
	return nil
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileSubscribeCmd)
	profileCmd.AddCommand(profileUnsubscribeCmd)
	profileCmd.AddCommand(profileImportCmd)
}
