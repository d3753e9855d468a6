package main

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/storefront/cmd"
	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/session"
	"github.com/cristianoliveira/storefront/internal/storage"
	"github.com/spf13/cobra"
)

type favoriteClient interface {
	OpenSource(ctx context.Context, token string) (*storage.Source, error)
	Resolver() session.Resolver
}

// NewFavoriteCmd creates the favorite command with explicit dependencies.
func NewFavoriteCmd(client favoriteClient) *cobra.Command {
	if client == nil {
		panic("NewFavoriteCmd: client dependency cannot be nil")
	}

	var flags sessionFlags
	favoriteCmd := &cobra.Command{
		Use:   "favorite <listing-id>",
		Short: "Save or unsave a listing",
		Long: `Toggle a listing in the saved list of the signed-in user.

Favorites are stored in the local catalog; the commerce source is read-only.

USAGE:
    storefront favorite <listing-id> [--token TOKEN | --url URL]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			token, err := flags.resolveToken()
			if err != nil {
				return err
			}
			user, err := client.Resolver().Resolve(ctx, token)
			if err != nil {
				return err
			}
			if !user.HasUser() {
				return fmt.Errorf("favorite: sign in with --token or --url to save listings")
			}

			src, err := client.OpenSource(ctx, token)
			if err != nil {
				return err
			}
			defer src.Close()

			favorited, err := src.ToggleFavorite(ctx, args[0], user.UserID)
			if err != nil {
				return fmt.Errorf("favorite %s: %w", args[0], err)
			}
			if favorited {
				colors.Success(fmt.Sprintf("Saved %s", args[0]))
			} else {
				colors.Success(fmt.Sprintf("Removed %s from saved", args[0]))
			}
			return nil
		},
	}
	flags.bind(favoriteCmd)
	return favoriteCmd
}

var favoriteCmd = NewFavoriteCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(favoriteCmd)
}
