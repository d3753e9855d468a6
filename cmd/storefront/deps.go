package main

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/storefront/internal/commerce"
	"github.com/cristianoliveira/storefront/internal/config"
	"github.com/cristianoliveira/storefront/internal/logging"
	"github.com/cristianoliveira/storefront/internal/session"
	"github.com/cristianoliveira/storefront/internal/settings"
	"github.com/cristianoliveira/storefront/internal/storage"
	"github.com/cristianoliveira/storefront/internal/version"
	"github.com/spf13/cobra"
)

// storefrontClient wires commands to the configured storage, session and
// settings. Configuration is loaded by the root command before any method
// runs, so nothing is opened at package init.
type storefrontClient struct{}

// OpenSource opens the configured listing source. A non-empty token is sent
// to the commerce backend in place of session_token.
func (storefrontClient) OpenSource(ctx context.Context, token string) (*storage.Source, error) {
	var opts []commerce.Option
	if token != "" {
		opts = append(opts, commerce.WithToken(token))
	}
	return storage.NewFromConfig(ctx, logging.With("component", "storage"), opts...)
}

// OpenCatalog opens the local catalog regardless of the configured source.
func (storefrontClient) OpenCatalog() (storage.Catalog, error) {
	return storage.OpenCatalog()
}

// Resolver returns the session token resolver.
func (storefrontClient) Resolver() session.Resolver {
	return session.NewTokenResolver(config.Get("session_secret", ""))
}

func (storefrontClient) LoadSettings() (*settings.Settings, error) {
	return settings.Load()
}

func (storefrontClient) SaveSettings(s *settings.Settings) error {
	return settings.Save(s)
}

// ResetSettings removes the settings file and returns the defaults.
func (storefrontClient) ResetSettings() (*settings.Settings, error) {
	if err := settings.Reset(); err != nil {
		return nil, err
	}
	return settings.DefaultSettings(), nil
}

func (storefrontClient) Version() string {
	return version.String()
}

var coreClient = storefrontClient{}

// sessionFlags are the flags that carry the session token.
type sessionFlags struct {
	token string
	url   string
}

func (f *sessionFlags) bind(c *cobra.Command) {
	c.Flags().StringVar(&f.token, "token", "", "Session token (default: session_token from config)")
	c.Flags().StringVar(&f.url, "url", "", "Page URL carrying the session token as a query parameter")
}

// resolveToken picks the session token from --token, then --url, then the
// session_token configuration key. An empty token means anonymous.
func (f sessionFlags) resolveToken() (string, error) {
	if f.token != "" {
		return f.token, nil
	}
	if f.url != "" {
		token, err := session.TokenFromURL(f.url)
		if err != nil {
			return "", fmt.Errorf("invalid --url: %w", err)
		}
		return token, nil
	}
	return config.Get("session_token", ""), nil
}

// commandContext returns the context of c, or a background context when c
// runs outside Execute.
func commandContext(c *cobra.Command) context.Context {
	if ctx := c.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
