package pipeline

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/storefront/internal/session"
)

// sessionTimeout bounds token resolution.
const sessionTimeout = 5 * time.Second

// ResolveSessionCmd resolves token with resolver and stores the result in
// holder before reporting it. A failed resolution leaves an anonymous session.
func ResolveSessionCmd(resolver session.Resolver, holder *session.Holder, token string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
		defer cancel()

		id, err := resolver.Resolve(ctx, token)
		if err != nil {
			id = session.Anonymous
		}
		id.Loading = false
		holder.Set(id)
		return SessionResolvedMsg{Identity: id, Err: err}
	}
}
