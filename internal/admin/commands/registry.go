package commands

import (
	"context"

	"github.com/udisondev/smartregions/internal/admin"
)

// RegisterAll registers trigger management and host commands into h.
// ctx is the server lifetime passed to commands that wait on storage.
func RegisterAll(ctx context.Context, h *admin.Handler, sessions Sessions, triggers Triggers, regions Regions) {
	// Trigger management
	h.Register(NewSmartRegion(ctx, triggers, regions))
	h.Register(NewReplace(ctx, triggers))

	// Host commands dispatched by trigger scripts
	h.Register(NewHeal(sessions))
	h.Register(NewTeleport(sessions))
	h.Register(NewAnnounce(sessions))
	h.Register(NewKick(sessions))
	h.Register(NewOnline(sessions))
	h.Register(&Loc{})

	// Console session control
	h.Register(NewLogin(sessions))
	h.Register(NewLogout(sessions))
	h.Register(NewAs(sessions, h))
}
