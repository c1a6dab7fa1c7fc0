package app

import (
	"fmt"

	"github.com/vk/forgeos/internal/registry"
)

// RolesFor maps the host-supplied process role onto the lifecycle role
// set. The server-authority process runs {main, server}, each connected
// client runs {main, client}, and a non-networked process runs main alone.
func RolesFor(role string) ([]registry.Role, error) {
	switch role {
	case "server":
		return []registry.Role{registry.RoleMain, registry.RoleServer}, nil
	case "client":
		return []registry.Role{registry.RoleMain, registry.RoleClient}, nil
	case "", "solo":
		return []registry.Role{registry.RoleMain}, nil
	default:
		return nil, fmt.Errorf("invalid role %q: must be 'server', 'client', or 'solo'", role)
	}
}
