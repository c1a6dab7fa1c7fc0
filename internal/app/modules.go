package app

import (
	"github.com/vk/forgeos/internal/config"
	"github.com/vk/forgeos/internal/registry"
	"github.com/vk/forgeos/internal/scopes"
	"github.com/vk/forgeos/modules/calendar"
	"github.com/vk/forgeos/modules/dbmod"
	"github.com/vk/forgeos/modules/mainmod"
	"github.com/vk/forgeos/modules/messenger"
	"github.com/vk/forgeos/modules/notepad"
	"github.com/vk/forgeos/modules/snet"
)

// coreModules is the definitive list of mission modules compiled into the
// forgeos binary. The manifest's module table decides which of them
// actually participate, and in what order.
func coreModules(cfg *Config, model *config.Model, vars *scopes.Store) []registry.Module {
	return []registry.Module{
		&mainmod.Module{Vars: vars, Model: model},
		&dbmod.Module{Vars: vars, Path: cfg.StorePath},
		&calendar.Module{Vars: vars},
		&messenger.Module{Vars: vars},
		&notepad.Module{Vars: vars},
		&snet.Module{Vars: vars},
	}
}
