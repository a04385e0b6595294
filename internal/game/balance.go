package game

import (
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/config"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/dungeon"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/encounter"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
)

// applyBalance pushes tunable balance numbers into the simulation
// packages. Called once at engine construction, before any run exists.
func applyBalance(b *config.Balance) {
	b.ApplyDefaults()
	run.ClassHP[run.ClassKnight] = b.KnightHP
	run.ClassHP[run.ClassScoundrel] = b.ScoundrelHP
	run.ClassHP[run.ClassMystic] = b.MysticHP
	encounter.RestHealPerCost = b.RestHealPerCost
	dungeon.BonfireKindling = b.RestKindling
}
