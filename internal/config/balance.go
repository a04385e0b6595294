package config

// Balance holds gameplay balance configuration. These are the knobs
// operators tune between playtests; mechanics with fixed rules (armor
// layering, durability, role math) stay in code.
type Balance struct {
	// Starting hit points per class
	KnightHP    int `yaml:"knight_hp" json:"knight_hp" env:"SCOUNDREL_KNIGHT_HP"`
	ScoundrelHP int `yaml:"scoundrel_hp" json:"scoundrel_hp" env:"SCOUNDREL_SCOUNDREL_HP"`
	MysticHP    int `yaml:"mystic_hp" json:"mystic_hp" env:"SCOUNDREL_MYSTIC_HP"`

	// Bonfire
	RestHealPerCost int `yaml:"rest_heal_per_cost" json:"rest_heal_per_cost" env:"SCOUNDREL_REST_HEAL"`
	RestKindling    int `yaml:"rest_kindling" json:"rest_kindling"`
}

func (b *Balance) ApplyDefaults() {
	if b.KnightHP == 0 {
		b.KnightHP = 20
	}
	if b.ScoundrelHP == 0 {
		b.ScoundrelHP = 18
	}
	if b.MysticHP == 0 {
		b.MysticHP = 16
	}
	if b.RestHealPerCost == 0 {
		b.RestHealPerCost = 5
	}
	if b.RestKindling == 0 {
		b.RestKindling = 3
	}
}
