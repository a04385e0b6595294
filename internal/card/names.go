package card

// Display names are derived from (tier, value) only. The lookups are pure
// and feed the renderer; the simulation never branches on them.

type nameBand struct {
	max  int
	name string
}

var monsterNames = [3][]nameBand{
	{ // floors 1-3
		{3, "Shadow Creeper"},
		{5, "Graveling"},
		{7, "Rat-Bat"},
		{9, "Spined Horror"},
		{10, "Grue"},
		{11, "Jack of Spite"},
		{12, "Queen of Sorrow"},
		{13, "King of Ruin"},
		{14, "Primeval Ace"},
	},
	{ // floors 4-6
		{3, "Bone Scuttler"},
		{5, "Hollow Wight"},
		{7, "Pit Leech"},
		{9, "Flenser"},
		{10, "Murk Colossus"},
		{11, "Jack of Chains"},
		{12, "Queen of Embers"},
		{13, "King of Hunger"},
		{14, "Abyssal Ace"},
	},
	{ // floors 7-9
		{3, "Void Mote"},
		{5, "Seething Mass"},
		{7, "Gloom Stalker"},
		{9, "Carrion Titan"},
		{10, "The Unshaped"},
		{11, "Jack of Endings"},
		{12, "Queen of the Last Door"},
		{13, "King Below"},
		{14, "Ace of Oblivion"},
	},
}

var weaponNames = [3][]nameBand{
	{
		{4, "Rusted Shiv"},
		{6, "Soldier's Blade"},
		{8, "Tempered Saber"},
		{10, "Runed Greatblade"},
	},
	{
		{4, "Gravedigger's Pick"},
		{6, "Wight-Bane Falchion"},
		{8, "Ember-Forged Axe"},
		{10, "Colossus Cleaver"},
	},
	{
		{4, "Void-Touched Dirk"},
		{6, "Stalker's Scythe"},
		{8, "Titanbreaker"},
		{10, "Blade of the Last Door"},
	},
}

func lookupBand(bands []nameBand, v int) string {
	for _, b := range bands {
		if v <= b.max {
			return b.name
		}
	}
	return bands[len(bands)-1].name
}

// MonsterName returns the display name for a monster of the given value on
// the given floor.
func MonsterName(floor, v int) string {
	return lookupBand(monsterNames[FloorTier(floor)], v)
}

// WeaponName returns the display name for a weapon of the given value on
// the given floor.
func WeaponName(floor, v int) string {
	return lookupBand(weaponNames[FloorTier(floor)], v)
}

// FloorTier maps a floor number to its escalation tier: 0 for floors 1-3,
// 1 for 4-6, 2 for 7 and beyond.
func FloorTier(floor int) int {
	switch {
	case floor <= 3:
		return 0
	case floor <= 6:
		return 1
	default:
		return 2
	}
}
