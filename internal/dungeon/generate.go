package dungeon

import (
	"math/rand"
)

const gridStep = 4

// BonfireKindling is how many rests a fresh bonfire offers. Balance
// config may override it at startup.
var BonfireKindling = 3

var directions = [4][2]int{{gridStep, 0}, {-gridStep, 0}, {0, gridStep}, {0, -gridStep}}

// roomQuota is the target room count for a floor. Generation may stall
// short of it if the frontier exhausts, which is acceptable.
func roomQuota(floor int) int {
	return 12 + floor
}

// merchantCount is the number of merchant rooms a floor carries. Early
// floors are generous, floor 6 and beyond offer none.
func merchantCount(floor int) int {
	n := 6 - floor
	if n < 0 {
		return 0
	}
	if n > 3 {
		return 3
	}
	return n
}

// Generate lays out a connected floor graph. It grows rooms outward from
// the origin by frontier expansion, subdivides every corridor with two
// waypoints, then assigns the guardian room, one bonfire, and the floor's
// merchants.
func Generate(floor int, rng *rand.Rand) *Dungeon {
	d := &Dungeon{Floor: floor}

	occupied := map[[2]int]bool{}
	nextID := 0

	newRoom := func(gx, gy int) *Room {
		r := &Room{
			ID:    nextID,
			GX:    float64(gx),
			GY:    float64(gy),
			W:     1,
			H:     1,
			State: StateUncleared,
		}
		if rng.Float64() < 0.3 {
			r.W = 2
		}
		if rng.Float64() < 0.3 {
			r.H = 2
		}
		nextID++
		occupied[[2]int{gx, gy}] = true
		d.Rooms = append(d.Rooms, r)
		return r
	}

	start := newRoom(0, 0)
	start.State = StateCleared

	// link inserts two waypoints between parent and child so the corridor
	// reads parent -> wp1 -> wp2 -> child.
	link := func(parent, child *Room) {
		wp1 := &Room{
			ID:         nextID,
			GX:         parent.GX + (child.GX-parent.GX)/3,
			GY:         parent.GY + (child.GY-parent.GY)/3,
			W:          1,
			H:          1,
			State:      StateCleared,
			IsWaypoint: true,
		}
		nextID++
		wp2 := &Room{
			ID:         nextID,
			GX:         parent.GX + 2*(child.GX-parent.GX)/3,
			GY:         parent.GY + 2*(child.GY-parent.GY)/3,
			W:          1,
			H:          1,
			State:      StateCleared,
			IsWaypoint: true,
		}
		nextID++
		d.Rooms = append(d.Rooms, wp1, wp2)

		parent.Connections = append(parent.Connections, wp1.ID)
		wp1.Connections = append(wp1.Connections, parent.ID, wp2.ID)
		wp2.Connections = append(wp2.Connections, wp1.ID, child.ID)
		child.Connections = append(child.Connections, wp2.ID)
	}

	frontier := []*Room{start}
	realCount := 1
	quota := roomQuota(floor)

	for realCount < quota && len(frontier) > 0 {
		fi := rng.Intn(len(frontier))
		parent := frontier[fi]

		order := rng.Perm(4)
		placed := false
		for _, oi := range order {
			dx, dy := directions[oi][0], directions[oi][1]
			gx := int(parent.GX) + dx
			gy := int(parent.GY) + dy
			if occupied[[2]int{gx, gy}] {
				continue
			}
			child := newRoom(gx, gy)
			link(parent, child)
			frontier = append(frontier, child)
			realCount++
			placed = true
			break
		}
		if !placed {
			frontier = append(frontier[:fi], frontier[fi+1:]...)
		}
	}

	assignSpecials(d, floor, rng)
	d.reindex()
	return d
}

// assignSpecials marks the guardian room, one bonfire, and the floor's
// merchants. The guardian room is the non-waypoint room farthest from the
// origin by Manhattan distance, first occurrence winning ties.
func assignSpecials(d *Dungeon, floor int, rng *rand.Rand) {
	var final *Room
	best := -1.0
	for _, r := range d.Rooms {
		if r.IsWaypoint || r.ID == 0 {
			continue
		}
		dist := abs(r.GX) + abs(r.GY)
		if dist > best {
			best = dist
			final = r
		}
	}
	if final != nil {
		final.IsFinal = true
	}

	var candidates []*Room
	for _, r := range d.Rooms {
		if r.IsWaypoint || r.ID == 0 || r.IsFinal {
			continue
		}
		candidates = append(candidates, r)
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if len(candidates) > 0 {
		b := candidates[0]
		b.IsBonfire = true
		b.RestRemaining = BonfireKindling
		candidates = candidates[1:]
	}

	n := merchantCount(floor)
	if n > len(candidates) {
		n = len(candidates)
	}
	for _, r := range candidates[:n] {
		r.IsSpecial = true
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
