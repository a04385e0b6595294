package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/combat"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/config"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/game"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/view"
)

type scene int

const (
	sceneMenu scene = iota
	sceneCrawl
	sceneReveal
	sceneOver
)

type classItem run.Class

func (c classItem) FilterValue() string { return string(c) }
func (c classItem) Title() string       { return strings.ToUpper(string(c)[:1]) + string(c)[1:] }
func (c classItem) Description() string {
	return fmt.Sprintf("%d hit points", run.ClassHP[run.Class(c)])
}

type model struct {
	engine *game.Engine
	ctx    context.Context

	scene   scene
	classes list.Model
	snap    view.Snapshot
	reveal  string
	err     error
}

func newModel(engine *game.Engine) model {
	items := make([]list.Item, 0, len(run.Classes))
	for _, c := range run.Classes {
		items = append(items, classItem(c))
	}
	l := list.New(items, list.NewDefaultDelegate(), 36, 14)
	l.Title = "Choose your delver"
	l.SetShowHelp(false)

	return model{
		engine:  engine,
		ctx:     context.Background(),
		scene:   sceneMenu,
		classes: l,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	if isKey && (key.String() == "q" || key.String() == "ctrl+c") {
		return m, tea.Quit
	}

	switch m.scene {
	case sceneMenu:
		if isKey && key.String() == "enter" {
			item, ok := m.classes.SelectedItem().(classItem)
			if !ok {
				return m, nil
			}
			snap, err := m.engine.NewRun(m.ctx, run.Class(item), run.ModeCheckpoint)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.snap = snap
			m.scene = sceneCrawl
			return m, nil
		}
		var cmd tea.Cmd
		m.classes, cmd = m.classes.Update(msg)
		return m, cmd

	case sceneCrawl:
		if isKey {
			m.handleCrawlKey(key.String())
			if m.snap.Over {
				m.scene = sceneOver
			}
		}
		return m, nil

	case sceneReveal:
		if isKey && key.String() == "enter" {
			m.engine.AckReveal()
			m.scene = sceneCrawl
			if m.snap.Over {
				m.scene = sceneOver
			}
		}
		return m, nil

	case sceneOver:
		if isKey && key.String() == "enter" {
			m.scene = sceneMenu
			m.err = nil
		}
		return m, nil
	}
	return m, nil
}

func (m *model) handleCrawlKey(key string) {
	m.err = nil
	var err error

	switch key {
	case "1", "2", "3", "4", "5":
		idx := int(key[0] - '1')
		if len(m.snap.RoomCards) > 0 {
			err = m.pick(idx)
		} else {
			err = m.move(idx)
		}
	case "a":
		m.snap, err = m.engine.Avoid(m.ctx)
	case "r":
		m.snap, err = m.engine.Rest(m.ctx, 1)
	case "d":
		m.snap, err = m.engine.Descend(m.ctx)
	}
	if err != nil {
		m.err = err
	}
}

func (m *model) pick(idx int) error {
	if idx >= len(m.snap.RoomCards) {
		return fmt.Errorf("no card %d on the table", idx+1)
	}
	c := m.snap.RoomCards[idx]
	var out *combat.Outcome
	var snap view.Snapshot
	var err error
	if c.Type == "gift" {
		out, snap, err = m.engine.ChooseGift(m.ctx, idx)
	} else {
		out, snap, err = m.engine.PickCard(m.ctx, idx)
	}
	if err != nil {
		return err
	}
	m.snap = snap
	m.reveal = describeOutcome(c.Name, out)
	m.scene = sceneReveal
	return nil
}

func (m *model) move(idx int) error {
	targets := m.adjacent()
	if idx >= len(targets) {
		return fmt.Errorf("no passage %d", idx+1)
	}
	_, snap, err := m.engine.EnterRoom(m.ctx, targets[idx].ID)
	if err != nil {
		return err
	}
	m.snap = snap
	return nil
}

// adjacent lists the real rooms one waypoint hop away, in stable order.
func (m *model) adjacent() []view.RoomView {
	byID := map[int]view.RoomView{}
	for _, r := range m.snap.Rooms {
		byID[r.ID] = r
	}
	cur, ok := byID[m.snap.CurrentRoomID]
	if !ok {
		return nil
	}

	seen := map[int]bool{}
	var out []view.RoomView
	for _, wpID := range cur.Connections {
		wp := byID[wpID]
		if !wp.IsWaypoint {
			if !seen[wp.ID] {
				seen[wp.ID] = true
				out = append(out, wp)
			}
			continue
		}
		for _, next := range wp.Connections {
			r := byID[next]
			if r.ID == cur.ID || r.IsWaypoint || seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func describeOutcome(name string, out *combat.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s.", name)
	if out.Redirected != nil {
		b.WriteString(" A loyalist steps into the blow.")
	}
	if out.Slain {
		b.WriteString(" Slain.")
	}
	if out.DamageTaken > 0 {
		fmt.Fprintf(&b, " You take %d damage.", out.DamageTaken)
	}
	if out.Healed > 0 {
		fmt.Fprintf(&b, " You recover %d.", out.Healed)
	}
	if out.WeaponBroke {
		b.WriteString(" Your weapon shatters!")
	}
	if out.Dead {
		b.WriteString(" You have fallen.")
	}
	return b.String()
}

func (m model) View() string {
	switch m.scene {
	case sceneMenu:
		s := m.classes.View() + "\n[enter] start  [q] quit\n"
		if m.err != nil {
			s += fmt.Sprintf("error: %v\n", m.err)
		}
		return s

	case sceneReveal:
		return m.reveal + "\n\n[enter] continue\n"

	case sceneOver:
		return fmt.Sprintf("The dungeon claims you on floor %d.\nScore: %d\n\n[enter] again  [q] quit\n",
			m.snap.Floor, m.snap.Score)
	}

	var b strings.Builder
	p := m.snap.Player
	fmt.Fprintf(&b, "-- Scoundrel --  floor %d  deck %d\n", m.snap.Floor, m.snap.DeckRemaining)
	fmt.Fprintf(&b, "HP %d/%d  AP %d  coins %d  trophies %d\n\n",
		p.HP, p.MaxHP, p.AP, p.SoulCoins, p.SlainCount)

	if len(m.snap.RoomCards) > 0 {
		b.WriteString("On the table:\n")
		for i, c := range m.snap.RoomCards {
			fmt.Fprintf(&b, "  [%d] %s (%s %d)\n", i+1, c.Name, c.Type, c.Val)
		}
		b.WriteString("\n[1-5] take  [a] avoid")
	} else {
		b.WriteString("Passages:\n")
		for i, r := range m.adjacent() {
			tag := ""
			switch {
			case r.IsFinal:
				tag = " (guardian)"
			case r.IsBonfire:
				tag = " (bonfire)"
			case r.IsSpecial:
				tag = " (merchant)"
			case r.State == "cleared":
				tag = " (cleared)"
			case r.State == "avoided":
				tag = " (avoided)"
			}
			fmt.Fprintf(&b, "  [%d] room %d%s\n", i+1, r.ID, tag)
		}
		b.WriteString("\n[1-5] move  [r] rest  [d] descend")
	}
	b.WriteString("  [q] quit\n")
	if m.err != nil {
		fmt.Fprintf(&b, "error: %v\n", m.err)
	}
	return b.String()
}

func main() {
	logger := log.New(io.Discard, "", 0)
	cfg := config.Default()

	engine := game.NewEngine(game.Options{
		Logger:  logger,
		Balance: &cfg.Balance,
	})

	if _, err := tea.NewProgram(newModel(engine)).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
