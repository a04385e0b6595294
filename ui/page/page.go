// Package page holds the hand-rolled templ components for the web
// client. Components write straight HTML; all dynamic play state is
// fetched by static/js/app.js over the API and the websocket.
package page

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func layout(title string, body func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>`+templ.EscapeString(title)+`</title>
<link rel="stylesheet" href="/static/css/app.css">
</head>
<body>
`); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `
<script src="/static/js/app.js"></script>
</body>
</html>
`)
		return err
	})
}

// HomePage is the playable client shell: class picker, dungeon map
// canvas, the card table, and the inventory grid.
func HomePage() templ.Component {
	return layout("Scoundrel", func(w io.Writer) error {
		_, err := io.WriteString(w, `<main class="crawl">
  <header>
    <h1>Scoundrel</h1>
    <div id="menu">
      <select id="class-select">
        <option value="knight">Knight</option>
        <option value="scoundrel">Scoundrel</option>
        <option value="mystic">Mystic</option>
      </select>
      <select id="mode-select">
        <option value="checkpoint">Checkpoint</option>
        <option value="hardcore">Hardcore</option>
      </select>
      <button id="new-run">New Run</button>
      <button id="resume-run">Resume</button>
    </div>
    <div id="status">
      <span id="hp"></span>
      <span id="armor"></span>
      <span id="coins"></span>
      <span id="floor"></span>
      <span id="deck"></span>
    </div>
  </header>
  <section class="board">
    <canvas id="map" width="720" height="520"></canvas>
    <aside>
      <div id="room-cards"></div>
      <div id="room-actions">
        <button id="avoid">Avoid</button>
        <button id="rest" hidden>Rest</button>
        <button id="descend" hidden>Descend</button>
      </div>
      <div id="reveal" hidden>
        <p id="reveal-text"></p>
        <button id="ack">Continue</button>
      </div>
    </aside>
  </section>
  <section class="gear">
    <div id="equipment"></div>
    <div id="hotbar"></div>
    <div id="backpack"></div>
  </section>
  <footer id="log"></footer>
</main>`)
		return err
	})
}
