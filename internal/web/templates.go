package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/tictactoe-history/internal/app"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"add": func(a, b int) int { return a + b },
		"mul": func(a, b int) int { return a * b },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex}
.cell{width:96px;height:96px;font-size:48px;font-weight:bold}
.cell.win{background:#16a34a;color:#fff}
.current{font-weight:bold}
</style>
</head><body>{{template "content" .}}</body></html>`))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic-Tac-Toe</h1><form action="/game" method="post"><button>New game</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="live" hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

// renderBoard renders the game fragment for a view.
func (t *templates) renderBoard(v app.View) []byte {
	return renderTemplate(t.board, "", v)
}

const boardTemplate = `
<div id="game">
  <h2>{{.Name}}</h2>
  <div class="tips">{{.Tips}}</div>
  {{/* 3x3 grid */}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}{{$i := add (mul $r 3) $c}}
      <form hx-post="/game/{{$.ID}}/cell" hx-target="#game" hx-swap="outerHTML" method="post">
        <input type="hidden" name="i" value="{{$i}}">
        <button type="submit" class="cell{{if $.IsHighlighted $i}} win{{end}}">{{$.Mark $i}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <form hx-post="/game/{{.ID}}/order" hx-target="#game" hx-swap="outerHTML" method="post">
    <button type="submit" class="order">{{.OrderLabel}}</button>
  </form>
  <ol class="moves">
  {{range .Moves}}
    <li value="{{add .Index 1}}">
    {{if .Current}}<span class="current">{{.Label}}</span>{{else}}
      <form hx-post="/game/{{$.ID}}/jump" hx-target="#game" hx-swap="outerHTML" method="post">
        <input type="hidden" name="move" value="{{.Index}}">
        <button type="submit">{{.Label}}</button>
      </form>
    {{end}}
    </li>
  {{end}}
  </ol>
</div>
`
