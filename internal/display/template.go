package display

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/pburglin/adventure2/internal/game"
	"github.com/pburglin/adventure2/internal/geom"
	"github.com/pburglin/adventure2/internal/storage"
)

var templateFuncs = func() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["titleId"] = func(v any) string { return Title(fmt.Sprint(v)) }
	return fm
}()

// ExpandTemplate expands a template string using the provided data.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

const roomTemplate = `{{ .Name }}
{{- if .Exits }}
Exits: {{ range $i, $e := .Exits }}{{ if $i }}, {{ end }}{{ $e.Direction }}{{ if $e.Locked }} (locked: {{ $e.Key }}){{ end }}{{ end }}.
{{- else }}
There is no way out.
{{- end }}
{{- range .Items }}
{{ .Name }}{{ if .Dragon }} ({{ if .Elite }}fierce {{ end }}dragon){{ end }} is {{ .Where }}.
{{- end }}`

const statusTemplate = `{{ if not .Alive }}[DEAD] {{ end }}{{ .Room }} ({{ printf "%.1f" .X }}, {{ printf "%.1f" .Z }})
{{- if .Carried }} carried by the bird{{ end }} | spear: {{ .Spear }}
{{- if .Inventory }} | carrying: {{ .Inventory | join ", " }}{{ end }}
{{- if .Won }} | VICTORY{{ end }}`

var eventTemplates = map[game.EventKind]string{
	game.EventItemPickedUp:    `You pick up the {{ .Message }}.`,
	game.EventDragonSlain:     `Your spear strikes {{ .Message }}. The dragon is slain!`,
	game.EventPlayerDied:      `{{ .Message }} has eaten you. Type "respawn" to try again.`,
	game.EventPlayerRespawned: `You wake up where your adventure began.`,
	game.EventSpearThrown:     `You hurl the spear.`,
	game.EventSpearMissed:     `The spear sails out of sight. It will be back where you first found it.`,
	game.EventSpearRetrieved:  `You pick up the {{ .Message }}.`,
	game.EventBirdStarted:     `A bird swoops in{{ if eq .Message "take" }}, looking for something to steal{{ else }}, carrying something{{ end }}.`,
	game.EventBirdEnded:       `The bird flies off{{ if eq .Message "take" }} with {{ if .ItemId }}the {{ .ItemId | titleId }}{{ else }}you{{ end }}{{ end }}.`,
	game.EventDoorLocked:      `The door is locked. You need the {{ .Message }}.`,
	game.EventGameWon:         `You bring the {{ .ItemId | titleId }} back to the {{ .Message }}. You win!`,
}

type exitData struct {
	Direction string
	Locked    bool
	Key       string
}

type itemData struct {
	Name   string
	Dragon bool
	Elite  bool
	Where  string
}

type roomData struct {
	Name  string
	Exits []exitData
	Items []itemData
}

type statusData struct {
	Alive     bool
	Carried   bool
	Room      string
	X, Z      float64
	Spear     string
	Inventory []string
	Won       bool
}

// RenderRoom describes the current room, its exits and what is visible in it.
func RenderRoom(snap game.Snapshot, w *game.World) (string, error) {
	if snap.Room == nil {
		return "", fmt.Errorf("%w: %s", game.ErrUnknownRoom, snap.RoomId)
	}

	data := roomData{Name: snap.Room.Name}
	for _, d := range []game.Direction{game.North, game.South, game.East, game.West} {
		c := snap.Room.Connections.Get(d)
		if c == nil {
			continue
		}
		e := exitData{Direction: d.String(), Locked: c.Locked()}
		if e.Locked {
			e.Key = itemName(w, c.LockedBy.Id())
		}
		data.Exits = append(data.Exits, e)
	}

	for _, id := range sortedVisible(snap.Items) {
		def := w.Item(id)
		if def == nil {
			continue
		}
		data.Items = append(data.Items, itemData{
			Name:   def.Name,
			Dragon: def.Dragon,
			Elite:  def.Elite,
			Where:  Bearing(snap.Player.Position, snap.Items[id].Position),
		})
	}

	return ExpandTemplate(roomTemplate, data)
}

// RenderStatus is the one-line prompt shown after each command.
func RenderStatus(snap game.Snapshot, w *game.World) (string, error) {
	data := statusData{
		Alive:   snap.Player.Alive,
		Carried: snap.Player.Carried,
		X:       snap.Player.Position.X,
		Z:       snap.Player.Position.Z,
		Spear:   snap.Spear.State.String(),
		Won:     snap.Won,
	}
	if snap.Room != nil {
		data.Room = snap.Room.Name
	}
	for _, id := range snap.Inventory {
		data.Inventory = append(data.Inventory, itemName(w, id))
	}

	return ExpandTemplate(statusTemplate, data)
}

// RenderEvent turns a notification into a line for the player. Events with
// nothing to say render as the empty string.
func RenderEvent(ev game.Event) (string, error) {
	tmpl, ok := eventTemplates[ev.Kind]
	if !ok {
		return "", nil
	}
	return ExpandTemplate(tmpl, ev)
}

// Bearing describes where to is relative to from in words.
func Bearing(from, to geom.Vec3) string {
	d := to.Sub(from).Flat()
	dist := d.Length()
	if dist < 1 {
		return "right here"
	}

	var ns, ew string
	if math.Abs(d.Z) >= dist/3 {
		ns = "north"
		if d.Z > 0 {
			ns = "south"
		}
	}
	if math.Abs(d.X) >= dist/3 {
		ew = "west"
		if d.X > 0 {
			ew = "east"
		}
	}

	return fmt.Sprintf("%.0f paces %s%s", math.Ceil(dist), ns, ew)
}

func sortedVisible(v game.View) []storage.Identifier {
	ids := make([]storage.Identifier, 0, len(v))
	for id, iv := range v {
		if iv.Visible {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func itemName(w *game.World, id storage.Identifier) string {
	if def := w.Item(id); def != nil {
		return def.Name
	}
	return Title(id.String())
}
