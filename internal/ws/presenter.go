package ws

import (
	"time"

	"github.com/chiel/spotify-guess-the-intro/internal/game"
	"github.com/google/uuid"
)

type emitter interface {
	Emit(event string, v ...interface{})
}

type choiceView struct {
	Index      int    `json:"index"`
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	ArtworkURL string `json:"artworkUrl,omitempty"`
}

// Presenter sends a session's presentation calls to one socket. The browser
// renders the choices, plays the preview and reports back.
type Presenter struct {
	out        emitter
	onGameOver func(game.Summary)
}

func NewPresenter(out emitter) *Presenter {
	return &Presenter{out: out}
}

func (p *Presenter) RenderChoices(round int, tracks []game.Track) game.ChoiceHandle {
	h := game.ChoiceHandle(uuid.NewString())
	list := make([]choiceView, 0, len(tracks))
	for i, t := range tracks {
		list = append(list, choiceView{Index: i, ID: t.ID, Title: t.Title, Artist: t.Artist, ArtworkURL: t.ArtworkURL})
	}
	p.out.Emit("round:choices", map[string]any{"handle": h, "round": round, "choices": list})
	return h
}

func (p *Presenter) MarkInactive(h game.ChoiceHandle, index int) {
	p.out.Emit("round:inactive", map[string]any{"handle": h, "index": index})
}

func (p *Presenter) Dispose(h game.ChoiceHandle) {
	p.out.Emit("round:dispose", map[string]any{"handle": h})
}

// PlayTrack only sends what the player needs to load the audio.
func (p *Presenter) PlayTrack(t game.Track) {
	p.out.Emit("player:play", map[string]any{"id": t.ID, "previewUrl": t.PreviewURL})
}

func (p *Presenter) StopPlayback() {
	p.out.Emit("player:stop", map[string]any{})
}

func (p *Presenter) UpdateTimerDisplay(round, session time.Duration) {
	p.out.Emit("timer", map[string]any{"roundMs": round.Milliseconds(), "sessionMs": session.Milliseconds()})
}

func (p *Presenter) UpdateScoreDisplay(score int) {
	p.out.Emit("score", map[string]any{"score": score})
}

func (p *Presenter) UpdateMultiplierDisplay(multiplier int) {
	p.out.Emit("multiplier", map[string]any{"multiplier": multiplier})
}

func (p *Presenter) GameOver(sum game.Summary) {
	p.out.Emit("game:over", map[string]any{"summary": sum, "message": sum.Reason.Message()})
	if p.onGameOver != nil {
		p.onGameOver(sum)
	}
}
