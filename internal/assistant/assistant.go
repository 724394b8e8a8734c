// Package assistant owns the session state and turns classified
// commands into actions, pushing results back to the shell as
// messages.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	log "log/slog"

	"voicekit/internal/apps"
	"voicekit/internal/intent"
)

// Messages posted to the presentation shell. Delivery goes through a
// thread-safe sink (tea.Program.Send), so background goroutines never
// touch UI state directly.
type (
	LogMsg        struct{ Text string }
	StatusMsg     struct{ Text string }
	ListeningMsg  struct{ On bool }
	RecognizedMsg struct{ Text string }
)

type Listener interface {
	ListenOnce(ctx context.Context) (string, bool)
}

type Replier interface {
	Reply(ctx context.Context, prompt string) string
}

type Summarizer interface {
	Summary(ctx context.Context, topic string) (string, error)
}

type AppResolver interface {
	Resolve(name string) bool
	SetMapping(m apps.Mapping)
}

type MappingStore interface {
	Load() apps.Mapping
	Save(m apps.Mapping)
}

// Ducker fades other audio down while the microphone is open.
// Implementations are best-effort; errors are swallowed here.
type Ducker interface {
	Duck(ctx context.Context, factor float64, duration time.Duration) error
	Unduck(ctx context.Context, duration time.Duration) error
}

type Speaker interface {
	Say(text string)
}

// Services collects everything the assistant orchestrates. Optional
// fields (Ducker, Cue) may be nil.
type Services struct {
	Speaker    Speaker
	Recognizer Listener
	Responder  Replier
	Wiki       Summarizer
	Resolver   AppResolver
	Store      MappingStore

	OpenURL   func(url string) error
	OpenMusic func() error
	Cue       func()
	Ducker    Ducker

	Now func() time.Time
}

type Assistant struct {
	svc     Services
	emit    func(msg any)
	mapping apps.Mapping

	mu           sync.Mutex
	cancelListen context.CancelFunc
}

func New(svc Services, emit func(msg any)) *Assistant {
	if svc.Now == nil {
		svc.Now = time.Now
	}
	a := &Assistant{svc: svc, emit: emit}
	a.mapping = svc.Store.Load()
	svc.Resolver.SetMapping(a.mapping)
	return a
}

const greeting = "Hello! VoiceKit is ready. Say: open chrome, search python list, " +
	"wikipedia alan turing, or chat tell me a joke."

func (a *Assistant) Greet() {
	a.svc.Speaker.Say(greeting)
}

// Mapping returns the live app mapping for display.
func (a *Assistant) Mapping() apps.Mapping { return a.mapping }

// Speak forwards text to the speech output adapter.
func (a *Assistant) Speak(text string) { a.svc.Speaker.Say(text) }

// Handle processes one typed or recognized command string. Fast
// intents run inline; anything that blocks (wikipedia, chat) moves to
// its own goroutine and reports back through the sink.
func (a *Assistant) Handle(raw string) {
	in := intent.Classify(raw)
	if in.Kind == intent.None {
		return
	}

	a.emit(LogMsg{Text: "Command: " + strings.TrimSpace(raw)})

	switch in.Kind {
	case intent.OpenApp:
		a.openApp(in.Arg)

	case intent.WebSearch:
		a.webSearch(in.Arg)

	case intent.WikipediaLookup:
		a.emit(StatusMsg{Text: "Searching Wikipedia: " + in.Arg})
		go a.wikipediaLookup(in.Arg)

	case intent.PlayMusic:
		a.playMusic()

	case intent.TimeQuery:
		a.svc.Speaker.Say("The time is " + a.svc.Now().Format("03:04 PM"))

	case intent.Chat:
		a.emit(StatusMsg{Text: "Thinking..."})
		go a.chatReply(in.Arg)
	}
}

func (a *Assistant) openApp(name string) {
	a.emit(StatusMsg{Text: "Opening app: " + name})
	if a.svc.Resolver.Resolve(name) {
		a.svc.Speaker.Say("Opening " + name)
		a.emit(LogMsg{Text: "Launched: " + name})
	} else {
		a.svc.Speaker.Say(fmt.Sprintf("Sorry, I can't find an app called %s. You can add it from the UI.", name))
		a.emit(LogMsg{Text: "No app found for: " + name})
	}
	a.emit(StatusMsg{Text: "Ready"})
}

func (a *Assistant) webSearch(query string) {
	a.emit(StatusMsg{Text: "Searching web: " + query})
	target := "https://www.google.com/search?q=" + url.QueryEscape(query)
	if err := a.svc.OpenURL(target); err != nil {
		log.Error("Failed to open browser", "url", target, "err", err)
		a.svc.Speaker.Say("Sorry, I couldn't open the website.")
	} else {
		a.svc.Speaker.Say("Searching the web for " + query)
	}
	a.emit(StatusMsg{Text: "Ready"})
}

func (a *Assistant) wikipediaLookup(topic string) {
	a.emit(LogMsg{Text: "Wikipedia search for: " + topic})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	summary, err := a.svc.Wiki.Summary(ctx, topic)
	if err != nil {
		log.Warn("Wikipedia lookup failed", "topic", topic, "err", err)
		a.svc.Speaker.Say("I couldn't find that on Wikipedia.")
	} else {
		a.emit(LogMsg{Text: "Wikipedia: " + summary})
		a.svc.Speaker.Say(summary)
	}
	a.emit(StatusMsg{Text: "Ready"})
}

func (a *Assistant) playMusic() {
	err := a.svc.OpenMusic()
	switch {
	case err == nil:
		a.svc.Speaker.Say("Opening your Music folder")
	case errors.Is(err, apps.ErrNoMusicDir):
		log.Warn("Play music failed", "err", err)
		a.svc.Speaker.Say("Music folder not found.")
	default:
		log.Warn("Play music failed", "err", err)
		a.svc.Speaker.Say("Couldn't open the music folder.")
	}
}

func (a *Assistant) chatReply(prompt string) {
	a.emit(LogMsg{Text: "AI prompt: " + prompt})

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	answer := a.svc.Responder.Reply(ctx, prompt)
	a.emit(LogMsg{Text: "AI answer: " + answer})
	a.svc.Speaker.Say(answer)
	a.emit(StatusMsg{Text: "Ready"})
}

// Listen starts a voice capture on its own goroutine. A listen
// issued while another is in flight cancels the stale one: the last
// request wins, duplicate concurrent captures do not pile up.
func (a *Assistant) Listen() {
	a.mu.Lock()
	if a.cancelListen != nil {
		a.cancelListen()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelListen = cancel
	a.mu.Unlock()

	a.emit(StatusMsg{Text: "Listening..."})
	a.emit(LogMsg{Text: "Listening (voice)..."})
	a.emit(ListeningMsg{On: true})

	go a.listen(ctx, cancel)
}

func (a *Assistant) listen(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	if a.svc.Cue != nil {
		a.svc.Cue()
	}
	if a.svc.Ducker != nil {
		if err := a.svc.Ducker.Duck(ctx, 0.3, 150*time.Millisecond); err != nil {
			log.Debug("Ducking unavailable", "err", err)
		}
		defer func() {
			if err := a.svc.Ducker.Unduck(context.Background(), 150*time.Millisecond); err != nil {
				log.Debug("Unduck failed", "err", err)
			}
		}()
	}

	text, ok := a.svc.Recognizer.ListenOnce(ctx)

	if ctx.Err() != nil {
		// a newer listen superseded this one; it owns the listening
		// flag now, so stay quiet
		return
	}

	a.emit(ListeningMsg{On: false})

	if !ok {
		a.svc.Speaker.Say("I didn't catch that. Try again.")
		a.emit(LogMsg{Text: "No speech recognized."})
		a.emit(StatusMsg{Text: "Ready"})
		return
	}

	a.emit(RecognizedMsg{Text: text})
	a.Handle(text)
	a.emit(StatusMsg{Text: "Ready"})
}

// AddMapping stores a new spoken-name to command association and
// persists it. Called only from the event loop.
func (a *Assistant) AddMapping(name, command string) {
	name = strings.ToLower(strings.TrimSpace(name))
	command = strings.TrimSpace(command)
	if name == "" || command == "" {
		a.emit(LogMsg{Text: "Usage: map <name> <command>"})
		return
	}

	a.mapping[name] = command
	a.svc.Store.Save(a.mapping)
	a.svc.Resolver.SetMapping(a.mapping)

	a.svc.Speaker.Say("Saved mapping for " + name)
	a.emit(LogMsg{Text: fmt.Sprintf("Added app mapping: %s -> %s", name, command)})
}
