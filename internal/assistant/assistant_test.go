package assistant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicekit/internal/apps"
)

type fakeSpeaker struct {
	ch chan string
}

func (f *fakeSpeaker) Say(text string) { f.ch <- text }

func (f *fakeSpeaker) next(t *testing.T) string {
	t.Helper()
	select {
	case s := <-f.ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("nothing was spoken")
		return ""
	}
}

type fakeResolver struct {
	mu       sync.Mutex
	mapping  apps.Mapping
	resolved []string
	ok       bool
}

func (f *fakeResolver) Resolve(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolved = append(f.resolved, name)
	return f.ok
}

func (f *fakeResolver) SetMapping(m apps.Mapping) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mapping = m
}

type fakeStore struct {
	initial apps.Mapping
	saved   []apps.Mapping
}

func (f *fakeStore) Load() apps.Mapping  { return f.initial }
func (f *fakeStore) Save(m apps.Mapping) { f.saved = append(f.saved, m) }

type fakeListener struct {
	listenFn func(ctx context.Context) (string, bool)
}

func (f *fakeListener) ListenOnce(ctx context.Context) (string, bool) { return f.listenFn(ctx) }

type fakeReplier struct {
	replyFn func(ctx context.Context, prompt string) string
}

func (f *fakeReplier) Reply(ctx context.Context, prompt string) string { return f.replyFn(ctx, prompt) }

type fakeWiki struct {
	summaryFn func(ctx context.Context, topic string) (string, error)
}

func (f *fakeWiki) Summary(ctx context.Context, topic string) (string, error) {
	return f.summaryFn(ctx, topic)
}

type harness struct {
	a        *Assistant
	speaker  *fakeSpeaker
	resolver *fakeResolver
	store    *fakeStore
	msgs     chan any
	opened   []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		speaker:  &fakeSpeaker{ch: make(chan string, 16)},
		resolver: &fakeResolver{ok: true},
		store:    &fakeStore{initial: apps.Mapping{}},
		msgs:     make(chan any, 64),
	}

	svc := Services{
		Speaker:  h.speaker,
		Resolver: h.resolver,
		Store:    h.store,
		Recognizer: &fakeListener{listenFn: func(context.Context) (string, bool) {
			return "", false
		}},
		Responder: &fakeReplier{replyFn: func(_ context.Context, prompt string) string {
			return "reply to " + prompt
		}},
		Wiki: &fakeWiki{summaryFn: func(_ context.Context, topic string) (string, error) {
			return topic + " is a thing.", nil
		}},
		OpenURL:   func(u string) error { h.opened = append(h.opened, u); return nil },
		OpenMusic: func() error { return nil },
		Now: func() time.Time {
			return time.Date(2024, 5, 1, 15, 4, 0, 0, time.UTC)
		},
	}

	h.a = New(svc, func(m any) { h.msgs <- m })
	return h
}

func (h *harness) waitMsg(t *testing.T, match func(any) bool) any {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-h.msgs:
			if match(m) {
				return m
			}
		case <-deadline:
			t.Fatal("expected message never arrived")
			return nil
		}
	}
}

func TestHandleOpenAppSpeaksOnSuccess(t *testing.T) {
	h := newHarness(t)
	h.a.Handle("open chrome")

	assert.Equal(t, []string{"chrome"}, h.resolver.resolved)
	assert.Equal(t, "Opening chrome", h.speaker.next(t))
}

func TestHandleOpenAppInvitesMappingOnFailure(t *testing.T) {
	h := newHarness(t)
	h.resolver.ok = false

	h.a.Handle("open sketchy")
	assert.Equal(t,
		"Sorry, I can't find an app called sketchy. You can add it from the UI.",
		h.speaker.next(t))
}

func TestHandleWebSearchEscapesQuery(t *testing.T) {
	h := newHarness(t)
	h.a.Handle("search python list comprehension")

	require.Len(t, h.opened, 1)
	assert.Equal(t, "https://www.google.com/search?q=python+list+comprehension", h.opened[0])
	assert.Equal(t, "Searching the web for python list comprehension", h.speaker.next(t))
}

func TestHandleTimeQuery(t *testing.T) {
	h := newHarness(t)
	h.a.Handle("time now")
	assert.Equal(t, "The time is 03:04 PM", h.speaker.next(t))
}

func TestHandleWikipedia(t *testing.T) {
	h := newHarness(t)
	h.a.Handle("wikipedia Alan Turing")

	assert.Equal(t, "Alan Turing is a thing.", h.speaker.next(t))
}

func TestHandleWikipediaFailure(t *testing.T) {
	h := newHarness(t)
	h.a.svc.Wiki = &fakeWiki{summaryFn: func(context.Context, string) (string, error) {
		return "", errors.New("no such page")
	}}

	h.a.Handle("wikipedia nothing")
	assert.Equal(t, "I couldn't find that on Wikipedia.", h.speaker.next(t))
}

func TestHandlePlayMusic(t *testing.T) {
	h := newHarness(t)
	h.a.Handle("play music")
	assert.Equal(t, "Opening your Music folder", h.speaker.next(t))
}

func TestHandlePlayMusicNoFolder(t *testing.T) {
	h := newHarness(t)
	h.a.svc.OpenMusic = func() error { return apps.ErrNoMusicDir }

	h.a.Handle("play music")
	assert.Equal(t, "Music folder not found.", h.speaker.next(t))
}

func TestHandlePlayMusicOpenFails(t *testing.T) {
	h := newHarness(t)
	h.a.svc.OpenMusic = func() error { return errors.New("no file manager") }

	h.a.Handle("play music")
	assert.Equal(t, "Couldn't open the music folder.", h.speaker.next(t))
}

func TestHandleChatFallthrough(t *testing.T) {
	h := newHarness(t)
	h.a.Handle("what is the meaning of life")

	assert.Equal(t, "reply to what is the meaning of life", h.speaker.next(t))
}

func TestHandleChatPrefixStripped(t *testing.T) {
	h := newHarness(t)
	h.a.Handle("chat how are you")

	assert.Equal(t, "reply to how are you", h.speaker.next(t))
}

func TestHandleEmptyInputIsNoop(t *testing.T) {
	h := newHarness(t)
	h.a.Handle("   ")

	select {
	case m := <-h.msgs:
		t.Fatalf("no messages expected, got %#v", m)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestListenRecognizedTextIsHandled(t *testing.T) {
	h := newHarness(t)
	h.a.svc.Recognizer = &fakeListener{listenFn: func(context.Context) (string, bool) {
		return "open chrome", true
	}}

	h.a.Listen()

	// the animation flag clears before the recognized text is
	// published
	h.waitMsg(t, func(m any) bool {
		l, ok := m.(ListeningMsg)
		return ok && !l.On
	})

	m := h.waitMsg(t, func(m any) bool { _, ok := m.(RecognizedMsg); return ok })
	assert.Equal(t, "open chrome", m.(RecognizedMsg).Text)
	assert.Equal(t, "Opening chrome", h.speaker.next(t))
}

func TestListenFailureSpeaks(t *testing.T) {
	h := newHarness(t)

	h.a.Listen()
	assert.Equal(t, "I didn't catch that. Try again.", h.speaker.next(t))
}

func TestListenNewRequestCancelsStale(t *testing.T) {
	h := newHarness(t)

	firstStarted := make(chan struct{})
	var calls atomic.Int32
	h.a.svc.Recognizer = &fakeListener{listenFn: func(ctx context.Context) (string, bool) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-ctx.Done() // stale capture blocks until superseded
			return "", false
		}
		return "time now", true
	}}

	h.a.Listen()
	<-firstStarted
	h.a.Listen()

	// only the second capture produces output; the cancelled one
	// stays silent
	assert.Equal(t, "The time is 03:04 PM", h.speaker.next(t))

	select {
	case s := <-h.speaker.ch:
		t.Fatalf("stale listen spoke: %q", s)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestListenSupersededKeepsListeningFlag(t *testing.T) {
	h := newHarness(t)

	firstStarted := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	h.a.svc.Recognizer = &fakeListener{listenFn: func(ctx context.Context) (string, bool) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-ctx.Done()
			return "", false
		}
		<-release
		return "time now", true
	}}

	h.a.Listen()
	<-firstStarted
	h.a.Listen()

	// while capture #2 is still in flight the cancelled one must not
	// clear the listening flag out from under it
	deadline := time.After(300 * time.Millisecond)
drain:
	for {
		select {
		case m := <-h.msgs:
			if l, ok := m.(ListeningMsg); ok && !l.On {
				t.Fatal("superseded listen cleared the listening flag")
			}
		case <-deadline:
			break drain
		}
	}

	close(release)
	h.waitMsg(t, func(m any) bool {
		l, ok := m.(ListeningMsg)
		return ok && !l.On
	})
	assert.Equal(t, "The time is 03:04 PM", h.speaker.next(t))
}

func TestAddMappingPersistsAndRewires(t *testing.T) {
	h := newHarness(t)

	h.a.AddMapping("IDE", "mytool --open")

	require.Len(t, h.store.saved, 1)
	assert.Equal(t, "mytool --open", h.store.saved[0]["ide"])
	assert.Equal(t, "mytool --open", h.resolver.mapping["ide"])
	assert.Equal(t, "Saved mapping for ide", h.speaker.next(t))

	// a mapped name resolves through the stored command on next use
	h.a.Handle("open ide")
	assert.Contains(t, h.resolver.resolved, "ide")
}

func TestAddMappingRejectsEmpty(t *testing.T) {
	h := newHarness(t)
	h.a.AddMapping("", "cmd")
	h.a.AddMapping("name", "")

	assert.Empty(t, h.store.saved)
}

func TestGreet(t *testing.T) {
	h := newHarness(t)
	h.a.Greet()
	assert.Contains(t, h.speaker.next(t), "VoiceKit is ready")
}
