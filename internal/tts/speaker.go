package tts

import (
	"context"
	"strings"
	"sync"
	"time"

	log "log/slog"
)

const speakTimeout = 60 * time.Second

// Speaker serializes speech requests onto one background worker so
// Say never blocks the event loop. Playback order follows enqueue
// order, but the engine itself gives no non-overlap guarantee when
// other audio sources share the output device; that is accepted for
// an assistive tool.
type Speaker struct {
	engine Engine
	queue  chan string
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

func NewSpeaker(engine Engine, queueSize int) *Speaker {
	if queueSize <= 0 {
		queueSize = 16
	}
	s := &Speaker{
		engine: engine,
		queue:  make(chan string, queueSize),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Say enqueues text for synthesis and returns immediately. A full
// queue drops the text with a log line rather than blocking. Safe to
// call after Close; late arrivals from background work are dropped.
func (s *Speaker) Say(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		log.Debug("Speaker closed, dropping text", "text", text)
		return
	}
	select {
	case s.queue <- text:
	default:
		log.Warn("TTS queue full, dropping text", "text", text)
	}
}

// Close stops accepting text and waits for queued speech to finish.
func (s *Speaker) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	<-s.done
}

func (s *Speaker) run() {
	defer close(s.done)
	for text := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), speakTimeout)
		if err := s.engine.Speak(ctx, text); err != nil {
			log.Error("Speech synthesis failed", "engine", s.engine.Name(), "err", err)
		}
		cancel()
	}
}
