package main

import (
	"context"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"voicekit/internal/apps"
	"voicekit/internal/assistant"
	"voicekit/internal/audio"
	"voicekit/internal/chat"
	"voicekit/internal/config"
	"voicekit/internal/ipc"
	"voicekit/internal/proxy"
	"voicekit/internal/speech"
	"voicekit/internal/tts"
	"voicekit/internal/tui"
	"voicekit/internal/wiki"
)

func main() {
	cfg := config.Parse()

	logFile, err := os.OpenFile(logPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logFile = os.Stderr
	}
	log.SetDefault(log.New(tint.NewHandler(logFile, &tint.Options{
		Level: cfg.Level(),
	})))

	log.Info("Booting up")

	var httpClient *http.Client
	if cfg.Proxy != "" {
		httpClient, err = proxy.NewSocksClient(cfg.Proxy)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", cfg.Proxy, "err", err)
			os.Exit(1)
		}
		log.Debug("Loaded proxy")
	}

	var client *openai.Client
	if cfg.APIKey != "" {
		opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
		if httpClient != nil {
			opts = append(opts, option.WithHTTPClient(httpClient))
		}
		c := openai.NewClient(opts...)
		client = &c
		log.Debug("Loaded API client")
	} else {
		log.Info("OPENAI_API_KEY not set, remote features disabled")
	}

	speaker := tts.NewSpeaker(buildEngine(client, cfg), 16)
	defer speaker.Close()

	rec := audio.NewRecorder()
	if err := rec.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer rec.Close()
	log.Debug("Loaded recorder")

	svc := assistant.Services{
		Speaker:   speaker,
		Responder: chat.NewResponder(remoteCompleter(client)),
		Wiki:      wiki.NewClient(httpClient),
		Resolver:  apps.NewResolver(apps.Mapping{}, cfg.LaunchMode),
		Store:     apps.NewStore(cfg.MappingPath),
		OpenURL:   apps.OpenURL,
		OpenMusic: apps.OpenMusicDir,
		Cue:       tts.Cue,
	}

	if client != nil {
		svc.Recognizer = speech.NewRecognizer(rec, speech.NewOpenAITranscriber(*client))
	} else {
		svc.Recognizer = unavailableRecognizer{}
	}

	if cfg.Duck {
		svc.Ducker = audio.NewDucker([]string{"voicekit"}, 20)
	}

	var program *tea.Program
	a := assistant.New(svc, func(msg any) {
		if program != nil {
			program.Send(msg)
		}
	})

	program = tea.NewProgram(tui.New(a), tea.WithAltScreen())

	ctl, err := ipc.StartServer(cfg.SocketPath, func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case "listen":
			a.Listen()
		case "say":
			a.Speak(msg.Text)
		default:
			log.Warn("Unknown control command", "cmd", msg.Cmd)
		}
	})
	if err != nil {
		log.Warn("Control socket unavailable", "err", err)
	} else {
		defer ctl.Close()
	}

	log.Info("Boot up - successful")
	a.Greet()

	if _, err := program.Run(); err != nil {
		log.Error("UI loop failed", "err", err)
		os.Exit(1)
	}
}

// buildEngine picks the best available synthesis backend: remote when
// a credential is present, the platform speech command when
// installed, otherwise log-only.
func buildEngine(client *openai.Client, cfg *config.Config) tts.Engine {
	if client != nil {
		return tts.NewOpenAIEngine(*client, cfg.Voice)
	}
	if eng, err := tts.NewSystemEngine(cfg.Voice, cfg.Rate); err == nil {
		return eng
	}
	log.Warn("No speech engine available, falling back to log-only output")
	return tts.NoopEngine{}
}

// remoteCompleter keeps the responder on local rules when no client
// is configured.
func remoteCompleter(client *openai.Client) chat.Completer {
	if client == nil {
		return nil
	}
	return chat.NewOpenAICompleter(*client)
}

// unavailableRecognizer stands in when voice input has no backing
// service; every listen reports "nothing recognized".
type unavailableRecognizer struct{}

func (unavailableRecognizer) ListenOnce(context.Context) (string, bool) {
	log.Info("Voice input needs OPENAI_API_KEY")
	return "", false
}

func logPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "voicekit.log"
	}
	return dir + "/voicekit.log"
}
