package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"talkie/internal/bus"
	"talkie/internal/button"
	"talkie/internal/capture"
	"talkie/internal/config"
	"talkie/internal/dialogue"
	"talkie/internal/display"
	"talkie/internal/ipc"
	"talkie/internal/proxy"
	"talkie/internal/session"
	"talkie/internal/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)
	cfg := config.Load()

	if cfg.Deepgram.APIKey == "" {
		log.Error("DEEPGRAM_API_KEY not set")
		os.Exit(1)
	}
	if cfg.OpenAI.APIKey == "" {
		log.Error("OPENAI_API_KEY not set")
		os.Exit(1)
	}

	httpClient, err := proxy.NewClient(proxy.Options{
		SocksAddr:   cfg.ProxyAddr,
		InsecureTLS: true,
	})
	if err != nil {
		log.Error("Failed to build outbound client", "proxy", cfg.ProxyAddr, "err", err)
		os.Exit(1)
	}

	input, closeInput, err := buildInput(cfg.Button)
	if err != nil {
		log.Error("Failed to set up button", "err", err)
		os.Exit(1)
	}
	defer closeInput()

	mic, err := capture.OpenMic(cfg.Audio.SampleRate)
	if err != nil {
		log.Error("Failed to open microphone", "err", err)
		os.Exit(1)
	}
	defer mic.Close()

	log.Debug("Loaded microphone", "rate", cfg.Audio.SampleRate)

	recorder := session.NewSpoolRecorder(
		capture.NewEngine(mic, capture.WallClock()),
		capture.Params{SampleRate: cfg.Audio.SampleRate, MaxDuration: cfg.Audio.MaxDuration},
		cfg.Session.SpoolDir,
	)

	transcriber := stt.NewClient(stt.Config{
		APIKey:  cfg.Deepgram.APIKey,
		BaseURL: cfg.Deepgram.BaseURL,
	}, httpClient)

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAI.APIKey),
		option.WithHTTPClient(httpClient),
		// No retry policy anywhere in the pipeline; a failed exchange is an
		// empty reply.
		option.WithMaxRetries(0),
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	responder := dialogue.NewClient(openai.NewClient(opts...), cfg.OpenAI.Model, cfg.OpenAI.Preamble)

	var events session.Events = session.Nop{}
	if cfg.BusURL != "" {
		b, err := bus.Dial(cfg.BusURL, "talkie")
		if err != nil {
			log.Warn("Bus unavailable, continuing without it", "url", cfg.BusURL, "err", err)
		} else {
			defer b.Close()
			events = b
		}
	}

	machine := session.NewMachine(
		input,
		recorder,
		transcriber,
		responder,
		display.NewTerm(os.Stdout),
		events,
		session.Config{
			PollInterval: cfg.Session.PollInterval,
			FailurePause: cfg.Session.FailurePause,
			DisplayHold:  cfg.Session.DisplayHold,
			Cooldown:     cfg.Session.Cooldown,
		},
	)

	log.Info("Boot up - successful")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	machine.Run(ctx)
	log.Info("Shutting down")
}

func buildInput(cfg config.ButtonConfig) (button.Input, func(), error) {
	switch cfg.Source {
	case "gpio":
		return &button.GPIO{Path: cfg.GPIOPath, ActiveLow: cfg.ActiveLow}, func() {}, nil
	default:
		latch := &button.Latch{}
		closeServer, err := ipc.StartServer(cfg.SocketPath, latch.Handle)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("Listening for button commands", "socket", cfg.SocketPath)
		return latch, func() { closeServer() }, nil
	}
}
