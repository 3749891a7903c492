package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"attendanceclient/config"
	"attendanceclient/internal/adapters/auth"
	"attendanceclient/internal/adapters/remote"
	"attendanceclient/internal/domain"
	"attendanceclient/internal/filter"
	"attendanceclient/internal/services"
)

type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	deps     services.Deps
	identity *domain.Identity
	out      io.Writer
	errOut   io.Writer
	usage    string
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"events":          {"events [-status upcoming|ongoing|completed|cancelled|all]", runEvents},
	"event":           {"event -id EVENT_ID", runEvent},
	"stats":           {"stats", runStats},
	"logs":            {"logs [-date YYYY-MM-DD] [-search TEXT] [-status on_time|late|half_day|all]", runLogs},
	"employees":       {"employees [-search TEXT]", runEmployees},
	"mark":            {"mark -event EVENT_ID -employee EMPLOYEE_ID", runMark},
	"link":            {"link -event EVENT_ID -camera CAMERA_ID", runLink},
	"unlink":          {"unlink -event EVENT_ID -camera CAMERA_ID", runUnlink},
	"delete-event":    {"delete-event -id EVENT_ID", runDeleteEvent},
	"delete-employee": {"delete-employee -id EMPLOYEE_ID", runDeleteEmployee},
	"export":          {"export -format pdf|excel|csv [-date YYYY-MM-DD] [-event EVENT_ID]", runExport},
	"notifications":   {"notifications", runNotifications},
	"test-email":      {"test-email -to EMAIL", runTestEmail},
	"daily-summary":   {"daily-summary [-to EMAIL]", runDailySummary},
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: attendancectl [-yes] <command> [flags]")
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("attendancectl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { usage(stderr) }
	yes := global.Bool("yes", false, "answer yes to every confirmation prompt")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		usage(stderr)
		return 2
	}
	cmd, ok := commands[global.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", global.Arg(0))
		usage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	logger := cfg.NewLogger(stderr)

	a, err := newApp(cfg, logger, stdin, stdout, stderr, *yes)
	if err != nil {
		logger.Error("failed to initialize client", "err", err)
		return 1
	}
	a.usage = cmd.usage

	if err := cmd.run(ctx, a, global.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		// remote failures were already shown as notices
		var gwErr *domain.GatewayError
		if !errors.As(err, &gwErr) {
			fmt.Fprintln(stderr, "error:", err)
		}
		return 1
	}
	return 0
}

func newApp(cfg *config.Config, logger *slog.Logger, stdin io.Reader, stdout, stderr io.Writer, yes bool) (*app, error) {
	gw, err := remote.NewGateway(remote.Config{
		BaseURL:   cfg.APIBaseURL,
		Token:     cfg.APIToken,
		Timeout:   cfg.APITimeout,
		Transport: remote.LoggingTransport(logger, http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway: %w", err)
	}

	var identity *domain.Identity
	if cfg.APIToken != "" {
		identity, err = auth.NewJWTIdentityReader(cfg.JWTSecret).Read(cfg.APIToken)
		if err != nil {
			logger.Warn("could not read identity from API token", "err", err)
			identity = nil
		}
	}

	var confirmer services.Confirmer
	if !yes {
		confirmer = promptConfirmer(bufio.NewReader(stdin), stderr)
	}
	notifier := &consoleNotifier{out: stdout, next: services.NewLogNotifier(logger)}

	return &app{
		cfg:      cfg,
		logger:   logger,
		identity: identity,
		out:      stdout,
		errOut:   stderr,
		deps: services.Deps{
			Logger:      logger,
			Gateway:     gw,
			Notifier:    notifier,
			Coordinator: services.NewMutationCoordinator(logger, notifier, confirmer),
		},
	}, nil
}

func (a *app) filterOptions() []filter.Option {
	return []filter.Option{filter.WithDebounce(a.cfg.SearchDebounce)}
}

// consoleNotifier prints notices for the user and forwards them to the log.
type consoleNotifier struct {
	out  io.Writer
	next services.Notifier
}

func (n *consoleNotifier) Notify(ctx context.Context, notice services.Notice) {
	mark := "ok"
	if notice.Level == services.NoticeFailure {
		mark = "failed"
	}
	fmt.Fprintf(n.out, "[%s] %s\n", mark, notice.Message)
	n.next.Notify(ctx, notice)
}

func promptConfirmer(in *bufio.Reader, out io.Writer) services.Confirmer {
	return services.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, fmt.Errorf("read confirmation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}
