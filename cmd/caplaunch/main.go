package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/caplaunch/caplaunch/internal/capacities"
	"github.com/caplaunch/caplaunch/internal/command"
	"github.com/caplaunch/caplaunch/internal/config"
	"github.com/caplaunch/caplaunch/internal/feedback"
	"github.com/caplaunch/caplaunch/internal/kvstore"
	"github.com/caplaunch/caplaunch/internal/ops"
	"github.com/caplaunch/caplaunch/internal/ratelimit"
	"github.com/caplaunch/caplaunch/internal/spaceinfo"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"search": true, "save": true, "note": true, "config": true,
	"help": true,
}

// rawCommand resolves the invocation's command line. Launcher actions pass
// the input through the query environment variable; positional arguments are
// the fallback. Pending-action tokens arrive as a single argument and are
// never re-split.
func rawCommand(args []string) string {
	if env := strings.TrimSpace(os.Getenv("query")); env != "" {
		return env
	}
	return strings.TrimSpace(strings.Join(args, " "))
}

// isCLIMode determines if we should run the subcommand CLI instead of the
// launcher dispatch. The query environment variable always means launcher.
// Only a subcommand word that arrived as its own argv token counts; a whole
// command line passed as one positional argument stays a launcher query.
func isCLIMode(args []string) bool {
	if os.Getenv("query") != "" {
		return false
	}
	if len(args) == 0 {
		return false
	}
	first := strings.ToLower(args[0])
	if cliCommands[first] {
		return true
	}
	return first == "--help" || first == "-h" || first == "--version" || first == "-v"
}

// newLogger builds the invocation logger. Logging is off unless CAPLAUNCH_LOG
// asks for it, since stdout/stderr feed the launcher surface.
func newLogger() zerolog.Logger {
	level := zerolog.Disabled
	switch strings.ToLower(os.Getenv("CAPLAUNCH_LOG")) {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("invocation_id", ulid.Make().String()).
		Logger()
}

// buildDeps wires the operation dependencies around the persistent store.
func buildDeps(store *kvstore.Store, logger zerolog.Logger) ops.Deps {
	resolver := config.NewResolver(store)

	opts := []capacities.Option{capacities.WithLogger(logger)}
	if logger.GetLevel() == zerolog.DebugLevel {
		opts = append(opts, capacities.WithDebugLogging())
	}
	client := capacities.New(resolver.APIToken, opts...)

	return ops.Deps{
		Config: resolver,
		Client: client,
		Cache:  spaceinfo.New(store, ratelimit.New(store), client),
		Log:    logger,
	}
}

// dispatch routes a raw launcher command line to the matching operation.
// Deep links are handled by the caller before dispatch.
func dispatch(ctx context.Context, deps ops.Deps, raw string) *feedback.Feedback {
	switch command.Classify(raw) {
	case command.InputToken:
		action, err := command.Decode(raw)
		if err != nil {
			f := feedback.New()
			f.AddError(err)
			return f
		}
		switch action.Kind {
		case command.KindSaveWeblink:
			return ops.ExecuteSaveWeblink(ctx, deps, action.URL, action.Title)
		case command.KindNote:
			return ops.ExecuteNote(ctx, deps, action.Text)
		}

	case command.InputSavePreview:
		return ops.PrepareSaveWeblink(deps, restFields(raw))

	case command.InputNotePreview:
		return ops.PrepareNote(deps, restFields(raw))
	}

	// Default behavior: anything long enough is a search
	if utf8.RuneCountInString(strings.TrimSpace(raw)) >= ops.MinQueryChars {
		return ops.Search(ctx, deps, raw)
	}
	return ops.Help()
}

// restFields returns the whitespace-split arguments after the command word.
func restFields(raw string) []string {
	fields := strings.Fields(raw)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}

func main() {
	raw := rawCommand(os.Args[1:])

	// Deep links pass straight through to the URL-opener action; no store or
	// network involved.
	if strings.HasPrefix(raw, command.DeepLinkScheme) {
		fmt.Println(raw)
		return
	}

	logger := newLogger()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}
	baseDir := filepath.Join(homeDir, ".caplaunch")

	config.LoadEnvFile(baseDir)

	store, err := kvstore.Open(baseDir)
	if err != nil {
		// Even init failures render as launcher entries, not process errors
		f := feedback.New()
		f.AddError(err)
		_ = f.Send(os.Stdout)
		return
	}
	defer store.Close()

	deps := buildDeps(store, logger)
	storePath := filepath.Join(baseDir, "caplaunch.db")

	if isCLIMode(os.Args[1:]) {
		runCLI(deps, storePath, os.Args, os.Stdout)
		return
	}

	f := dispatch(context.Background(), deps, raw)
	if err := f.Send(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
