// Command execution for CLI commands.
//
// Information Hiding:
// - Component wiring (completion backend, platform client, tools, server)
// - Provider selection and fallback to the deterministic paths
// - Output formatting hidden

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/richinex/tubegate/auth"
	"github.com/richinex/tubegate/config"
	"github.com/richinex/tubegate/internal/logging"
	"github.com/richinex/tubegate/llm"
	"github.com/richinex/tubegate/metrics"
	"github.com/richinex/tubegate/query"
	"github.com/richinex/tubegate/server"
	"github.com/richinex/tubegate/summary"
	"github.com/richinex/tubegate/tools"
	"github.com/richinex/tubegate/youtube"
)

// Options holds CLI execution options.
type Options struct {
	// Provider overrides LLM_PROVIDER when set.
	Provider string
	Verbose  bool
}

// App is a fully wired gateway.
type App struct {
	Settings   config.Settings
	Logger     zerolog.Logger
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Dispatcher *tools.Dispatcher
	Flow       *auth.Flow
}

// Build loads settings from the environment and wires every component.
// Logs go to logOut.
func Build(opts Options, logOut io.Writer) (*App, error) {
	var (
		settings config.Settings
		err      error
	)
	if opts.Provider != "" {
		settings, err = config.NewFor(opts.Provider)
	} else {
		settings, err = config.New()
	}
	if err != nil {
		return nil, err
	}

	level := settings.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	logger, err := logging.New(level, logging.Format(settings.Log.Format), logOut)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	completer := createCompleter(settings, logger)
	client := youtube.NewClient(youtube.Config{
		Endpoint: settings.YouTube.Endpoint,
		Timeout:  settings.YouTube.Timeout,
	}, logger, m)

	registry, err := tools.WithDefaults(tools.Deps{
		Upstream:    client,
		Interpreter: query.NewInterpreter(jsonCompleter(completer), logger, m),
		Composer:    summary.NewComposer(completer, settings.Summary.TitleCap, logger, m),
		Region:      settings.YouTube.Region,
		HistoryMax:  settings.YouTube.HistoryMax,
		LikedMax:    settings.YouTube.LikedMax,
	})
	if err != nil {
		return nil, err
	}

	app := &App{
		Settings:   settings,
		Logger:     logger,
		Registry:   reg,
		Metrics:    m,
		Dispatcher: tools.NewDispatcher(registry, logger, m),
	}

	if settings.OAuth.Configured() {
		app.Flow, err = auth.NewFlow(auth.FlowConfig{
			ClientID:     settings.OAuth.ClientID,
			ClientSecret: settings.OAuth.ClientSecret,
			RedirectURL:  settings.OAuth.RedirectURI,
		})
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn().Msg("CLIENT_ID or REDIRECT_URI not set, /auth/login is disabled")
	}

	return app, nil
}

// Serve runs the HTTP server until ctx is cancelled.
func Serve(ctx context.Context, opts Options) error {
	app, err := Build(opts, os.Stderr)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Dispatcher:      app.Dispatcher,
		Holder:          &auth.Holder{},
		Flow:            app.Flow,
		Logger:          app.Logger,
		Metrics:         app.Metrics,
		Gatherer:        app.Registry,
		ShutdownTimeout: app.Settings.Server.ShutdownTimeout,
	})
	return srv.Start(ctx, app.Settings.Server.Addr())
}

// Call dispatches a single tool call and writes the JSON result to out.
// rawInput is the tool's input object; empty means {}.
func Call(ctx context.Context, tool, rawInput, token string, opts Options, out io.Writer) error {
	in := tools.Input{}
	if strings.TrimSpace(rawInput) != "" {
		if err := json.Unmarshal([]byte(rawInput), &in); err != nil {
			return fmt.Errorf("input must be a JSON object: %w", err)
		}
	}

	app, err := Build(opts, os.Stderr)
	if err != nil {
		return err
	}

	result := app.Dispatcher.Dispatch(ctx, auth.WithToken(token), tools.Call{Tool: tool, Input: in})
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("%s failed: %s", tool, result.Err.Code)
	}
	return nil
}

// ListTools writes the available tools to out.
func ListTools(out io.Writer, verbose bool) error {
	registry, err := tools.WithDefaults(tools.Deps{Upstream: youtube.NewClient(youtube.Config{}, zerolog.Nop(), nil)})
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintln(out, registry.Description())
		return nil
	}

	fmt.Fprintln(out, "Available tools:")
	fmt.Fprintln(out)
	for _, meta := range registry.List() {
		fmt.Fprintf(out, "  %s\n", meta.Name)
		fmt.Fprintf(out, "    %s\n", meta.Description)
		if len(meta.Aliases) > 0 {
			fmt.Fprintf(out, "    aliases: %s\n", strings.Join(meta.Aliases, ", "))
		}
		fmt.Fprintln(out)
	}
	return nil
}

// createCompleter returns the configured completion backend, or
// llm.Disabled when AI features are off or no API key is available.
func createCompleter(settings config.Settings, logger zerolog.Logger) llm.Completer {
	if settings.LLM.Disabled {
		logger.Info().Msg("LLM disabled, using deterministic fallbacks")
		return llm.Disabled{}
	}

	provider, err := createProvider(settings)
	if err != nil {
		logger.Warn().Err(err).Msg("no completion backend, using deterministic fallbacks")
		return llm.Disabled{}
	}
	logger.Info().Str("provider", provider.Name()).Str("model", provider.Model()).Msg("completion backend ready")
	return llm.NewCompleter(provider)
}

func createProvider(settings config.Settings) (llm.Provider, error) {
	providerType, err := llm.ParseProviderType(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	apiKey, err := config.APIKeyFor(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	return providerType.
		Model(settings.LLM.Model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		APIKey(apiKey)
}

// jsonInstruction covers providers without a native JSON mode.
const jsonInstruction = "Reply with a single JSON object and nothing else."

// jsonCompleter asks provider-backed completers for JSON output.
func jsonCompleter(c llm.Completer) llm.Completer {
	if pc, ok := c.(*llm.ProviderCompleter); ok {
		return pc.WithFormat(llm.NewJSONObjectFormat()).WithSystem(jsonInstruction)
	}
	return c
}
