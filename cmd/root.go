package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"recworklist/internal/api"
	"recworklist/internal/app"
	"recworklist/internal/cachemanager"
	"recworklist/internal/config"
	"recworklist/internal/flags"
	"recworklist/internal/history"
	"recworklist/internal/infrastructure/sqlite"
	"recworklist/internal/log"
	"recworklist/internal/page"
	"recworklist/internal/tracing"
	"recworklist/internal/ui/worklist"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// Config file locations, in lookup order.
const (
	localConfigPath = ".recworklist/config.yaml"
	envLogPath      = "RECWORKLIST_LOG"
)

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "recworklist",
	Short: "A terminal worklist for a web recording scheduler",
	Long: `A terminal user interface for the recorder's worklist page: select programs,
sync series, run bulk commands, add programs and highlight keywords.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .recworklist/config.yaml, then ~/.config/recworklist/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (also RECWORKLIST_DEBUG); ctrl+x shows it in the UI")
	rootCmd.PersistentFlags().String("base-url", "", "recorder CGI directory (overrides base_url)")
	rootCmd.PersistentFlags().String("provider", "", "provider sent with requests (overrides provider)")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"do not reload highlight keywords when the local database changes")

	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
}

func initConfig() {
	setDefaults(viper.GetViper(), config.Defaults())
	viper.SetEnvPrefix("RECWORKLIST")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .recworklist/config.yaml (current directory)
		// 2. ~/.config/recworklist/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			if dir := config.Dir(); dir != "" {
				viper.AddConfigPath(dir)
			}
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// No config anywhere: write the commented default to the user config.
			defaultPath := userConfigPath()
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
	cfg.Storage.Path = config.ExpandHome(cfg.Storage.Path)
	cfg.Tracing.FilePath = config.ExpandHome(cfg.Tracing.FilePath)
}

// setDefaults registers every config key so environment overrides and
// Unmarshal see them without a config file.
func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("page", d.Page)
	v.SetDefault("provider", d.Provider)
	v.SetDefault("sort_by", d.SortBy)
	v.SetDefault("auto_refresh", d.AutoRefresh)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.page_cache_ttl", d.API.PageCacheTTL)
	v.SetDefault("ui.title", d.UI.Title)
	v.SetDefault("ui.double_click", d.UI.DoubleClick)
	v.SetDefault("ui.mouse", d.UI.Mouse)
	v.SetDefault("ui.show_detail_inline", d.UI.ShowDetailInline)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("flags", d.Flags)
}

func userConfigPath() string {
	if dir := config.Dir(); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	return localConfigPath
}

// configPath is the file sort order changes are saved to.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return userConfigPath()
}

// runtime holds the services shared by the TUI and the subcommands.
type runtime struct {
	client   *api.Client
	db       *sqlite.DB
	tracing  *tracing.Provider
	flags    *flags.Registry
	recorder *history.Recorder
	cleanup  []func()
}

func (r *runtime) Close() {
	for i := len(r.cleanup) - 1; i >= 0; i-- {
		r.cleanup[i]()
	}
}

// setupLogging initializes the debug log when requested by flag or env.
func setupLogging(prefix string) (func(), error) {
	if os.Getenv(log.EnvDebug) == "" && !debugFlag {
		return func() {}, nil
	}
	logPath := os.Getenv(envLogPath)
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "recworklist starting", "debug", true, "logPath", logPath, "version", version)
	return cleanup, nil
}

// newRuntime validates the config and opens the client, the database and
// the tracer. needAPI is false for commands that only touch local storage.
func newRuntime(needAPI bool) (*runtime, error) {
	r := &runtime{flags: flags.New(cfg.Flags)}

	logCleanup, err := setupLogging("recworklist")
	if err != nil {
		return nil, err
	}
	r.cleanup = append(r.cleanup, logCleanup)

	if needAPI {
		if err := config.Validate(cfg); err != nil {
			r.Close()
			return nil, fmt.Errorf("invalid configuration (%s): %w", configPath(), err)
		}

		tp, err := tracing.NewProvider(cfg.Tracing)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("initializing tracing: %w", err)
		}
		r.tracing = tp
		r.cleanup = append(r.cleanup, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
			}
		})

		client, err := api.New(api.Config{
			BaseURL: cfg.BaseURL,
			Page:    cfg.Page,
			Timeout: cfg.API.Timeout,
			Tracer:  tp.Tracer(),
		})
		if err != nil {
			r.Close()
			return nil, err
		}
		r.client = client
	}

	db, err := sqlite.NewDB(cfg.Storage.Path)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("opening local database: %w", err)
	}
	r.db = db
	r.cleanup = append(r.cleanup, func() { _ = db.Close() })
	r.recorder = history.New(db.Results(), r.flags.Enabled(flags.FlagResultHistory))
	return r, nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(true)
	if err != nil {
		return err
	}
	defer rt.Close()

	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}

	pages := cachemanager.NewReadThrough[*page.Page, string](
		cachemanager.NewMemory[*page.Page]("page", cfg.API.PageCacheTTL, 2*cfg.API.PageCacheTTL),
		rt.client.FetchPage,
		cfg.API.PageCacheTTL,
	)

	zone.NewGlobal()
	model := app.New(app.Options{
		Services: worklist.Services{
			API:        rt.client,
			Pages:      pages,
			Results:    rt.recorder,
			Highlights: rt.db.Storage(),
			Flags:      rt.flags,
			Config:     &cfg,
			ConfigPath: configPath(),
			Clipboard:  worklist.SystemClipboard{},
		},
		WatchPath: rt.db.Path(),
		Debug:     debugFlag || os.Getenv(log.EnvDebug) != "",
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	_, err = tea.NewProgram(model, opts...).Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
