// Package main provides the entry point for the Pettabs CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	gap "github.com/muesli/go-app-paths"
	"github.com/pettabs/pettabs/internal/audio"
	"github.com/pettabs/pettabs/internal/content"
	"github.com/pettabs/pettabs/internal/daily"
	"github.com/pettabs/pettabs/internal/settings"
	"github.com/pettabs/pettabs/internal/soundscape"
	"github.com/pettabs/pettabs/internal/store"
	"github.com/pettabs/pettabs/internal/worker"
	"github.com/pettabs/pettabs/ui"
	"github.com/pettabs/pettabs/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const oneShotTimeout = 15 * time.Second

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	category   string
	zen        bool
	mute       bool
	clock24    bool
	workerURL  string

	rootCmd = &cobra.Command{
		Use:   "pettabs",
		Short: "A calm new-tab dashboard for your terminal",
		Long: paragraph(
			fmt.Sprintf("\nOpen a %s in your terminal: a clock, a daily pet fact and photo credit, quick links, and ambient soundscapes.", keyword("calm dashboard")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: func(*cobra.Command, []string) error {
			return runDashboard()
		},
	}
)

func validateOptions(cmd *cobra.Command) error {
	// grab config values from Viper
	category = viper.GetString("category")
	zen = viper.GetBool("zen")
	mute = viper.GetBool("mute")
	clock24 = viper.GetBool("clock24")
	workerURL = viper.GetString("worker_url")

	if workerURL == "" {
		workerURL = worker.DefaultBaseURL
	}
	if cmd.Flags().Changed("category") && category == "" {
		return fmt.Errorf("category cannot be empty")
	}
	return nil
}

// appDirs are the per-user directories Pettabs writes to.
type appDirs struct {
	config string
	data   string
}

func resolveDirs() (appDirs, error) {
	scope := gap.NewScope(gap.User, "pettabs")

	configDir := os.Getenv("PETTABS_CONFIG_HOME")
	if configDir == "" {
		dirs, err := scope.ConfigDirs()
		if err != nil || len(dirs) == 0 {
			return appDirs{}, fmt.Errorf("could not find configuration directory: %w", err)
		}
		configDir = dirs[0]
	}

	dataDirs, err := scope.DataDirs()
	if err != nil || len(dataDirs) == 0 {
		return appDirs{}, fmt.Errorf("could not find data directory: %w", err)
	}

	d := appDirs{config: configDir, data: dataDirs[0]}
	for _, dir := range []string{d.config, d.data} {
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
			return appDirs{}, fmt.Errorf("unable to create directory %s: %w", dir, err)
		}
	}
	return d, nil
}

func runDashboard() error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}
	cfg.Category = category
	cfg.ZenMode = zen
	cfg.Sound = !mute
	cfg.TwentyFourHour = clock24

	dirs, err := resolveDirs()
	if err != nil {
		return err
	}

	repo := settings.NewRepository(filepath.Join(dirs.config, "settings.json"))
	userID, err := settings.UserID(filepath.Join(dirs.config, "user_id"))
	if err != nil {
		return fmt.Errorf("unable to load user id: %w", err)
	}

	st, err := store.Open(filepath.Join(dirs.data, "pettabs.db"))
	if err != nil {
		return fmt.Errorf("unable to open content store: %w", err)
	}
	defer st.Close() //nolint:errcheck

	client := worker.New(workerURL)

	svc := daily.New(daily.Config{
		Store:  st,
		API:    client,
		UserID: userID,
		Online: utils.IsOnline,
	})
	loader := soundscape.New(soundscape.Config{
		Store:  st,
		API:    client,
		Online: utils.IsOnline,
	})

	audioCache, err := audio.NewCache(filepath.Join(dirs.data, "audio"))
	if err != nil {
		log.Warn("Audio cache unavailable", "error", err)
	} else {
		defer audioCache.Close() //nolint:errcheck
	}

	var player audio.Player
	if cfg.Sound {
		p, err := audio.NewOtoPlayer()
		if err != nil {
			log.Warn("Audio device unavailable, sound disabled", "error", err)
			cfg.Sound = false
		} else {
			defer p.Close() //nolint:errcheck
			player = p
		}
	}
	if player == nil {
		player = audio.NewMockPlayer()
	}

	prog := ui.NewProgram(cfg, ui.Deps{
		Content:     svc,
		Soundscapes: loader,
		AudioAPI:    client,
		AudioCache:  audioCache,
		Player:      player,
		Settings:    repo,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := repo.Watch(ctx, func(s settings.Settings) {
			prog.Send(ui.SettingsReloaded(s))
		}); err != nil {
			log.Debug("Settings watch unavailable", "error", err)
		}
	}()

	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("unable to run dashboard: %w", err)
	}
	return nil
}

var factCmd = &cobra.Command{
	Use:   "fact",
	Short: "Print a random pet fact",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), oneShotTimeout)
		defer cancel()

		f, err := worker.New(workerURL).Fact(ctx)
		if err != nil {
			log.Debug("Fact fetch failed, using offline fact", "error", err)
			f = content.OfflineFallback().Fact
		}
		fmt.Println(paragraph("“" + f.Content + "”"))
		return nil
	},
}

var inspireCmd = &cobra.Command{
	Use:   "inspire",
	Short: "Print a short inspirational quote",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), oneShotTimeout)
		defer cancel()

		q, err := worker.New(workerURL).Inspiration(ctx)
		if err != nil {
			log.Debug("Inspiration fetch failed, using fallback", "error", err)
			author := "Pettabs"
			q = worker.Inspiration{Content: "Have a great day!", Author: &author}
		}

		line := "“" + q.Content + "”"
		if q.Author != nil && *q.Author != "" {
			line += " — " + *q.Author
		}
		fmt.Println(paragraph(line))
		return nil
	},
}

var backgroundCmd = &cobra.Command{
	Use:   "background [CATEGORY]",
	Short: "Print the URL of a fresh background image",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), oneShotTimeout)
		defer cancel()

		cat := category
		if len(args) == 1 {
			cat = args[0]
		}
		if cat == "" {
			cat = settings.Defaults().Background.Category
		}

		imageURL, err := worker.New(workerURL).Background(ctx, cat)
		if err != nil {
			return fmt.Errorf("unable to fetch background: %w", err)
		}
		fmt.Println(imageURL)
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local content cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help() //nolint:wrapcheck
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache sizes and cached dates",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		dirs, err := resolveDirs()
		if err != nil {
			return err
		}

		st, err := store.Open(filepath.Join(dirs.data, "pettabs.db"))
		if err != nil {
			return fmt.Errorf("unable to open content store: %w", err)
		}
		defer st.Close() //nolint:errcheck

		size, err := st.Size()
		if err != nil {
			return fmt.Errorf("unable to read store size: %w", err)
		}
		dates, err := st.Dates()
		if err != nil {
			return fmt.Errorf("unable to list cached dates: %w", err)
		}

		fmt.Printf("content store: %s\n", humanize.IBytes(uint64(size))) //nolint:gosec
		for _, d := range dates {
			fmt.Printf("  %s\n", d)
		}

		audioCache, err := audio.NewCache(filepath.Join(dirs.data, "audio"))
		if err == nil {
			defer audioCache.Close() //nolint:errcheck
			fmt.Printf("audio cache: %s (%d tracks)\n",
				humanize.IBytes(uint64(audioCache.Size())), //nolint:gosec
				len(audioCache.Keys()))
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached content and audio",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		dirs, err := resolveDirs()
		if err != nil {
			return err
		}

		if err := os.Remove(filepath.Join(dirs.data, "pettabs.db")); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("unable to remove content store: %w", err)
		}

		audioCache, err := audio.NewCache(filepath.Join(dirs.data, "audio"))
		if err == nil {
			defer audioCache.Close() //nolint:errcheck
			if err := audioCache.Clear(); err != nil {
				return fmt.Errorf("unable to clear audio cache: %w", err)
			}
		}

		fmt.Println("Cache cleared.")
		return nil
	},
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVarP(&category, "category", "c", "", "content category (cat, dog, ...)")
	rootCmd.Flags().BoolVarP(&zen, "zen", "z", false, "start in zen mode")
	rootCmd.Flags().BoolVarP(&mute, "mute", "m", false, "disable soundscape playback")
	rootCmd.Flags().BoolVar(&clock24, "24h", false, "use a 24 hour clock")
	rootCmd.PersistentFlags().StringVar(&workerURL, "worker-url", "", "content API base URL")
	_ = rootCmd.PersistentFlags().MarkHidden("worker-url")

	// Config bindings
	_ = viper.BindPFlag("category", rootCmd.PersistentFlags().Lookup("category"))
	_ = viper.BindPFlag("zen", rootCmd.Flags().Lookup("zen"))
	_ = viper.BindPFlag("mute", rootCmd.Flags().Lookup("mute"))
	_ = viper.BindPFlag("clock24", rootCmd.Flags().Lookup("24h"))
	_ = viper.BindPFlag("worker_url", rootCmd.PersistentFlags().Lookup("worker-url"))

	viper.SetDefault("category", "")
	viper.SetDefault("zen", false)
	viper.SetDefault("mute", false)
	viper.SetDefault("clock24", false)
	viper.SetDefault("worker_url", worker.DefaultBaseURL)

	rootCmd.AddCommand(factCmd, inspireCmd, backgroundCmd, cacheCmd, configCmd, manCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "pettabs")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "pettabs")}, dirs...)
	}

	if c := os.Getenv("PETTABS_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("pettabs")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("pettabs")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "pettabs.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
