package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/valentine/assets"
	"github.com/milk9111/valentine/common"
	"github.com/milk9111/valentine/config"
	"github.com/milk9111/valentine/deck"
	"github.com/milk9111/valentine/sound"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "settings.toml"

type options struct {
	deck       string
	assets     string
	config     string
	quiet      time.Duration
	watch      bool
	debug      bool
	fullscreen bool
	logLevel   string
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "valentine",
	Short: "A gated slideshow with per-slide music",
	Long: `valentine asks one question, plays an intro, then walks through a deck of
slides one scroll gesture at a time while crossfading the music assigned to
each slide.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		return run(settings)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.config, "config", defaultConfigPath, "settings file (toml)")
	flags.StringVar(&opts.deck, "deck", "", "deck file (yaml); empty uses the embedded deck")
	flags.StringVar(&opts.assets, "assets", "", "directory searched for audio before the embedded assets")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.Flags().DurationVar(&opts.quiet, "quiet", 0, "gesture quiet interval; zero uses the deck timing")
	rootCmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the deck when it changes on disk")
	rootCmd.Flags().BoolVar(&opts.debug, "debug", false, "draw the debug overlay")
	rootCmd.Flags().BoolVar(&opts.fullscreen, "fullscreen", false, "start fullscreen")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSettings reads the settings file and applies any flags that were set
// explicitly on top of it.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path := opts.config
	var (
		settings *config.Settings
		err      error
	)
	if cmd.Flags().Changed("config") {
		settings, err = config.Load(path)
	} else {
		settings, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("deck") {
		settings.Deck.Path = opts.deck
	}
	if flags.Changed("assets") {
		settings.Deck.Assets = opts.assets
	}
	if flags.Changed("watch") {
		settings.Deck.Watch = opts.watch
	}
	if flags.Changed("fullscreen") {
		settings.Window.Fullscreen = opts.fullscreen
	}
	if flags.Changed("log-level") {
		settings.Log.Level = opts.logLevel
	}
	return settings, nil
}

func run(settings *config.Settings) error {
	logger := common.NewLogger(os.Stderr, settings.Log.Level).With("session", uuid.NewString())

	d, err := deck.LoadDeck(settings.Deck.Path)
	if err != nil {
		return err
	}
	logger.Info("deck loaded", "title", d.Title, "slides", d.Len(), "tracks", d.Music().Len())

	lib := sound.NewLibrary(settings.Audio.SampleRate, assets.Loader{Dir: settings.Deck.Assets}.Open)
	if err := lib.Preload(d.Sources()); err != nil {
		// Missing tracks only silence their slides.
		logger.Warn("preload audio", "err", err)
	}
	out := sound.NewOutput(audio.NewContext(settings.Audio.SampleRate), lib, logger)
	defer out.Close()

	game, err := NewGame(GameConfig{
		Deck:     d,
		DeckPath: settings.Deck.Path,
		Watch:    settings.Deck.Watch,
		Output:   out,
		Logger:   logger,
		Quiet:    opts.quiet,
		Master:   settings.Audio.Volume,
		Debug:    opts.debug,
	})
	if err != nil {
		return err
	}
	defer game.Close()

	ebiten.SetWindowTitle(windowTitle(settings, d))
	ebiten.SetWindowSize(settings.Window.Width, settings.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(settings.Window.Fullscreen)

	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	logger.Info("session ended", "slide", game.Snapshot().Index)
	return nil
}

func windowTitle(settings *config.Settings, d *deck.Deck) string {
	if settings.Window.Title != "" {
		return settings.Window.Title
	}
	if d.Title != "" {
		return d.Title
	}
	return "valentine"
}
