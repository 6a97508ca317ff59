package main

import (
	"fmt"
	"io"

	"github.com/milk9111/valentine/assets"
	"github.com/milk9111/valentine/deck"
	"github.com/milk9111/valentine/sound"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [deck.yaml]",
	Short: "Load and validate a deck",
	Long:  `Parses the deck, checks the slide registry and the music table, decodes every track and prints a summary.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		path := settings.Deck.Path
		if len(args) > 0 {
			path = args[0]
		}
		return runValidate(cmd.OutOrStdout(), path, settings.Deck.Assets, settings.Audio.SampleRate)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(out io.Writer, path, assetDir string, sampleRate int) error {
	d, err := deck.LoadDeck(path)
	if err != nil {
		return err
	}

	loader := assets.Loader{Dir: assetDir}
	lib := sound.NewLibrary(sampleRate, loader.Open)
	if err := lib.Preload(d.Sources()); err != nil {
		return fmt.Errorf("deck audio: %w", err)
	}
	infos := make(map[string]sound.Info)
	for _, src := range d.Sources() {
		b, err := loader.Open(src)
		if err != nil {
			return fmt.Errorf("deck audio: %w", err)
		}
		info, err := sound.Inspect(src, b)
		if err != nil {
			return fmt.Errorf("deck audio: %w", err)
		}
		infos[src] = info
	}

	name := path
	if name == "" {
		name = deck.DefaultName + " (embedded)"
	}
	fmt.Fprintf(out, "%s: %q\n", name, d.Title)
	fmt.Fprintf(out, "  slides: %d\n", d.Len())
	fmt.Fprintf(out, "  timing: quiet %s, fade out %s, fade in %s\n", d.Timing.QuietInterval, d.Timing.FadeOut, d.Timing.FadeIn)
	if d.Intro.Track != nil {
		fmt.Fprintf(out, "  intro:  %s\n", describeTrack(*d.Intro.Track))
	}
	for _, idx := range d.Music().Indices() {
		tr, _ := d.Music().Lookup(idx)
		fmt.Fprintf(out, "  %5d:  %s\n", idx, describeTrack(tr))
	}
	fmt.Fprintln(out, "  tracks:")
	for _, src := range d.Sources() {
		info := infos[src]
		note := ""
		if info.Silent() {
			note = "  (silent)"
		}
		fmt.Fprintf(out, "    %s: %s%s\n", src, info, note)
	}
	fmt.Fprintln(out, "deck is valid")
	return nil
}

func describeTrack(tr deck.Track) string {
	s := tr.Source
	if tr.HasStart() {
		s += fmt.Sprintf(" @%.2fs", tr.Offset())
	}
	if tr.Loop {
		s += " (loop)"
	}
	return s
}
