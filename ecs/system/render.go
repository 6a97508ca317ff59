package system

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/valentine/common"
	"github.com/milk9111/valentine/ecs"
	"github.com/milk9111/valentine/ecs/component"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	titleSize    = 56
	subtitleSize = 26
	footerSize   = 16

	progressHeight = 4
)

// RenderSystem draws the slide under the cursor.
type RenderSystem struct {
	title    text.Face
	subtitle text.Face
	footer   text.Face
}

func NewRenderSystem() (*RenderSystem, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("render: load font: %w", err)
	}
	return &RenderSystem{
		title:    &text.GoTextFace{Source: src, Size: titleSize},
		subtitle: &text.GoTextFace{Source: src, Size: subtitleSize},
		footer:   &text.GoTextFace{Source: src, Size: footerSize},
	}, nil
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || CurrentStage(w) != component.StageSlides {
		return
	}
	cursor, ok := ecs.Singleton(w, component.SlideCursorComponent.Kind())
	if !ok {
		return
	}
	ref, ok := ecs.Singleton(w, component.DeckComponent.Kind())
	if !ok || ref.Deck == nil {
		return
	}
	slide, err := ref.Deck.Slide(cursor.Index)
	if err != nil {
		return
	}

	screen.Fill(slide.Background)

	cx := float64(common.BaseWidth) / 2
	cy := float64(common.BaseHeight) / 2
	if slide.Subtitle == "" {
		drawCentered(screen, slide.Title, r.title, cx, cy, slide.Foreground)
	} else {
		drawCentered(screen, slide.Title, r.title, cx, cy-30, slide.Foreground)
		drawCentered(screen, slide.Subtitle, r.subtitle, cx, cy+40, fade(slide.Foreground, 0.7))
	}

	footer := fmt.Sprintf("%d / %d", cursor.Index, cursor.Count)
	drawCentered(screen, footer, r.footer, cx, float64(common.BaseHeight)-32, fade(slide.Foreground, 0.4))

	if cursor.Count > 0 {
		progress := float32(cursor.Index) / float32(cursor.Count)
		vector.FillRect(screen, 0, float32(common.BaseHeight)-progressHeight, float32(common.BaseWidth)*progress, progressHeight, fade(slide.Foreground, 0.25), false)
	}
}

func drawCentered(dst *ebiten.Image, s string, face text.Face, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(dst, s, face, op)
}

func fade(c color.Color, alpha float64) color.Color {
	r, g, b, a := c.RGBA()
	return color.RGBA64{
		R: uint16(float64(r) * alpha),
		G: uint16(float64(g) * alpha),
		B: uint16(float64(b) * alpha),
		A: uint16(float64(a) * alpha),
	}
}
