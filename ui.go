package main

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/valentine/common"
	"github.com/milk9111/valentine/deck"
	"github.com/milk9111/valentine/ecs"
	"github.com/milk9111/valentine/ecs/component"
	"github.com/milk9111/valentine/ecs/system"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	screenBackground = color.NRGBA{R: 0xff, G: 0xf1, B: 0xf2, A: 0xff}
	inkColor         = color.NRGBA{R: 0x4c, G: 0x05, B: 0x19, A: 0xff}
	hintColor        = color.NRGBA{R: 0x9f, G: 0x12, B: 0x39, A: 0xc0}
	buttonIdle       = color.NRGBA{R: 0xe1, G: 0x1d, B: 0x48, A: 0xff}
	buttonHover      = color.NRGBA{R: 0xbe, G: 0x12, B: 0x3c, A: 0xff}
	buttonQuiet      = color.NRGBA{R: 0xfd, G: 0xa4, B: 0xaf, A: 0xff}
)

type uiFaces struct {
	heading ebtext.Face
	button  ebtext.Face
	hint    ebtext.Face
}

func newUIFaces() (*uiFaces, error) {
	src, err := ebtext.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("ui: load font: %w", err)
	}
	return &uiFaces{
		heading: &ebtext.GoTextFace{Source: src, Size: 40},
		button:  &ebtext.GoTextFace{Source: src, Size: 24},
		hint:    ebtext.NewGoXFace(basicfont.Face7x13),
	}, nil
}

// newGateUI asks the question with a confirm and a decline button.
func newGateUI(w *ecs.World, d *deck.Deck, faces *uiFaces) *ebitenui.UI {
	panel := newPanel()
	panel.AddChild(newLabel(d.Gate.Question, faces.heading, inkColor))

	buttons := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(24),
		)),
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	buttons.AddChild(newStageButton(w, d.Gate.Confirm, component.ActionConfirm, faces.button, buttonIdle))
	buttons.AddChild(newStageButton(w, d.Gate.Decline, component.ActionDecline, faces.button, buttonQuiet))
	panel.AddChild(buttons)

	return wrap(panel)
}

// newIntroUI shows the intro copy and the start button. The intro track is
// already playing by the time this is visible.
func newIntroUI(w *ecs.World, d *deck.Deck, faces *uiFaces) *ebitenui.UI {
	panel := newPanel()
	panel.AddChild(newLabel(d.Intro.Text, faces.heading, inkColor))
	panel.AddChild(newStageButton(w, d.Intro.Button, component.ActionStart, faces.button, buttonIdle))
	panel.AddChild(newLabel("scroll, or use the arrow keys", faces.hint, hintColor))
	return wrap(panel)
}

func newNopeUI(d *deck.Deck, faces *uiFaces) *ebitenui.UI {
	panel := newPanel()
	panel.AddChild(newLabel(d.Nope.Text, faces.heading, inkColor))
	return wrap(panel)
}

func newPanel() *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(28),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 40, Bottom: 40, Left: 60, Right: 60}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/2, common.BaseHeight/3),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
}

func newLabel(s string, face ebtext.Face, clr color.Color) *widget.Text {
	return widget.NewText(
		widget.TextOpts.Text(s, &face, clr),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
}

// newStageButton enqueues a stage request when clicked; the stage system
// picks it up later in the same frame.
func newStageButton(w *ecs.World, label string, action component.StageAction, face ebtext.Face, idle color.Color) *widget.Button {
	img := &widget.ButtonImage{
		Idle:    imageui.NewNineSliceColor(idle),
		Hover:   imageui.NewNineSliceColor(buttonHover),
		Pressed: imageui.NewNineSliceColor(buttonHover),
	}
	textColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}

	return widget.NewButton(
		widget.ButtonOpts.Image(img),
		widget.ButtonOpts.Text(label, &face, textColor),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(160, 56),
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter}),
		),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			system.RequestStage(w, action)
		}),
	)
}

func wrap(panel *widget.Container) *ebitenui.UI {
	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}
