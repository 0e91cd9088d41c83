package scenes

import (
	"fmt"
	"image/color"
	"time"

	"github.com/cbodonnell/coinflip/client/fonts"
	"github.com/cbodonnell/coinflip/client/input"
	"github.com/cbodonnell/coinflip/client/objects"
	"github.com/cbodonnell/coinflip/pkg/collisions"
	"github.com/cbodonnell/coinflip/pkg/flip"
	"github.com/cbodonnell/coinflip/pkg/presenters"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// MaxTimelineRows is how many timeline entries fit under the stats.
	MaxTimelineRows = 12

	coinX      = 165
	coinY      = 200
	coinRadius = 90
	bannerY    = 350
)

var (
	textColor       = color.NRGBA{254, 255, 255, 255}
	mutedTextColor  = color.NRGBA{R: 160, G: 160, B: 170, A: 255}
	disabledColor   = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	backgroundColor = color.NRGBA{R: 30, G: 32, B: 40, A: 255}
)

// CoinScene is the coin flip widget. It renders whatever the flip engine
// tells it to and forwards user actions through its callbacks.
type CoinScene struct {
	*BaseScene

	onFlip    func()
	onReset   func()
	flipDelay time.Duration

	ui         *ebitenui.UI
	coin       *objects.Coin
	banner     *objects.Banner
	flipButton *widget.Button
	statsText  *widget.Text
	timeline   *widget.Container
}

type CoinSceneOptions struct {
	// OnFlip is called when the user asks for a flip.
	OnFlip func()
	// OnReset is called when the user asks for a reset.
	OnReset func()
	// FlipDelay is how long the coin spins.
	FlipDelay time.Duration
	// ScreenWidth and ScreenHeight size the hit space.
	ScreenWidth  int
	ScreenHeight int
}

var _ Scene = &CoinScene{}
var _ flip.Presenter = &CoinScene{}

func NewCoinScene(opts CoinSceneOptions) (*CoinScene, error) {
	if opts.OnFlip == nil || opts.OnReset == nil {
		return nil, fmt.Errorf("flip and reset handlers are required")
	}

	s := &CoinScene{
		BaseScene: NewBaseScene(objects.NewBaseObject("coin-root", nil)),
		onFlip:    opts.OnFlip,
		onReset:   opts.OnReset,
		flipDelay: opts.FlipDelay,
	}

	s.coin = objects.NewCoin("coin", objects.NewCoinOptions{
		X:            coinX,
		Y:            coinY,
		Radius:       coinRadius,
		SpinDuration: opts.FlipDelay,
		HitSpace:     collisions.NewHitSpace(opts.ScreenWidth, opts.ScreenHeight),
		OnClick:      s.onFlip,
		ZIndex:       10,
	})
	s.banner = objects.NewBanner("banner", objects.NewBannerOptions{
		X:      coinX,
		Y:      bannerY,
		ZIndex: 20,
	})
	if err := s.Root.AddChild(s.coin); err != nil {
		return nil, fmt.Errorf("failed to add coin: %v", err)
	}
	if err := s.Root.AddChild(s.banner); err != nil {
		return nil, fmt.Errorf("failed to add banner: %v", err)
	}

	return s, nil
}

func (s *CoinScene) Init() error {
	s.renderUI()
	return s.BaseScene.Init()
}

func (s *CoinScene) renderUI() {
	buttonImage := &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(color.NRGBA{R: 170, G: 170, B: 180, A: 255}),
		Hover:    image.NewNineSliceColor(color.NRGBA{R: 135, G: 135, B: 150, A: 255}),
		Pressed:  image.NewNineSliceColor(color.NRGBA{R: 100, G: 100, B: 120, A: 255}),
		Disabled: image.NewNineSliceColor(color.NRGBA{R: 80, G: 80, B: 90, A: 255}),
	}

	fontFace := fonts.TTFNormalFont

	rootContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(backgroundColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(12),
			widget.RowLayoutOpts.Padding(widget.Insets{
				Top:    30,
				Left:   340,
				Right:  20,
				Bottom: 20,
			}))),
	)

	buttonContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(20),
		)),
	)

	s.flipButton = widget.NewButton(
		widget.ButtonOpts.Image(buttonImage),
		widget.ButtonOpts.Text("Flip", fontFace, &widget.ButtonTextColor{
			Idle:     textColor,
			Disabled: disabledColor,
		}),
		widget.ButtonOpts.TextPadding(widget.Insets{
			Left:   30,
			Right:  30,
			Top:    5,
			Bottom: 5,
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			s.onFlip()
		}),
	)
	buttonContainer.AddChild(s.flipButton)

	resetButton := widget.NewButton(
		widget.ButtonOpts.Image(buttonImage),
		widget.ButtonOpts.Text("Reset", fontFace, &widget.ButtonTextColor{
			Idle:     textColor,
			Disabled: disabledColor,
		}),
		widget.ButtonOpts.TextPadding(widget.Insets{
			Left:   30,
			Right:  30,
			Top:    5,
			Bottom: 5,
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			s.onReset()
		}),
	)
	buttonContainer.AddChild(resetButton)
	rootContainer.AddChild(buttonContainer)

	s.statsText = widget.NewText(
		widget.TextOpts.Text(presenters.FormatTally(0, 0, 0), fontFace, textColor),
	)
	rootContainer.AddChild(s.statsText)

	rootContainer.AddChild(widget.NewText(
		widget.TextOpts.Text("History", fonts.MPlusNormalFont, mutedTextColor),
	))

	s.timeline = widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
		)),
	)
	rootContainer.AddChild(s.timeline)

	s.ui = &ebitenui.UI{
		Container: rootContainer,
	}
}

func (s *CoinScene) ShowFlipping(outcome flip.Outcome) {
	s.flipButton.GetWidget().Disabled = true
	s.banner.Hide()
	s.coin.StartSpin(outcome)
}

func (s *CoinScene) ShowResult(outcome flip.Outcome) {
	s.coin.Land(outcome)
	s.banner.Show(outcome.Label(), OutcomeColor(outcome))
	s.flipButton.GetWidget().Disabled = false
}

func (s *CoinScene) ClearResult() {
	s.banner.Hide()
	s.coin.Rest()
	s.flipButton.GetWidget().Disabled = false
}

func (s *CoinScene) RenderTally(heads, tails, total uint) {
	s.statsText.Label = presenters.FormatTally(heads, tails, total)
}

func (s *CoinScene) RenderHistory(records []flip.Record) {
	s.timeline.RemoveChildren()
	for i, record := range records {
		if i == MaxTimelineRows {
			s.addTimelineRow(fmt.Sprintf("+%d more", len(records)-MaxTimelineRows), mutedTextColor)
			break
		}
		s.addTimelineRow(presenters.FormatRecord(record), OutcomeColor(record.Outcome))
	}
}

func (s *CoinScene) RenderEmptyHistory() {
	s.timeline.RemoveChildren()
	s.addTimelineRow(presenters.EmptyHistoryText, mutedTextColor)
}

func (s *CoinScene) addTimelineRow(label string, clr color.Color) {
	s.timeline.AddChild(widget.NewText(
		widget.TextOpts.Text(label, fonts.TTFSmallFont, clr),
	))
}

func (s *CoinScene) Update() error {
	s.ui.Update()

	if input.IsFlipJustPressed() {
		s.onFlip()
	}
	if input.IsResetJustPressed() {
		s.onReset()
	}

	return s.BaseScene.Update()
}

func (s *CoinScene) Draw(screen *ebiten.Image) {
	s.ui.Draw(screen)
	s.BaseScene.Draw(screen)
}

// OutcomeColor returns the accent color of outcome.
func OutcomeColor(outcome flip.Outcome) color.Color {
	if outcome == flip.OutcomeHeads {
		return objects.HeadsColor
	}
	return objects.TailsColor
}
