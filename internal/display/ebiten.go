package display

import (
	"fmt"
	"image"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/junsooki/reelstudio/internal/studio"
)

const (
	panelWidth = 420
	helpText   = "[R] record/stop  [T] shuffle hook  [D] download latest take  [Esc] quit"

	noticeStarting     = "Starting capture..."
	noticeStopping     = "Saving take..."
	noticeBusy         = "Still working on the last take."
	noticeNothingSaved = "Nothing to download yet."
)

// EbitenDisplay renders the studio surface using Ebitengine and maps key
// presses onto studio actions.
type EbitenDisplay struct {
	controls  Controls
	outputDir string
	logger    *log.Logger

	mu          sync.Mutex
	ebitenImage *ebiten.Image
	notice      string

	// set while a start or stop runs off the game loop
	toggling atomic.Bool

	windowW int
	windowH int
}

// NewEbitenDisplay creates an Ebitengine-based display. Saved takes go to outputDir.
func NewEbitenDisplay(controls Controls, outputDir string, logger *log.Logger) *EbitenDisplay {
	if logger == nil {
		logger = log.Default()
	}
	return &EbitenDisplay{
		controls:  controls,
		outputDir: outputDir,
		logger:    logger,
		windowW:   360 + panelWidth,
		windowH:   640,
	}
}

// Run starts the Ebitengine game loop. Must be called from the main goroutine.
func (d *EbitenDisplay) Run() error {
	ebiten.SetWindowSize(d.windowW, d.windowH)
	ebiten.SetWindowTitle("AI Cover the World")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(d)
}

// --- ebiten.Game interface ---

func (d *EbitenDisplay) Update() error {
	for _, k := range []ebiten.Key{ebiten.KeyEscape, ebiten.KeyQ} {
		if inpututil.IsKeyJustPressed(k) {
			return ebiten.Termination
		}
	}
	for k, action := range keyActions {
		if inpututil.IsKeyJustPressed(k) {
			action(d)
		}
	}
	return nil
}

// keyActions maps keys to studio actions. Each posts a notice for the overlay.
var keyActions = map[ebiten.Key]func(*EbitenDisplay){
	ebiten.KeyR: (*EbitenDisplay).toggleRecording,
	ebiten.KeyT: (*EbitenDisplay).shuffleTagline,
	ebiten.KeyD: (*EbitenDisplay).download,
}

// toggleRecording runs the start or stop on its own goroutine. Stopping waits
// for the encoder to flush its container, which must not stall Update.
func (d *EbitenDisplay) toggleRecording() {
	if !d.toggling.CompareAndSwap(false, true) {
		d.setNotice(noticeBusy)
		return
	}
	if d.controls.Status().Recording {
		d.setNotice(noticeStopping)
	} else {
		d.setNotice(noticeStarting)
	}
	go func() {
		defer d.toggling.Store(false)
		d.setNotice(d.controls.ToggleRecording().Message)
	}()
}

func (d *EbitenDisplay) shuffleTagline() {
	d.setNotice("Hook: " + d.controls.ShuffleTagline())
}

func (d *EbitenDisplay) download() {
	if d.toggling.Load() {
		d.setNotice(noticeBusy)
		return
	}
	path, err := d.controls.SaveLatest(d.outputDir)
	if err != nil {
		d.logger.Warn("download latest take", "err", err)
		d.setNotice(noticeNothingSaved)
		return
	}
	d.setNotice("Saved " + path)
}

func (d *EbitenDisplay) setNotice(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notice = msg
}

func (d *EbitenDisplay) Draw(screen *ebiten.Image) {
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	previewW := sw - panelWidth
	if previewW < 1 {
		previewW = sw
	}

	if frame := d.controls.Snapshot(); frame != nil {
		d.drawFrame(screen, frame, previewW, sh)
	}

	x := previewW + 12
	if x >= sw {
		x = 12
	}
	ebitenutil.DebugPrintAt(screen, d.panelText(), x, 12)
}

func (d *EbitenDisplay) drawFrame(screen *ebiten.Image, frame *image.RGBA, viewW, viewH int) {
	fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()
	if d.ebitenImage == nil ||
		d.ebitenImage.Bounds().Dx() != fw ||
		d.ebitenImage.Bounds().Dy() != fh {
		d.ebitenImage = ebiten.NewImage(fw, fh)
	}
	d.ebitenImage.WritePixels(frame.Pix)

	scale, offsetX, offsetY := aspectFitTransform(float64(viewW), float64(viewH), float64(fw), float64(fh))
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(d.ebitenImage, op)
}

func (d *EbitenDisplay) panelText() string {
	return composePanel(d.controls, d.currentNotice())
}

func (d *EbitenDisplay) currentNotice() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notice
}

// composePanel lays out the side panel: card, status, shot list and help.
func composePanel(c Controls, notice string) string {
	var b strings.Builder
	st := c.Status()

	b.WriteString("INSTAGRAM REEL - 9:16\n")
	b.WriteString("AI COVER THE WORLD\n")
	b.WriteString(c.Tagline() + "\n\n")
	if st.Recording {
		b.WriteString("[REC] ")
	}
	b.WriteString(st.Message + "\n")
	if notice != "" && notice != st.Message {
		b.WriteString(notice + "\n")
	}

	b.WriteString("\nSHOT LIST\n")
	for _, beat := range c.Script() {
		fmt.Fprintf(&b, "%s  %s\n      %s\n", beat.Timestamp, beat.Visual, beat.Narration)
	}
	b.WriteString("\nUPLOAD CHECKLIST\n")
	for _, item := range studio.Checklist {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\n" + helpText + "\n")
	return b.String()
}

func (d *EbitenDisplay) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// aspectFitTransform returns scale and offsets to fit frame into view with letterboxing.
func aspectFitTransform(viewW, viewH, frameW, frameH float64) (scale, offsetX, offsetY float64) {
	scale = math.Min(viewW/frameW, viewH/frameH)
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return
}
