package display

import (
	"image"

	"github.com/junsooki/reelstudio/internal/recorder"
	"github.com/junsooki/reelstudio/internal/studio"
)

// Display shows the studio and forwards user actions.
type Display interface {
	Run() error
}

// FrameSource provides the latest presented frame.
type FrameSource interface {
	Snapshot() *image.RGBA
}

// Controls are the user actions of the studio. *studio.Studio implements it.
type Controls interface {
	FrameSource
	ToggleRecording() recorder.State
	ShuffleTagline() string
	Tagline() string
	Script() []studio.Beat
	Status() recorder.State
	SaveLatest(dir string) (string, error)
}
