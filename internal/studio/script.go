package studio

// Beat is one line of the reel's shot list.
type Beat struct {
	ID        int
	Timestamp string
	Visual    string
	Narration string
	Prompt    string
}

// Taglines are the hero hooks cycled by ShuffleTagline.
var Taglines = []string{
	"The planet is your canvas.",
	"Intelligence with a global pulse.",
	"From satellites to city streets.",
	"Tomorrow's atlas is AI powered.",
	"See the world, augmented.",
}

type intro struct {
	visual    string
	narration string
	prompt    string
}

var introVariants = []intro{
	{
		visual:    "Title burst over neon earth.",
		narration: "AI is rewriting how we see our planet.",
		prompt:    "Close-up orbital shot, neon holographic earth, cinematic lighting",
	},
	{
		visual:    "Neon earth ignites with data arcs.",
		narration: "AI vision redraws the map in real time.",
		prompt:    "Orbital macro lens, glowing data threads, deep blues",
	},
	{
		visual:    "Planetary mesh builds from a single spark.",
		narration: "Machine intelligence is stitching a living atlas.",
		prompt:    "Point-cloud planet, iridescent glow, volumetric atmosphere",
	},
}

// BuildScript returns the five-beat shot list. The opening beat depends on seed.
func BuildScript(seed int) []Beat {
	if seed < 0 {
		seed = -seed
	}
	in := introVariants[seed%len(introVariants)]
	return []Beat{
		{ID: 1, Timestamp: "0.0s", Visual: in.visual, Narration: in.narration, Prompt: in.prompt},
		{
			ID:        2,
			Timestamp: "1.2s",
			Visual:    "Data rings sweep continents.",
			Narration: "Every city becomes a live pulse of data.",
			Prompt:    "Glowing data rings wrapping continents, volumetric fog, cyberpunk",
		},
		{
			ID:        3,
			Timestamp: "2.4s",
			Visual:    "Drone POV dives toward skyline.",
			Narration: "Vision models chart opportunity in real time.",
			Prompt:    "Futuristic drone flythrough, glass skyscrapers, sunrise rim light",
		},
		{
			ID:        4,
			Timestamp: "3.6s",
			Visual:    "Networks stitch global grid.",
			Narration: "Networks sync ideas from Lagos to Tokyo.",
			Prompt:    "Global network mesh wires, luminous nodes, deep blues",
		},
		{
			ID:        5,
			Timestamp: "4.8s",
			Visual:    "Logo and CTA flare out.",
			Narration: "This is your world, amplified by AI.",
			Prompt:    "Minimal logo outro, particle trails, bold typography",
		},
	}
}

// Checklist is the upload checklist shown next to the preview.
var Checklist = []string{
	"Download the take and convert to MP4 (FFmpeg or Handbrake).",
	"Trim to 5.5s in CapCut or Premiere for seamless loop.",
	"Add voiceover using the narration beats above.",
	"Set cover frame to the first second (title burst).",
	"Use hashtags: #FutureAtlas #AIReels #GlobalVision",
}
