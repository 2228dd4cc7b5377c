package mood

// moodTable lists every mood with its representative genre keywords.
// Order matters twice: the substring fallback awards the first keyword
// that matches, and score ties resolve to the earliest mood listed here.
var moodTable = []struct {
	Name     string
	Keywords []string
}{
	{"angsty", []string{
		"emo",
		"post-hardcore",
		"screamo",
		"midwest emo",
		"emo revival",
		"pop punk",
		"punk rock",
		"skate punk",
		"easycore",
	}},
	{"introspective", []string{
		"folk",
		"singer-songwriter",
		"acoustic",
		"indie folk",
		"chamber pop",
		"baroque pop",
		"art pop",
		"freak folk",
	}},
	{"dreamy", []string{
		"shoegaze",
		"dream pop",
		"ethereal",
		"ambient",
		"space rock",
		"chillwave",
		"synthwave",
		"vaporwave",
		"downtempo",
	}},
	{"aggressive", []string{
		"metal",
		"hardcore",
		"death metal",
		"black metal",
		"grindcore",
		"noise rock",
		"sludge",
		"powerviolence",
		"mathcore",
		"thrash",
	}},
	{"danceable", []string{
		"pop",
		"dance",
		"disco",
		"funk",
		"house",
		"edm",
		"synth pop",
		"electropop",
		"nu disco",
		"indie dance",
	}},
	{"melancholic", []string{
		"slowcore",
		"sadcore",
		"doom",
		"depressive",
		"gothic",
		"dark",
		"funeral doom",
		"dsbm",
		"post-punk",
	}},
	{"chaotic", []string{
		"math rock",
		"noise",
		"experimental",
		"avant-garde",
		"art rock",
		"no wave",
		"free jazz",
		"industrial",
		"glitch",
	}},
	{"nostalgic", []string{
		"80s",
		"90s",
		"retro",
		"classic rock",
		"oldies",
		"vintage",
		"throwback",
		"britpop",
		"new wave",
		"post-punk revival",
	}},
	{"warm", []string{
		"lo-fi",
		"lofi",
		"bedroom pop",
		"soft",
		"mellow",
		"cozy",
		"easy listening",
		"bossa nova",
		"smooth",
	}},
	{"energetic", []string{
		"rock",
		"indie rock",
		"alternative rock",
		"garage rock",
		"hard rock",
		"stoner rock",
		"grunge",
		"power pop",
	}},
}

// Neutral is the label returned when no keyword matches.
const Neutral = "neutral"

// Unknown marks a month with no classified tracks at all.
const Unknown = "unknown"

// Colors maps each mood label to its display color.
var Colors = map[string]string{
	"angsty":        "#e74c3c",
	"introspective": "#8e44ad",
	"dreamy":        "#9b59b6",
	"aggressive":    "#c0392b",
	"danceable":     "#f1c40f",
	"melancholic":   "#34495e",
	"chaotic":       "#e67e22",
	"nostalgic":     "#1abc9c",
	"warm":          "#3498db",
	"energetic":     "#2ecc71",
	Neutral:         "#95a5a6",
}

// Labels returns every mood label in table order, ending with Neutral.
func Labels() []string {
	labels := make([]string, 0, len(moodTable)+1)
	for _, entry := range moodTable {
		labels = append(labels, entry.Name)
	}
	return append(labels, Neutral)
}
