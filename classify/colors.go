package classify

// Category -> display color lookup. The table is checked against the
// vocabulary at init so a new category cannot ship without a color.

// DefaultColor is returned for any category missing from the table.
const DefaultColor = "#FFFFFF"

var colorTable = map[Category]string{
	Drums:      "#FFD700", // yellow
	SnareDrum:  "#FFA500", // orange
	BassDrum:   "#FF4500", // red-orange
	Cymbal:     "#FFE4B5", // moccasin
	HiHat:      "#FFDAB9", // peach
	Percussion: "#DEB887", // burlywood

	Guitar:         "#98FB98", // pale green
	ElectricGuitar: "#90EE90", // light green
	AcousticGuitar: "#228B22", // forest green
	BassGuitar:     "#32CD32", // lime green
	Piano:          "#00FF00", // green
	Violin:         "#7CFC00", // lawn green

	Saxophone: "#87CEEB", // sky blue
	Trumpet:   "#00BFFF", // deep sky blue
	Flute:     "#1E90FF", // dodger blue
	Clarinet:  "#4169E1", // royal blue

	Synthesizer: "#FF00FF", // magenta
	Electronic:  "#FF69B4", // hot pink
	Sample:      "#DA70D6", // orchid

	Speech:       "#FF1493", // deep pink
	MaleSpeech:   "#DB7093", // pale violet red
	FemaleSpeech: "#FFB6C1", // light pink
	Singing:      "#FF69B4", // hot pink
	Vocals:       "#FFC0CB", // pink

	Music: "#FFFFFF", // white
}

func init() {
	for _, category := range Vocabulary {
		if _, ok := colorTable[category]; !ok {
			panic("classify: category missing from color table: " + string(category))
		}
	}
}

// ColorFor returns the display color for a category as a "#RRGGBB" string.
func ColorFor(c Category) string {
	if color, ok := colorTable[c]; ok {
		return color
	}
	return DefaultColor
}
