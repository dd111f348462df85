package covers

import (
	"unicode/utf16"

	"github.com/paperpharmacy/paperpharmacy/internal/models"
)

// Palette is a gradient and text color for a generated cover
type Palette struct {
	Name string
	From string
	To   string
	Text string
}

// Palettes is the fixed palette table indexed by Hash.
var Palettes = []Palette{
	{Name: "Cotton Candy", From: "#ff9a9e", To: "#fecfef", Text: "#5e3449"},
	{Name: "Gentle Sky", From: "#a1c4fd", To: "#c2e9fb", Text: "#2c3e50"},
	{Name: "Ocean Mist", From: "#84fab0", To: "#8fd3f4", Text: "#13547a"},
	{Name: "Warm Sunset", From: "#f6d365", To: "#fda085", Text: "#8c520a"},
	{Name: "Fresh Lime", From: "#d4fc79", To: "#96e6a1", Text: "#2c522c"},
	{Name: "Lavender Dream", From: "#c3a3f4", To: "#fbc2eb", Text: "#4a2c52"},
	{Name: "Soft Peach", From: "#fccb90", To: "#d57eeb", Text: "#522c4a"},
	{Name: "Deep Ocean", From: "#48c6ef", To: "#6f86d6", Text: "#073352"},
	{Name: "Raspberry Fizz", From: "#ff758c", To: "#ff7eb3", Text: "#6d1839"},
	{Name: "Lush Meadow", From: "#56ab2f", To: "#a8e063", Text: "#193a0d"},
	{Name: "Galaxy Night", From: "#30cfd0", To: "#330867", Text: "#ffffff"},
	{Name: "Royal Amethyst", From: "#20002c", To: "#cbb4d4", Text: "#ffffff"},
	{Name: "Starry Night", From: "#1e3c72", To: "#2a5298", Text: "#ffffff"},
	{Name: "Rose Petals", From: "#ffdde1", To: "#ee9ca7", Text: "#7d3c47"},
	{Name: "Electric Pop", From: "#00c3ff", To: "#ffff1c", Text: "#004c66"},
}

// Patterns are CSS background-image values layered over the gradient.
var Patterns = []string{
	// plus signs
	`url("data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='20' height='20' viewBox='0 0 20 20'%3E%3Cpath fill='%239C92AC' fill-opacity='0.4' d='M2 9h6V3h2v6h6v2H10v6H8V11H2V9z'/%3E%3C/svg%3E")`,
	// dots
	`url("data:image/svg+xml,%3Csvg width='20' height='20' viewBox='0 0 20 20' xmlns='http://www.w3.org/2000/svg'%3E%3Cg fill='%239C92AC' fill-opacity='0.4' fill-rule='evenodd'%3E%3Ccircle cx='3' cy='3' r='3'/%3E%3Ccircle cx='13' cy='13' r='3'/%3E%3C/g%3E%3C/svg%3E")`,
	// zigzag
	`url("data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='20' height='20' viewBox='0 0 20 20'%3E%3Cpath fill='%239C92AC' fill-opacity='0.4' d='M0 0h20L0 20zM20 20H0L20 0z'/%3E%3C/svg%3E")`,
	// diagonal lines
	`url("data:image/svg+xml,%3Csvg width='20' height='20' viewBox='0 0 20 20' xmlns='http://www.w3.org/2000/svg'%3E%3Cpath d='M0 0l20 20M20 0L0 20' stroke='%239C92AC' stroke-width='1' fill='none' stroke-opacity='0.4'/%3E%3C/svg%3E")`,
}

// Hash is a 32-bit polynomial string hash (h = h*31 + c over UTF-16 code
// units, wrapping) returned as an absolute value. Browsers rendering the same
// title and author compute the same value.
func Hash(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// Synthetic returns the placeholder cover for a title and author.
func Synthetic(title, author string) models.SyntheticCover {
	h := Hash(title + author)
	palette := Palettes[h%int64(len(Palettes))]
	return models.SyntheticCover{
		From:    palette.From,
		To:      palette.To,
		Text:    palette.Text,
		Pattern: Patterns[h%int64(len(Patterns))],
	}
}
