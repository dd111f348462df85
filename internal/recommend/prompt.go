package recommend

import (
	"fmt"
	"strings"

	"github.com/paperpharmacy/paperpharmacy/internal/providers"
)

// BatchSize is the number of books in one recommendation batch
const BatchSize = 3

// NationwideRegion is used when the reader searches libraries across the country
const NationwideRegion = "대한민국 전국 주요 도시"

// BookSchema is the structured output requested from the model
func BookSchema() *providers.Schema {
	str := func(desc string) *providers.Schema {
		return &providers.Schema{Type: providers.TypeString, Description: desc}
	}
	return &providers.Schema{
		Type: providers.TypeArray,
		Items: &providers.Schema{
			Type: providers.TypeObject,
			Properties: map[string]*providers.Schema{
				"title":       str("The book title in Korean."),
				"author":      str("The author's name in Korean."),
				"publisher":   str("The publisher's name in Korean."),
				"isbn":        str("OPTIONAL: the exact ISBN-13 if known. Leave empty otherwise; the system will look it up."),
				"description": str("A short, insightful one-sentence description of the book."),
				"aiReason":    str("An empathetic reason for recommending this book, written in a calm and thoughtful tone."),
				"vibe": {
					Type:        providers.TypeArray,
					Description: "An array of 3 relevant keywords or themes in Korean.",
					Items:       &providers.Schema{Type: providers.TypeString},
				},
				"libraries": {
					Type:        providers.TypeArray,
					Description: "An array of 3 plausible public libraries located near the user's specified location.",
					Items: &providers.Schema{
						Type: providers.TypeObject,
						Properties: map[string]*providers.Schema{
							"name":      str("The library's full name."),
							"available": {Type: providers.TypeBoolean, Description: "Whether the book is available to borrow."},
							"distance":  str("Optional. A plausible distance like '2.3km' when available is true."),
							"waitlist":  {Type: providers.TypeInteger, Description: "Optional. A plausible waitlist size when available is false."},
						},
						Required: []string{"name", "available"},
					},
				},
			},
			Required: []string{"title", "author", "publisher", "description", "aiReason", "vibe", "libraries"},
		},
	}
}

// BuildPrompt renders the curator prompt for a request
func BuildPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString(`You are a sophisticated and thoughtful book curator for "종이약국" (The Paper Pharmacy). `)
	sb.WriteString("Your tone is calm, empathetic, and knowledgeable, like a trusted librarian. ")
	sb.WriteString("Your goal is to prescribe the perfect book for a reader's state of mind.\n\n")

	fmt.Fprintf(&sb, "The reader's current mood is: %s\n", req.Input.Mood)
	fmt.Fprintf(&sb, "Their situation is: %s\n", orNotSpecified(req.Input.Situation))
	if req.Input.Genre != "" {
		fmt.Fprintf(&sb, "They have expressed a preference for the %s genre.\n", req.Input.Genre)
	} else {
		sb.WriteString("They have not specified a preferred genre, so recommend from any genre that fits their needs.\n")
	}
	fmt.Fprintf(&sb, "Their goal for reading is: %s\n", orNotSpecified(req.Input.Purpose))

	if req.Location != nil {
		fmt.Fprintf(&sb, "Their current location is approximately latitude: %f, longitude: %f. Base the library recommendations on this precise location.\n",
			req.Location.Latitude, req.Location.Longitude)
	} else {
		fmt.Fprintf(&sb, "They are interested in libraries in the %s area of South Korea.\n", req.region())
	}

	fmt.Fprintf(&sb, "\nBased on this, recommend exactly %d books. For each book, provide the title, author, publisher, description, and the other requested information.\n\n", BatchSize)
	sb.WriteString("IMPORTANT: Only recommend real books that actually exist. Provide accurate book titles and author names in Korean. ")
	sb.WriteString("The ISBN field is optional; leave it empty unless you know the exact ISBN-13, and the system will search for it.\n\n")
	sb.WriteString("Ensure the library information is plausible for major public libraries near the reader's specified location.")

	if len(req.ExcludeTitles) > 0 {
		fmt.Fprintf(&sb, "\n\nImportant: Please provide a completely new set of recommendations. Do NOT include any of the following titles: %s.",
			strings.Join(req.ExcludeTitles, ", "))
	}

	sb.WriteString("\n\nYour entire output must be a single JSON array, adhering strictly to the provided schema. Do not include any markdown formatting like ```json.")
	return sb.String()
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified."
	}
	return s
}
