package recommend

import (
	"net/url"
	"strings"

	"github.com/paperpharmacy/paperpharmacy/internal/models"
)

// Retailer search endpoints; the escaped title is appended.
const (
	Yes24SearchURL  = "https://www.yes24.com/Product/Search?query="
	KyoboSearchURL  = "https://search.kyobobook.co.kr/search?keyword="
	AladinSearchURL = "https://www.aladin.co.kr/search/wsearchresult.aspx?SearchWord="
)

// componentUnescaper restores the characters encodeURIComponent leaves as is
// but url.QueryEscape encodes.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escape percent-encodes s the way browsers encode a URI component
func escape(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// PurchaseLinksFor builds the retailer search links for a title
func PurchaseLinksFor(title string) models.PurchaseLinks {
	encoded := escape(title)
	return models.PurchaseLinks{
		Yes24:  Yes24SearchURL + encoded,
		Kyobo:  KyoboSearchURL + encoded,
		Aladin: AladinSearchURL + encoded,
	}
}
