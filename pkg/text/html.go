package text

import (
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// NormalizeHTML converts embedded HTML markup (typically tables emitted by
// layout models) inside markdown into canonical markdown syntax.
func NormalizeHTML(markdown string) (string, error) {
	return htmltomarkdown.ConvertString(markdown)
}
