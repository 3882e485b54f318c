package api

// Document is the wire form of a parse result. Images maps each rehosted URL
// to the original base64 payload of the image.
type Document struct {
	Content string `json:"content"`

	Images map[string]string `json:"images,omitempty"`
}
