// Package delivery hands a binary payload to the user through native share
// when available and falls back to a direct file download.
package delivery

// MIME types and file names used by the application.
const (
	MIMEPNG = "image/png"
	MIMEMP4 = "video/mp4"

	StoryFilename = "match-story.png"
	VideoFilename = "our-moment.mp4"
	QRFilename    = "qr.png"
)

// Payload is any binary blob with a type and a suggested file name.
type Payload struct {
	Data     []byte
	MIME     string
	Filename string
}

// ShareRequest carries the share sheet copy.
type ShareRequest struct {
	Title string
	Text  string
}

// StoryShare is the share copy for the match story.
var StoryShare = ShareRequest{Title: "It's a Match!", Text: "We matched!"}
