package capture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"
	"time"
)

// StorySelector is the root element of the story composition.
const StorySelector = "#story"

// StoryData fills the match story composition.
type StoryData struct {
	Title    string
	Subtitle string
	PhotoURL string
	Moment   time.Time
	Caption  string
	Width    int
	Height   int
}

// DefaultStory returns the stock story copy for a match at t.
func DefaultStory(photo string, t time.Time) StoryData {
	return StoryData{
		Title:    "💘 It's a Match! 💘",
		Subtitle: "You said yes ✨",
		PhotoURL: photo,
		Moment:   t,
		Caption:  "Since that moment 💞",
		Width:    StoryWidth,
		Height:   StoryHeight,
	}
}

// The story is laid out at full size but translated below the visible
// viewport. It stays in document flow so layout and image loading happen.
var storyTmpl = template.Must(template.New("story").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<style>
  html, body { margin: 0; padding: 0; background: #fbcfe8; }
  #viewport-note { font: 14px sans-serif; color: #9d174d; padding: 8px; }
  #story {
    width: {{.Width}}px; height: {{.Height}}px;
    transform: translateY(110vh);
    box-sizing: border-box;
    display: flex; flex-direction: column; align-items: center; justify-content: center;
    background: linear-gradient(135deg, #f9a8d4, #ec4899);
    font-family: "Noto Sans", "Noto Sans Thai", "Noto Color Emoji", sans-serif;
    text-align: center;
  }
  #story .card { background: rgba(255,255,255,0.9); border-radius: 64px; padding: 96px 72px; width: 80%; }
  #story h1 { color: #db2777; font-size: 96px; margin: 0; }
  #story .sub { color: #ec4899; font-size: 48px; margin-top: 24px; }
  #story img { width: 640px; height: 640px; object-fit: cover; border-radius: 48px; margin-top: 64px; }
  #story .when { color: #db2777; font-size: 52px; font-weight: 600; margin-top: 64px; }
  #story .caption { color: #ec4899; font-size: 36px; margin-top: 12px; }
</style>
</head>
<body>
<div id="viewport-note">preparing story…</div>
<div id="story">
  <div class="card">
    <h1>{{.Title}}</h1>
    <div class="sub">{{.Subtitle}}</div>
    {{if .Photo}}<img src="{{.Photo}}" alt="">{{end}}
    <div class="when">{{.When}}</div>
    <div class="caption">{{.Caption}}</div>
  </div>
</div>
</body>
</html>
`))

// StoryDocument renders the composition and returns it as a capture target.
func StoryDocument(d StoryData) (*Target, error) {
	if d.Width <= 0 {
		d.Width = StoryWidth
	}
	if d.Height <= 0 {
		d.Height = StoryHeight
	}

	var buf bytes.Buffer
	err := storyTmpl.Execute(&buf, struct {
		StoryData
		Photo template.URL
		When  string
	}{
		StoryData: d,
		Photo:     template.URL(d.PhotoURL),
		When:      d.Moment.Local().Format("2 Jan 2006, 15:04:05"),
	})
	if err != nil {
		return nil, fmt.Errorf("render story: %w", err)
	}

	return &Target{Document: buf.Bytes(), Selector: StorySelector, Origin: d.Moment}, nil
}

// PhotoSource turns a photo reference into something the capture document
// can load. Remote URLs pass through; local files are inlined as data URIs.
func PhotoSource(ref string) (string, error) {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "data:") {
		return ref, nil
	}
	raw, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	mime := http.DetectContentType(raw)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
