package slideshow

import (
	"mime"
	"strings"
)

// MediaKind tells the page whether to render an <img> or a <video>.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

var videoExtensions = map[string]bool{
	"mp4":  true,
	"webm": true,
	"ogg":  true,
}

// MediaRef is a resolved, site-root relative media reference.
type MediaRef struct {
	URL  string    `json:"url"`
	Kind MediaKind `json:"kind"`
	Ext  string    `json:"ext"`
}

// MIMEType returns the type for the <source>/<img> element.
func (m MediaRef) MIMEType() string {
	if m.Kind == MediaVideo {
		return "video/" + m.Ext
	}
	return mime.TypeByExtension("." + m.Ext)
}

// ResolveMedia derives a media reference from an event's raw image field.
// Leading separators and directories ("/" or "\\") are dropped, so
// "a/b/photo.JPG" becomes "/photo.JPG". The name is not URL-escaped. A
// missing field, an empty name or a name without extension yields
// ok == false.
func ResolveMedia(raw string) (ref MediaRef, ok bool) {
	name := strings.TrimLeft(raw, `/\`)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if strings.TrimSpace(name) == "" {
		return MediaRef{}, false
	}

	dot := strings.LastIndex(name, ".")
	if dot < 0 || dot == len(name)-1 {
		return MediaRef{}, false
	}
	ext := strings.ToLower(name[dot+1:])

	kind := MediaImage
	if videoExtensions[ext] {
		kind = MediaVideo
	}
	return MediaRef{
		URL:  "/" + name,
		Kind: kind,
		Ext:  ext,
	}, true
}
