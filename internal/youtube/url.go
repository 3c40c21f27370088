package youtube

import (
	"errors"
	"net/url"
	"strings"
)

var ErrInvalidURL = errors.New("not a valid YouTube URL")

// ExtractVideoID pulls the video id out of a youtube.com or youtu.be URL.
func ExtractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrInvalidURL
	}

	var id string
	switch {
	case u.Host == "youtu.be":
		id = strings.Trim(u.Path, "/")
		if i := strings.IndexByte(id, '/'); i >= 0 {
			id = id[:i]
		}
	case strings.Contains(u.Host, "youtube.com"):
		id = u.Query().Get("v")
	}

	if id == "" {
		return "", ErrInvalidURL
	}
	return id, nil
}
