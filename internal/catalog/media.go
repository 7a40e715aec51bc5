package catalog

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	DefaultMaxImageBytes = 20 << 20
	DefaultMaxVideoBytes = 5 << 20
)

type mediaGroup string

const (
	mediaImage mediaGroup = "image"
	mediaVideo mediaGroup = "video"
)

var mediaGroupTypes = map[mediaGroup][]string{
	mediaImage: {"image/png", "image/jpeg", "image/webp", "image/gif"},
	mediaVideo: {"video/mp4", "video/webm", "video/quicktime"},
}

// MediaLimits caps the decoded size of media embedded as data URIs. Remote
// URLs are not fetched and carry no limit.
type MediaLimits struct {
	ImageBytes int
	VideoBytes int
}

func (l MediaLimits) withDefaults() MediaLimits {
	if l.ImageBytes <= 0 {
		l.ImageBytes = DefaultMaxImageBytes
	}
	if l.VideoBytes <= 0 {
		l.VideoBytes = DefaultMaxVideoBytes
	}
	return l
}

var errMalformedDataURI = errors.New("malformed data URI")

// checkMediaRef accepts an http(s) URL or a base64 data URI whose sniffed
// content belongs to group.
func checkMediaRef(ref string, group mediaGroup, maxBytes int) error {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "data:") {
		u, err := url.Parse(ref)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("must be an http(s) URL or an embedded %s", group)
		}
		return nil
	}

	payload, err := decodeDataURI(ref)
	if err != nil {
		return err
	}
	if len(payload) > maxBytes {
		return fmt.Errorf("embedded %s exceeds %d MB", group, maxBytes>>20)
	}
	detected := mimetype.Detect(payload)
	for _, allowed := range mediaGroupTypes[group] {
		if detected.Is(allowed) {
			return nil
		}
	}
	return fmt.Errorf("embedded content is %s, expected %s", detected.String(), humanList(mediaGroupTypes[group]))
}

func decodeDataURI(ref string) ([]byte, error) {
	header, data, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, errMalformedDataURI
	}
	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errMalformedDataURI
	}
	return payload, nil
}

func humanList(values []string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	}
	return strings.Join(values[:len(values)-1], ", ") + " or " + values[len(values)-1]
}
