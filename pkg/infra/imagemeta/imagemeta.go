package imagemeta

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

var ErrUnsupportedMediaType = errors.New("unsupported media type")

var supportedMediaTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// Tags kept from the EXIF block. Location, serial numbers and authorship
// never leave the process.
var allowedTags = map[string]struct{}{
	"Make":             {},
	"Model":            {},
	"LensModel":        {},
	"DateTimeOriginal": {},
	"ExposureTime":     {},
	"FNumber":          {},
	"ISOSpeedRatings":  {},
	"FocalLength":      {},
	"Orientation":      {},
	"PixelXDimension":  {},
	"PixelYDimension":  {},
}

type Metadata struct {
	MediaType string            `json:"media_type"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// DetectMediaType sniffs the content type from the first bytes and rejects
// anything that is not a still image format the providers accept.
func DetectMediaType(data []byte) (string, error) {
	mediaType := http.DetectContentType(data)
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	if _, ok := supportedMediaTypes[mediaType]; !ok {
		return mediaType, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
	return mediaType, nil
}

// Extract reads the EXIF block of an image. Images without EXIF yield
// empty metadata, not an error.
func Extract(data []byte) (*Metadata, error) {
	mediaType, err := DetectMediaType(data)
	if err != nil {
		return nil, err
	}
	md := &Metadata{MediaType: mediaType, Tags: map[string]string{}}

	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return md, nil
		}
		return md, fmt.Errorf("search exif: %w", err)
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return md, fmt.Errorf("parse exif: %w", err)
	}
	md.Tags = filterTags(entries)
	return md, nil
}

func filterTags(entries []exif.ExifTag) map[string]string {
	tags := make(map[string]string)
	for _, entry := range entries {
		if _, ok := allowedTags[entry.TagName]; !ok {
			continue
		}
		value := strings.TrimSpace(entry.Formatted)
		if value == "" {
			continue
		}
		if _, seen := tags[entry.TagName]; !seen {
			tags[entry.TagName] = value
		}
	}
	return tags
}

// TagList renders tags as sorted "Name=value" pairs.
func (m *Metadata) TagList() []string {
	if m == nil {
		return nil
	}
	list := make([]string, 0, len(m.Tags))
	for name, value := range m.Tags {
		list = append(list, name+"="+value)
	}
	sort.Strings(list)
	return list
}

// PromptBlock formats the tags for inclusion in a model prompt.
func (m *Metadata) PromptBlock() string {
	list := m.TagList()
	if len(list) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("[Image metadata]\n")
	for _, tag := range list {
		b.WriteString("- ")
		b.WriteString(tag)
		b.WriteByte('\n')
	}
	return b.String()
}
