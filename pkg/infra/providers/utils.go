package providers

import (
	"encoding/base64"
	"strings"
)

const DefaultMediaType = "image/jpeg"

func FormatInstructions(instr []string) string {
	if len(instr) == 0 {
		return "[Instructions]\n"
	}

	var b strings.Builder
	b.WriteString("[Instructions]\n")
	for _, rule := range instr {
		if strings.TrimSpace(rule) == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(rule)
		b.WriteByte('\n')
	}
	return b.String()
}

// MediaTypeOrDefault falls back to image/jpeg, the type browsers send for
// camera uploads.
func (in *ImageInput) MediaTypeOrDefault() string {
	if in.MediaType == "" {
		return DefaultMediaType
	}
	return in.MediaType
}

func (in *ImageInput) Base64() string {
	return base64.StdEncoding.EncodeToString(in.Data)
}

// DataURL renders the image as data:<media type>;base64,<payload>.
func (in *ImageInput) DataURL() string {
	return "data:" + in.MediaTypeOrDefault() + ";base64," + in.Base64()
}

// Validate checks the fields every provider needs before a call.
func Validate(config *Config, input *ImageInput, requireKey bool) error {
	if requireKey && config.Credentials.ApiKey == "" {
		return ErrAPIKeyRequired
	}
	if config.Model == "" {
		return ErrModelRequired
	}
	if input == nil || len(input.Data) == 0 {
		return ErrEmptyImage
	}
	return nil
}

// UserPrompt is the text sent next to the image: instructions first, then the
// user's context.
func UserPrompt(config *Config, input *ImageInput) string {
	var b strings.Builder
	if len(config.Instructions) > 0 {
		b.WriteString(FormatInstructions(config.Instructions))
		b.WriteByte('\n')
	}
	b.WriteString(input.Context)
	return b.String()
}
