// Package generation holds the provider neutral request and response shapes shared by the
// LLM clients and the processors that call them.
package generation

import "errors"

var (
	ErrEmptyCompletion = errors.New("provider returned no completion")
	ErrUnsupported     = errors.New("operation not supported by provider")
)

// Block is one piece of user content. Text blocks carry Text; inline blocks carry Data with
// its MIME type (image, audio or PDF bytes).
type Block struct {
	Text     string
	MIMEType string
	Data     []byte
}

func Text(s string) Block {
	return Block{Text: s}
}

func Inline(mimeType string, data []byte) Block {
	return Block{MIMEType: mimeType, Data: data}
}

// IsInline reports whether the block carries binary data rather than text.
func (b Block) IsInline() bool {
	return len(b.Data) > 0
}

type Params struct {
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
	// JSON asks the provider for a single JSON object as output.
	JSON bool
}

type Prompt struct {
	System string
	Blocks []Block
	Params Params
}

type Completion struct {
	Text        string
	Model       string
	TotalTokens int
}

type SpeechRequest struct {
	Model  string
	Voice  string
	Format string
	Text   string
}

type TranscriptionRequest struct {
	Model       string
	Prompt      string
	Filename    string
	ContentType string
	Audio       []byte
}

type Transcription struct {
	Text     string
	Language string
	Duration float64
}
