package scene

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

const (
	TimestampPlaceholder   = "{timestamp}"
	DescriptionPlaceholder = "{scene_description}"

	VariantConsolidated = "consolidated"
	VariantClassic      = "classic"
)

var (
	ErrMissingPlaceholder = errors.New("template is missing a required placeholder")
	ErrUnknownVariant     = errors.New("unknown prompt variant")
)

const consolidatedText = `You are an intelligent, kind, and creative narrator for a blind person.
Based on object detection data from a camera, describe what is happening in a beautiful, gentle, and real-time spoken narration.

Speak as if you're right beside the person, describing the world with care and imagination.
Do not mention technical details like "confidence" or "bounding boxes".

The data may combine detections from several frames captured during the same observation window.
Merge repeated sightings into one coherent picture and summarize what stays the same and what changes, instead of describing each frame.

Focus on what the user might experience if they could see: people walking, objects nearby, interactions between them, etc.
Use emotionally intelligent, sensory-rich, but natural language, like a narrator for a blind friend.

Here is the object data detected at {timestamp}:

{scene_description}

Now, generate exactly one concise and poetic narration in the present tense:
`

const classicText = `You are an intelligent, kind, and creative narrator for a blind person.
Based on object detection data from a camera, describe what is happening in a beautiful, gentle, and real-time spoken narration.

Speak as if you're right beside the person, describing the world with care and imagination.
Do not mention technical details like "confidence" or "bounding boxes".

Focus on what the user might experience if they could see: people walking, objects nearby, interactions between them, etc.
Use emotionally intelligent, sensory-rich, but natural language, like a narrator for a blind friend.

Here is the object data detected at {timestamp}:

{scene_description}

Now, generate one concise and poetic narration in the present tense:
`

// Template is a named narrative instruction text with {timestamp} and
// {scene_description} placeholders.
type Template struct {
	name string
	text string
}

func NewTemplate(name, text string) (*Template, error) {
	for _, p := range []string{TimestampPlaceholder, DescriptionPlaceholder} {
		if !strings.Contains(text, p) {
			return nil, fmt.Errorf("%w: %s lacks %s", ErrMissingPlaceholder, name, p)
		}
	}
	return &Template{name: name, text: text}, nil
}

func mustTemplate(name, text string) *Template {
	t, err := NewTemplate(name, text)
	if err != nil {
		panic(err)
	}
	return t
}

var builtins = map[string]*Template{
	VariantConsolidated: mustTemplate(VariantConsolidated, consolidatedText),
	VariantClassic:      mustTemplate(VariantClassic, classicText),
}

// Default returns the built-in consolidated template.
func Default() *Template {
	return builtins[VariantConsolidated]
}

func (t *Template) Name() string {
	return t.name
}

// Render substitutes both placeholders in a single pass, so placeholder-like
// text inside the timestamp or labels is never expanded again.
func (t *Template) Render(objects []DetectedObject, timestamp string) string {
	r := strings.NewReplacer(
		TimestampPlaceholder, timestamp,
		DescriptionPlaceholder, Describe(objects),
	)
	return r.Replace(t.text)
}

// Builder holds the active template. It is safe for concurrent use and the
// template can be swapped while requests are being rendered.
type Builder struct {
	current atomic.Pointer[Template]
}

func NewBuilder(t *Template) *Builder {
	if t == nil {
		t = Default()
	}
	b := &Builder{}
	b.current.Store(t)
	return b
}

func (b *Builder) Build(objects []DetectedObject, timestamp string) string {
	return b.current.Load().Render(objects, timestamp)
}

func (b *Builder) Template() *Template {
	return b.current.Load()
}

func (b *Builder) Swap(t *Template) {
	if t != nil {
		b.current.Store(t)
	}
}
