package narration

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/eleven-am/scene-narrator/internal/dto"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/narration_request.schema.json
var requestSchema string

const requestSchemaURL = "narration_request.schema.json"

var ErrInvalidRequest = errors.New("invalid narration request")

// Decoder checks the structural shape of a request body before it is
// turned into a Request. It performs no semantic checks on values.
type Decoder struct {
	schema *jsonschema.Schema
}

func NewDecoder() (*Decoder, error) {
	schema, err := jsonschema.CompileString(requestSchemaURL, requestSchema)
	if err != nil {
		return nil, fmt.Errorf("compile request schema: %w", err)
	}
	return &Decoder{schema: schema}, nil
}

// MustDecoder panics if the embedded schema does not compile.
func MustDecoder() *Decoder {
	d, err := NewDecoder()
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Decoder) Decode(data []byte) (Request, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Request{}, NewValidationError(fmt.Errorf("%w: malformed JSON: %v", ErrInvalidRequest, err))
	}

	if err := d.schema.Validate(raw); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return Request{}, NewValidationError(
				fmt.Errorf("%w: %s", ErrInvalidRequest, summarize(ve)),
				validationDetails(ve)...,
			)
		}
		return Request{}, NewValidationError(fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}

	if details := normalizeCounts(raw); len(details) > 0 {
		first := details[0]
		return Request{}, NewValidationError(
			fmt.Errorf("%w: %s: %s", ErrInvalidRequest, first.Field, first.Message),
			details...,
		)
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return Request{}, NewValidationError(fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}

	var body dto.NarrateRequest
	if err := json.Unmarshal(normalized, &body); err != nil {
		return Request{}, NewValidationError(fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}

	return RequestFromDTO(body), nil
}

var (
	minCount = big.NewInt(math.MinInt)
	maxCount = big.NewInt(math.MaxInt)
)

// normalizeCounts rewrites every object count in place to its canonical
// integer form, so 2.0 and 2e0 decode as 2. Counts that are not integral
// or do not fit in an int are reported per field.
func normalizeCounts(raw any) []dto.ValidationError {
	root, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	objects, ok := root["objects"].([]any)
	if !ok {
		return nil
	}

	var details []dto.ValidationError
	for i, item := range objects {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		num, ok := obj["count"].(json.Number)
		if !ok {
			continue
		}
		field := fmt.Sprintf("/objects/%d/count", i)

		r, ok := new(big.Rat).SetString(num.String())
		if !ok || !r.IsInt() {
			details = append(details, dto.ValidationError{Field: field, Message: "expected integer, but got number"})
			continue
		}
		n := r.Num()
		if n.Cmp(minCount) < 0 || n.Cmp(maxCount) > 0 {
			details = append(details, dto.ValidationError{Field: field, Message: fmt.Sprintf("count %s is out of range", num)})
			continue
		}
		obj["count"] = json.Number(n.String())
	}
	return details
}

func validationDetails(ve *jsonschema.ValidationError) []dto.ValidationError {
	var details []dto.ValidationError
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			field := e.InstanceLocation
			if field == "" {
				field = "/"
			}
			details = append(details, dto.ValidationError{Field: field, Message: e.Message})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return details
}

func summarize(ve *jsonschema.ValidationError) string {
	details := validationDetails(ve)
	if len(details) == 0 {
		return ve.Message
	}
	first := details[0]
	if len(details) == 1 {
		return fmt.Sprintf("%s: %s", first.Field, first.Message)
	}
	return fmt.Sprintf("%s: %s (and %d more)", first.Field, first.Message, len(details)-1)
}
