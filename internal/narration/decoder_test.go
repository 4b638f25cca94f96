package narration

import (
	"errors"
	"strings"
	"testing"
)

func TestDecoder_Decode(t *testing.T) {
	d, err := NewDecoder()
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	tests := []struct {
		name      string
		body      string
		wantErr   bool
		wantField string
	}{
		{
			name: "valid integer positions",
			body: `{"objects":[{"label":"person","count":2,"confidence":0.87,"positions":[[10,20],[15,25]]}],"timestamp":"12:00:01"}`,
		},
		{
			name: "valid real positions",
			body: `{"objects":[{"label":"dog","count":1,"confidence":0.5,"positions":[[1.5,2.25]]}],"timestamp":"x"}`,
		},
		{
			name: "empty objects",
			body: `{"objects":[],"timestamp":"12:00:01"}`,
		},
		{
			name: "values passed through unchecked",
			body: `{"objects":[{"label":"","count":-3,"confidence":7.5,"positions":[[-100,99999]]}],"timestamp":""}`,
		},
		{
			name:    "malformed json",
			body:    `{"objects":[`,
			wantErr: true,
		},
		{
			name:      "missing timestamp",
			body:      `{"objects":[]}`,
			wantErr:   true,
			wantField: "/",
		},
		{
			name:      "count not integer",
			body:      `{"objects":[{"label":"a","count":1.5,"confidence":0.1,"positions":[]}],"timestamp":"t"}`,
			wantErr:   true,
			wantField: "/objects/0/count",
		},
		{
			name: "integral count written as real",
			body: `{"objects":[{"label":"a","count":2.0,"confidence":0.1,"positions":[]}],"timestamp":"t"}`,
		},
		{
			name:      "count overflows int",
			body:      `{"objects":[{"label":"a","count":1e30,"confidence":0.1,"positions":[]}],"timestamp":"t"}`,
			wantErr:   true,
			wantField: "/objects/0/count",
		},
		{
			name:      "count overflow in second object",
			body:      `{"objects":[{"label":"a","count":1,"confidence":0.1,"positions":[]},{"label":"b","count":99999999999999999999,"confidence":0.1,"positions":[]}],"timestamp":"t"}`,
			wantErr:   true,
			wantField: "/objects/1/count",
		},
		{
			name:      "label wrong type",
			body:      `{"objects":[{"label":3,"count":1,"confidence":0.1,"positions":[]}],"timestamp":"t"}`,
			wantErr:   true,
			wantField: "/objects/0/label",
		},
		{
			name:      "position with three coordinates",
			body:      `{"objects":[{"label":"a","count":1,"confidence":0.1,"positions":[[1,2,3]]}],"timestamp":"t"}`,
			wantErr:   true,
			wantField: "/objects/0/positions/0",
		},
		{
			name:      "timestamp not a string",
			body:      `{"objects":[],"timestamp":12}`,
			wantErr:   true,
			wantField: "/timestamp",
		},
		{
			name:    "not an object",
			body:    `null`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := d.Decode([]byte(tt.body))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error, got request %+v", req)
			}
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
			kind, ok := KindOf(err)
			if !ok || kind != KindValidation {
				t.Errorf("expected validation kind, got %q", kind)
			}
			if tt.wantField == "" {
				return
			}
			var nerr *Error
			errors.As(err, &nerr)
			found := false
			for _, d := range nerr.Details {
				if d.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected detail for %s, got %+v", tt.wantField, nerr.Details)
			}
		})
	}
}

func TestDecoder_PreservesValues(t *testing.T) {
	d := MustDecoder()

	req, err := d.Decode([]byte(`{"objects":[{"label":"car","count":3,"confidence":0.923,"positions":[[1,2],[3.5,4]]},{"label":"tree","count":0,"confidence":0,"positions":[]}],"timestamp":"2024-05-01T10:00:00Z"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if req.Timestamp != "2024-05-01T10:00:00Z" {
		t.Errorf("timestamp changed: %q", req.Timestamp)
	}
	if len(req.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(req.Objects))
	}
	if req.Objects[0].Label != "car" || req.Objects[1].Label != "tree" {
		t.Error("object order not preserved")
	}
	if req.Objects[0].Positions[1].X() != 3.5 || req.Objects[0].Positions[1].Y() != 4 {
		t.Errorf("unexpected position %v", req.Objects[0].Positions[1])
	}
}

func TestDecoder_MessageNamesField(t *testing.T) {
	_, err := MustDecoder().Decode([]byte(`{"objects":[],"timestamp":false}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "/timestamp") {
		t.Errorf("message should name the field, got %q", err.Error())
	}
}

func TestDecoder_IntegralRealCount(t *testing.T) {
	d := MustDecoder()

	for _, body := range []string{
		`{"objects":[{"label":"person","count":2.0,"confidence":0.5,"positions":[]}],"timestamp":"t"}`,
		`{"objects":[{"label":"person","count":2e0,"confidence":0.5,"positions":[]}],"timestamp":"t"}`,
		`{"objects":[{"label":"person","count":20e-1,"confidence":0.5,"positions":[]}],"timestamp":"t"}`,
	} {
		req, err := d.Decode([]byte(body))
		if err != nil {
			t.Fatalf("Decode(%s): %v", body, err)
		}
		if req.Objects[0].Count != 2 {
			t.Errorf("Decode(%s): count = %d, want 2", body, req.Objects[0].Count)
		}
		if req.Objects[0].Confidence != 0.5 {
			t.Errorf("Decode(%s): confidence changed to %v", body, req.Objects[0].Confidence)
		}
	}
}

func TestDecoder_OverflowCountMessage(t *testing.T) {
	_, err := MustDecoder().Decode([]byte(`{"objects":[{"label":"a","count":1e30,"confidence":0.1,"positions":[]}],"timestamp":"t"}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "/objects/0/count") {
		t.Errorf("message should name the field, got %q", err.Error())
	}
	if strings.Contains(err.Error(), "Go value") {
		t.Errorf("message leaks decoder internals: %q", err.Error())
	}
}
