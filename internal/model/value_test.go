package model

import (
	"encoding/json"
	"testing"
)

// TestToken tests normalization of scraped tokens.
func TestToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		want     string
		wantNull bool
	}{
		{name: "plain text", in: "SANTOS", want: "SANTOS"},
		{name: "surrounding whitespace is trimmed", in: "  BRSSZ \n", want: "BRSSZ"},
		{name: "empty is null", in: "", wantNull: true},
		{name: "blank is null", in: " \t ", wantNull: true},
		{name: "dash placeholder is null", in: " - ", wantNull: true},
		{name: "dash inside text is kept", in: "1998-2001", want: "1998-2001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Token(tt.in)
			if got.IsNull() != tt.wantNull {
				t.Fatalf("IsNull() = %v, want %v", got.IsNull(), tt.wantNull)
			}
			if got.String() != tt.want {
				t.Errorf("got %q, want %q", got.String(), tt.want)
			}
		})
	}
}

// TestValueAccessors tests Get, Or, Map and DecimalComma.
func TestValueAccessors(t *testing.T) {
	t.Parallel()

	t.Run("empty text is not null", func(t *testing.T) {
		t.Parallel()

		s, ok := Text("").Get()
		if !ok || s != "" {
			t.Errorf("got (%q, %v), want (\"\", true)", s, ok)
		}
	})

	t.Run("Or falls back on null only", func(t *testing.T) {
		t.Parallel()

		if got := Null().Or("n/a"); got != "n/a" {
			t.Errorf("got %q, want n/a", got)
		}
		if got := Text("x").Or("n/a"); got != "x" {
			t.Errorf("got %q, want x", got)
		}
	})

	t.Run("Map keeps null", func(t *testing.T) {
		t.Parallel()

		called := false
		got := Null().Map(func(s string) string {
			called = true
			return s
		})
		if !got.IsNull() || called {
			t.Error("expected null without calling fn")
		}
	})

	t.Run("DecimalComma rewrites the point", func(t *testing.T) {
		t.Parallel()

		if got := Text("-23.96").DecimalComma().String(); got != "-23,96" {
			t.Errorf("got %q, want -23,96", got)
		}
		if !Null().DecimalComma().IsNull() {
			t.Error("expected null to stay null")
		}
	})
}

// TestValueJSON tests the JSON encoding of null and non-null values.
func TestValueJSON(t *testing.T) {
	t.Parallel()

	type row struct {
		A Value `json:"a"`
		B Value `json:"b"`
	}

	data, err := json.Marshal(row{A: Text("x")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"a":"x","b":null}` {
		t.Errorf("unexpected JSON %s", data)
	}

	var got row
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.A.String() != "x" || !got.B.IsNull() {
		t.Errorf("unexpected decoded row %+v", got)
	}
}
