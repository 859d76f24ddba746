package models

import (
	"encoding/json"
	"strings"
	"testing"

	"gorm.io/datatypes"
)

func TestStringListScan(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"json array", `["Python","React"]`, []string{"Python", "React"}},
		{"json bytes", []byte(`["a, b","c"]`), []string{"a, b", "c"}},
		{"legacy comma text", "Python,React", []string{"Python", "React"}},
		{"legacy with spaces", " Go , SQL ,, ", []string{"Go", "SQL"}},
		{"single legacy value", "/static/uploads/projects/a.png", []string{"/static/uploads/projects/a.png"}},
		{"null", nil, []string{}},
		{"empty", "", []string{}},
		{"json null", "null", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			if err := got.Scan(tt.value); err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStringListScanRejectsUnknownType(t *testing.T) {
	var l StringList
	if err := l.Scan(42); err == nil {
		t.Fatal("expected error for int")
	}
}

func TestStringListValueKeepsCommas(t *testing.T) {
	v, err := StringList{"C, the language", "Go"}.Value()
	if err != nil {
		t.Fatal(err)
	}

	var back StringList
	if err := back.Scan(v); err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 || back[0] != "C, the language" {
		t.Errorf("round trip = %v", back)
	}

	nilValue, _ := StringList(nil).Value()
	if nilValue != "[]" {
		t.Errorf("nil Value() = %v, want []", nilValue)
	}
}

func TestProjectJSONShape(t *testing.T) {
	slug := "robot-arm"
	p := Project{
		Title:     "Robot Arm",
		Slug:      &slug,
		TechStack: StringList{"Python", "React"},
		Links:     datatypes.NewJSONType(ProjectLinks{Github: "https://github.com/x/y"}),
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)

	for _, want := range []string{
		`"techStack":["Python","React"]`,
		`"screenshots":[]`,
		`"links":{"github":"https://github.com/x/y"}`,
		`"slug":"robot-arm"`,
		`"shortDescription":""`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
}

func TestBeforeSaveDerivesShortDescription(t *testing.T) {
	e := Event{Description: strings.Repeat("x", 200), ShortDescription: "hand written"}
	if err := e.BeforeSave(nil); err != nil {
		t.Fatal(err)
	}
	if e.ShortDescription != strings.Repeat("x", 150)+"..." {
		t.Errorf("short = %q", e.ShortDescription)
	}

	e.Description = strings.Repeat("y", 50)
	e.BeforeSave(nil)
	if e.ShortDescription != strings.Repeat("y", 50) {
		t.Errorf("short after edit = %q", e.ShortDescription)
	}
}
