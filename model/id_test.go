package model

import (
	"encoding/json"
	"testing"
)

func TestIDUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want ID
	}{
		{"integer", `42`, 42},
		{"float from legacy data", `17355.89`, 17355},
		{"scientific notation", `1.7355e4`, 17355},
		{"numeric string", `"123"`, 123},
		{"float string", `"99.7"`, 99},
		{"null", `null`, 0},
		{"empty string", `""`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var id ID
			if err := json.Unmarshal([]byte(tc.in), &id); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if id != tc.want {
				t.Errorf("id = %d, want %d", id, tc.want)
			}
		})
	}

	var id ID
	if err := json.Unmarshal([]byte(`"not a number"`), &id); err == nil {
		t.Error("non-numeric string should fail")
	}
}

func TestIDMarshalIsPlainNumber(t *testing.T) {
	raw, err := json.Marshal(ID(7))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "7" {
		t.Errorf("marshaled id = %s, want 7", raw)
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("15"); err != nil || id != 15 {
		t.Errorf("ParseID(15) = %d, %v", id, err)
	}
	if id, err := ParseID("15.9"); err != nil || id != 15 {
		t.Errorf("ParseID(15.9) = %d, %v", id, err)
	}
	if _, err := ParseID("abc"); err == nil {
		t.Error("ParseID(abc) should fail")
	}
}
