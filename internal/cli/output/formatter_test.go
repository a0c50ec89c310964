package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format Format
		wide   bool
	}{
		{FormatJSON, false},
		{FormatYAML, false},
		{FormatTable, false},
		{FormatTable, true},
		{"unknown", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f := NewFormatter(tt.format, tt.wide)
			switch tt.format {
			case FormatJSON:
				if _, ok := f.(*JSONFormatter); !ok {
					t.Errorf("got %T, want *JSONFormatter", f)
				}
			case FormatYAML:
				if _, ok := f.(*YAMLFormatter); !ok {
					t.Errorf("got %T, want *YAMLFormatter", f)
				}
			default:
				tf, ok := f.(*TableFormatter)
				if !ok {
					t.Fatalf("got %T, want *TableFormatter", f)
				}
				if tf.Wide != tt.wide {
					t.Errorf("Wide = %v, want %v", tf.Wide, tt.wide)
				}
			}
		})
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	data := struct {
		Netuid int    `json:"netuid"`
		Hotkey string `json:"hotkey"`
	}{Netuid: 7, Hotkey: "5F3s"}

	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if !strings.Contains(buf.String(), "\n  \"netuid\": 7") {
		t.Errorf("output not indented: %s", buf.String())
	}

	var back map[string]any
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if back["hotkey"] != "5F3s" {
		t.Errorf("hotkey = %v, want 5F3s", back["hotkey"])
	}
}

func TestYAMLFormatter_Format(t *testing.T) {
	type inner struct {
		UID int `json:"uid"`
	}
	data := struct {
		Network string  `json:"network"`
		Score   float64 `json:"competition_score"`
		Numeric string  `json:"numeric"`
		Empty   string  `json:"empty"`
		Omitted string  `json:"omitted,omitempty"`
		Items   []inner `json:"items"`
	}{
		Network: "finney",
		Score:   1.5,
		Numeric: "123",
		Items:   []inner{{UID: 1}, {UID: 2}},
	}

	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"network: finney\n", "competition_score: 1.5\n", "items:\n", "- uid: 1\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "{") || strings.Contains(out, "omitted") {
		t.Errorf("output should be block style without omitted fields:\n%s", out)
	}
	if strings.Index(out, "network") > strings.Index(out, "items") {
		t.Errorf("field order not preserved:\n%s", out)
	}

	var back map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if back["numeric"] != "123" {
		t.Errorf("numeric string = %#v, want \"123\" to stay a string", back["numeric"])
	}
	if back["empty"] != "" {
		t.Errorf("empty = %#v, want empty string", back["empty"])
	}
}
