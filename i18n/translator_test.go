package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	data := map[string]string{"type": "Table", "keys": "url"}
	if msg := T("required", data); msg != "Table missing required keys: url" {
		t.Fatalf("unexpected english message %q", msg)
	}

	SetLanguage("ja")
	if msg := T("required", data); msg == "Table missing required keys: url" {
		t.Fatalf("expected japanese message, got %q", msg)
	}
	// falls back to english for codes without a japanese entry
	if msg := T("cell_repeating_group", map[string]string{"value": "1;;2", "group": `";"`}); msg != `1;;2 has repeating ";"` {
		t.Fatalf("expected english fallback, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCode(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code echo, got %q", msg)
	}
}

func TestRender_LeavesUnknownPlaceholders(t *testing.T) {
	got := Render("{a} and {b}", map[string]string{"a": "x"})
	if got != "x and {b}" {
		t.Fatalf("got %q", got)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("required", nil); msg != "X:required" {
		t.Fatalf("got %q", msg)
	}
}
