package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for issue and cell-error codes.
// data provides the values substituted for {name} placeholders.
type Translator interface {
	Message(code string, data map[string]string) string
}

var catalogs = map[string]map[string]string{
	"en": {
		"unexpected_key":    "{type} has unexpected keys: {keys}",
		"required":          "{type} missing required keys: {keys}",
		"invalid_property":  "{type} has invalid property '{key}': {detail}",
		"invalid_inherited": "{type} has invalid property '{key}' ('{value}'): expected {expected}",
		"unknown_type":      "Unknown metadata type: {keys}",
		"duplicate_key":     "key '{key}' duplicated",
		"parse_error":       "parse error: {detail}",
		"load_error":        "failed to load {location}: {detail}",
		"invalid_jsonld":    "{detail}",
		"merge_conflict":    "Merging objects of different types: {left} and {right}",
		"uniqueness":        "{type} has duplicate column name '{name}'",

		"cell_length":           "{value} does not have length {length}",
		"cell_min_length":       "{value} does not have length >= {length}",
		"cell_max_length":       "{value} does not have length <= {length}",
		"cell_pattern":          "{value} does not match pattern {pattern}",
		"cell_repeating_group":  "{value} has repeating {group}",
		"cell_boolean_format":   "{value} does not match boolean format {format}",
		"cell_datetime_format":  "unrecognized date/time format {format}",
		"cell_unsupported":      "{value} uses unsupported datatype: {datatype}",
		"cell_format":           "{value} does not match format {format}",
		"cell_invalid":          "{value} is not a valid {datatype}",
		"cell_facet":            "{value} does not satisfy {facet} {limit}",
		"cell_required_missing": "required column {column} has no value",
	},
	"ja": {
		"unexpected_key":    "{type} に未知のキーがあります: {keys}",
		"required":          "{type} に必須キーがありません: {keys}",
		"invalid_property":  "{type} のプロパティ '{key}' が不正です: {detail}",
		"invalid_inherited": "{type} のプロパティ '{key}' ('{value}') が不正です: {expected} が必要です",
		"unknown_type":      "メタデータの種別を判定できません: {keys}",
		"duplicate_key":     "キー '{key}' が重複しています",
		"parse_error":       "解析エラー: {detail}",
		"load_error":        "{location} を読み込めません: {detail}",
		"merge_conflict":    "異なる種別はマージできません: {left} と {right}",
		"uniqueness":        "{type} の列名 '{name}' が重複しています",

		"cell_pattern":  "{value} はパターン {pattern} に一致しません",
		"cell_format":   "{value} は書式 {format} に一致しません",
		"cell_invalid":  "{value} は有効な {datatype} ではありません",
		"cell_length":   "{value} の長さが {length} ではありません",
	},
}

// dictTranslator is the built-in dictionary-based Translator. Codes missing
// from a catalog fall back to English.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := catalogs[t.lang][code]
	if !ok {
		tmpl, ok = catalogs["en"][code]
	}
	if !ok {
		return code
	}
	return Render(tmpl, data)
}

// Render substitutes {name} placeholders in tmpl with values from data.
// Unknown placeholders are left as is.
func Render(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	var b strings.Builder
	for {
		i := strings.IndexByte(tmpl, '{')
		if i < 0 {
			b.WriteString(tmpl)
			break
		}
		j := strings.IndexByte(tmpl[i:], '}')
		if j < 0 {
			b.WriteString(tmpl)
			break
		}
		name := tmpl[i+1 : i+j]
		b.WriteString(tmpl[:i])
		if v, ok := data[name]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(tmpl[i : i+j+1])
		}
		tmpl = tmpl[i+j+1:]
	}
	return b.String()
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	mu.Lock()
	defer mu.Unlock()
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
