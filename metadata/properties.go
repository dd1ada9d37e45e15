package metadata

// category drives validation and merge behaviour for a property.
type category int

const (
	catAtomic category = iota
	catArray
	catObject
	catNaturalLanguage
	catLink
	catColumnReference
	catURITemplate
)

var properties = map[Kind]map[string]category{
	KindTableGroup: {
		"@id":             catLink,
		"@type":           catAtomic,
		"resources":       catArray,
		"tableSchema":     catObject,
		"tableDirection":  catAtomic,
		"dialect":         catObject,
		"transformations": catArray,
		"notes":           catArray,
	},
	KindTable: {
		"@id":             catLink,
		"@type":           catAtomic,
		"dialect":         catObject,
		"notes":           catArray,
		"suppressOutput":  catAtomic,
		"tableDirection":  catAtomic,
		"tableSchema":     catObject,
		"transformations": catArray,
		"url":             catLink,
	},
	KindTransformation: {
		"@id":          catLink,
		"@type":        catAtomic,
		"source":       catAtomic,
		"targetFormat": catLink,
		"scriptFormat": catLink,
		"title":        catNaturalLanguage,
		"url":          catLink,
	},
	KindSchema: {
		"@id":         catLink,
		"@type":       catAtomic,
		"columns":     catArray,
		"foreignKeys": catArray,
		"primaryKey":  catColumnReference,
	},
	KindColumn: {
		"@id":            catLink,
		"@type":          catAtomic,
		"name":           catAtomic,
		"suppressOutput": catAtomic,
		"title":          catNaturalLanguage,
		"required":       catAtomic,
		"virtual":        catAtomic,
	},
	KindDialect: {
		"@id":               catLink,
		"@type":             catAtomic,
		"commentPrefix":     catAtomic,
		"delimiter":         catAtomic,
		"doubleQuote":       catAtomic,
		"encoding":          catAtomic,
		"header":            catAtomic,
		"headerColumnCount": catAtomic,
		"headerRowCount":    catAtomic,
		"lineTerminator":    catAtomic,
		"quoteChar":         catAtomic,
		"skipBlankRows":     catAtomic,
		"skipColumns":       catAtomic,
		"skipInitialSpace":  catAtomic,
		"skipRows":          catAtomic,
		"trim":              catAtomic,
	},
}

// inherited properties may appear on TableGroup, Table, Schema and Column
// and default to the nearest ancestor's value.
var inherited = map[string]category{
	"null":          catAtomic,
	"lang":          catAtomic,
	"textDirection": catAtomic,
	"separator":     catAtomic,
	"default":       catAtomic,
	"ordered":       catAtomic,
	"datatype":      catAtomic,
	"aboutUrl":      catURITemplate,
	"propertyUrl":   catURITemplate,
	"valueUrl":      catURITemplate,
}

var required = map[Kind][]string{
	KindTable:          {"url"},
	KindTransformation: {"targetFormat", "scriptFormat"},
}

// markers drive type dispatch when neither a hint nor @type is present.
// Earlier rules win.
var markers = []struct {
	kind Kind
	keys []string
}{
	{KindTableGroup, []string{"resources"}},
	{KindTable, []string{"dialect", "tableSchema", "transformations"}},
	{KindTransformation, []string{"targetFormat", "scriptFormat", "source"}},
	{KindSchema, []string{"columns", "primaryKey", "foreignKeys", "urlTemplate"}},
	{KindColumn, []string{"name", "required"}},
	{KindDialect, []string{
		"commentPrefix", "delimiter", "doubleQuote", "encoding", "header", "headerColumnCount",
		"headerRowCount", "lineTerminator", "quoteChar", "skipBlankRows", "skipColumns",
		"skipInitialSpace", "skipRows", "trim",
	}},
}

// categoryOf returns the category of key on kind, including inherited
// properties where they are allowed.
func categoryOf(kind Kind, key string) (category, bool) {
	if c, ok := properties[kind][key]; ok {
		return c, true
	}
	if kind.inherits() {
		c, ok := inherited[key]
		return c, ok
	}
	return 0, false
}
