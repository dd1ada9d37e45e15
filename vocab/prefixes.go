package vocab

// Namespace IRIs used throughout the module.
const (
	CSVW       = "http://www.w3.org/ns/csvw#"
	RDF        = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS       = "http://www.w3.org/2000/01/rdf-schema#"
	XSD        = "http://www.w3.org/2001/XMLSchema#"
	PROV       = "http://www.w3.org/ns/prov#"
	DCAT       = "http://www.w3.org/ns/dcat#"
	DC         = "http://purl.org/dc/terms/"
	OWL        = "http://www.w3.org/2002/07/owl#"
	Schema     = "http://schema.org/"
	ContextURL = "http://www.w3.org/ns/csvw"
)

// Prefixes is the CSVW initial context prefix table.
var Prefixes = map[string]string{
	"as":      "https://www.w3.org/ns/activitystreams#",
	"cc":      "http://creativecommons.org/ns#",
	"csvw":    CSVW,
	"ctag":    "http://commontag.org/ns#",
	"dc":      DC,
	"dc11":    "http://purl.org/dc/elements/1.1/",
	"dcat":    DCAT,
	"dcterms": DC,
	"dctypes": "http://purl.org/dc/dcmitype/",
	"foaf":    "http://xmlns.com/foaf/0.1/",
	"gr":      "http://purl.org/goodrelations/v1#",
	"grddl":   "http://www.w3.org/2003/g/data-view#",
	"ical":    "http://www.w3.org/2002/12/cal/icaltzd#",
	"ldp":     "http://www.w3.org/ns/ldp#",
	"ma":      "http://www.w3.org/ns/ma-ont#",
	"oa":      "http://www.w3.org/ns/oa#",
	"og":      "http://ogp.me/ns#",
	"org":     "http://www.w3.org/ns/org#",
	"owl":     OWL,
	"prov":    PROV,
	"qb":      "http://purl.org/linked-data/cube#",
	"rdf":     RDF,
	"rdfa":    "http://www.w3.org/ns/rdfa#",
	"rdfs":    RDFS,
	"rev":     "http://purl.org/stuff/rev#",
	"rif":     "http://www.w3.org/2007/rif#",
	"rr":      "http://www.w3.org/ns/r2rml#",
	"schema":  Schema,
	"sd":      "http://www.w3.org/ns/sparql-service-description#",
	"sioc":    "http://rdfs.org/sioc/ns#",
	"skos":    "http://www.w3.org/2004/02/skos/core#",
	"skosxl":  "http://www.w3.org/2008/05/skos-xl#",
	"v":       "http://rdf.data-vocabulary.org/#",
	"vcard":   "http://www.w3.org/2006/vcard/ns#",
	"void":    "http://rdfs.org/ns/void#",
	"wdr":     "http://www.w3.org/2007/05/powder#",
	"wdrs":    "http://www.w3.org/2007/05/powder-s#",
	"xhv":     "http://www.w3.org/1999/xhtml/vocab#",
	"xml":     "http://www.w3.org/XML/1998/namespace",
	"xsd":     XSD,
}
