// Package tabular implements the CSV on the Web (CSVW) model: metadata
// documents describing tabular files are validated, merged, and used to read
// CSV data into typed cells that can be projected as RDF statements or JSON.
//
// Layout:
//
//   - metadata: the metadata tree (TableGroup, Table, Schema, Column, Dialect,
//     Transformation), validation, merge, discovery and row building.
//   - datatype: cell value casting against datatype descriptors.
//   - uritemplate: RFC 6570 expansion for aboutUrl/propertyUrl/valueUrl.
//   - vocab: context resolution (base URL, default language, prefixes).
//   - rdf: terms, statements and an N-Triples writer.
//   - emit: RDF statements, the flat JSON form and the annotated table model.
//   - csvsrc: the default raw row source, a dialect-aware CSV tokenizer.
//   - cmd/csvw: the command line.
//
// The root package only carries the shared error model (Issue/Issues).
//
// Typical usage:
//
//	md, err := metadata.Open(ctx, "tree-ops.csv-metadata.json", metadata.Options{})
//	if err != nil { ... }
//	if err := md.Validate(); err != nil { ... }
//	err = emit.Statements(ctx, md, emit.LoaderOpener(metadata.FileLoader{}), emit.Options{}, func(st rdf.Statement) error {
//		return w.WriteStatement(st)
//	})
package tabular
