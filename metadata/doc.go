// Package metadata provides the module view the signature decoder and the
// IR builder consume.
//
// Module is an in-memory module: a #Blob heap, the MethodDef, MemberRef,
// Field, StandAloneSig and TypeSpec rows that tokens resolve against, and
// raw method bodies addressed by RVA. It implements Reader and ir.Resolver.
// Modules are usually loaded from YAML fixtures:
//
//	m, err := metadata.LoadFixture("testdata/sample.yaml", metadata.Options{Parallelism: 4})
//	body, err := m.MethodBody(0x2050)
//	locals, err := m.LocalVariableTypes(body)
//	fn, err := ir.Build(body.IL, ir.Options{Resolver: m, Locals: ir.StackTypes(locals)})
//
// ParseMethodBody decodes tiny and fat method headers together with their
// exception handling sections.
//
// Usages scans every method body once and records which methods reference
// each handle. The result can be cached on disk with UsageTable.WriteTo.
package metadata
