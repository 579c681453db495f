// Package decompiler decodes the ECMA-335 structures a .NET decompiler
// starts from: signature blobs, IL opcode streams and method bodies, and
// turns IL into a typed instruction IR.
//
// # Packages
//
//	decompiler/          Root package with the common decoding entry points
//	├── blob/            Byte cursor and compressed integers (II.23.2)
//	├── handle/          Metadata tokens and coded indices
//	├── signature/       Type, method, locals and field signatures
//	├── il/              Opcode table, operand shapes and instruction decoding
//	├── ir/              Instruction nodes, stack types and basic blocks
//	├── metadata/        Method bodies, fixture modules and the usage index
//	├── errors/          Structured error types for debugging
//	└── cmd/ildis/       Command line front end
//
// # Quick Start
//
// Decode a method signature:
//
//	m, err := decompiler.DecodeMethodSignature(blob.NewReader([]byte{0x20, 0x01, 0x01, 0x08}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(m) // "instance void (int32)"
//
// Build the IR of a method body:
//
//	body, err := metadata.ParseMethodBody(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fn, err := decompiler.BuildIR(body.IL, ir.Options{
//	    Resolver: module,
//	    Regions:  body.ExceptionRegions,
//	})
//
// # Errors
//
// Every decoder returns *errors.Error values. Malformed input is reported
// with errors.KindMalformed and the offset of the offending byte; test for
// it with errors.IsMalformed. Truncated input also matches
// io.ErrUnexpectedEOF through errors.Is.
//
// # Logging
//
// The ir and metadata packages log through zap. Both default to a no-op
// logger; install one with ir.SetLogger and metadata.SetLogger.
package decompiler
