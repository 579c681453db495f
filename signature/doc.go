// Package signature decodes ECMA-335 signature blobs (Partition II, 23.2):
// type signatures, method signatures, local variable signatures and field
// signatures.
//
// Decoding is recursive descent over a blob.Reader. Every decoder leaves
// the reader positioned exactly after the bytes it consumed, so signatures
// that are stored back to back can be read one after another from a single
// cursor:
//
//	r := blob.NewReader(data)
//	ret, err := signature.DecodeType(r)
//	...
//	param, err := signature.DecodeType(r)
//
// # Types
//
// Type is a closed set of pointer types: Primitive, Pointer, ByReference,
// Pinned, SZArray, Array, GenericInstance, GenericParameter,
// GenericMethodParameter, FunctionPointer, Modified and TypeHandle. Class
// and valuetype references both decode to TypeHandle, keeping the
// distinction in IsValueType. Custom modifiers are kept as Modified
// wrappers; SkipModifiers and Unwrap drop them.
//
// Array sizes and lower bounds are decoded as given. Their counts are not
// checked against the rank.
//
// # Varargs
//
// A method's parameter list may contain the sentinel (0x41) separating fixed
// from variable arguments. Collection does not give the sentinel a slot:
// Count excludes it and SentinelIndex reports where it was. At most one
// sentinel is allowed.
//
// # Errors
//
// Unknown type codes, wrong signature headers, invalid compressed integers
// and truncated blobs are malformed-binary errors from the errors package.
package signature
