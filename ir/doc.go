// Package ir is the intermediate form between raw IL and later tree
// reconstruction.
//
// Each decoded IL instruction becomes a node implementing Instruction. Nodes
// report how many stack slots they pop, what stack type they push and
// whether they peek at the value left on top. Composite nodes derive their
// pop count from their operands: a nil operand is one pop, a non-nil operand
// contributes its own count.
//
// Build walks an IL stream and produces nodes in stack form, with all
// operand slots nil and branch targets holding raw IL offsets. Partition
// groups the nodes into basic blocks and Resolve rebuilds the function with
// every target pointing at a block:
//
//	fn, err := ir.Build(code, ir.Options{Locals: locals, ReturnType: ir.StackI4})
//	blocks, err := ir.Partition(fn)
//	resolved, err := ir.Resolve(fn, blocks)
//
// StackTypeOf maps signature type codes to the stack categories the nodes
// use.
package ir
