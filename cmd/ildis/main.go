// Command ildis decodes ECMA-335 signatures and IL method bodies.
//
//	ildis sig method "20 01 01 08"
//	ildis il --ir --blocks "16 0A 2B 04 06 17 58 0A 06 1F 0A 32 F7 06 2A"
//	ildis scan testdata/sample.yaml --cache usages.cbor
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
