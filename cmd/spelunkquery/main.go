// Command spelunkquery is a thin demo CLI over the core library: run a
// SpelunkPath query against a JSON tree fixture, or parse a stable
// path string back into its segments. It owns no library logic of its
// own; everything here is wiring for jsonhost/parser/eval/stablepath.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
