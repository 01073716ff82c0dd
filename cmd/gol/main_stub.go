//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The GUI build of gpu-life requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/gol` or build with `-tags ebiten`.")
	fmt.Fprintln(os.Stderr, "Use ./cmd/rulegen to inspect the generated shaders without a GPU.")
	os.Exit(2)
}
