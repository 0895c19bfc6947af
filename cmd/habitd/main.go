package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	a := newApp(os.Stdin, os.Stdout, nil)
	if err := a.execute(context.Background(), a.rootCmd()); err != nil {
		fmt.Fprintf(os.Stderr, "habitd failed: %v\n", err)
		os.Exit(1)
	}
}
