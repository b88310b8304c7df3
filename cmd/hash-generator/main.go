// Command hash-generator prints bcrypt digests for the given passwords, for
// seeding users directly into the database.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", 10, "bcrypt work factor (4-31)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-cost N] password...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if failed := generate(os.Stdout, auth.NewBcryptHasher(*cost), flag.Args()); failed > 0 {
		os.Exit(1)
	}
}

// generate writes one digest per password, labeled by argument position so
// the plaintext never reaches the output, and returns how many failed.
func generate(out io.Writer, hasher auth.PasswordHasher, passwords []string) int {
	failed := 0
	for i, password := range passwords {
		digest, err := hasher.Hash(password)
		if err != nil {
			fmt.Fprintf(out, "Error generating hash for password #%d (%d bytes): %v\n", i+1, len(password), err)
			failed++
			continue
		}
		fmt.Fprintf(out, "Password #%d: %s\n", i+1, digest)
	}
	return failed
}
