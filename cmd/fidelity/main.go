package main

import (
	"os"
	"strings"

	"github.com/google/uuid"

	"fidelity-cli/internal/cli"
)

func isCaseID(s string) bool {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil
}

// rewriteDirectCaseLookupArgs turns `fidelity <case-id>` into `fidelity cases show <case-id>`.
// Cobra treats the first positional token as a subcommand, so argv is rewritten before parsing.
// Persistent flags may come first, so the first positional token is searched for.
func rewriteDirectCaseLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--log-level": true,
		"--role":      true,
	}

	insertAt := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "cases", "show")
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isCaseID(argv[i+1]) {
				return insertAt(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			// Unknown and bool flags take no value; --flag=value carries its own.
			if valueFlags[a] {
				i++
			}
			continue
		}
		if isCaseID(a) {
			return insertAt(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectCaseLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
