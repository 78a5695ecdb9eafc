package cmd

import (
	"fmt"
	"os"
)

// defaultChangelog is the file commands operate on without an argument
const defaultChangelog = "debian/changelog"

// changelogArg picks the changelog path from the arguments
func changelogArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultChangelog
}

// writeOutput writes data to the given file, or to the terminal when no
// file is named
func writeOutput(outFile string, data []byte) error {
	if outFile == "" {
		_, err := realStdout.Write(data)
		return err
	}

	if err := os.WriteFile(outFile, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outFile, err)
	}
	return nil
}
