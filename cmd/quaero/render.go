package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"quaero/internal/highlight"
	"quaero/internal/studio"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var source bool
	cmd := &cobra.Command{
		Use:   "render <pattern>...",
		Short: "Render saved structured payloads (JSON files) without a backend",
		Long: `Render reads structured payload files (the "structured" field of a search
response) and prints them the way the interactive client does. Patterns
support ** globs, e.g. quaero render 'notes/**/*.json'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandPatterns(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no files match %v", args)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := headlessApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			failed := renderFiles(cmd.OutOrStdout(), cmd.ErrOrStderr(), files, a.Dispatcher(), source, highlighter())
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be rendered", failed, len(files))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&source, "source", false, "print the highlighted payload instead of rendering it")
	return cmd
}

// expandPatterns resolves doublestar globs into a sorted, de-duplicated file
// list. A pattern without glob syntax is kept as a literal path.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// renderFiles renders each file in turn and returns how many failed. A bad
// file is reported and skipped.
func renderFiles(out, errOut io.Writer, files []string, d *studio.Dispatcher, source bool, h *highlight.Highlighter) int {
	failed := 0
	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", path, err)
			failed++
			continue
		}
		if len(files) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "==> %s <==\n", path)
		}

		if source {
			if highlight.DetectLanguage(path) == "json" {
				fmt.Fprintln(out, h.JSON(data))
			} else {
				fmt.Fprintln(out, h.Highlight(string(data), highlight.DetectLanguage(path)))
			}
			continue
		}

		text, err := d.RenderRaw(data)
		if err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintln(out, text)
	}
	return failed
}
