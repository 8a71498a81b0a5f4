package main

import (
	"fmt"
	"io"
	"strings"

	"quaero/internal/api"
	"quaero/internal/catalog"
	"quaero/internal/logging"
	"quaero/internal/studio"

	"github.com/spf13/cobra"
)

type askFlags struct {
	output     string
	timeRange  string
	include    string
	exclude    string
	model      string
	maxResults int
	local      bool
	full       bool
	noStrict   bool
	copy       bool
	json       bool
}

func newAskCmd() *cobra.Command {
	var f askFlags
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, strings.Join(args, " "), f)
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "answer", "output type: answer, faq, study_guide, briefing_doc, timeline, mind_map")
	cmd.Flags().StringVarP(&f.timeRange, "time-range", "t", "", "recency: 7d, 30d, 365d, all")
	cmd.Flags().StringVar(&f.include, "include", "", "only search these domains (comma or space separated)")
	cmd.Flags().StringVar(&f.exclude, "exclude", "", "never search these domains")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "model override")
	cmd.Flags().IntVarP(&f.maxResults, "max-results", "n", 0, "number of sources (3-12)")
	cmd.Flags().BoolVarP(&f.local, "local", "l", false, "generate with the local provider")
	cmd.Flags().BoolVar(&f.full, "full", false, "ask for a full rather than concise answer")
	cmd.Flags().BoolVar(&f.noStrict, "no-strict", false, "allow answers beyond the retrieved sources")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "copy the answer to the clipboard")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the raw response as JSON")
	return cmd
}

func runAsk(cmd *cobra.Command, question string, f askFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if f.maxResults != 0 {
		cfg.Search.MaxResults = f.maxResults
	}
	if f.timeRange != "" {
		cfg.Search.TimeRange = f.timeRange
	}
	if f.full {
		cfg.Search.Mode = string(api.UIModeFull)
	}
	if f.noStrict {
		cfg.Search.Strict = false
	}

	a, err := headlessApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	draft := a.NewDraft()
	draft.Query = question
	draft.IncludeDomains = f.include
	draft.ExcludeDomains = f.exclude
	draft.OutputType, err = parseOutputType(f.output)
	if err != nil {
		return err
	}
	draft.Selection = selectionFor(f.local, f.model)

	req, err := draft.Build()
	if err != nil {
		return err
	}
	logging.Debug("ask", "query", req.Query, "output", req.OutputType, "force_local", req.ForceLocal)

	resp, err := a.Ask(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.json {
		text, err := highlighter().Value(resp)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
	} else {
		writeSearchResponse(out, cmd.ErrOrStderr(), resp, a.Markup(), a.Dispatcher(), cfg.UI.ShowDiagnostics)
	}

	if f.copy {
		if err := a.Copy(); err != nil {
			return fmt.Errorf("copy: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Copied ✓")
	}
	return nil
}

func parseOutputType(s string) (api.OutputType, error) {
	for _, o := range api.OutputTypes {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown output type %q", s)
}

// selectionFor maps --local/--model onto a model selection. A model with no
// provider flag is taken as a remote override.
func selectionFor(local bool, model string) catalog.Selection {
	if model == "" {
		return catalog.Default(local)
	}
	provider := api.ProviderRemote
	if local {
		provider = api.ProviderLocal
	}
	return catalog.Select(provider, model)
}

// writeSearchResponse prints a structured document when one came back, and
// the conversational answer otherwise. Sources always follow.
func writeSearchResponse(out, errOut io.Writer, resp *api.SearchResponse, markup studio.MarkupRenderer, d *studio.Dispatcher, diagnostics bool) {
	if diagnostics {
		fmt.Fprintln(errOut, resp.Diagnostics.Summary())
	}

	printed := false
	if resp.HasStructured() {
		text, err := d.RenderRaw(resp.Structured)
		if err != nil {
			fmt.Fprintf(errOut, "warning: %v; showing the plain answer\n", err)
		} else {
			fmt.Fprintln(out, text)
			printed = true
		}
	}
	if !printed {
		answer, err := markup.RenderMarkup(api.Markup(resp.Answer))
		if err != nil {
			answer = resp.Answer
		}
		fmt.Fprintln(out, answer)
		if len(resp.Bullets) > 0 {
			fmt.Fprintln(out)
			for _, b := range resp.Bullets {
				fmt.Fprintln(out, "• "+b)
			}
		}
	}

	if len(resp.Sources) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Sources:")
	for i, s := range resp.Sources {
		line := fmt.Sprintf("[%d] %s — %s", i+1, s.DisplayTitle(), s.URL)
		if date := api.FormatPublished(s.Published); date != "" {
			line += " (" + date + ")"
		}
		fmt.Fprintln(out, line)
	}
}
