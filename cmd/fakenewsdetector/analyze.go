package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"FakeNewsDetector/internal/extractor"
	"FakeNewsDetector/internal/usecase"
)

var (
	analyzeURL     string
	analyzeFile    string
	analyzePageURL string
	analyzeTab     int
	analyzeWait    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Load a page and run an on-demand analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		if (analyzeURL == "") == (analyzeFile == "") {
			return errors.New("exactly one of --url or --file is required")
		}

		a, err := newApplication(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		var page *extractor.Page
		if analyzeURL != "" {
			page, err = a.FetchPage(ctx, analyzeURL)
		} else {
			page, err = readPageFile(analyzeFile, analyzePageURL)
		}
		if err != nil {
			return err
		}

		a.AttachPage(analyzeTab, page)

		var view usecase.View
		if analyzeWait {
			view = a.Presenter.AnalyzeAndWait(ctx, analyzeTab)
		} else {
			view = a.Presenter.AnalyzeNow(ctx, analyzeTab)
		}
		return printView(cmd, view)
	},
}

func readPageFile(path, pageURL string) (*extractor.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if pageURL == "" {
		pageURL = "file://" + path
	}
	return extractor.NewPage(pageURL, f)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "fetch the page from this URL")
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "read the page from a local HTML file")
	analyzeCmd.Flags().StringVar(&analyzePageURL, "page-url", "", "URL to attribute to --file (used by article detection)")
	analyzeCmd.Flags().IntVar(&analyzeTab, "tab", 1, "tab id to analyze under")
	analyzeCmd.Flags().BoolVar(&analyzeWait, "wait", true, "wait for the classifier instead of polling once")
	rootCmd.AddCommand(analyzeCmd)
}
