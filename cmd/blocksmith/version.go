package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/blocksmith"
	"github.com/aretw0/blocksmith/pkg/versions"
)

// Release feed of the project.
const (
	releaseOwner = "aretw0"
	releaseRepo  = "blocksmith"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of blocksmith",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "blocksmith version %s\n", blocksmith.Version)

		check, _ := cmd.Flags().GetBool("check")
		if !check {
			return nil
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		return checkReleases(ctx, out, versions.NewFeed())
	},
}

var statusMarks = map[versions.Status]string{
	versions.StatusCurrent:    "*",
	versions.StatusUpdate:     "+",
	versions.StatusPrerelease: "?",
	versions.StatusOther:      " ",
}

func checkReleases(ctx context.Context, w io.Writer, feed *versions.Feed) error {
	current, err := versions.Parse(blocksmith.Version)
	if err != nil {
		return err
	}
	rel, err := feed.Fetch(ctx, releaseOwner, releaseRepo)
	if err != nil {
		return fmt.Errorf("failed to check releases: %w", err)
	}

	switch st := versions.Icon(rel.Latest, current, rel.Latest); st {
	case versions.StatusUpdate:
		fmt.Fprintf(w, "update available: %s %s\n", rel.Latest.Tag, rel.Latest.WebURL)
	case versions.StatusNone:
		fmt.Fprintln(w, "no release published")
	default:
		fmt.Fprintln(w, "up to date")
	}

	shown := rel.Versions
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for i := range shown {
		v := &shown[i]
		fmt.Fprintf(w, "  %s %s\n", statusMarks[versions.Icon(v, current, rel.Latest)], v.Tag)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("check", false, "Compare with the published releases")
}
