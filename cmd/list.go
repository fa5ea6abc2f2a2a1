package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/chukul/eventpush/internal"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the events in ./events in publish order without sending them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listEvents(cmd.OutOrStdout(), os.DirFS("."), internal.EventsDir)
	},
}

func listEvents(w io.Writer, fsys fs.FS, dir string) error {
	batch, err := internal.ListEvents(fsys, dir)
	if err != nil {
		return err
	}

	if len(batch) == 0 {
		fmt.Fprintln(w, "📭 No events found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s %-30s %-30s %s\n", "#", "FILE", "TYPE", "STATUS")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	malformed := 0
	for i, ev := range batch {
		rec, err := internal.DecodeEvent(ev.Path, ev.Raw)
		if err != nil {
			var bad *internal.MalformedEventError
			if !errors.As(err, &bad) {
				return err
			}
			malformed++
			fmt.Fprintf(w, "%-4d %-30s ❌ %s\n", i+1, truncateText(ev.Path, 30), bad.Reason)
			continue
		}
		fmt.Fprintf(w, "%-4d %-30s %-30s %s\n", i+1, truncateText(ev.Path, 30), truncateText(rec.DetailType, 30), rec.Status)
	}
	fmt.Fprintf(w, "\n%d events, %d malformed\n", len(batch), malformed)
	return nil
}

func truncateText(text string, max int) string {
	if len(text) > max {
		return text[:max-3] + "..."
	}
	return text
}
