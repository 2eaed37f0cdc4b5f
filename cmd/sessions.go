package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/techhire/interview-assistant/internal/store"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List archived interview sessions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listSessions(cmd)
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one archived session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return showSession(args[0])
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionShowCmd)
}

func openArchive() (*store.Archive, error) {
	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}
	return store.Open(config.Storage.Path)
}

func listSessions(_ *cobra.Command) error {
	archive, err := openArchive()
	if err != nil {
		return err
	}
	defer archive.Close()

	records, err := archive.List(context.Background())
	if err != nil {
		return err
	}

	if len(records) == 0 {
		log.Println("no archived sessions")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCANDIDATE\tRESPONSES\tSTATUS")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			rec.ID,
			rec.Timestamp.Format("2006-01-02 15:04"),
			rec.Candidate.FullName,
			len(rec.Responses),
			rec.Status,
		)
	}
	return w.Flush()
}

func showSession(id string) error {
	archive, err := openArchive()
	if err != nil {
		return err
	}
	defer archive.Close()

	rec, err := archive.Get(context.Background(), id)
	if err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(pretty))
	return nil
}
