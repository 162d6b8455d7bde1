package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/fileboard/internal/customers"
	"github.com/dmitrijs2005/fileboard/internal/filenames"
	"github.com/dmitrijs2005/fileboard/internal/remote"
	"github.com/dmitrijs2005/fileboard/internal/server"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
	"github.com/spf13/cobra"
)

type inspectResult struct {
	Overview models.Overview          `json:"overview"`
	Records  []*models.CustomerRecord `json:"records"`
	Rejected []string                 `json:"rejected"`
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	var (
		file      string
		serverURL string
		strategy  string
		policy    string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Parse and aggregate a file listing",
		Long: `Runs the filename parser and record aggregation on a saved listing
(--file, the JSON array served by files.json.php) or on a live server
(--server) and prints the records and rejected names as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (serverURL == "") {
				return errors.New("exactly one of --file or --server is required")
			}
			st, err := filenames.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			rep, err := customers.ParseRepresentative(policy)
			if err != nil {
				return err
			}

			var raw []models.RawFileEntry
			if file != "" {
				raw, err = readListing(file)
			} else {
				cfg, cfgErr := opts.config()
				if cfgErr != nil {
					return cfgErr
				}
				client := remote.NewClient(server.RemoteOptions(cfg), opts.logger(cfg, cmd.ErrOrStderr()))
				raw, err = client.ListFiles(cmd.Context(), serverURL)
			}
			if err != nil {
				return err
			}

			res := inspect(raw, st, rep)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "saved listing JSON")
	cmd.Flags().StringVarP(&serverURL, "server", "s", "", "remote file server URL")
	cmd.Flags().StringVar(&strategy, "strategy", filenames.StrategyLeadingLetters.String(), "category strategy (leading-letters, fixed-width)")
	cmd.Flags().StringVar(&policy, "policy", customers.RepresentativeLatest.String(), "representative file policy (latest, last-seen)")
	return cmd
}

func readListing(path string) ([]models.RawFileEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []models.RawFileEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode listing %s: %w", path, err)
	}
	return raw, nil
}

func inspect(raw []models.RawFileEntry, st filenames.Strategy, rep customers.Representative) inspectResult {
	names := make([]string, len(raw))
	for i, e := range raw {
		names[i] = e.Name
	}
	entries, rejected := filenames.NewParser(st).ParseAll(names)
	records := customers.Aggregate(entries, rep)
	if rejected == nil {
		rejected = []string{}
	}
	return inspectResult{
		Overview: customers.Summary(records, entries, len(rejected)),
		Records:  customers.Sorted(records),
		Rejected: rejected,
	}
}
