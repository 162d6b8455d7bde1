package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/server/services"
	"github.com/spf13/cobra"
)

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read or change the remote server URL in the settings store",
	}

	withService := func(cmd *cobra.Command, fn func(s *services.SettingsService) error) error {
		cfg, err := opts.config()
		if err != nil {
			return err
		}
		db, rm, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(services.NewSettingsService(db, rm, cfg, opts.logger(cfg, cmd.ErrOrStderr())))
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print the server URL in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(s *services.SettingsService) error {
				v, err := s.ServerURL(cmd.Context())
				if errors.Is(err, common.ErrServerURLNotSet) {
					return fmt.Errorf("%w; use \"settings set <url>\"", err)
				}
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
				return err
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <url>",
		Short: "Save a new server URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(s *services.SettingsService) error {
				v, err := s.SetServerURL(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
				return err
			})
		},
	}

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List previously saved server URLs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(s *services.SettingsService) error {
				items, err := s.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			})
		},
	}
	history.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of entries")

	cmd.AddCommand(get, set, history)
	return cmd
}
