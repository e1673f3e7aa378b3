package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/vidsheet/internal/admin"
	"github.com/JonMunkholm/vidsheet/internal/config"
	"github.com/JonMunkholm/vidsheet/internal/store"
)

// errResetCancelled is returned when the operator declines the prompt.
var errResetCancelled = errors.New("reset cancelled by user")

func newResetCommand(opts *cliOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored refresh run and its records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var sc config.StoreConfig
			if err := config.LoadInto(&sc); err != nil {
				return err
			}
			if err := sc.Validate(); err != nil {
				return err
			}

			if err := confirmReset(cmd, sc, force); err != nil {
				return err
			}

			st, err := store.Open(cmd.Context(), sc)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			n, err := admin.ResetAll(cmd.Context(), st)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd, map[string]int64{"runs_removed": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d refresh runs.\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// confirmReset prompts on an interactive stdin. Without a terminal the
// prompt is skipped only when --yes is given.
func confirmReset(cmd *cobra.Command, sc config.StoreConfig, force bool) error {
	if force {
		return nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && !isatty.IsTerminal(f.Fd()) {
		return errors.New("refusing to reset without a terminal; pass --yes")
	}

	target := sc.Driver
	if sc.Driver == config.DriverSQLite {
		target += " " + sc.SQLitePath
	}
	fmt.Fprintf(cmd.OutOrStdout(), "All refresh history in %s will be deleted.\n", target)
	fmt.Fprint(cmd.OutOrStdout(), "Are you sure you want to continue? (y/N): ")

	var response string
	if _, err := fmt.Fscanln(in, &response); err != nil {
		// EOF or empty input counts as no.
		if errors.Is(err, io.EOF) || response == "" {
			return errResetCancelled
		}
		return fmt.Errorf("failed to read user input: %w", err)
	}

	if !strings.EqualFold(response, "y") {
		return errResetCancelled
	}
	return nil
}
