package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/imgdrop/internal/buildinfo"
	"github.com/dmitrijs2005/imgdrop/internal/client/config"
)

type commands struct {
	cfg *config.Config
	app *App
}

// NewRootCommand returns the imgdrop command tree bound to cfg. Flags write
// into cfg, so cfg should already hold defaults, file and env values.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	c := &commands{cfg: cfg}

	root := &cobra.Command{
		Use:   "imgdrop",
		Short: "Upload images to object storage through pre-signed URLs",
		Long: `imgdrop validates an image locally, asks the credential issuer for a
pre-signed PUT URL and uploads the file straight to object storage.

Accepted: jpeg, png, gif and webp images up to 5 MiB.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config.BindFlags(root.PersistentFlags(), cfg)

	root.AddCommand(
		c.uploadCmd(),
		c.checkCmd(),
		c.historyCmd(),
		c.shellCmd(),
		versionCmd(),
	)

	return root
}

func (c *commands) open(cmd *cobra.Command, withHistory bool) error {
	app, err := NewApp(cmd.Context(), c.cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), withHistory)
	if err != nil {
		return err
	}
	c.app = app
	return nil
}

func (c *commands) close() {
	if c.app != nil {
		_ = c.app.Close()
		c.app = nil
	}
}

func (c *commands) uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Validate, preview and upload one image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.open(cmd, true); err != nil {
				return err
			}
			defer c.close()
			if err := c.app.SelectFile(cmd.Context(), args[0]); err != nil {
				return err
			}
			return c.app.Upload(cmd.Context())
		},
	}
}

func (c *commands) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate and preview an image without uploading it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.open(cmd, false); err != nil {
				return err
			}
			defer c.close()
			if err := c.app.SelectFile(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.app.status(statusSuccess, "%s can be uploaded", args[0])
			return nil
		},
	}
}

func (c *commands) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [attempt-id]",
		Short: "List recent upload attempts, or show one attempt",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.open(cmd, true); err != nil {
				return err
			}
			defer c.close()
			if len(args) == 1 {
				return c.app.ShowAttempt(cmd.Context(), args[0])
			}
			return c.app.History(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "number of attempts to show (0 for all)")
	return cmd
}

func (c *commands) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive mode: select, preview and upload files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.open(cmd, true); err != nil {
				return err
			}
			defer c.close()
			fmt.Fprintln(cmd.OutOrStdout(), "imgdrop shell (type 'help' for commands)")
			runREPL(cmd.Context(), cmd.OutOrStdout(), c.app, c.app.stateLabel, bufio.NewScanner(cmd.InOrStdin()))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}
