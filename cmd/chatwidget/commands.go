package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/chatwidget/internal/chat"
	"github.com/jask/chatwidget/internal/client"
	"github.com/jask/chatwidget/internal/config"
	"github.com/jask/chatwidget/internal/logging"
)

// newSendCmd runs one exchange without the UI, for scripts and smoke checks.
func newSendCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "send <message...>",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*flags)
			if err != nil {
				return err
			}
			lvl, err := logging.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}
			log := logging.Console(cmd.ErrOrStderr(), lvl)

			w := chat.New(chat.OrderArrival)
			w.SetInput(strings.Join(args, " "))
			req, ok := w.Send()
			if !ok {
				return errors.New("message is empty")
			}

			c, err := client.New(cfg.Endpoint, nil, log)
			if err != nil {
				return err
			}
			reply, err := c.Chat(cmd.Context(), req.Message)
			if err != nil {
				w.Fail(req.Seq)
				return err
			}
			for _, e := range w.Deliver(req.Seq, reply) {
				fmt.Fprintln(cmd.OutOrStdout(), e.Text)
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Path())
		},
	}

	cfgCmd.AddCommand(initCmd, pathCmd)
	return cfgCmd
}
