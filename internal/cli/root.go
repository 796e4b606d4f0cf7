// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/finai/internal/switcher"
	"github.com/jeranaias/finai/internal/ui/chat"
	"github.com/jeranaias/finai/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the finai command tree.
func NewRootCommand() *cobra.Command {
	opts := &GlobalOptions{}

	root := &cobra.Command{
		Use:           "finai",
		Short:         "FinAI is a personal finance chat assistant",
		Long:          "FinAI answers personal finance questions with Gemini.\nRun without a subcommand for the full-screen chat.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(*opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.finai/config.toml)")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newChatCommand(opts))
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return execute(NewRootCommand(), os.Args[1:], os.Stderr)
}

func execute(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if err != nil {
		DisplayError(stderr, err)
	}
	return GetExitCode(err)
}

// =============================================================================
// SUBCOMMANDS
// =============================================================================

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finai %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		},
	}
}

func newChatCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat line by line without the full-screen UI",
		Long: "Chat line by line. Type a question and press Enter.\n" +
			"Commands: /new, /chats, /switch N, /attach, /copy, /export, /help, /quit.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(*opts, cmd.OutOrStdout())
		},
	}
}

// =============================================================================
// FULL-SCREEN CHAT
// =============================================================================

func runTUI(opts GlobalOptions) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	bridge := chat.NewBridge()
	m := chat.New(chat.Deps{
		Store:      app.Store,
		Dispatcher: app.Dispatcher,
		Intake:     app.NewIntake(bridge),
		Panel:      switcher.New(app.Store),
		Bridge:     bridge,
		Theme:      styles.NewTheme(),
		Log:        app.Log,
	}, chat.Options{
		RenderMarkdown: app.Config.UI.RenderMarkdown,
		StartDir:       app.Config.Attachments.StartDir,
		ExportDir:      app.Config.UI.ExportDir,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	unbind := m.Bind(p.Send)
	defer unbind()

	watcher := app.WatchConfig(func(err error) {
		p.Send(chat.ConfigReloadedMsg{Err: err})
	})
	defer watcher.Close()

	final, err := p.Run()
	if fm, ok := final.(chat.Model); ok {
		fm.Close()
	}
	if err != nil {
		app.Log.Error().Err(err).Msg("ui exited with error")
		return err
	}
	return nil
}
