package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-erae/config"
	"go-erae/debug"
	"go-erae/erae"
	"go-erae/midi"
	"go-erae/tui"
)

var debugFlag bool

func main() {
	root := &cobra.Command{
		Use:   "go-erae",
		Short: "Turn an Erae touch surface into an MPE controller",
		Long: `go-erae connects to an Erae touch surface over its SysEx API,
decodes the finger stream, and translates configured regions into
MIDI notes, MPE expression, and controller messages.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag {
				if err := debug.Enable(); err != nil {
					fmt.Fprintln(os.Stderr, "debug log unavailable:", err)
				}
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			debug.Disable()
		},
	}
	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write a debug log to the config directory")

	root.AddCommand(runCmd(), monitorCmd(), portsCmd(), decodeCmd(), initCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	gomidi.CloseDriver()
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run headless until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			session, err := NewSession(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Println("go-erae: waiting for surface (plug it in any time), Ctrl-C to quit")
			session.Run(ctx)
			return nil
		},
	}
}

func monitorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Run with a live event monitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			session, err := NewSession(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go session.Run(ctx)

			m := tui.NewModel(tui.Hooks{
				Status: func() tui.Status { return tui.Status(session.Stats()) },
				Panic:  session.Panic,
				Events: session.Monitor().Events(),
			})
			p := tea.NewProgram(m, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

func portsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List available MIDI ports",
		Run: func(cmd *cobra.Command, args []string) {
			ins, outs := midi.Ports()
			fmt.Println("Inputs:")
			for _, name := range ins {
				fmt.Println("  " + name)
			}
			fmt.Println("Outputs:")
			for _, name := range outs {
				fmt.Println("  " + name)
			}
		},
	}
}

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode a finger-stream payload given as hex bytes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.NewReplacer(" ", "", ",", "", "0x", "").Replace(strings.Join(args, ""))
			payload, err := hex.DecodeString(raw)
			if err != nil {
				return fmt.Errorf("bad hex: %w", err)
			}
			if len(payload) > 0 && payload[0] == erae.NonFinger {
				fmt.Println("non-finger reply")
				return nil
			}
			report, err := erae.ParseReport(payload)
			if err != nil {
				return err
			}
			fmt.Printf("%s zone=%d finger=%d x=%.3f y=%.3f z=%.3f\n",
				report.Action, report.Zone, report.FingerID, report.X, report.Y, report.Z)
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if err := cfg.Save(); err != nil {
				return err
			}
			path, err := config.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
}
