package main

import (
	"context"
	"fmt"
	"os"

	"github.com/moldovancsaba/narimato-sub003/internal/apiclient"
	"github.com/moldovancsaba/narimato-sub003/internal/config"
	"github.com/moldovancsaba/narimato-sub003/internal/logger"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
)

// Styles mirror the server's operational texture: this CLI is a
// separate operator binary, not part of the request-serving path — it
// only exposes RecomputeGlobal and ExpirePlays for operators, driven
// over HTTP against a running server since the two processes never
// share memory.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
)

const defaultServerURL = "http://localhost:8080"

func main() {
	cfg := config.Load()
	if err := logger.Init(&cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Shutdown()

	cmd := &cli.Command{
		Name:  "narimato",
		Usage: "operator tooling for the Narimato ranking engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "base URL of the running narimato server",
				Value:   defaultServerURL,
				Sources: cli.EnvVars("NARIMATO_SERVER_URL"),
			},
		},
		Commands: []*cli.Command{
			recomputeGlobalCommand(),
			expirePlaysCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func recomputeGlobalCommand() *cli.Command {
	return &cli.Command{
		Name:  "recompute-global",
		Usage: "replay all completed plays for a tenant and rewrite its leaderboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "tenant",
				Aliases:  []string{"t"},
				Usage:    "tenant id",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tenantID := cmd.String("tenant")
			client := apiclient.NewClient(cmd.String("server"))

			fmt.Println(headerStyle.Render("Recomputing global ranking"))
			fmt.Println(labelStyle.Render("tenant: ") + tenantID)

			summary, err := client.RecomputeGlobal(ctx, tenantID)
			if err != nil {
				return err
			}

			fmt.Println(okStyle.Render(fmt.Sprintf(
				"done in %dms — %d plays scanned, %d votes replayed, %d dropped, %d cards rated",
				summary.DurationMillis, summary.PlaysScanned, summary.VotesReplayed,
				summary.VotesDropped, summary.CardsRated)))

			if summary.VotesDropped > 0 {
				fmt.Println(warnStyle.Render(fmt.Sprintf("%d malformed votes were skipped", summary.VotesDropped)))
			}
			return nil
		},
	}
}

func expirePlaysCommand() *cli.Command {
	return &cli.Command{
		Name:  "expire-plays",
		Usage: "delete plays whose expiresAt has passed",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client := apiclient.NewClient(cmd.String("server"))

			summary, err := client.ExpirePlays(ctx)
			if err != nil {
				return err
			}

			fmt.Println(okStyle.Render(fmt.Sprintf("swept %d expired play(s)", summary.DeletedCount)))
			return nil
		},
	}
}
