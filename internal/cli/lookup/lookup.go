// Package lookup implements the one-shot "leetstats lookup" command.
package lookup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"leetstats/internal/api"
	"leetstats/internal/core"
	"leetstats/internal/render"
	"leetstats/internal/tui/styles"
	"leetstats/pkg/models"
)

// ErrLookupFailed is returned after the failure message has been printed
var ErrLookupFailed = errors.New("lookup failed")

var LookupCmd = &cobra.Command{
	Use:   "lookup <username>",
	Short: "Show LeetCode statistics for a user",
	Long:  "Fetch a user's LeetCode statistics once and print rank, totals and per-difficulty progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		shape, err := models.ParseShape(viper.GetString("api.shape"))
		if err != nil {
			return fmt.Errorf("invalid --shape: %w", err)
		}
		client := api.NewClient(viper.GetString("api.base_url"), shape, viper.GetDuration("api.timeout"))
		lookup := core.NewLookup(client).WithTimeout(viper.GetDuration("api.timeout"))

		res, _ := lookup.Run(cmd.Context(), args[0])
		board := render.NewBoard()
		core.Present(res, render.New(board))

		out := cmd.OutOrStdout()
		if asJSON {
			if err := writeJSON(out, res, board.Snapshot()); err != nil {
				return err
			}
		} else if res.OK() {
			writeText(out, res.Username, board.Snapshot(), isTerminal(out), viper.GetInt("ui.bar_width"))
		}

		if !res.OK() {
			if !asJSON {
				fmt.Fprintln(cmd.ErrOrStderr(), res.Message)
			}
			return ErrLookupFailed
		}
		return nil
	},
}

func init() {
	LookupCmd.Flags().String("shape", "", "upstream response layout: flat, profile or auto")
	LookupCmd.Flags().Bool("json", false, "print the display model and slots as JSON")
	_ = viper.BindPFlag("api.shape", LookupCmd.Flags().Lookup("shape"))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeJSON(w io.Writer, res core.Result, slots models.Slots) error {
	var resp *models.APIResponse
	payload := models.StatsPayload{Username: res.Username, Model: res.Model, Slots: slots}
	if res.OK() {
		resp = &models.APIResponse{Success: true, Data: payload, Timestamp: time.Now()}
	} else {
		resp = models.NewAppError(res.Err).ToHTTPError(payload)
	}
	resp.Timestamp = resp.Timestamp.UTC()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

type row struct {
	label string
	bar   models.BarSlot
}

func rows(s models.Slots) []row {
	return []row{{"Easy", s.Easy}, {"Medium", s.Medium}, {"Hard", s.Hard}}
}

func writeText(w io.Writer, username string, s models.Slots, styled bool, barWidth int) {
	if !styled {
		fmt.Fprintf(w, "user: %s\n", username)
		fmt.Fprintf(w, "rank: %s\n", s.Rank)
		fmt.Fprintf(w, "solved: %s\n", s.TotalSolved)
		fmt.Fprintf(w, "completion: %s\n", render.FormatPercent(s.Gauge.Fill))
		for _, r := range rows(s) {
			fmt.Fprintf(w, "%s: %s/%s (%s)\n", strings.ToLower(r.label), r.bar.Solved, r.bar.Total, r.bar.Width)
		}
		return
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(username))
	b.WriteString("\n\n")
	b.WriteString(styles.MetaKeyStyle.Render("Rank") + " " + styles.RankStyle.Render(s.Rank))
	b.WriteString("    ")
	b.WriteString(styles.RenderKeyValue("Solved", s.TotalSolved))
	b.WriteString("\n\n")
	b.WriteString(styles.RenderGauge(s.Gauge.Fill, barWidth))
	b.WriteString("\n")
	for _, r := range rows(s) {
		style := styles.DifficultyStyle(r.label)
		b.WriteString(fmt.Sprintf("\n%s %s %s",
			style.Render(fmt.Sprintf("%-6s", r.label)),
			fmt.Sprintf("%5s / %-5s", r.bar.Solved, r.bar.Total),
			styles.RenderProgressBar(r.bar.Fill, barWidth, style),
		))
	}
	fmt.Fprintln(w, styles.CardStyle.Render(b.String()))
}
