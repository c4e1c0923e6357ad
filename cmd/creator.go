package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytbox/internal/creator"
	"github.com/desertthunder/ytbox/internal/ui"
	"github.com/urfave/cli/v3"
)

// CreatorTiers lists the promotion tiers.
func (r *Runner) CreatorTiers(ctx context.Context, cmd *cli.Command) error {
	tiers := creator.Tiers(r.config.Creator.Currency)

	if cmd.Bool("json") {
		type tier struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Price       string `json:"price"`
		}
		out := make([]tier, len(tiers))
		for i, t := range tiers {
			out[i] = tier{Name: t.Name, Description: t.Description, Price: t.Display()}
		}
		return r.writeJSON(out, true)
	}

	r.writePlainHeader("Promotion tiers")
	for _, t := range tiers {
		r.writePlain("%s %10s  %s\n", ui.Title(fmt.Sprintf("%-10s", t.Name)), t.Display(), ui.Help(t.Description))
	}
	r.writePlainln("%s", ui.Help("Payments are simulated; links are never charged."))
	return nil
}
