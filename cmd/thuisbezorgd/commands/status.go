package commands

import (
	"log/slog"

	"github.com/kozmoz/thuisbezorgd-scraper/pkg/thuisbezorgd"

	"github.com/spf13/cobra"
)

var (
	statusPrep     int
	statusDelivery int
)

func init() {
	flags := statusCmd.Flags()
	flags.IntVar(&statusPrep, "prep", 15, "Minutes needed to prepare the food, only used when confirming.")
	flags.IntVar(&statusDelivery, "delivery", 30, "Minutes needed to deliver the order, only used when confirming.")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status <order-id> <confirmed|kitchen|in_delivery|delivered>",
	Short: "Moves an order to another status.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		orderId, target := args[0], args[1]
		err := thuisbezorgd.UpdateStatus(cmd.Context(), config.Config, orderId, target, statusPrep, statusDelivery)
		if err != nil {
			return err
		}
		slog.Info("updated order status", "order", orderId, "status", target)
		return nil
	},
}
