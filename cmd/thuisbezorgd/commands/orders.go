package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kozmoz/thuisbezorgd-scraper/lib/configuration"
	"github.com/kozmoz/thuisbezorgd-scraper/lib/orderstore"
	"github.com/kozmoz/thuisbezorgd-scraper/pkg/thuisbezorgd"

	"github.com/spf13/cobra"
)

var (
	ordersFormat  string
	ordersDb      string
	ordersDbUrl   string
	ordersDbToken string
)

func init() {
	flags := ordersCmd.Flags()
	flags.StringVarP(&ordersFormat, "format", "f", "table", `The output format, "table" or "json".`)
	flags.StringVar(&ordersDb, "db", "", "A sqlite database file to export the orders to.")
	flags.StringVar(&ordersDbUrl, "db-url", "", "A libsql database url to export the orders to.")
	flags.StringVar(&ordersDbToken, "db-token", "", "The auth token of the libsql database.")
	rootCmd.AddCommand(ordersCmd)
}

func exportOrders(cmd *cobra.Command, database configuration.Database, fetchedAt time.Time, list []thuisbezorgd.Order) error {
	db, err := database.OpenDB()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	err = orderstore.Init(cmd.Context(), db)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	err = orderstore.NewStore(db).Push(cmd.Context(), fetchedAt, list)
	if err != nil {
		return fmt.Errorf("export orders: %w", err)
	}
	slog.Info("exported orders", "count", len(list))
	return nil
}

var ordersCmd = &cobra.Command{
	Use:   "orders [--format table|json] [--db <file> | --db-url <url>]",
	Short: "Prints the open orders of the restaurant.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ordersFormat != "table" && ordersFormat != "json" {
			return fmt.Errorf("unknown format %q", ordersFormat)
		}

		database := config.Database
		if ordersDb != "" {
			database = configuration.Database{File: ordersDb}
		}
		if ordersDbUrl != "" {
			database = configuration.Database{Url: ordersDbUrl, AuthToken: ordersDbToken}
		}

		fetchedAt := time.Now()
		list, err := thuisbezorgd.Scrape(cmd.Context(), config.Config)
		if err != nil {
			return err
		}

		if database.Enabled() {
			err = exportOrders(cmd, database, fetchedAt, list)
			if err != nil {
				return err
			}
		}

		if ordersFormat == "json" {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(list)
		}
		renderOrders(list)
		return nil
	},
}
