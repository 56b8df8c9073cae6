package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/frahmantamala/ipg-checkout/internal/ipg"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	signOrderID   string
	signOrderKey  string
	signAmount    string
	signTimestamp string
)

// signCmd recomputes a gateway request offline, for support cases where the
// gateway rejected a hash.
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Compute the gateway request for an order without touching the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		total, err := decimal.NewFromString(signAmount)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", signAmount, err)
		}

		settings := gatewaySettings(cfg)
		loc, err := ipg.LoadLocation(settings.Timezone)
		if err != nil {
			return err
		}

		now := time.Now()
		if signTimestamp != "" {
			now, err = time.ParseInLocation(ipg.TimestampLayout, signTimestamp, loc)
			if err != nil {
				return fmt.Errorf("invalid timestamp %q, want %s: %w", signTimestamp, ipg.TimestampLayout, err)
			}
		}

		builder, err := ipg.NewBuilder(settings, ipg.WithClock(func() time.Time { return now }))
		if err != nil {
			return err
		}

		req := builder.Build(ipg.Order{ID: signOrderID, Key: signOrderKey, Total: total})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "endpoint\t%s\n", req.Endpoint)
		for _, f := range req.Fields() {
			fmt.Fprintf(w, "%s\t%s\n", f.Name, f.Value)
		}
		return w.Flush()
	},
}

func init() {
	signCmd.Flags().StringVar(&signOrderID, "order", "", "order id sent as ponumber")
	signCmd.Flags().StringVar(&signOrderKey, "key", "", "order key used in the return urls")
	signCmd.Flags().StringVar(&signAmount, "amount", "", "order total, e.g. 49.90")
	signCmd.Flags().StringVar(&signTimestamp, "timestamp", "", "txndatetime in merchant time (default now)")
	_ = signCmd.MarkFlagRequired("order")
	_ = signCmd.MarkFlagRequired("amount")
}
