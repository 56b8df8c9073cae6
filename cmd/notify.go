package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/frahmantamala/ipg-checkout/internal/notification"
	"github.com/spf13/cobra"
)

var notifyTemplate string

// notifyCmd re-sends a customer email, bypassing the worker queue.
var notifyCmd = &cobra.Command{
	Use:   "notify [order-id]",
	Short: "Re-send a notification template for an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orderID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || orderID <= 0 {
			return fmt.Errorf("invalid order id %q", args[0])
		}
		if appErr := notification.ValidateTemplate(notifyTemplate); appErr != nil {
			return appErr
		}

		cfg, db, gormDB, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		app, err := newApplication(cfg, gormDB, initLogger(cfg))
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.Dispatcher.Send(context.Background(), notifyTemplate, orderID); err != nil {
			return fmt.Errorf("send %s for order %d: %w", notifyTemplate, orderID, err)
		}
		fmt.Printf("sent %s for order %d\n", notifyTemplate, orderID)
		return nil
	},
}

func init() {
	notifyCmd.Flags().StringVarP(&notifyTemplate, "template", "t", notification.TemplateCompletedOrder,
		fmt.Sprintf("template to send (%s or %s)", notification.TemplateCompletedOrder, notification.TemplateOnHoldOrder))
}
