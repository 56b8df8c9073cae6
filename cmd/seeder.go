package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/ipg-checkout/internal/cart"
	"github.com/frahmantamala/ipg-checkout/internal/core/datamodel/product"
	"github.com/frahmantamala/ipg-checkout/internal/order"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const seedSessionID = "demo-session"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed a demo product, an unpaid order and a cart for local checkout testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, db, gormDB, err := openStore()
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()

		if clearData {
			if err := clearSeedData(gormDB); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		demo := product.Product{SKU: "DEMO-001", Name: "Demo product", Stock: 10, ManageStock: true}
		if err := gormDB.Clauses(clause.OnConflict{DoNothing: true}).Create(&demo).Error; err != nil {
			log.Fatalf("failed to insert product: %v", err)
		}
		if err := gormDB.Where("sku = ?", demo.SKU).First(&demo).Error; err != nil {
			log.Fatalf("failed to load product: %v", err)
		}
		fmt.Println("Seeded product:", demo.SKU)

		app, err := newApplication(cfg, gormDB, initLogger(cfg))
		if err != nil {
			log.Fatal(err)
		}
		defer app.close()

		ctx := context.Background()
		o, err := app.Orders.CreateOrder(ctx, order.CreateOrderDTO{
			BillingEmail: "buyer@example.com",
			Total:        decimal.RequireFromString("49.90"),
			Items:        []order.Item{{ProductID: demo.ID, Quantity: 1}},
		})
		if err != nil {
			log.Fatalf("failed to create order: %v", err)
		}

		if err := app.Carts.AddItem(ctx, seedSessionID, cart.Item{ProductID: demo.ID, Quantity: 1}); err != nil {
			log.Fatalf("failed to fill cart: %v", err)
		}

		fmt.Printf("Seeded order %d (key %s) and cart for session %q\n", o.ID, o.Key, seedSessionID)
		fmt.Printf("Place it on hold: curl -X POST -H 'X-Session-ID: %s' -d '{\"order_key\":\"%s\"}' http://localhost:%d/api/v1/checkout/orders/%d/payment\n",
			seedSessionID, o.Key, cfg.Server.Port, o.ID)
	},
}

func clearSeedData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"payment_callbacks", "cart_items", "order_notes", "order_items", "orders", "products"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
