package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartkv-demo/internal/cart"
	"github.com/nikolayk812/cartkv-demo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newListCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the items in the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products := cart.MustFromContext(cmd.Context()).Products()
			out := cmd.OutOrStdout()

			if len(products) == 0 {
				fmt.Fprintln(out, "cart is empty")
				return nil
			}

			for _, p := range products {
				price := domain.Money{Amount: p.Price, Currency: sess.cfg.Currency}
				fmt.Fprintf(out, "%s\t%s\t%s\tx%d\n", p.ID, p.Title, price, p.Quantity)
			}
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var (
		id       string
		title    string
		imageURL string
		price    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one unit of a product to the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amount, err := decimal.NewFromString(strings.TrimSpace(price))
			if err != nil {
				return fmt.Errorf("price[%s] is not valid: %w", price, err)
			}

			if id == "" {
				id = uuid.NewString()
			}

			cart.MustFromContext(cmd.Context()).AddToCart(domain.Item{
				ID:       id,
				Title:    title,
				ImageURL: imageURL,
				Price:    amount,
			})

			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "product id, generated when empty")
	cmd.Flags().StringVar(&title, "title", "", "product title")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "product image URL")
	cmd.Flags().StringVar(&price, "price", "0", "product unit price")

	return cmd
}

func newIncrementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inc <id>",
		Short: "Add one unit of a product already in the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cart.MustFromContext(cmd.Context()).Increment(args[0])
			return nil
		},
	}
}

func newDecrementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dec <id>",
		Short: "Remove one unit of a product, dropping it at zero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cart.MustFromContext(cmd.Context()).Decrement(args[0])
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every item from the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cart.MustFromContext(cmd.Context()).Clear()
			return nil
		},
	}
}
