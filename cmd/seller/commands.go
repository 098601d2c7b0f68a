package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shinyyama/kidtokid/internal/fileset"
	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/service"
)

type resolver func() (*app, error)

func newPublishCommand(resolve resolver) *cobra.Command {
	var form service.ListingForm
	cmd := &cobra.Command{
		Use:   "publish [flags] FILE...",
		Short: "Create a listing and upload its images",
		Long: `Create a listing and upload its images in the given order.

Example:
  seller publish --title "Wooden cube" --category toys --price 12,50 front.jpg side.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolve()
			if err != nil {
				return err
			}
			files, err := fileset.FromPaths(args...)
			if err != nil {
				return err
			}
			res, err := a.publications.Publish(cmd.Context(), form, files)
			out := cmd.OutOrStdout()
			var pe *service.PublishError
			if errors.As(err, &pe) && pe.ListingCreated() {
				fmt.Fprintf(out, "listing %s was created but its images are incomplete (%s)\n", pe.ListingID, pe.Outcome())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "published listing %s with %d image(s)\n", res.ListingID, len(res.Images))
			for _, img := range res.Images {
				fmt.Fprintf(out, "  %d  %s\n", img.SortOrder, img.PublicURL)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Title, "title", "", "listing title (required)")
	f.StringVar(&form.Category, "category", "", "category key (default clothing)")
	f.StringVar(&form.Price, "price", "", "price in euros, comma or dot decimal")
	f.StringVar(&form.City, "city", "", "pickup city")
	f.StringVar(&form.Description, "description", "", "free text description")
	f.StringVar(&form.Condition, "condition", "", "item condition (default \"Like new\")")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newListingsCommand(resolve resolver) *cobra.Command {
	var (
		limit    int
		category string
	)
	cmd := &cobra.Command{
		Use:   "listings",
		Short: "Browse recent listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolve()
			if err != nil {
				return err
			}
			items, err := a.listings.List(cmd.Context(), limit, category)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tPRICE\tCITY")
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", it.ListingID, it.Title, formatPrice(it.PriceCents, it.Free()), optional(it.City))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 12, "number of listings")
	cmd.Flags().StringVar(&category, "category", "", "filter by category key")
	return cmd
}

func newDeliveriesCommand(resolve resolver) *cobra.Command {
	return &cobra.Command{
		Use:   "deliveries",
		Short: "List deliveries with summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolve()
			if err != nil {
				return err
			}
			board, err := a.deliveries.Load(cmd.Context())
			if err != nil {
				return err
			}
			printBoard(cmd.OutOrStdout(), board)
			return nil
		},
	}
}

func newTransitionCommand(resolve resolver) *cobra.Command {
	return &cobra.Command{
		Use:   "transition DELIVERY_ID STATUS",
		Short: "Move a delivery to a new status",
		Long: `Move a delivery to a new status. delivered, canceled and failed ask for
a note for the parent; leaving it empty abandons the change.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolve()
			if err != nil {
				return err
			}
			res, err := a.deliveries.Transition(cmd.Context(), args[0], model.DeliveryStatus(args[1]), a.prompter)
			out := cmd.OutOrStdout()
			if res != nil && res.Applied {
				fmt.Fprintf(out, "delivery %s is now %s\n", args[0], args[1])
			}
			if err != nil {
				return err
			}
			if !res.Applied {
				fmt.Fprintln(out, "no note given; status unchanged")
				return nil
			}
			printBoard(out, res.Board)
			return nil
		},
	}
}

func newBasketCommand(resolve resolver) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "basket",
		Short: "Manage the basket",
	}
	show := func(cmd *cobra.Command, view *service.BasketView) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, l := range view.Lines {
			fmt.Fprintf(w, "%s\t%s\t%s\n", l.ListingID, l.Title, formatPrice(l.PriceCents, false))
		}
		fmt.Fprintf(w, "total\t\t%s\n", formatCents(view.TotalCents))
		_ = w.Flush()
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the basket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolve()
			if err != nil {
				return err
			}
			view, err := a.basket.List(cmd.Context())
			if err != nil {
				return err
			}
			show(cmd, view)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add LISTING_ID",
		Short: "Add a listing to the basket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolve()
			if err != nil {
				return err
			}
			view, err := a.basket.Add(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			show(cmd, view)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove LISTING_ID",
		Short: "Remove a listing from the basket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolve()
			if err != nil {
				return err
			}
			view, err := a.basket.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			show(cmd, view)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "confirm",
		Short: "Place an order for everything in the basket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolve()
			if err != nil {
				return err
			}
			res, err := a.basket.Confirm(cmd.Context())
			if res != nil && res.Order != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "order %s confirmed, total %s\n", res.Order.OrderID, formatCents(res.Order.TotalCents))
			}
			return err
		},
	})
	return cmd
}

func printBoard(out io.Writer, board *service.DeliveryBoard) {
	if board == nil {
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tORDER\tSTATUS\tTOTAL")
	for _, d := range board.Deliveries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.DeliveryID, d.OrderID, d.Status, formatCents(d.TotalCents))
	}
	_ = w.Flush()
	fmt.Fprintf(out, "active %d  delivered %d  in transit %s\n",
		board.Summary.Active, board.Summary.Delivered, formatCents(board.Summary.ValueInTransitCents))
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatPrice(cents *int64, free bool) string {
	if free {
		return "free"
	}
	if cents == nil {
		return "-"
	}
	return formatCents(*cents)
}

func formatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign, c = "-", -c
	}
	return fmt.Sprintf("%s%d.%02d EUR", sign, c/100, c%100)
}
