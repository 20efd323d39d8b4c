package main

import (
	"fmt"

	"github.com/BearBump/trackbook/internal/models"
	"github.com/BearBump/trackbook/internal/services/shipments"
	"github.com/BearBump/trackbook/internal/view"
	"github.com/BearBump/trackbook/internal/view/term"
	"github.com/spf13/cobra"
)

func (c *cli) shipmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "shipments",
		Aliases: []string{"ship"},
		Short:   "Manage tracked shipments",
	}

	var carrierName string
	add := &cobra.Command{
		Use:   "add <tracking-number>",
		Short: "Start tracking a shipment",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			r := term.New()
			sh, err := c.app.shipments.SubmitTracking(cmd.Context(), models.ShipmentCreateInput{
				TrackingNumber: args[0],
				Carrier:        carrierName,
			})
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), r.Toast(view.ErrorToast(err)))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.Toast(view.SuccessToast(shipments.MsgAdded)))
			fmt.Fprint(cmd.OutOrStdout(), r.Shipments(view.Shipments([]models.Shipment{sh}, view.NewExpandState(sh.ID))))
			return nil
		}),
	}
	add.Flags().StringVar(&carrierName, "carrier", "", "Carrier name (UPS, FedEx, USPS, DHL, ...)")

	var expand []string
	var expandAll bool
	list := &cobra.Command{
		Use:   "list",
		Short: "Show tracked shipments, newest first",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			all := c.app.shipments.List()
			state := view.NewExpandState(expand...)
			if expandAll {
				for _, sh := range all {
					state.Toggle(sh.ID)
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), term.New().Shipments(view.Shipments(all, state)))
			return nil
		}),
	}
	list.Flags().StringSliceVar(&expand, "expand", nil, "Shipment ids whose tracking history is shown")
	list.Flags().BoolVar(&expandAll, "expand-all", false, "Show tracking history for every shipment")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Stop tracking a shipment",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			removed, err := c.app.shipments.DeleteTracking(cmd.Context(), args[0], c.confirmer())
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.ErrOrStderr(), "nothing deleted")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), term.New().Toast(view.SuccessToast(shipments.MsgRemoved)))
			return nil
		}),
	}
	del.Flags().BoolVarP(&c.yes, "yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(add, list, del)
	return cmd
}
