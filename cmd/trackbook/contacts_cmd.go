package main

import (
	"fmt"

	"github.com/BearBump/trackbook/internal/models"
	"github.com/BearBump/trackbook/internal/platform"
	"github.com/BearBump/trackbook/internal/services/contacts"
	"github.com/BearBump/trackbook/internal/view"
	"github.com/BearBump/trackbook/internal/view/term"
	"github.com/spf13/cobra"
)

func (c *cli) contactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage phone contacts",
	}

	var in models.ContactCreateInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			r := term.New()
			ct, err := c.app.contacts.SubmitContact(cmd.Context(), in)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), r.Toast(view.ErrorToast(err)))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.Toast(view.SuccessToast(contacts.MsgAdded)))
			fmt.Fprint(cmd.OutOrStdout(), r.Contacts(c.contactList([]models.Contact{ct}, view.ContactQuery{})))
			return nil
		}),
	}
	add.Flags().StringVar(&in.Name, "name", "", "Contact name")
	add.Flags().StringVar(&in.Phone, "phone", "", "Phone number, at least 10 digits")
	add.Flags().StringVar(&in.Category, "category", "", "Category (family, friends, work, business, other)")
	add.Flags().StringVar(&in.Notes, "notes", "", "Notes")

	var q view.ContactQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List or search contacts",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			found := c.app.contacts.Search(q.Term, q.Category)
			fmt.Fprint(cmd.OutOrStdout(), term.New().Contacts(c.contactList(found, q)))
			return nil
		}),
	}
	list.Flags().StringVarP(&q.Term, "search", "q", "", "Case-insensitive substring of name or phone")
	list.Flags().StringVar(&q.Category, "category", models.ContactCategoryAll, "Category filter")

	call := &cobra.Command{
		Use:   "call <id>",
		Short: "Record a call and print the tel: link",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			_, err := c.app.contacts.Call(cmd.Context(), args[0], platform.NewTelLink(cmd.OutOrStdout()))
			return err
		}),
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			removed, err := c.app.contacts.Delete(cmd.Context(), args[0], c.confirmer())
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.ErrOrStderr(), "nothing deleted")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), term.New().Toast(view.SuccessToast(contacts.MsgDeleted)))
			return nil
		}),
	}
	del.Flags().BoolVarP(&c.yes, "yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(add, list, call, del)
	return cmd
}

func (c *cli) contactList(found []models.Contact, q view.ContactQuery) view.ContactList {
	return view.Contacts(found, len(c.app.contacts.List()), q, c.app.contacts.Categories(),
		loadLocation(c.cfg.Trackbook.Timezone))
}
