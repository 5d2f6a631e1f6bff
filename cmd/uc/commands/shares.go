package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// NewSharesCommand creates the shares command group.
func NewSharesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "shares",
		Aliases: []string{"share"},
		Short:   "Manage shares",
		Long:    "List, inspect, create, update and delete shares of tables and schemas",
	}

	cmd.AddCommand(newSharesListCommand())
	cmd.AddCommand(newSharesGetCommand())
	cmd.AddCommand(newSharesCreateCommand())
	cmd.AddCommand(newSharesUpdateCommand())
	cmd.AddCommand(newSharesDeleteCommand())

	return cmd
}

func newSharesListCommand() *cobra.Command {
	var maxResults, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shares",
		Long:  "List all shares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(rc *runContext) error {
				return runSharesList(rc, maxResults, limit)
			})
		},
	}

	addListFlags(cmd, &maxResults, &limit)

	return cmd
}

func runSharesList(rc *runContext, maxResults, limit int) error {
	shares, err := collectItems(rc.client.Shares().List(rc.ctx, maxResults), limit)
	if err != nil {
		return fmt.Errorf("failed to list shares: %w", err)
	}

	header := []any{"Name", "Objects", "Owner", "Comment", "Created"}

	return renderList(rc.out, rc.format, shares, "shares", header, func(s uc.ShareInfo) []string {
		return []string{s.Name, strconv.Itoa(len(s.DataObjects)), valueOrNA(s.Owner), truncate(s.Comment), formatTimestamp(s.CreatedAt)}
	})
}

func newSharesGetCommand() *cobra.Command {
	var includeSharedData bool

	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Get share details",
		Long:  "Display detailed information about a share",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(rc *runContext) error {
				return runSharesGet(rc, args[0], includeSharedData)
			})
		},
	}

	cmd.Flags().BoolVar(&includeSharedData, "include-shared-data", false, "include the shared data objects")

	return cmd
}

func runSharesGet(rc *runContext, name string, includeSharedData bool) error {
	share, err := rc.client.Shares().Get(rc.ctx, name, includeSharedData)
	if err != nil {
		return fmt.Errorf("failed to get share: %w", err)
	}

	return renderShare(rc, share)
}

func renderShare(rc *runContext, share *uc.ShareInfo) error {
	rows := [][]string{
		{"Name", share.Name},
		{"ID", valueOrNA(share.ID)},
		{"Owner", valueOrNA(share.Owner)},
		{"Comment", valueOrNA(share.Comment)},
		{"Created", formatTimestamp(share.CreatedAt)},
		{"Updated", formatTimestamp(share.UpdatedAt)},
	}

	for _, object := range share.DataObjects {
		rows = append(rows, []string{titleCase(string(object.DataObjectType)), object.Name})
	}

	return renderItem(rc.out, rc.format, share, rows)
}

func newSharesCreateCommand() *cobra.Command {
	var request uc.CreateShareRequest

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a share",
		Long:  "Create an empty share. Add tables with 'shares update --add-table'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request.Name = args[0]

			return withClient(cmd, func(rc *runContext) error {
				share, err := rc.client.Shares().Create(rc.ctx, &request)
				if err != nil {
					return fmt.Errorf("failed to create share: %w", err)
				}

				return renderShare(rc, share)
			})
		},
	}

	cmd.Flags().StringVar(&request.Comment, "comment", "", "share comment")

	return cmd
}

// shareUpdates builds the data object changes of a share update.
func shareUpdates(addTables, removeTables []string) []uc.DataObjectUpdate {
	updates := make([]uc.DataObjectUpdate, 0, len(addTables)+len(removeTables))

	for _, name := range addTables {
		updates = append(updates, uc.DataObjectUpdate{
			Action:     uc.DataObjectUpdateActionAdd,
			DataObject: uc.DataObject{Name: name, DataObjectType: uc.DataObjectTypeTable},
		})
	}

	for _, name := range removeTables {
		updates = append(updates, uc.DataObjectUpdate{
			Action:     uc.DataObjectUpdateActionRemove,
			DataObject: uc.DataObject{Name: name, DataObjectType: uc.DataObjectTypeTable},
		})
	}

	return updates
}

func newSharesUpdateCommand() *cobra.Command {
	var (
		newName, comment, owner string
		addTables, removeTables []string
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update a share",
		Long:  "Rename a share, change its comment or owner, or add and remove tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &uc.UpdateShareRequest{
				NewName: changedString(cmd, "new-name", newName),
				Comment: changedString(cmd, "comment", comment),
				Owner:   changedString(cmd, "owner", owner),
				Updates: shareUpdates(addTables, removeTables),
			}

			return withClient(cmd, func(rc *runContext) error {
				share, err := rc.client.Shares().Update(rc.ctx, args[0], request)
				if err != nil {
					return fmt.Errorf("failed to update share: %w", err)
				}

				return renderShare(rc, share)
			})
		},
	}

	cmd.Flags().StringVar(&newName, "new-name", "", "new share name")
	cmd.Flags().StringVar(&comment, "comment", "", "share comment")
	cmd.Flags().StringVar(&owner, "owner", "", "share owner")
	cmd.Flags().StringArrayVar(&addTables, "add-table", nil, "full name of a table to add (repeatable)")
	cmd.Flags().StringArrayVar(&removeTables, "remove-table", nil, "full name of a table to remove (repeatable)")

	return cmd
}

func newSharesDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a share",
		Long:  "Delete a share",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := confirmDeletion(cmd, yes, "share", args[0])
			if err != nil {
				return err
			}

			return withClient(cmd, func(rc *runContext) error {
				err := rc.client.Shares().Delete(rc.ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to delete share: %w", err)
				}

				rc.printf("Share '%s' deleted\n", args[0])

				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
