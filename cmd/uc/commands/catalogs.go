package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// NewCatalogsCommand creates the catalogs command group.
func NewCatalogsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalogs",
		Aliases: []string{"catalog", "cat"},
		Short:   "Manage catalogs",
		Long:    "List, inspect, create, update and delete catalogs",
	}

	cmd.AddCommand(newCatalogsListCommand())
	cmd.AddCommand(newCatalogsGetCommand())
	cmd.AddCommand(newCatalogsCreateCommand())
	cmd.AddCommand(newCatalogsUpdateCommand())
	cmd.AddCommand(newCatalogsDeleteCommand())

	return cmd
}

func newCatalogsListCommand() *cobra.Command {
	var maxResults, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogs",
		Long:  "List all catalogs, following pages until done or --limit is reached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(rc *runContext) error {
				return runCatalogsList(rc, maxResults, limit)
			})
		},
	}

	addListFlags(cmd, &maxResults, &limit)

	return cmd
}

func runCatalogsList(rc *runContext, maxResults, limit int) error {
	catalogs, err := collectItems(rc.client.Catalogs().List(rc.ctx, maxResults), limit)
	if err != nil {
		return fmt.Errorf("failed to list catalogs: %w", err)
	}

	header := []any{"Name", "Type", "Owner", "Comment", "Created"}

	return renderList(rc.out, rc.format, catalogs, "catalogs", header, func(c uc.CatalogInfo) []string {
		return []string{c.Name, titleCase(c.CatalogType), valueOrNA(c.Owner), truncate(c.Comment), formatTimestamp(c.CreatedAt)}
	})
}

func newCatalogsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get catalog details",
		Long:  "Display detailed information about a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(rc *runContext) error {
				return runCatalogsGet(rc, args[0])
			})
		},
	}
}

func runCatalogsGet(rc *runContext, name string) error {
	catalog, err := rc.client.Catalogs().Get(rc.ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get catalog: %w", err)
	}

	return renderCatalog(rc, catalog)
}

func renderCatalog(rc *runContext, catalog *uc.CatalogInfo) error {
	return renderItem(rc.out, rc.format, catalog, [][]string{
		{"Name", catalog.Name},
		{"ID", valueOrNA(catalog.ID)},
		{"Type", titleCase(catalog.CatalogType)},
		{"Owner", valueOrNA(catalog.Owner)},
		{"Comment", valueOrNA(catalog.Comment)},
		{"Storage Root", valueOrNA(catalog.StorageRoot)},
		{"Properties", formatProperties(catalog.Properties)},
		{"Created", formatTimestamp(catalog.CreatedAt)},
		{"Updated", formatTimestamp(catalog.UpdatedAt)},
	})
}

func newCatalogsCreateCommand() *cobra.Command {
	var request uc.CreateCatalogRequest

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a catalog",
		Long:  "Create a new catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request.Name = args[0]

			return withClient(cmd, func(rc *runContext) error {
				catalog, err := rc.client.Catalogs().Create(rc.ctx, &request)
				if err != nil {
					return fmt.Errorf("failed to create catalog: %w", err)
				}

				return renderCatalog(rc, catalog)
			})
		},
	}

	cmd.Flags().StringVar(&request.Comment, "comment", "", "catalog comment")
	cmd.Flags().StringVar(&request.StorageRoot, "storage-root", "", "storage root URL for managed tables")
	cmd.Flags().StringToStringVar(&request.Properties, "property", nil, "catalog property as key=value (repeatable)")

	return cmd
}

func newCatalogsUpdateCommand() *cobra.Command {
	var (
		newName    string
		comment    string
		owner      string
		properties map[string]string
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update a catalog",
		Long:  "Rename a catalog or change its comment, owner or properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &uc.UpdateCatalogRequest{
				NewName:    changedString(cmd, "new-name", newName),
				Comment:    changedString(cmd, "comment", comment),
				Owner:      changedString(cmd, "owner", owner),
				Properties: properties,
			}

			return withClient(cmd, func(rc *runContext) error {
				catalog, err := rc.client.Catalogs().Update(rc.ctx, args[0], request)
				if err != nil {
					return fmt.Errorf("failed to update catalog: %w", err)
				}

				return renderCatalog(rc, catalog)
			})
		},
	}

	cmd.Flags().StringVar(&newName, "new-name", "", "new catalog name")
	cmd.Flags().StringVar(&comment, "comment", "", "catalog comment")
	cmd.Flags().StringVar(&owner, "owner", "", "catalog owner")
	cmd.Flags().StringToStringVar(&properties, "property", nil, "catalog property as key=value (repeatable)")

	return cmd
}

func newCatalogsDeleteCommand() *cobra.Command {
	var force, yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a catalog",
		Long:  "Delete a catalog. Use --force to delete a catalog that still has schemas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := confirmDeletion(cmd, yes, "catalog", args[0])
			if err != nil {
				return err
			}

			return withClient(cmd, func(rc *runContext) error {
				err := rc.client.Catalogs().Delete(rc.ctx, args[0], force)
				if err != nil {
					return fmt.Errorf("failed to delete catalog: %w", err)
				}

				rc.printf("Catalog '%s' deleted\n", args[0])

				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete even if the catalog is not empty")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
