package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// NewSchemasCommand creates the schemas command group.
func NewSchemasCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schemas",
		Aliases: []string{"schema"},
		Short:   "Manage schemas",
		Long:    "List, inspect, create, update and delete schemas within a catalog",
	}

	cmd.AddCommand(newSchemasListCommand())
	cmd.AddCommand(newSchemasGetCommand())
	cmd.AddCommand(newSchemasCreateCommand())
	cmd.AddCommand(newSchemasUpdateCommand())
	cmd.AddCommand(newSchemasDeleteCommand())

	return cmd
}

// splitSchemaName splits "catalog.schema".
func splitSchemaName(fullName string) (string, string, error) {
	catalog, schema, ok := strings.Cut(fullName, ".")
	if !ok || catalog == "" || schema == "" || strings.Contains(schema, ".") {
		return "", "", fmt.Errorf("%w: %q", constants.ErrInvalidSchemaName, fullName)
	}

	return catalog, schema, nil
}

func newSchemasListCommand() *cobra.Command {
	var (
		catalog           string
		maxResults, limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schemas",
		Long:  "List the schemas of a catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(rc *runContext) error {
				return runSchemasList(rc, catalog, maxResults, limit)
			})
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "catalog name")
	_ = cmd.MarkFlagRequired("catalog")
	addListFlags(cmd, &maxResults, &limit)

	return cmd
}

func runSchemasList(rc *runContext, catalog string, maxResults, limit int) error {
	schemas, err := collectItems(rc.client.Schemas().List(rc.ctx, catalog, maxResults), limit)
	if err != nil {
		return fmt.Errorf("failed to list schemas: %w", err)
	}

	header := []any{"Name", "Catalog", "Owner", "Comment", "Created"}

	return renderList(rc.out, rc.format, schemas, "schemas", header, func(s uc.SchemaInfo) []string {
		return []string{s.Name, s.CatalogName, valueOrNA(s.Owner), truncate(s.Comment), formatTimestamp(s.CreatedAt)}
	})
}

func newSchemasGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CATALOG.SCHEMA",
		Short: "Get schema details",
		Long:  "Display detailed information about a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, name, err := splitSchemaName(args[0])
			if err != nil {
				return err
			}

			return withClient(cmd, func(rc *runContext) error {
				return runSchemasGet(rc, catalog, name)
			})
		},
	}
}

func runSchemasGet(rc *runContext, catalog, name string) error {
	schema, err := rc.client.Schemas().Get(rc.ctx, catalog, name)
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}

	return renderSchema(rc, schema)
}

func renderSchema(rc *runContext, schema *uc.SchemaInfo) error {
	return renderItem(rc.out, rc.format, schema, [][]string{
		{"Name", schema.Name},
		{"Full Name", valueOrNA(schema.FullName)},
		{"Catalog", schema.CatalogName},
		{"ID", valueOrNA(schema.SchemaID)},
		{"Owner", valueOrNA(schema.Owner)},
		{"Comment", valueOrNA(schema.Comment)},
		{"Properties", formatProperties(schema.Properties)},
		{"Created", formatTimestamp(schema.CreatedAt)},
		{"Updated", formatTimestamp(schema.UpdatedAt)},
	})
}

func newSchemasCreateCommand() *cobra.Command {
	var request uc.CreateSchemaRequest

	cmd := &cobra.Command{
		Use:   "create CATALOG.SCHEMA",
		Short: "Create a schema",
		Long:  "Create a new schema in an existing catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, name, err := splitSchemaName(args[0])
			if err != nil {
				return err
			}

			request.CatalogName = catalog
			request.Name = name

			return withClient(cmd, func(rc *runContext) error {
				schema, err := rc.client.Schemas().Create(rc.ctx, &request)
				if err != nil {
					return fmt.Errorf("failed to create schema: %w", err)
				}

				return renderSchema(rc, schema)
			})
		},
	}

	cmd.Flags().StringVar(&request.Comment, "comment", "", "schema comment")
	cmd.Flags().StringToStringVar(&request.Properties, "property", nil, "schema property as key=value (repeatable)")

	return cmd
}

func newSchemasUpdateCommand() *cobra.Command {
	var (
		newName    string
		comment    string
		owner      string
		properties map[string]string
	)

	cmd := &cobra.Command{
		Use:   "update CATALOG.SCHEMA",
		Short: "Update a schema",
		Long:  "Rename a schema or change its comment, owner or properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, err := splitSchemaName(args[0])
			if err != nil {
				return err
			}

			request := &uc.UpdateSchemaRequest{
				NewName:    changedString(cmd, "new-name", newName),
				Comment:    changedString(cmd, "comment", comment),
				Owner:      changedString(cmd, "owner", owner),
				Properties: properties,
			}

			return withClient(cmd, func(rc *runContext) error {
				schema, err := rc.client.Schemas().Update(rc.ctx, args[0], request)
				if err != nil {
					return fmt.Errorf("failed to update schema: %w", err)
				}

				return renderSchema(rc, schema)
			})
		},
	}

	cmd.Flags().StringVar(&newName, "new-name", "", "new schema name")
	cmd.Flags().StringVar(&comment, "comment", "", "schema comment")
	cmd.Flags().StringVar(&owner, "owner", "", "schema owner")
	cmd.Flags().StringToStringVar(&properties, "property", nil, "schema property as key=value (repeatable)")

	return cmd
}

func newSchemasDeleteCommand() *cobra.Command {
	var force, yes bool

	cmd := &cobra.Command{
		Use:   "delete CATALOG.SCHEMA",
		Short: "Delete a schema",
		Long:  "Delete a schema. Use --force to delete a schema that still has tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, name, err := splitSchemaName(args[0])
			if err != nil {
				return err
			}

			err = confirmDeletion(cmd, yes, "schema", args[0])
			if err != nil {
				return err
			}

			return withClient(cmd, func(rc *runContext) error {
				err := rc.client.Schemas().Delete(rc.ctx, catalog, name, force)
				if err != nil {
					return fmt.Errorf("failed to delete schema: %w", err)
				}

				rc.printf("Schema '%s' deleted\n", args[0])

				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete even if the schema is not empty")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
