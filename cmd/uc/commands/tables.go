package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// NewTablesCommand creates the tables command group.
func NewTablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tables",
		Aliases: []string{"table"},
		Short:   "Manage tables",
		Long:    "List, inspect, create and delete tables within a schema",
	}

	cmd.AddCommand(newTablesListCommand())
	cmd.AddCommand(newTablesSummariesCommand())
	cmd.AddCommand(newTablesGetCommand())
	cmd.AddCommand(newTablesCreateCommand())
	cmd.AddCommand(newTablesDeleteCommand())

	return cmd
}

func validateTableName(fullName string) error {
	parts := strings.Split(fullName, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" { //nolint:mnd
		return fmt.Errorf("%w: %q", constants.ErrInvalidTableName, fullName)
	}

	return nil
}

// parseColumns turns "name:type" specs into columns in the given order.
func parseColumns(specs []string) ([]uc.ColumnInfo, error) {
	columns := make([]uc.ColumnInfo, 0, len(specs))

	for i, spec := range specs {
		name, typeText, ok := strings.Cut(spec, ":")
		name = strings.TrimSpace(name)
		typeText = strings.TrimSpace(typeText)

		if !ok || name == "" || typeText == "" {
			return nil, fmt.Errorf("%w: %q (expected name:type)", constants.ErrInvalidColumnSpec, spec)
		}

		columns = append(columns, uc.ColumnInfo{
			Name:     name,
			TypeText: strings.ToLower(typeText),
			TypeName: strings.ToUpper(typeText),
			Position: int32(i), //nolint:gosec
			Nullable: true,
		})
	}

	return columns, nil
}

func newTablesListCommand() *cobra.Command {
	var (
		catalog, schema string
		limit           int
		opts            uc.ListTablesOptions
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tables",
		Long:  "List the tables of a schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(rc *runContext) error {
				return runTablesList(rc, catalog, schema, &opts, limit)
			})
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "catalog name")
	cmd.Flags().StringVar(&schema, "schema", "", "schema name")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("schema")
	cmd.Flags().BoolVar(&opts.IncludeDeltaMetadata, "include-delta-metadata", false, "include Delta metadata")
	cmd.Flags().BoolVar(&opts.OmitColumns, "omit-columns", false, "omit column details")
	cmd.Flags().BoolVar(&opts.OmitProperties, "omit-properties", false, "omit table properties")
	cmd.Flags().BoolVar(&opts.OmitUsername, "omit-username", false, "omit owner and updater names")
	addListFlags(cmd, &opts.MaxResults, &limit)

	return cmd
}

func runTablesList(rc *runContext, catalog, schema string, opts *uc.ListTablesOptions, limit int) error {
	tables, err := collectItems(rc.client.Tables().List(rc.ctx, catalog, schema, opts), limit)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	header := []any{"Name", "Type", "Format", "Columns", "Owner", "Created"}

	return renderList(rc.out, rc.format, tables, "tables", header, func(t uc.TableInfo) []string {
		return []string{
			t.Name,
			titleCase(string(t.TableType)),
			valueOrNA(t.DataSourceFormat),
			strconv.Itoa(len(t.Columns)),
			valueOrNA(t.Owner),
			formatTimestamp(t.CreatedAt),
		}
	})
}

func newTablesSummariesCommand() *cobra.Command {
	var (
		catalog string
		limit   int
		opts    uc.ListTableSummariesOptions
	)

	cmd := &cobra.Command{
		Use:   "summaries",
		Short: "List table summaries",
		Long:  "List the full names and types of tables in a catalog, optionally filtered by name patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(rc *runContext) error {
				return runTablesSummaries(rc, catalog, &opts, limit)
			})
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "catalog name")
	_ = cmd.MarkFlagRequired("catalog")
	cmd.Flags().StringVar(&opts.SchemaNamePattern, "schema-pattern", "", "SQL LIKE pattern for schema names")
	cmd.Flags().StringVar(&opts.TableNamePattern, "table-pattern", "", "SQL LIKE pattern for table names")
	addListFlags(cmd, &opts.MaxResults, &limit)

	return cmd
}

func runTablesSummaries(rc *runContext, catalog string, opts *uc.ListTableSummariesOptions, limit int) error {
	summaries, err := collectItems(rc.client.Tables().ListSummaries(rc.ctx, catalog, opts), limit)
	if err != nil {
		return fmt.Errorf("failed to list table summaries: %w", err)
	}

	header := []any{"Full Name", "Type"}

	return renderList(rc.out, rc.format, summaries, "tables", header, func(s uc.TableSummary) []string {
		return []string{s.FullName, titleCase(string(s.TableType))}
	})
}

func newTablesGetCommand() *cobra.Command {
	var includeDeltaMetadata bool

	cmd := &cobra.Command{
		Use:   "get CATALOG.SCHEMA.TABLE",
		Short: "Get table details",
		Long:  "Display detailed information about a table, including its columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := validateTableName(args[0])
			if err != nil {
				return err
			}

			return withClient(cmd, func(rc *runContext) error {
				return runTablesGet(rc, args[0], includeDeltaMetadata)
			})
		},
	}

	cmd.Flags().BoolVar(&includeDeltaMetadata, "include-delta-metadata", false, "include Delta metadata")

	return cmd
}

func runTablesGet(rc *runContext, fullName string, includeDeltaMetadata bool) error {
	table, err := rc.client.Tables().Get(rc.ctx, fullName, includeDeltaMetadata)
	if err != nil {
		return fmt.Errorf("failed to get table: %w", err)
	}

	return renderTable(rc, table)
}

func renderTable(rc *runContext, table *uc.TableInfo) error {
	columns := make([]string, 0, len(table.Columns))
	for _, column := range table.Columns {
		columns = append(columns, column.Name+" "+valueOrNA(column.TypeText))
	}

	columnList := constants.NotAvailable
	if len(columns) > 0 {
		columnList = strings.Join(columns, ", ")
	}

	return renderItem(rc.out, rc.format, table, [][]string{
		{"Name", table.Name},
		{"Full Name", valueOrNA(table.FullName)},
		{"Catalog", table.CatalogName},
		{"Schema", table.SchemaName},
		{"Type", titleCase(string(table.TableType))},
		{"Format", valueOrNA(table.DataSourceFormat)},
		{"Location", valueOrNA(table.StorageLocation)},
		{"Columns", columnList},
		{"Owner", valueOrNA(table.Owner)},
		{"Comment", valueOrNA(table.Comment)},
		{"Properties", formatProperties(table.Properties)},
		{"Created", formatTimestamp(table.CreatedAt)},
		{"Updated", formatTimestamp(table.UpdatedAt)},
	})
}

func newTablesCreateCommand() *cobra.Command {
	var (
		request   uc.CreateTableRequest
		tableType string
		columns   []string
	)

	cmd := &cobra.Command{
		Use:   "create CATALOG.SCHEMA.TABLE",
		Short: "Create a table",
		Long:  "Create a table. External tables need --location; columns are given as name:type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := validateTableName(args[0])
			if err != nil {
				return err
			}

			parts := strings.Split(args[0], ".")
			request.CatalogName, request.SchemaName, request.Name = parts[0], parts[1], parts[2]
			request.TableType = uc.TableType(strings.ToUpper(tableType))

			request.Columns, err = parseColumns(columns)
			if err != nil {
				return err
			}

			return withClient(cmd, func(rc *runContext) error {
				table, err := rc.client.Tables().Create(rc.ctx, &request)
				if err != nil {
					return fmt.Errorf("failed to create table: %w", err)
				}

				return renderTable(rc, table)
			})
		},
	}

	cmd.Flags().StringVar(&tableType, "type", string(uc.TableTypeManaged), "table type (managed, external)")
	cmd.Flags().StringVar(&request.DataSourceFormat, "format", "DELTA", "data source format")
	cmd.Flags().StringVar(&request.StorageLocation, "location", "", "storage location for external tables")
	cmd.Flags().StringVar(&request.Comment, "comment", "", "table comment")
	cmd.Flags().StringArrayVar(&columns, "column", nil, "column as name:type (repeatable)")
	cmd.Flags().StringToStringVar(&request.Properties, "property", nil, "table property as key=value (repeatable)")

	return cmd
}

func newTablesDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete CATALOG.SCHEMA.TABLE",
		Short: "Delete a table",
		Long:  "Delete a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := validateTableName(args[0])
			if err != nil {
				return err
			}

			err = confirmDeletion(cmd, yes, "table", args[0])
			if err != nil {
				return err
			}

			return withClient(cmd, func(rc *runContext) error {
				err := rc.client.Tables().Delete(rc.ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to delete table: %w", err)
				}

				rc.printf("Table '%s' deleted\n", args[0])

				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
