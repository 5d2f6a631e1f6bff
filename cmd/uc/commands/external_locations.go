package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// NewExternalLocationsCommand creates the external-locations command group.
func NewExternalLocationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "external-locations",
		Aliases: []string{"external-location", "locations", "loc"},
		Short:   "Manage external locations",
		Long:    "List, inspect, create, update and delete external storage locations",
	}

	cmd.AddCommand(newExternalLocationsListCommand())
	cmd.AddCommand(newExternalLocationsGetCommand())
	cmd.AddCommand(newExternalLocationsCreateCommand())
	cmd.AddCommand(newExternalLocationsUpdateCommand())
	cmd.AddCommand(newExternalLocationsDeleteCommand())

	return cmd
}

func newExternalLocationsListCommand() *cobra.Command {
	var maxResults, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List external locations",
		Long:  "List all external locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(rc *runContext) error {
				return runExternalLocationsList(rc, maxResults, limit)
			})
		},
	}

	addListFlags(cmd, &maxResults, &limit)

	return cmd
}

func runExternalLocationsList(rc *runContext, maxResults, limit int) error {
	locations, err := collectItems(rc.client.ExternalLocations().List(rc.ctx, maxResults), limit)
	if err != nil {
		return fmt.Errorf("failed to list external locations: %w", err)
	}

	header := []any{"Name", "URL", "Credential", "Read Only", "Owner"}

	return renderList(rc.out, rc.format, locations, "external locations", header, func(l uc.ExternalLocationInfo) []string {
		return []string{l.Name, l.URL, l.CredentialName, strconv.FormatBool(l.ReadOnly), valueOrNA(l.Owner)}
	})
}

func newExternalLocationsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get external location details",
		Long:  "Display detailed information about an external location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(rc *runContext) error {
				location, err := rc.client.ExternalLocations().Get(rc.ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to get external location: %w", err)
				}

				return renderExternalLocation(rc, location)
			})
		},
	}
}

func renderExternalLocation(rc *runContext, location *uc.ExternalLocationInfo) error {
	return renderItem(rc.out, rc.format, location, [][]string{
		{"Name", location.Name},
		{"ID", valueOrNA(location.ExternalLocationID)},
		{"URL", location.URL},
		{"Credential", location.CredentialName},
		{"Read Only", strconv.FormatBool(location.ReadOnly)},
		{"Owner", valueOrNA(location.Owner)},
		{"Comment", valueOrNA(location.Comment)},
		{"Created", formatTimestamp(location.CreatedAt)},
		{"Updated", formatTimestamp(location.UpdatedAt)},
	})
}

func newExternalLocationsCreateCommand() *cobra.Command {
	var request uc.CreateExternalLocationRequest

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an external location",
		Long:  "Create an external location backed by a storage credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request.Name = args[0]

			return withClient(cmd, func(rc *runContext) error {
				location, err := rc.client.ExternalLocations().Create(rc.ctx, &request)
				if err != nil {
					return fmt.Errorf("failed to create external location: %w", err)
				}

				return renderExternalLocation(rc, location)
			})
		},
	}

	cmd.Flags().StringVar(&request.URL, "url", "", "storage URL, e.g. s3://bucket/path")
	cmd.Flags().StringVar(&request.CredentialName, "credential", "", "storage credential name")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("credential")
	cmd.Flags().StringVar(&request.Comment, "comment", "", "external location comment")
	cmd.Flags().BoolVar(&request.ReadOnly, "read-only", false, "create a read-only location")
	cmd.Flags().BoolVar(&request.SkipValidation, "skip-validation", false, "skip location validation")

	return cmd
}

func newExternalLocationsUpdateCommand() *cobra.Command {
	var (
		newName, url, credential, comment, owner string
		readOnly                                 bool
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update an external location",
		Long:  "Rename an external location or change its URL, credential, comment, owner or read-only flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &uc.UpdateExternalLocationRequest{
				NewName:        changedString(cmd, "new-name", newName),
				URL:            changedString(cmd, "url", url),
				CredentialName: changedString(cmd, "credential", credential),
				ReadOnly:       changedBool(cmd, "read-only", readOnly),
				Comment:        changedString(cmd, "comment", comment),
				Owner:          changedString(cmd, "owner", owner),
			}

			return withClient(cmd, func(rc *runContext) error {
				location, err := rc.client.ExternalLocations().Update(rc.ctx, args[0], request)
				if err != nil {
					return fmt.Errorf("failed to update external location: %w", err)
				}

				return renderExternalLocation(rc, location)
			})
		},
	}

	cmd.Flags().StringVar(&newName, "new-name", "", "new external location name")
	cmd.Flags().StringVar(&url, "url", "", "storage URL")
	cmd.Flags().StringVar(&credential, "credential", "", "storage credential name")
	cmd.Flags().StringVar(&comment, "comment", "", "external location comment")
	cmd.Flags().StringVar(&owner, "owner", "", "external location owner")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "mark the location read-only")

	return cmd
}

func newExternalLocationsDeleteCommand() *cobra.Command {
	var force, yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an external location",
		Long:  "Delete an external location. Use --force to delete one that is still referenced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := confirmDeletion(cmd, yes, "external location", args[0])
			if err != nil {
				return err
			}

			return withClient(cmd, func(rc *runContext) error {
				err := rc.client.ExternalLocations().Delete(rc.ctx, args[0], force)
				if err != nil {
					return fmt.Errorf("failed to delete external location: %w", err)
				}

				rc.printf("External location '%s' deleted\n", args[0])

				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete even if the location is in use")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
