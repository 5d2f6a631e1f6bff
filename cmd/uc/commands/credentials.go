package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// NewCredentialsCommand creates the credentials command group.
func NewCredentialsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "credentials",
		Aliases: []string{"credential", "cred"},
		Short:   "Manage credentials",
		Long:    "List, inspect, create, update and delete storage and service credentials",
	}

	cmd.AddCommand(newCredentialsListCommand())
	cmd.AddCommand(newCredentialsGetCommand())
	cmd.AddCommand(newCredentialsCreateCommand())
	cmd.AddCommand(newCredentialsUpdateCommand())
	cmd.AddCommand(newCredentialsDeleteCommand())

	return cmd
}

// parsePurpose accepts a purpose in any case. An empty string means any purpose.
func parsePurpose(value string) (uc.CredentialPurpose, error) {
	purpose := uc.CredentialPurpose(strings.ToUpper(strings.TrimSpace(value)))

	switch purpose {
	case "", uc.CredentialPurposeStorage, uc.CredentialPurposeService:
		return purpose, nil
	default:
		return "", fmt.Errorf("%w: %q (use storage or service)", constants.ErrUnsupportedCredential, value)
	}
}

func newCredentialsListCommand() *cobra.Command {
	var (
		purpose           string
		maxResults, limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List credentials",
		Long:  "List credentials, optionally only those with a given purpose",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parsePurpose(purpose)
			if err != nil {
				return err
			}

			return withClient(cmd, func(rc *runContext) error {
				return runCredentialsList(rc, parsed, maxResults, limit)
			})
		},
	}

	cmd.Flags().StringVar(&purpose, "purpose", "", "filter by purpose (storage, service)")
	addListFlags(cmd, &maxResults, &limit)

	return cmd
}

func runCredentialsList(rc *runContext, purpose uc.CredentialPurpose, maxResults, limit int) error {
	credentials, err := collectItems(rc.client.Credentials().List(rc.ctx, purpose, maxResults), limit)
	if err != nil {
		return fmt.Errorf("failed to list credentials: %w", err)
	}

	header := []any{"Name", "Purpose", "Read Only", "Owner", "Comment"}

	return renderList(rc.out, rc.format, credentials, "credentials", header, func(c uc.CredentialInfo) []string {
		return []string{c.Name, titleCase(string(c.Purpose)), strconv.FormatBool(c.ReadOnly), valueOrNA(c.Owner), truncate(c.Comment)}
	})
}

func newCredentialsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get credential details",
		Long:  "Display detailed information about a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(rc *runContext) error {
				credential, err := rc.client.Credentials().Get(rc.ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to get credential: %w", err)
				}

				return renderCredential(rc, credential)
			})
		},
	}
}

func renderCredential(rc *runContext, credential *uc.CredentialInfo) error {
	return renderItem(rc.out, rc.format, credential, [][]string{
		{"Name", credential.Name},
		{"ID", valueOrNA(credential.ID)},
		{"Purpose", titleCase(string(credential.Purpose))},
		{"Read Only", strconv.FormatBool(credential.ReadOnly)},
		{"Owner", valueOrNA(credential.Owner)},
		{"Comment", valueOrNA(credential.Comment)},
		{"Created", formatTimestamp(credential.CreatedAt)},
		{"Updated", formatTimestamp(credential.UpdatedAt)},
	})
}

func newCredentialsCreateCommand() *cobra.Command {
	var (
		request uc.CreateCredentialRequest
		purpose string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a credential",
		Long:  "Create a storage or service credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parsePurpose(purpose)
			if err != nil {
				return err
			}

			if parsed == "" {
				return fmt.Errorf("%w: --purpose is required", constants.ErrUnsupportedCredential)
			}

			request.Name = args[0]
			request.Purpose = parsed

			return withClient(cmd, func(rc *runContext) error {
				credential, err := rc.client.Credentials().Create(rc.ctx, &request)
				if err != nil {
					return fmt.Errorf("failed to create credential: %w", err)
				}

				return renderCredential(rc, credential)
			})
		},
	}

	cmd.Flags().StringVar(&purpose, "purpose", "", "credential purpose (storage, service)")
	cmd.Flags().StringVar(&request.Comment, "comment", "", "credential comment")
	cmd.Flags().BoolVar(&request.ReadOnly, "read-only", false, "create a read-only credential")
	cmd.Flags().BoolVar(&request.SkipValidation, "skip-validation", false, "skip credential validation")

	return cmd
}

func newCredentialsUpdateCommand() *cobra.Command {
	var (
		newName, comment, owner string
		readOnly                bool
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update a credential",
		Long:  "Rename a credential or change its comment, owner or read-only flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &uc.UpdateCredentialRequest{
				NewName:  changedString(cmd, "new-name", newName),
				Comment:  changedString(cmd, "comment", comment),
				Owner:    changedString(cmd, "owner", owner),
				ReadOnly: changedBool(cmd, "read-only", readOnly),
			}

			return withClient(cmd, func(rc *runContext) error {
				credential, err := rc.client.Credentials().Update(rc.ctx, args[0], request)
				if err != nil {
					return fmt.Errorf("failed to update credential: %w", err)
				}

				return renderCredential(rc, credential)
			})
		},
	}

	cmd.Flags().StringVar(&newName, "new-name", "", "new credential name")
	cmd.Flags().StringVar(&comment, "comment", "", "credential comment")
	cmd.Flags().StringVar(&owner, "owner", "", "credential owner")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "mark the credential read-only")

	return cmd
}

func newCredentialsDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a credential",
		Long:  "Delete a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := confirmDeletion(cmd, yes, "credential", args[0])
			if err != nil {
				return err
			}

			return withClient(cmd, func(rc *runContext) error {
				err := rc.client.Credentials().Delete(rc.ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to delete credential: %w", err)
				}

				rc.printf("Credential '%s' deleted\n", args[0])

				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
