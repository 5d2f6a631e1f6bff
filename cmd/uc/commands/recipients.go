package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// NewRecipientsCommand creates the recipients command group.
func NewRecipientsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipients",
		Aliases: []string{"recipient"},
		Short:   "Manage sharing recipients",
		Long:    "List, inspect, create, update and delete recipients of shares",
	}

	cmd.AddCommand(newRecipientsListCommand())
	cmd.AddCommand(newRecipientsGetCommand())
	cmd.AddCommand(newRecipientsCreateCommand())
	cmd.AddCommand(newRecipientsUpdateCommand())
	cmd.AddCommand(newRecipientsDeleteCommand())

	return cmd
}

func parseAuthenticationType(value string) (uc.AuthenticationType, error) {
	authType := uc.AuthenticationType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(value), "-", "_")))

	switch authType {
	case uc.AuthenticationTypeToken, uc.AuthenticationTypeOAuthClientCredentials:
		return authType, nil
	default:
		return "", fmt.Errorf("%w: %q (use token or oauth-client-credentials)", constants.ErrInvalidAuthType, value)
	}
}

func newRecipientsListCommand() *cobra.Command {
	var maxResults, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipients",
		Long:  "List all sharing recipients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(rc *runContext) error {
				return runRecipientsList(rc, maxResults, limit)
			})
		},
	}

	addListFlags(cmd, &maxResults, &limit)

	return cmd
}

func runRecipientsList(rc *runContext, maxResults, limit int) error {
	recipients, err := collectItems(rc.client.Recipients().List(rc.ctx, maxResults), limit)
	if err != nil {
		return fmt.Errorf("failed to list recipients: %w", err)
	}

	header := []any{"Name", "Authentication", "Owner", "Comment", "Created"}

	return renderList(rc.out, rc.format, recipients, "recipients", header, func(r uc.RecipientInfo) []string {
		return []string{r.Name, titleCase(string(r.AuthenticationType)), valueOrNA(r.Owner), truncate(r.Comment), formatTimestamp(r.CreatedAt)}
	})
}

func newRecipientsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get recipient details",
		Long:  "Display detailed information about a recipient, including its activation tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(rc *runContext) error {
				recipient, err := rc.client.Recipients().Get(rc.ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to get recipient: %w", err)
				}

				return renderRecipient(rc, recipient)
			})
		},
	}
}

func renderRecipient(rc *runContext, recipient *uc.RecipientInfo) error {
	rows := [][]string{
		{"Name", recipient.Name},
		{"ID", valueOrNA(recipient.ID)},
		{"Authentication", titleCase(string(recipient.AuthenticationType))},
		{"Owner", valueOrNA(recipient.Owner)},
		{"Comment", valueOrNA(recipient.Comment)},
		{"Properties", formatProperties(recipient.Properties)},
		{"Tokens", strconv.Itoa(len(recipient.Tokens))},
		{"Created", formatTimestamp(recipient.CreatedAt)},
		{"Updated", formatTimestamp(recipient.UpdatedAt)},
	}

	for _, token := range recipient.Tokens {
		if token.ActivationURL != "" {
			rows = append(rows, []string{"Activation URL", token.ActivationURL})
		}
	}

	return renderItem(rc.out, rc.format, recipient, rows)
}

func newRecipientsCreateCommand() *cobra.Command {
	var (
		request  uc.CreateRecipientRequest
		authType string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a recipient",
		Long:  "Create a sharing recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseAuthenticationType(authType)
			if err != nil {
				return err
			}

			request.Name = args[0]
			request.AuthenticationType = parsed

			return withClient(cmd, func(rc *runContext) error {
				recipient, err := rc.client.Recipients().Create(rc.ctx, &request)
				if err != nil {
					return fmt.Errorf("failed to create recipient: %w", err)
				}

				return renderRecipient(rc, recipient)
			})
		},
	}

	cmd.Flags().StringVar(&authType, "auth-type", "token", "authentication type (token, oauth-client-credentials)")
	cmd.Flags().StringVar(&request.Owner, "owner", "", "recipient owner")
	cmd.Flags().StringVar(&request.Comment, "comment", "", "recipient comment")
	cmd.Flags().StringToStringVar(&request.Properties, "property", nil, "recipient property as key=value (repeatable)")

	return cmd
}

func newRecipientsUpdateCommand() *cobra.Command {
	var (
		newName, owner, comment string
		properties              map[string]string
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update a recipient",
		Long:  "Rename a recipient or change its owner, comment or properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &uc.UpdateRecipientRequest{
				NewName:    changedString(cmd, "new-name", newName),
				Owner:      changedString(cmd, "owner", owner),
				Comment:    changedString(cmd, "comment", comment),
				Properties: properties,
			}

			return withClient(cmd, func(rc *runContext) error {
				recipient, err := rc.client.Recipients().Update(rc.ctx, args[0], request)
				if err != nil {
					return fmt.Errorf("failed to update recipient: %w", err)
				}

				return renderRecipient(rc, recipient)
			})
		},
	}

	cmd.Flags().StringVar(&newName, "new-name", "", "new recipient name")
	cmd.Flags().StringVar(&owner, "owner", "", "recipient owner")
	cmd.Flags().StringVar(&comment, "comment", "", "recipient comment")
	cmd.Flags().StringToStringVar(&properties, "property", nil, "recipient property as key=value (repeatable)")

	return cmd
}

func newRecipientsDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a recipient",
		Long:  "Delete a sharing recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := confirmDeletion(cmd, yes, "recipient", args[0])
			if err != nil {
				return err
			}

			return withClient(cmd, func(rc *runContext) error {
				err := rc.client.Recipients().Delete(rc.ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to delete recipient: %w", err)
				}

				rc.printf("Recipient '%s' deleted\n", args[0])

				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
