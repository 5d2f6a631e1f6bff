package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// runContext carries what every resource command needs once flags are parsed.
type runContext struct {
	ctx    context.Context
	client uc.Client
	out    io.Writer
	format string
}

func newRunContext(cmd *cobra.Command) (*runContext, error) {
	v := viper.GetViper()

	format, err := outputFormat(v)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := CreateClient(ctx, v)
	if err != nil {
		return nil, err
	}

	return &runContext{
		ctx:    ctx,
		client: client,
		out:    cmd.OutOrStdout(),
		format: format,
	}, nil
}

// close releases the client's connections and background resources.
func (rc *runContext) close() {
	if closer, ok := rc.client.(io.Closer); ok {
		_ = closer.Close()
	}
}

// withClient runs fn with a fresh run context and closes the client after.
func withClient(cmd *cobra.Command, fn func(rc *runContext) error) error {
	rc, err := newRunContext(cmd)
	if err != nil {
		return err
	}
	defer rc.close()

	return fn(rc)
}

func (rc *runContext) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(rc.out, format, args...)
}

func addListFlags(cmd *cobra.Command, maxResults, limit *int) {
	cmd.Flags().IntVar(maxResults, "max-results", 0, "page size requested from the server (0 lets the server decide)")
	cmd.Flags().IntVar(limit, "limit", 0, "stop after this many items (0 fetches all pages)")
}

// changedString returns a pointer to value when the flag was set explicitly.
func changedString(cmd *cobra.Command, flag, value string) *string {
	if !cmd.Flags().Changed(flag) {
		return nil
	}

	return &value
}

func changedBool(cmd *cobra.Command, flag string, value bool) *bool {
	if !cmd.Flags().Changed(flag) {
		return nil
	}

	return &value
}

// confirmDeletion asks before deleting unless skip is set.
func confirmDeletion(cmd *cobra.Command, skip bool, kind, name string) error {
	if skip {
		return nil
	}

	prompt := fmt.Sprintf("Really delete %s '%s'? [y/N]: ", kind, name)
	if !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt) {
		return constants.ErrConfirmationDeclined
	}

	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = io.WriteString(out, prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// readSecret reads a secret without echo when in is a terminal, and a single
// line otherwise.
func readSecret(in io.Reader, out io.Writer, prompt string) (string, error) {
	var secret string

	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		_, _ = io.WriteString(out, prompt)

		secretBytes, err := term.ReadPassword(int(file.Fd()))
		_, _ = io.WriteString(out, "\n")

		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}

		secret = string(secretBytes)
	} else {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return "", constants.ErrEmptyToken
		}

		secret = line
	}

	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "", constants.ErrEmptyToken
	}

	return secret, nil
}
