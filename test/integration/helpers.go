//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const commandTimeout = 2 * time.Minute

// TestConfig holds the live server settings for integration tests.
type TestConfig struct {
	Endpoint     string
	Token        string
	ClientID     string
	ClientSecret string
	BinaryPath   string
	Verbose      bool
}

// LoadTestConfig reads the configuration from UC_* environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Endpoint:     os.Getenv("UC_ENDPOINT"),
		Token:        os.Getenv("UC_TOKEN"),
		ClientID:     os.Getenv("UC_CLIENT_ID"),
		ClientSecret: os.Getenv("UC_CLIENT_SECRET"),
		BinaryPath:   binaryPath(),
		Verbose:      os.Getenv("UC_TEST_VERBOSE") == "true",
	}
}

func binaryPath() string {
	if path := os.Getenv("UC_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../uc", "./uc", "../uc"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "uc"
}

// SkipIfMissingConfig skips the test when no server or binary is available.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Endpoint == "" {
		t.Skip("UC_ENDPOINT not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("uc binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs the uc binary with an isolated config file.
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a runner whose config file lives in a temp dir.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes a uc command and returns its output.
func (runner *CommandRunner) Run(args ...string) (string, string, error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes a uc command with stdin input.
func (runner *CommandRunner) RunWithInput(input string, args ...string) (string, string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	args = append([]string{"--config", runner.configFile}, args...)

	// #nosec G204
	cmd := exec.CommandContext(ctx, runner.config.BinaryPath, args...)
	cmd.Env = runner.environment()
	cmd.Stdin = strings.NewReader(input)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err := cmd.Run()
	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
	}

	return stdout.String(), stderr.String(), err
}

func (runner *CommandRunner) environment() []string {
	env := []string{
		"HOME=" + filepath.Dir(runner.configFile),
		"PATH=" + os.Getenv("PATH"),
		"UC_ENDPOINT=" + runner.config.Endpoint,
	}

	if runner.config.Token != "" {
		env = append(env, "UC_TOKEN="+runner.config.Token)
	}

	if runner.config.ClientID != "" {
		env = append(env, "UC_CLIENT_ID="+runner.config.ClientID, "UC_CLIENT_SECRET="+runner.config.ClientSecret)
	}

	return env
}

// RunJSON executes a uc command with JSON output and decodes the result.
func (runner *CommandRunner) RunJSON(out any, args ...string) error {
	stdout, stderr, err := runner.Run(append(args, "--output", "json")...)
	if err != nil {
		return fmt.Errorf("%w: %s", err, stderr)
	}

	err = json.Unmarshal([]byte(stdout), out)
	if err != nil {
		return fmt.Errorf("decoding output of %v: %w", args, err)
	}

	return nil
}

// GenerateTestName creates a unique resource name. Catalog names may not
// contain dashes.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// CleanupResource deletes a resource, logging failures.
func (runner *CommandRunner) CleanupResource(resourceType, name string) {
	args := []string{resourceType, "delete", name, "--yes"}
	if resourceType == "catalogs" || resourceType == "schemas" {
		args = append(args, "--force")
	}

	stdout, stderr, err := runner.Run(args...)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for %s %s: %s\nStderr: %s", resourceType, name, stdout, stderr)
	}
}

// AssertYAMLOutput verifies command output looks like YAML.
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	output = strings.TrimSpace(output)
	if strings.HasPrefix(output, "-") || strings.Contains(output, ":") {
		return
	}

	t.Errorf("Output does not appear to be YAML: %s", output)
}
