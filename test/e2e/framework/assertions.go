package framework

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	assert.Error(t, err, "Expected error containing '%s', but got no error", expected)
	assert.Contains(t, err.Error(), expected, "Expected error containing '%s', got: %v", expected, err)
}

func AssertOutputContains(t *testing.T, output, expected string) {
	t.Helper()
	assert.Contains(t, output, expected, "Expected output containing '%s', got: %s", expected, output)
}

func AssertOutputNotContains(t *testing.T, output, unexpected string) {
	t.Helper()
	assert.NotContains(t, output, unexpected, "Expected output not to contain '%s', got: %s", unexpected, output)
}

// AssertOutputOrder checks that each expected string appears after the previous one
func AssertOutputOrder(t *testing.T, output string, expected []string) {
	t.Helper()
	rest := output
	for _, exp := range expected {
		idx := strings.Index(rest, exp)
		if idx < 0 {
			t.Errorf("Expected '%s' in order in output, got: %s", exp, output)
			return
		}
		rest = rest[idx+len(exp):]
	}
}

func AssertHelpfulError(t *testing.T, output string) {
	t.Helper()

	helpfulElements := []string{
		"Solutions:",
		"Solution:",
		"Cause:",
		"•",
		"Examples:",
		"Usage:",
	}

	found := false
	for _, element := range helpfulElements {
		if strings.Contains(output, element) {
			found = true
			break
		}
	}

	if !found {
		t.Errorf("Error message does not appear to be helpful. Got: %s", output)
	}
}

func AssertMultipleStringsInOutput(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, exp := range expected {
		assert.Contains(t, output, exp, "Expected output to contain '%s', got: %s", exp, output)
	}
}

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	assert.NoError(t, err)
}

func AssertError(t *testing.T, err error) {
	t.Helper()
	assert.Error(t, err)
}

func AssertFileExists(t *testing.T, ws *Workspace, path string) {
	t.Helper()
	assert.True(t, ws.HasFile(path), "Expected file '%s' to exist", path)
}

func AssertFileNotExists(t *testing.T, ws *Workspace, path string) {
	t.Helper()
	assert.False(t, ws.HasFile(path), "Expected file '%s' not to exist", path)
}

func AssertFileContains(t *testing.T, ws *Workspace, path, content string) {
	t.Helper()
	assert.True(t, ws.HasFile(path), "File '%s' does not exist", path)
	if ws.HasFile(path) {
		fileContent := ws.ReadFile(path)
		assert.Contains(t, fileContent, content, "Expected file '%s' to contain '%s', got: %s", path, content, fileContent)
	}
}

func AssertTrue(t *testing.T, condition bool, message string) {
	t.Helper()
	assert.True(t, condition, message)
}
