package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFixture = `accounts:
  - id: "1001"
    balance: "100"
    status: Live
    schemes: [FasterPayments]
  - id: "1002"
    balance: "0"
    status: Disabled
    schemes: []
`

const invalidFixture = `accounts:
  - id: "1001"
    balance: "lots"
    status: Live
    schemes: [FasterPayments]
  - id: "1001"
    balance: "1"
    status: Frozen
    schemes: [Swift]
`

func TestValidate_Valid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "accounts.yaml", validFixture)

	stdout, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Equal(t, "✓ "+path+": 2 account(s) valid\n", stdout)
}

func TestValidate_ValidJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "accounts.yaml", validFixture)

	stdout, _, err := execute(t, "validate", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.Accounts)
	assert.Empty(t, resp.Data.Errors)
}

func TestValidate_Invalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "accounts.yaml", invalidFixture)

	stdout, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, stdout, "✗ "+path+": 4 validation error(s)")
	assert.Contains(t, stdout, "[F105] accounts[0].balance")
	assert.Contains(t, stdout, "[F102] accounts[1].id")
	assert.Contains(t, stdout, "[F103] accounts[1].status")
	assert.Contains(t, stdout, "[F104] accounts[1].schemes")
}

func TestValidate_InvalidJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "accounts.yaml", invalidFixture)

	stdout, _, err := execute(t, "validate", path, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  CLIError         `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeFixture, resp.Error.Code)
	assert.False(t, resp.Data.Valid)
	assert.Len(t, resp.Data.Errors, 4)
}

func TestValidate_ParseError(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"missing file", dir + "/missing.yaml"},
		{"unsupported extension", writeFile(t, dir, "accounts.json", `{"accounts": []}`)},
		{"unknown field", writeFile(t, dir, "extra.yaml", "accounts: []\nowner: me\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "validate", tt.path)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestValidate_RequiresOneArg(t *testing.T) {
	_, _, err := execute(t, "validate")
	require.Error(t, err)
}
