package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines one simulation run and the checks applied to its report.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	Workers      int           `yaml:"workers"`
	Transactions int           `yaml:"transactions"`
	Seed         uint64        `yaml:"seed"`
	Window       time.Duration `yaml:"window,omitempty"`

	// Accounts is an optional fixture path, relative to the scenario file.
	// The reference accounts are used when empty.
	Accounts string `yaml:"accounts,omitempty"`

	// SerializeAccounts serializes requests per debtor account.
	SerializeAccounts bool `yaml:"serialize_accounts,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// Assertion checks one property of the final report.
type Assertion struct {
	Type string `yaml:"type"`

	// Worker selects a worker (worker_transactions).
	Worker *int `yaml:"worker,omitempty"`

	// Account selects a debtor account (account_transactions, account_success).
	Account string `yaml:"account,omitempty"`

	// Count is the expected number (recorded_total, workers_observed,
	// worker_transactions, account_transactions).
	Count *int `yaml:"count,omitempty"`

	// MinRatio and MaxRatio bound the success ratio (account_success).
	MinRatio *float64 `yaml:"min_ratio,omitempty"`
	MaxRatio *float64 `yaml:"max_ratio,omitempty"`
}

// Assertion type constants.
const (
	AssertRecordedTotal       = "recorded_total"
	AssertWorkersObserved     = "workers_observed"
	AssertWorkerTransactions  = "worker_transactions"
	AssertAccountTransactions = "account_transactions"
	AssertAccountSuccess      = "account_success"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative accounts path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if s.Accounts != "" && !filepath.IsAbs(s.Accounts) {
		s.Accounts = filepath.Join(filepath.Dir(path), s.Accounts)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if s.Transactions < 0 {
		return fmt.Errorf("transactions must not be negative")
	}
	if s.Window < 0 {
		return fmt.Errorf("window must not be negative")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Accounts != "" {
		if _, err := os.Stat(s.Accounts); os.IsNotExist(err) {
			return fmt.Errorf("accounts fixture not found: %s", s.Accounts)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Count != nil && *a.Count < 0 {
		return fmt.Errorf("assertions[%d]: count must be non-negative", index)
	}

	switch a.Type {
	case AssertRecordedTotal:
	case AssertWorkersObserved:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
	case AssertWorkerTransactions:
		if a.Worker == nil {
			return fmt.Errorf("assertions[%d]: worker is required for %s", index, a.Type)
		}
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
	case AssertAccountTransactions:
		if a.Account == "" {
			return fmt.Errorf("assertions[%d]: account is required for %s", index, a.Type)
		}
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
	case AssertAccountSuccess:
		if a.Account == "" {
			return fmt.Errorf("assertions[%d]: account is required for %s", index, a.Type)
		}
		if a.MinRatio == nil && a.MaxRatio == nil {
			return fmt.Errorf("assertions[%d]: min_ratio or max_ratio is required for %s", index, a.Type)
		}
		for _, r := range []*float64{a.MinRatio, a.MaxRatio} {
			if r != nil && (*r < 0 || *r > 1) {
				return fmt.Errorf("assertions[%d]: ratios must be within [0, 1]", index)
			}
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
