package fixtures

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/paysim/internal/payment"
)

//go:embed schema.cue
var schemaSource []byte

// AccountSpec is an account as written in a fixture file.
type AccountSpec struct {
	ID      string   `yaml:"id" json:"id"`
	Balance string   `yaml:"balance" json:"balance"`
	Status  string   `yaml:"status" json:"status"`
	Schemes []string `yaml:"schemes" json:"schemes"`
}

// File is a parsed fixture file.
type File struct {
	Path     string        `yaml:"-" json:"-"`
	Accounts []AccountSpec `yaml:"accounts" json:"accounts"`
}

// Load parses, validates and converts the fixture at path.
// Validation problems are returned together as FixtureErrors.
func Load(path string) ([]payment.Account, error) {
	f, err := Parse(path)
	if err != nil {
		return nil, err
	}
	if errs := Validate(f); len(errs) > 0 {
		return nil, fmt.Errorf("validate %s: %w", path, FixtureErrors(errs))
	}
	return f.ToAccounts()
}

// Parse reads a fixture without validating its contents. The format is
// chosen by extension: .yaml and .yml are decoded strictly, .cue is
// unified with the embedded account schema first.
func Parse(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var f *File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err = parseYAML(data)
	case ".cue":
		f, err = parseCUE(path, data)
	default:
		return nil, fmt.Errorf("unsupported fixture format %q (want .yaml, .yml or .cue)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	f.Path = path
	for i := range f.Accounts {
		f.Accounts[i].ID = norm.NFC.String(strings.TrimSpace(f.Accounts[i].ID))
	}
	return f, nil
}

func parseYAML(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func parseCUE(path string, data []byte) (*File, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile account schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var f File
	if err := unified.LookupPath(cue.ParsePath("accounts")).Decode(&f.Accounts); err != nil {
		return nil, formatCUEError(err)
	}
	return &f, nil
}

// CUEError is a CUE evaluation error with its source position.
type CUEError struct {
	Message  string
	Filename string
	Line     int
	Column   int
}

func (e *CUEError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Line, e.Column, e.Message)
}

// formatCUEError keeps the first positioned error of a CUE error list.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := cueerrors.Positions(first)
	if len(positions) == 0 {
		return err
	}
	pos := positions[0]
	return &CUEError{
		Message:  first.Error(),
		Filename: pos.Filename(),
		Line:     pos.Line(),
		Column:   pos.Column(),
	}
}

// ToAccounts converts the parsed specs. It fails on the first spec that
// Validate would reject.
func (f *File) ToAccounts() ([]payment.Account, error) {
	accounts := make([]payment.Account, 0, len(f.Accounts))
	for i, spec := range f.Accounts {
		acct, err := spec.toAccount()
		if err != nil {
			return nil, fmt.Errorf("accounts[%d]: %w", i, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

func (s AccountSpec) toAccount() (payment.Account, error) {
	if s.ID == "" {
		return payment.Account{}, errors.New("empty id")
	}
	balance, err := parseBalance(s.Balance)
	if err != nil {
		return payment.Account{}, err
	}
	status, err := payment.ParseStatus(s.Status)
	if err != nil {
		return payment.Account{}, err
	}

	var schemes payment.AllowedSchemes
	for _, name := range s.Schemes {
		scheme, err := payment.ParseScheme(name)
		if err != nil {
			return payment.Account{}, err
		}
		schemes = schemes.With(scheme)
	}

	return payment.Account{
		ID:             s.ID,
		Balance:        balance,
		Status:         status,
		AllowedSchemes: schemes,
	}, nil
}
