package decision

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed banks/*.yaml
var builtin embed.FS

// DefaultBankName is the bank used when none is configured.
const DefaultBankName = "sinusitis"

// LoadBank reads a bank file (YAML or JSON, chosen by extension) and compiles it.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bank: %w", err)
	}
	return ParseBank(data, strings.ToLower(filepath.Ext(path)) == ".json")
}

// ParseBank decodes and compiles a bank.
func ParseBank(data []byte, isJSON bool) (*Bank, error) {
	var b Bank
	if isJSON {
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("failed to parse bank json: %w", err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("failed to parse bank yaml: %w", err)
		}
	}
	if err := b.Compile(); err != nil {
		return nil, err
	}
	return &b, nil
}

// BuiltinBank returns one of the banks shipped with the binary.
func BuiltinBank(name string) (*Bank, error) {
	data, err := builtin.ReadFile("banks/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown built-in bank %q", name)
	}
	return ParseBank(data, false)
}

// DefaultBank returns the built-in sinusitis bank.
func DefaultBank() *Bank {
	b, err := BuiltinBank(DefaultBankName)
	if err != nil {
		panic(err)
	}
	return b
}
