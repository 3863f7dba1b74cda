package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"lia-pagare"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Paths struct {
		// OutputRoot is where per-client batch directories are created.
		OutputRoot string `envconfig:"OUTPUT_ROOT" default:"data/clientes"`
		// ContractsDir receives finished contracts and their audit files.
		ContractsDir string `envconfig:"CONTRACTS_DIR" default:"data/output/contracts"`
		// TmpDir holds draft renders; safe to wipe between runs.
		TmpDir string `envconfig:"TMP_DIR" default:"data/tmp"`
		// ContractTemplate overrides the template search path.
		ContractTemplate string `envconfig:"CONTRACT_TEMPLATE"`
	}

	Office struct {
		// Binary overrides soffice discovery, e.g. for containers with a
		// non-standard LibreOffice install.
		Binary string `envconfig:"SOFFICE_BIN"`
	}

	Session struct {
		TTL time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	}
}

// TemplateCandidates lists the contract template locations in search
// order. An explicit CONTRACT_TEMPLATE wins outright.
func (c *Config) TemplateCandidates() []string {
	if c.Paths.ContractTemplate != "" {
		return []string{c.Paths.ContractTemplate}
	}

	return []string{
		"templates/contrato.docx",
		"data/templates/contrato.docx",
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
