package command

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-letters/letter"
)

// ImportSubmission describes one record in a bulk import file.
type ImportSubmission struct {
	Submission letter.Submission `json:"submission"`
}

// ImportLoader loads submissions from a source.
type ImportLoader func(ctx context.Context) ([]ImportSubmission, error)

// Submitter records internship requests.
type Submitter interface {
	Submit(ctx context.Context, sub letter.Submission) (letter.Request, error)
}

// ImportCommand wires CLI execution for bulk request imports, used when
// migrating records from a previous deployment.
type ImportCommand struct {
	submitter Submitter
	loader    ImportLoader
	cliConfig gcmd.CLIConfig
	limits    ImportLimits
	sleep     func(time.Duration)
}

// ImportOption customizes import commands.
type ImportOption func(*ImportCommand)

// ImportLimits bounds import throughput.
type ImportLimits struct {
	MaxRequests int
	MinInterval time.Duration
}

// WithImportCLIConfig overrides CLI configuration.
func WithImportCLIConfig(cfg gcmd.CLIConfig) ImportOption {
	return func(cmd *ImportCommand) {
		cmd.cliConfig = cfg
	}
}

// WithImportLimits overrides import execution limits.
func WithImportLimits(limits ImportLimits) ImportOption {
	return func(cmd *ImportCommand) {
		cmd.limits = limits
	}
}

// NewImportCommand creates a bulk import CLI command.
func NewImportCommand(submitter Submitter, loader ImportLoader, opts ...ImportOption) *ImportCommand {
	cmd := &ImportCommand{
		submitter: submitter,
		loader:    loader,
		cliConfig: gcmd.CLIConfig{
			Path:        []string{"letters-import"},
			Description: "Import internship requests from a JSON file",
			Group:       "letters",
		},
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cmd)
		}
	}
	return cmd
}

// CLIHandler exposes the CLI handler.
func (c *ImportCommand) CLIHandler() any {
	return &importCLI{cmd: c}
}

// CLIOptions returns CLI configuration.
func (c *ImportCommand) CLIOptions() gcmd.CLIConfig {
	if c == nil {
		return gcmd.CLIConfig{}
	}
	return c.cliConfig
}

func (c *ImportCommand) run(ctx context.Context, from string) (int, error) {
	if c == nil {
		return 0, errors.New("import command is nil", errors.CategoryInternal).
			WithTextCode("IMPORT_CMD_NIL")
	}
	if c.submitter == nil {
		return 0, errors.New("import submitter is required", errors.CategoryValidation).
			WithTextCode("SUBMITTER_REQUIRED")
	}

	submissions, err := c.loadSubmissions(ctx, from)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, item := range submissions {
		if c.limits.MaxRequests > 0 && count >= c.limits.MaxRequests {
			break
		}
		if _, err := c.submitter.Submit(ctx, item.Submission); err != nil {
			return count, err
		}
		count++
		if c.limits.MinInterval > 0 && c.sleep != nil {
			c.sleep(c.limits.MinInterval)
		}
	}
	return count, nil
}

func (c *ImportCommand) loadSubmissions(ctx context.Context, from string) ([]ImportSubmission, error) {
	if strings.TrimSpace(from) != "" {
		return loadImportSubmissionsFromFile(from)
	}
	if c.loader == nil {
		return nil, errors.New("import loader not configured", errors.CategoryValidation).
			WithTextCode("LOADER_REQUIRED")
	}
	return c.loader(ctx)
}

type importCLI struct {
	cmd  *ImportCommand
	From string `kong:"name='from',help='Path to JSON internship submissions'"`
}

func (c *importCLI) Run() error {
	if c == nil || c.cmd == nil {
		return errors.New("import command is required", errors.CategoryInternal).
			WithTextCode("IMPORT_CMD_NIL")
	}
	_, err := c.cmd.run(context.Background(), c.From)
	return err
}

func loadImportSubmissionsFromFile(path string) ([]ImportSubmission, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "read import file failed").
			WithTextCode("IMPORT_FILE_READ")
	}

	var submissions []ImportSubmission
	if err := json.Unmarshal(content, &submissions); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "import file invalid JSON").
			WithTextCode("IMPORT_FILE_INVALID")
	}
	return submissions, nil
}
