package hcl

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/forgeos/internal/config"
	"github.com/vk/forgeos/internal/ctxlog"
	"github.com/vk/forgeos/internal/fsutil"
	"github.com/vk/forgeos/internal/funcpath"
	"github.com/vk/forgeos/internal/schema"
)

// roleNames are the post_init values a module block may declare.
var roleNames = map[string]bool{"main": true, "server": true, "client": true}

// Loader loads mission manifests written in HCL.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates an HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load implements config.Loader. Manifest errors are fatal: initialization
// must stop before any phase runs on a malformed table.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading mission manifest...", "path", path)

	filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to locate manifest files under %s: %w", path, err)
	}
	if len(filePaths) == 0 {
		return nil, fmt.Errorf("no .hcl manifest files found at %s", path)
	}

	files := make([]*hcl.File, 0, len(filePaths))
	for _, fp := range filePaths {
		file, diags := l.parser.ParseHCLFile(fp)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest file %s: %w", fp, diags)
		}
		files = append(files, file)
	}

	var cfg schema.MissionConfig
	if diags := gohcl.DecodeBody(hcl.MergeFiles(files), nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode mission manifest: %w", diags)
	}

	model, err := l.translate(&cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Mission manifest loaded.",
		"mission", model.Mission.Name,
		"version", model.Version.String(),
		"modules", len(model.Modules))
	return model, nil
}

// translate converts the decoded HCL schema into the agnostic model,
// applying defaults and validating everything that must be right before
// the first phase runs.
func (l *Loader) translate(cfg *schema.MissionConfig) (*config.Model, error) {
	if cfg.Mission == nil {
		return nil, fmt.Errorf("mission manifest is missing the required mission block")
	}
	if cfg.Mission.Name == "" || cfg.Mission.Prefix == "" {
		return nil, fmt.Errorf("mission block requires non-empty name and prefix")
	}
	if strings.Contains(cfg.Mission.Prefix, funcpath.Separator) {
		return nil, fmt.Errorf("mission prefix %q: %w", cfg.Mission.Prefix, funcpath.ErrInvalidIdentifier)
	}

	model := &config.Model{
		Mission: &config.Mission{
			Name:      cfg.Mission.Name,
			Prefix:    cfg.Mission.Prefix,
			Directory: cfg.Mission.Directory,
		},
		Settings: config.DefaultSettings(),
		Vars:     map[string]any{},
	}

	if cfg.Version != nil {
		model.Version = config.Version{
			Major: cfg.Version.Major,
			Minor: cfg.Version.Minor,
			Patch: cfg.Version.Patch,
			Build: cfg.Version.Build,
		}
	}

	if cfg.Options != nil {
		if cfg.Options.CompileCache != nil {
			model.Settings.CompileCache = *cfg.Options.CompileCache
		}
		if cfg.Options.DebugLogging != nil {
			model.Settings.DebugLogging = *cfg.Options.DebugLogging
		}
	}

	if cfg.Vars != nil {
		vars, err := decodeVars(cfg.Vars.Body)
		if err != nil {
			return nil, err
		}
		model.Vars = vars
	}

	for _, m := range cfg.Modules {
		for _, role := range m.PostInit {
			if !roleNames[role] {
				return nil, fmt.Errorf("module %q declares unknown post_init role %q", m.Name, role)
			}
		}
		model.Modules = append(model.Modules, &config.ModuleDefinition{
			Name:     m.Name,
			PreInit:  m.PreInit,
			PostInit: m.PostInit,
		})
	}

	return model, nil
}

// decodeVars evaluates every attribute of the vars block into a native Go
// value.
func decodeVars(body hcl.Body) (map[string]any, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read vars block: %w", diags)
	}

	vars := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate var %q: %w", name, diags)
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("var %q: %w", name, err)
		}
		vars[name] = native
	}
	return vars, nil
}
