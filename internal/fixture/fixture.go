package fixture

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/quiltcore/bundler/asset"
	"github.com/quiltcore/bundler/location"
)

// rawEnv mirrors asset.Env's constructor arguments.
type rawEnv struct {
	Context   string `json:"context"`
	Format    string `json:"format"`
	IsLibrary bool   `json:"library"`
	Isolated  bool   `json:"isolated"`
}

func (r rawEnv) toEnv() asset.Env {
	context := asset.Context(r.Context)
	if context == "" {
		context = asset.ContextBrowser
	}
	format := asset.OutputFormat(r.Format)
	if format == "" {
		format = asset.FormatESModule
	}
	return asset.NewEnv(context, format, r.IsLibrary, r.Isolated)
}

// rawTarget mirrors asset.Target.
type rawTarget struct {
	Directory string `json:"directory"`
	Env       rawEnv `json:"env"`
	PublicURL string `json:"publicURL"`
}

func (r rawTarget) toTarget() (asset.Target, error) {
	if r.Directory == "" && r.PublicURL == "" {
		return asset.Target{}, nil
	}
	dir := location.CanonicalPath{}
	if r.Directory != "" {
		var err error
		dir, err = location.NewCanonicalPath(r.Directory)
		if err != nil {
			return asset.Target{}, fmt.Errorf("fixture: target directory %q: %w", r.Directory, err)
		}
	}
	return asset.Target{
		Directory: dir,
		Env:       r.Env.toEnv(),
		PublicURL: r.PublicURL,
	}, nil
}

// rawAsset mirrors asset.Asset plus its outgoing dependency edges.
type rawAsset struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Size       int64    `json:"size"`
	IsInline   bool     `json:"inline"`
	IsIsolated bool     `json:"isolated"`
	Env        rawEnv   `json:"env"`
	Deps       []string `json:"deps"`
}

// rawDependency mirrors asset.Dependency; Resolve is the static list of
// asset ids this dependency resolves to.
type rawDependency struct {
	ID         string    `json:"id"`
	IsEntry    bool      `json:"isEntry"`
	IsAsync    bool      `json:"isAsync"`
	IsOptional bool      `json:"isOptional"`
	IsWeak     bool      `json:"isWeak"`
	IsDeferred bool      `json:"isDeferred"`
	Target     rawTarget `json:"target"`
	Resolve    []string  `json:"resolve"`
}

// rawFixture is the top-level JSONC document shape.
type rawFixture struct {
	Entries      []string        `json:"entries"`
	Assets       []rawAsset      `json:"assets"`
	Dependencies []rawDependency `json:"dependencies"`
}

// LoadFile reads path, preprocesses it as jsonc, and builds an [asset.Graph].
func LoadFile(path string) (*asset.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: reading %s: %w", path, err)
	}
	return Load(data)
}

// Load parses jsonc-flavored data into an [asset.Graph].
func Load(data []byte) (*asset.Graph, error) {
	var raw rawFixture
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("fixture: invalid document: %w", err)
	}

	assets := make([]asset.Asset, 0, len(raw.Assets))
	assetDeps := make(map[asset.ID][]asset.ID, len(raw.Assets))
	for _, ra := range raw.Assets {
		if ra.ID == "" {
			return nil, ErrEmptyAssetID
		}
		assets = append(assets, asset.Asset{
			ID:         asset.ID(ra.ID),
			Type:       ra.Type,
			Size:       ra.Size,
			IsInline:   ra.IsInline,
			IsIsolated: ra.IsIsolated,
			Env:        ra.Env.toEnv(),
		})
		if len(ra.Deps) > 0 {
			ids := make([]asset.ID, len(ra.Deps))
			for i, d := range ra.Deps {
				ids[i] = asset.ID(d)
			}
			assetDeps[asset.ID(ra.ID)] = ids
		}
	}

	deps := make([]asset.Dependency, 0, len(raw.Dependencies))
	for _, rd := range raw.Dependencies {
		if rd.ID == "" {
			return nil, ErrEmptyDependencyID
		}
		resolve := make([]asset.ID, len(rd.Resolve))
		for i, r := range rd.Resolve {
			resolve[i] = asset.ID(r)
		}
		target, err := rd.Target.toTarget()
		if err != nil {
			return nil, err
		}
		deps = append(deps, asset.NewDependency(
			asset.ID(rd.ID),
			rd.IsEntry, rd.IsAsync, rd.IsOptional, rd.IsWeak, rd.IsDeferred,
			target,
			func() []asset.ID { return resolve },
		))
	}

	entries := make([]asset.ID, len(raw.Entries))
	for i, e := range raw.Entries {
		entries[i] = asset.ID(e)
	}

	return asset.NewGraph(entries, assets, deps, assetDeps)
}
