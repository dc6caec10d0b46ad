// Package manifest reads desired-state documents (YAML, JSON or HCL) into
// resource specs.
package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/core/ports"
	"github.com/olusolaa/arrayctl/internal/errors"
)

var supportedExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
	".hcl":  true,
}

type Loader struct {
	logger ports.Logger
}

func NewLoader(logger ports.Logger) (*Loader, error) {
	if logger == nil {
		return nil, errors.New(errors.CodeInternal, "manifest loader requires a logger")
	}
	return &Loader{logger: logger}, nil
}

// Load reads every path in order. Directories contribute their supported
// files in lexical order, without recursing.
func (l *Loader) Load(ctx context.Context, paths []string) ([]domain.ResourceSpec, error) {
	if len(paths) == 0 {
		return nil, errors.NewUserFacing(errors.CodeManifestReadError, "no manifest given", "Pass at least one manifest with -f.")
	}

	files, err := expand(paths)
	if err != nil {
		return nil, err
	}

	var specs []domain.ResourceSpec
	for _, file := range files {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger := l.logger.WithFields(map[string]any{"manifest": file})

		var loaded []domain.ResourceSpec
		switch strings.ToLower(filepath.Ext(file)) {
		case ".hcl":
			loaded, err = loadHCL(ctx, file, logger)
		default:
			loaded, err = loadDocument(file)
		}
		if err != nil {
			return nil, err
		}
		logger.Debugf(ctx, "Loaded %d resource spec(s)", len(loaded))
		specs = append(specs, loaded...)
	}
	return specs, nil
}

func expand(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.WrapUserFacing(err, errors.CodeManifestReadError,
				fmt.Sprintf("cannot read manifest %s", p), "Check the path passed with -f.")
		}
		if !info.IsDir() {
			if !supportedExtensions[strings.ToLower(filepath.Ext(p))] {
				return nil, errors.NewUserFacing(errors.CodeManifestReadError,
					fmt.Sprintf("unsupported manifest type %s", p), "Use .yaml, .yml, .json or .hcl files.")
			}
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeManifestReadError, fmt.Sprintf("cannot list manifest directory %s", p))
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && supportedExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
				found = append(found, filepath.Join(p, e.Name()))
			}
		}
		if len(found) == 0 {
			return nil, errors.NewUserFacing(errors.CodeManifestReadError,
				fmt.Sprintf("no manifests found in %s", p), "Use .yaml, .yml, .json or .hcl files.")
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// newSpec applies the defaults shared by every manifest format.
func newSpec(kindName, id, name, state string, fields map[string]any, source string) (domain.ResourceSpec, error) {
	kind, ok := domain.ParseKind(kindName)
	if !ok {
		return domain.ResourceSpec{}, errors.New(errors.CodeManifestParseError,
			fmt.Sprintf("%s: unknown resource kind '%s'", source, kindName))
	}
	lifecycle := domain.LifecycleState(strings.ToLower(strings.TrimSpace(state)))
	if lifecycle == "" {
		lifecycle = domain.StatePresent
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return domain.ResourceSpec{
		Kind:   kind,
		Key:    domain.ResourceKey{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)},
		Fields: fields,
		State:  lifecycle,
		Source: source,
	}, nil
}
