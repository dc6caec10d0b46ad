package manifest

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/core/ports"
	"github.com/olusolaa/arrayctl/internal/errors"
)

var manifestSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "locals"},
		{Type: "resource", LabelNames: []string{"kind", "label"}},
	},
}

// HCLDiagnosticsError carries the diagnostics of a manifest that failed to
// parse or evaluate.
type HCLDiagnosticsError struct {
	Operation string
	FilePath  string
	Diags     hcl.Diagnostics
}

func (e *HCLDiagnosticsError) Error() string {
	return fmt.Sprintf("HCL %s error processing %q: %s", e.Operation, e.FilePath, e.Diags.Error())
}

func manifestFunctions() map[string]function.Function {
	return map[string]function.Function{
		"concat":    stdlib.ConcatFunc,
		"distinct":  stdlib.DistinctFunc,
		"format":    stdlib.FormatFunc,
		"join":      stdlib.JoinFunc,
		"lower":     stdlib.LowerFunc,
		"max":       stdlib.MaxFunc,
		"min":       stdlib.MinFunc,
		"sort":      stdlib.SortFunc,
		"split":     stdlib.SplitFunc,
		"trimspace": stdlib.TrimSpaceFunc,
		"upper":     stdlib.UpperFunc,
	}
}

// loadHCL reads blocks of the form
//
//	resource "SnapshotRule" "hourly" {
//	  interval          = "One_Hour"
//	  desired_retention = 24
//	}
//
// The label is the resource name for kinds identified by name, otherwise its
// id, unless id or name is set explicitly. A locals block may define values
// referenced as local.<name>.
func loadHCL(ctx context.Context, path string, logger ports.Logger) ([]domain.ResourceSpec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Wrap(&HCLDiagnosticsError{Operation: "parse", FilePath: path, Diags: diags},
			errors.CodeManifestParseError, fmt.Sprintf("cannot parse manifest %s", path))
	}

	content, diags := file.Body.Content(manifestSchema)
	if diags.HasErrors() {
		return nil, errors.Wrap(&HCLDiagnosticsError{Operation: "decode", FilePath: path, Diags: diags},
			errors.CodeManifestParseError, fmt.Sprintf("manifest %s has an unexpected shape", path))
	}

	evalCtx := &hcl.EvalContext{Functions: manifestFunctions()}
	locals, diags := evaluateLocals(content.Blocks, evalCtx)
	if diags.HasErrors() {
		return nil, errors.Wrap(&HCLDiagnosticsError{Operation: "locals", FilePath: path, Diags: diags},
			errors.CodeManifestParseError, fmt.Sprintf("cannot evaluate locals in %s", path))
	}
	evalCtx.Variables = map[string]cty.Value{"local": locals}

	policies := domain.DefaultPolicies()
	base := filepath.Base(path)
	seen := make(map[string]hcl.Range)
	var specs []domain.ResourceSpec

	for _, block := range content.Blocks {
		if block.Type != "resource" {
			continue
		}
		kindName, label := block.Labels[0], block.Labels[1]
		address := fmt.Sprintf("%s.%s", kindName, label)
		if prev, dup := seen[address]; dup {
			return nil, errors.New(errors.CodeManifestParseError,
				fmt.Sprintf("%s: resource %s already declared at %s", base, address, prev.String()))
		}
		seen[address] = block.DefRange

		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, errors.Wrap(&HCLDiagnosticsError{Operation: "decode", FilePath: path, Diags: diags},
				errors.CodeManifestParseError, fmt.Sprintf("cannot decode resource %s", address))
		}

		names := make([]string, 0, len(attrs))
		for n := range attrs {
			names = append(names, n)
		}
		sort.Strings(names)

		var id, name, state string
		fields := make(map[string]any, len(attrs))
		for _, n := range names {
			val, diags := attrs[n].Expr.Value(evalCtx)
			if diags.HasErrors() {
				return nil, errors.Wrap(&HCLDiagnosticsError{Operation: "evaluate", FilePath: path, Diags: diags},
					errors.CodeManifestParseError, fmt.Sprintf("cannot evaluate %s.%s", address, n))
			}
			goVal, err := convertCtyValue(ctx, val, logger)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeManifestParseError, fmt.Sprintf("cannot convert %s.%s", address, n))
			}
			switch n {
			case domain.KeyID:
				id = fmt.Sprint(goVal)
			case domain.KeyName:
				name = fmt.Sprint(goVal)
			case domain.KeyState:
				state = fmt.Sprint(goVal)
			default:
				fields[n] = goVal
			}
		}

		if id == "" && name == "" {
			kind, _ := domain.ParseKind(kindName)
			if p, ok := policies[kind]; ok && p.AcceptsKey(domain.KeyName) {
				name = label
			} else {
				id = label
			}
		}

		spec, err := newSpec(kindName, id, name, state, fields, fmt.Sprintf("%s:resource.%s", base, address))
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func evaluateLocals(blocks hcl.Blocks, evalCtx *hcl.EvalContext) (cty.Value, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	locals := make(map[string]cty.Value)
	defined := make(map[string]hcl.Range)

	for _, block := range blocks {
		if block.Type != "locals" {
			continue
		}
		attrs, attrDiags := block.Body.JustAttributes()
		diags = append(diags, attrDiags...)
		if attrDiags.HasErrors() {
			continue
		}
		for name, attr := range attrs {
			if at, exists := defined[name]; exists {
				diags = diags.Append(&hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate local value definition",
					Detail:   fmt.Sprintf("A local value named %q was already defined at %s.", name, at.String()),
					Subject:  &attr.NameRange,
				})
				continue
			}
			defined[name] = attr.NameRange

			val, valDiags := attr.Expr.Value(evalCtx)
			diags = append(diags, valDiags...)
			if !valDiags.HasErrors() {
				locals[name] = val
			}
		}
	}
	if len(locals) == 0 {
		return cty.EmptyObjectVal, diags
	}
	return cty.ObjectVal(locals), diags
}
