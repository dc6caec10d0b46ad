package manifest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/errors"
)

type document struct {
	Resources []entry `mapstructure:"resources"`
}

type entry struct {
	Kind   string         `mapstructure:"kind"`
	ID     string         `mapstructure:"id"`
	Name   string         `mapstructure:"name"`
	State  string         `mapstructure:"state"`
	Fields map[string]any `mapstructure:"fields"`
}

// loadDocument reads a YAML or JSON manifest of the form
//
//	resources:
//	  - kind: NTP
//	    id: NTP1
//	    fields:
//	      addresses: [10.0.0.1]
func loadDocument(path string) ([]domain.ResourceSpec, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if strings.EqualFold(filepath.Ext(path), ".yml") {
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeManifestParseError,
			fmt.Sprintf("cannot parse manifest %s", path), "Check the file is valid YAML or JSON.")
	}

	var doc document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "cannot build manifest decoder")
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeManifestParseError,
			fmt.Sprintf("manifest %s has an unexpected shape", path),
			"Each entry takes kind, id or name, state and fields.")
	}

	base := filepath.Base(path)
	specs := make([]domain.ResourceSpec, 0, len(doc.Resources))
	for i, e := range doc.Resources {
		spec, err := newSpec(e.Kind, e.ID, e.Name, e.State, e.Fields, fmt.Sprintf("%s:resources[%d]", base, i))
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
