package manifest

import (
	"context"
	"fmt"
	"math"
	"math/big"

	jsoniter "github.com/json-iterator/go"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/olusolaa/arrayctl/internal/core/ports"
	"github.com/olusolaa/arrayctl/internal/errors"
)

// convertCtyValue turns an evaluated HCL value into plain Go data: whole
// numbers become int64, collections become []any and map[string]any.
func convertCtyValue(ctx context.Context, val cty.Value, logger ports.Logger) (any, error) {
	if !val.IsKnown() {
		return nil, errors.New(errors.CodeManifestParseError, "cannot convert unknown value")
	}
	if val.IsNull() {
		return nil, nil
	}

	switch ty := val.Type(); {
	case ty.Equals(cty.Number):
		bf := val.AsBigFloat()
		if i64, acc := bf.Int64(); acc == big.Exact {
			return i64, nil
		}
		if f64, _ := bf.Float64(); !math.IsInf(f64, 0) {
			return f64, nil
		}
		return bf.Text('g', -1), nil
	case ty.Equals(cty.String):
		var s string
		if err := gocty.FromCtyValue(val, &s); err != nil {
			return nil, err
		}
		return s, nil
	case ty.Equals(cty.Bool):
		var b bool
		if err := gocty.FromCtyValue(val, &b); err != nil {
			return nil, err
		}
		return b, nil
	}

	logger.Debugf(ctx, "Converting %s through JSON", val.Type().FriendlyName())
	raw, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return nil, fmt.Errorf("marshal %s value: %w", val.Type().FriendlyName(), err)
	}
	var out any
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal %s value: %w", val.Type().FriendlyName(), err)
	}
	return out, nil
}
