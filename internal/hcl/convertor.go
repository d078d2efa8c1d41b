package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/hpmbench/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// optionTokens evaluates a dimension's options expression into text tokens.
// Strings are kept verbatim; numbers and bools are converted with the usual
// cty conversion rules, so 0.001 becomes "0.001".
func optionTokens(ctx context.Context, dim string, expr hcl.Expression) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	ty := val.Type()
	if val.IsNull() || !(ty.IsTupleType() || ty.IsListType() || ty.IsSetType()) {
		return nil, fmt.Errorf("%s: options of dimension %q must be a list, got %s", expr.Range(), dim, ty.FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("%s: options of dimension %q must be known values", expr.Range(), dim)
	}

	tokens := make([]string, 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		token, err := toToken(elem)
		if err != nil {
			return nil, fmt.Errorf("%s: option %d of dimension %q: %w", expr.Range(), len(tokens), dim, err)
		}
		if !elem.Type().Equals(cty.String) {
			logger.Debug("Implicitly converted option to token.",
				"dimension", dim,
				"from", elem.Type().FriendlyName(),
				"token", token,
			)
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

func toToken(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", fmt.Errorf("option cannot be null")
	}
	converted, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot convert %s to a token: %w", val.Type().FriendlyName(), err)
	}
	var token string
	if err := gocty.FromCtyValue(converted, &token); err != nil {
		return "", err
	}
	return token, nil
}
