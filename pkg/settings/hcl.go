// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package settings

import (
	"context"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLCodec{})
}

// 🔧 HCLCodec implements the Codec interface for HCL files.
// The record is a flat list of string attributes:
//
//	rootDirectory   = "/home/me/Documents/sortdrop"
//	duplicatePolicy = "rename"
type HCLCodec struct{}

func (c *HCLCodec) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

func (c *HCLCodec) Decode(ctx context.Context, data []byte) (map[string]string, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, "settings.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	values := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, errors.Errorf("evaluating %s: %s", name, diags.Error())
		}
		if val.IsNull() {
			continue
		}
		if !val.Type().Equals(cty.String) {
			return nil, errors.Errorf("attribute %s must be a string, got %s", name, val.Type().FriendlyName())
		}
		values[name] = val.AsString()
	}
	return values, nil
}

func (c *HCLCodec) Encode(ctx context.Context, values map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		if !hclsyntax.ValidIdentifier(k) {
			return nil, errors.Errorf("encoding HCL: invalid attribute name %q", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	file := hclwrite.NewEmptyFile()
	body := file.Body()
	for _, k := range keys {
		body.SetAttributeValue(k, cty.StringVal(values[k]))
	}
	return file.Bytes(), nil
}
