// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package printer

import (
	"bytes"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	apimodel "github.com/platform-engineering-labs/panier/internal/api/model"
	"github.com/platform-engineering-labs/panier/internal/cli/renderer"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

type Consumer string

const (
	ConsumerHuman   Consumer = "human"
	ConsumerMachine Consumer = "machine"
)

type MachineReadablePrinter[T any] struct {
	w      io.Writer
	format string
}

func NewMachineReadablePrinter[T any](w io.Writer, format string) *MachineReadablePrinter[T] {
	return &MachineReadablePrinter[T]{
		w:      w,
		format: format,
	}
}

func (p *MachineReadablePrinter[T]) Print(v *T) error {
	var data []byte
	var err error
	switch p.format {
	case "json":
		data, err = json.Marshal(v)
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
	case "yaml":
		// go through json so the field names match the API
		intermediate, err := toGeneric(v)
		if err != nil {
			return fmt.Errorf("convert to yaml: %w", err)
		}

		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(intermediate); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		data = buf.Bytes()
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}
	if _, err = p.w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func toGeneric(v any) (any, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var result any
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return nil, err
	}

	return result, nil
}

type HumanReadablePrinter struct {
	w io.Writer
}

func NewHumanReadablePrinter(w io.Writer) *HumanReadablePrinter {
	return &HumanReadablePrinter{
		w: w,
	}
}

func (p *HumanReadablePrinter) Print(v any) error {
	var output string
	var err error

	switch v := v.(type) {
	case *apimodel.Page[*pkgmodel.Panier]:
		output, err = renderer.RenderPaniers(v)
	case *apimodel.Page[*pkgmodel.Compte]:
		output, err = renderer.RenderComptes(v)
	case *apimodel.Page[*pkgmodel.SystemePaiement]:
		output, err = renderer.RenderSystemePaiements(v)
	case *pkgmodel.Panier:
		output, err = renderer.RenderPanier(v)
	default:
		return fmt.Errorf("unsupported type: %T", v)
	}
	if err != nil {
		return fmt.Errorf("render %T: %w", v, err)
	}

	if _, err := p.w.Write([]byte(output)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
