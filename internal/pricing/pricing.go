// Package pricing turns a measured print volume into a quoted price. The
// model is deliberately simple: a fixed shell fraction is always solid, the
// rest is filled to the requested infill percentage, and weight times the
// material's per-gram rate plus a flat margin gives the price.
package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/lkiparis/printforge-backend/pkg/errors"
)

// Material describes one printable filament.
type Material struct {
	Name string `json:"name"`
	// DensityGCM3 is the filament density in g/cm³.
	DensityGCM3 decimal.Decimal `json:"density_g_cm3"`
	// PricePerGram is the material rate in EUR per gram.
	PricePerGram decimal.Decimal `json:"price_per_gram"`
}

// shellRatio is the fraction of the model volume printed solid (walls, top
// and bottom layers) independent of infill.
var shellRatio = decimal.NewFromFloat(0.20)

var materials = map[string]Material{
	"PLA":  {Name: "PLA", DensityGCM3: decimal.NewFromFloat(1.24), PricePerGram: decimal.NewFromFloat(0.05)},
	"PETG": {Name: "PETG", DensityGCM3: decimal.NewFromFloat(1.27), PricePerGram: decimal.NewFromFloat(0.06)},
	"ABS":  {Name: "ABS", DensityGCM3: decimal.NewFromFloat(1.04), PricePerGram: decimal.NewFromFloat(0.055)},
	"TPU":  {Name: "TPU", DensityGCM3: decimal.NewFromFloat(1.21), PricePerGram: decimal.NewFromFloat(0.08)},
}

// Materials returns the catalogue sorted by name.
func Materials() []Material {
	out := make([]Material, 0, len(materials))
	for _, m := range materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Quote is a priced estimate for one unit of a model.
type Quote struct {
	PriceEUR decimal.Decimal `json:"price"`
	WeightG  decimal.Decimal `json:"weight_g"`
}

// Estimator prices volumes with a configurable flat margin.
type Estimator struct {
	margin decimal.Decimal
}

// NewEstimator parses the margin, given in EUR as a decimal string.
func NewEstimator(marginEUR string) (*Estimator, error) {
	margin, err := decimal.NewFromString(marginEUR)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pricing margin")
	}
	return &Estimator{margin: margin}, nil
}

// Estimate prices a single unit. The effective material volume is the solid
// shell plus the infill fraction of the remainder; weight follows from the
// material density and the price from its per-gram rate plus the margin.
// Price and weight are rounded to cents and centigrams.
func (e *Estimator) Estimate(volumeCM3 float64, material string, infillPercent int) (*Quote, error) {
	mat, ok := materials[material]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnknownMaterial, "unknown material").
			WithDetails(map[string]any{"material": material})
	}

	volume := decimal.NewFromFloat(volumeCM3)
	infill := decimal.NewFromInt(int64(infillPercent)).Div(decimal.NewFromInt(100))

	solid := volume.Mul(shellRatio)
	filled := volume.Sub(solid).Mul(infill)
	weight := solid.Add(filled).Mul(mat.DensityGCM3)

	price := weight.Mul(mat.PricePerGram).Add(e.margin)

	return &Quote{
		PriceEUR: price.Round(2),
		WeightG:  weight.Round(2),
	}, nil
}
