package handler

import "greenforge/internal/strain/models"

// ListResponse is the body of GET /strains.
type ListResponse struct {
	Strains []string `json:"strains"`
	Count   int      `json:"count"`
}

// CompoundLevel matches the compound shape accepted by the recommend endpoint.
type CompoundLevel struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// ProductPayload can be posted unchanged as a recommend product.
type ProductPayload struct {
	Name      string          `json:"name"`
	GrowStyle string          `json:"growStyle"`
	Compounds []CompoundLevel `json:"compounds"`
}

// VariantResponse is one grow context of a strain.
type VariantResponse struct {
	GrowStyle  string         `json:"growStyle"`
	Archetype  string         `json:"archetype"`
	VSCPresent bool           `json:"vscPresent"`
	Product    ProductPayload `json:"product"`
}

// StrainResponse is the body of GET /strains/{name}.
type StrainResponse struct {
	Name     string            `json:"name"`
	Variants []VariantResponse `json:"variants"`
}

// FromVariants builds the strain detail. Callers guarantee at least one
// variant.
func FromVariants(variants []models.Variant) StrainResponse {
	resp := StrainResponse{Variants: make([]VariantResponse, 0, len(variants))}
	if len(variants) > 0 {
		resp.Name = variants[0].Name
	}
	for _, v := range variants {
		p := v.Product()
		payload := ProductPayload{Name: p.Name, GrowStyle: p.GrowStyle, Compounds: make([]CompoundLevel, 0, len(p.Compounds))}
		for _, c := range p.Compounds {
			payload.Compounds = append(payload.Compounds, CompoundLevel{Name: c.Name, Type: string(c.Type), Value: c.Value})
		}
		resp.Variants = append(resp.Variants, VariantResponse{
			GrowStyle:  v.GrowStyle,
			Archetype:  v.Archetype,
			VSCPresent: v.VSCPresent,
			Product:    payload,
		})
	}
	return resp
}
