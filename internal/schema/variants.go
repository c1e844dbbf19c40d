package schema

import (
	"fmt"
	"strings"
	"sync"
)

type Variant string

const (
	VariantFoundational     Variant = "foundational"
	VariantSupervision      Variant = "supervision"
	VariantCareCoordinator  Variant = "careCoordinator"
	VariantTermination      Variant = "termination"
	VariantProgramFidelity  Variant = "programFidelity"
	VariantCoreIntervention Variant = "coreIntervention"
	VariantLegacy           Variant = "legacy"
)

var variantOrder = []Variant{
	VariantFoundational,
	VariantSupervision,
	VariantCareCoordinator,
	VariantTermination,
	VariantProgramFidelity,
	VariantCoreIntervention,
	VariantLegacy,
}

// Variants returns every form variant in menu order.
func Variants() []Variant {
	out := make([]Variant, len(variantOrder))
	copy(out, variantOrder)
	return out
}

func ParseVariant(s string) (Variant, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, v := range variantOrder {
		if strings.ToLower(string(v)) == want {
			return v, nil
		}
	}
	names := make([]string, 0, len(variantOrder))
	for _, v := range variantOrder {
		names = append(names, string(v))
	}
	return "", fmt.Errorf("unknown form variant %q (expected one of: %s)", s, strings.Join(names, ", "))
}

var (
	formsOnce sync.Once
	forms     map[Variant]*Form
)

// For returns the static schema of a variant. The returned form is shared; callers must not mutate it.
func For(v Variant) (*Form, bool) {
	formsOnce.Do(func() {
		forms = map[Variant]*Form{
			VariantFoundational:     foundationalForm(),
			VariantSupervision:      supervisionForm(),
			VariantCareCoordinator:  careCoordinatorForm(),
			VariantTermination:      terminationForm(),
			VariantProgramFidelity:  programFidelityForm(),
			VariantCoreIntervention: coreInterventionForm(),
			VariantLegacy:           legacyForm(),
		}
	})
	f, ok := forms[v]
	return f, ok
}
