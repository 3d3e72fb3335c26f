package domain

// Kind identifies a category of catalog content.
type Kind string

// All entity kinds found in the upstream data.
const (
	KindMonster         Kind = "monster"
	KindSpell           Kind = "spell"
	KindItem            Kind = "item"
	KindRace            Kind = "race"
	KindBackground      Kind = "background"
	KindClass           Kind = "class"
	KindFeat            Kind = "feat"
	KindCondition       Kind = "condition"
	KindLanguage        Kind = "language"
	KindTrap            Kind = "trap"
	KindHazard          Kind = "hazard"
	KindAction          Kind = "action"
	KindDeity           Kind = "deity"
	KindObject          Kind = "object"
	KindOptionalFeature Kind = "optionalfeature"
	KindPsionic         Kind = "psionic"
	KindReward          Kind = "reward"
	KindTable           Kind = "table"
	KindVariantRule     Kind = "variantrule"
	KindVehicle         Kind = "vehicle"
	KindCult            Kind = "cult"
)

// AllKinds lists every known entity kind in a stable order.
// The order is used for deterministic per-kind reporting.
var AllKinds = []Kind{
	KindMonster,
	KindSpell,
	KindItem,
	KindRace,
	KindBackground,
	KindClass,
	KindFeat,
	KindCondition,
	KindLanguage,
	KindTrap,
	KindHazard,
	KindAction,
	KindDeity,
	KindObject,
	KindOptionalFeature,
	KindPsionic,
	KindReward,
	KindTable,
	KindVariantRule,
	KindVehicle,
	KindCult,
}

// ParseKind converts a string to a Kind.
// Returns false when the string names no known kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	for _, known := range AllKinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// String returns the kind as its wire/storage form.
func (k Kind) String() string {
	return string(k)
}
