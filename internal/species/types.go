package species

import (
	"fmt"
	"strings"
)

// Type is an elemental type. The zero value means "no type".
type Type int

const (
	TypeNone Type = iota
	TypeNormal
	TypeFighting
	TypeFlying
	TypeGrass
	TypeWater
	TypeFire
	TypeRock
	TypeGround
	TypePsychic
	TypeBug
	TypeDragon
	TypeElectric
	TypeGhost
	TypePoison
	TypeIce
	TypeSteel
	TypeDark
	TypeFairy
)

var typeNames = [...]string{
	TypeNone:     "",
	TypeNormal:   "normal",
	TypeFighting: "fighting",
	TypeFlying:   "flying",
	TypeGrass:    "grass",
	TypeWater:    "water",
	TypeFire:     "fire",
	TypeRock:     "rock",
	TypeGround:   "ground",
	TypePsychic:  "psychic",
	TypeBug:      "bug",
	TypeDragon:   "dragon",
	TypeElectric: "electric",
	TypeGhost:    "ghost",
	TypePoison:   "poison",
	TypeIce:      "ice",
	TypeSteel:    "steel",
	TypeDark:     "dark",
	TypeFairy:    "fairy",
}

// AllTypes lists every elemental type in declaration order. Iteration over
// types anywhere in the engine goes through this slice so draw order is stable.
var AllTypes = []Type{
	TypeNormal, TypeFighting, TypeFlying, TypeGrass, TypeWater, TypeFire,
	TypeRock, TypeGround, TypePsychic, TypeBug, TypeDragon, TypeElectric,
	TypeGhost, TypePoison, TypeIce, TypeSteel, TypeDark, TypeFairy,
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Valid reports whether t is one of the elemental types.
func (t Type) Valid() bool {
	return t > TypeNone && int(t) < len(typeNames)
}

// ParseType converts a type name to a Type. The empty string parses to TypeNone.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return TypeNone, nil
	}
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return TypeNone, fmt.Errorf("unknown type %q", name)
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
