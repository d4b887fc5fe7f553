package models

// Sex is the enumerated student sex, shared by every layer. No behavior is
// attached beyond equality and serialization.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Valid reports whether s is one of the enumerated values.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}
