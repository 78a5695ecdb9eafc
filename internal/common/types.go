package common

// Result is the outcome type carried through the worker pools. Downloads and
// decompressions both report the final location of the file they produced.
type Result interface {
	Destination() string
}
