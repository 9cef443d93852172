// Copyright 2025 Certen Protocol
//
// Trace record schema: the typed op algebra and the canonical on-disk
// line-delimited record layout (SPEC_FULL.md section 6).

package trace

import "encoding/json"

// Op names, normative on the wire (SPEC_FULL.md section 9: "the stored
// trace must use canonical names" -- aliases are a proposer-boundary
// concern only, see parse.go).
const (
	OpSelectUniverse = "SELECT_UNIVERSE"
	OpStartElem      = "START_ELEM"
	OpSetBit         = "SET_BIT"
	OpFilterWeight   = "FILTER_WEIGHT"
	OpTopK           = "TOPK"
	OpWitnessNearest = "WITNESS_NEAREST"
	OpReturnSet      = "RETURN_SET"
)

// MetricAbsDiff is the only supported WITNESS_NEAREST metric.
const MetricAbsDiff = "ABS_DIFF"

// Op is one parsed operation awaiting execution: Name tags which of the
// op-specific arg fields is populated.
type Op struct {
	Name string
	Args interface{} // one of the Args* types below
}

// ArgsSelectUniverse: {universe, n}. N is required for BOOLFUN, ignored
// otherwise.
type ArgsSelectUniverse struct {
	Universe string `json:"universe"`
	N        uint8  `json:"n,omitempty"`
}

// ArgsStartElem: {elem}.
type ArgsStartElem struct {
	Elem string `json:"elem"`
}

// ArgsSetBit: {i, b}.
type ArgsSetBit struct {
	I uint `json:"i"`
	B bool `json:"b"`
}

// ArgsFilterWeight: {min, max}. BoolFun only.
type ArgsFilterWeight struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ArgsTopK: {target_elem, k}. BoolFun only.
type ArgsTopK struct {
	TargetElem string `json:"target_elem"`
	K          int    `json:"k"`
}

// ArgsWitnessNearest: {target_elem, metric}.
type ArgsWitnessNearest struct {
	TargetElem string `json:"target_elem"`
	Metric     string `json:"metric"`
}

// ArgsReturnSet: {max_items, include_witness}. Presentation only.
type ArgsReturnSet struct {
	MaxItems       int  `json:"max_items"`
	IncludeWitness bool `json:"include_witness"`
}

// StepPre is the pre-state snapshot taken before an op is applied.
// SetDigest is nil exactly when the candidate set is empty and this is
// the first step of the trace.
type StepPre struct {
	SetDigest        *string `json:"set_digest"`
	Count            int     `json:"count"`
	ConstraintMask   uint8   `json:"constraint_mask"`
	ConstraintValue  uint8   `json:"constraint_value"`
}

// StepPost is the post-state snapshot taken after an op is applied.
type StepPost struct {
	SetDigest string  `json:"set_digest"`
	Count     int     `json:"count"`
	Witness   *string `json:"witness"`
}

// Record is one line of the trace transcript. Args is kept as raw JSON
// (rather than a concrete op-specific struct) because a Record read back
// off disk does not know which Args* type to decode into until its Op
// field has been read -- see DecodeArgs.
type Record struct {
	Step       int             `json:"step"`
	Op         string          `json:"op"`
	Args       json.RawMessage `json:"args"`
	Pre        StepPre         `json:"pre"`
	Post       StepPost        `json:"post"`
	StepDigest string          `json:"step_digest"`
}

// EncodeArgs marshals an op-specific Args* value to the raw JSON stored
// in Record.Args.
func EncodeArgs(args interface{}) (json.RawMessage, error) {
	return json.Marshal(args)
}

// Header is the trace input's top-level envelope (SPEC_FULL.md section 6).
type Header struct {
	SemtraceVersion int    `json:"semtrace_version"`
	Universe        string `json:"universe"`
	Bits            int    `json:"bits"`
	Ops             []RawOp `json:"ops"`
}

// RawOp is one op as it appears in the JSON trace-input form: tagged by
// name, with op-specific fields flattened alongside it.
type RawOp struct {
	Op             string `json:"op"`
	Universe       string `json:"universe,omitempty"`
	N              uint8  `json:"n,omitempty"`
	Elem           string `json:"elem,omitempty"`
	I              uint   `json:"i,omitempty"`
	B              bool   `json:"b,omitempty"`
	Min            int    `json:"min,omitempty"`
	Max            int    `json:"max,omitempty"`
	TargetElem     string `json:"target_elem,omitempty"`
	K              int    `json:"k,omitempty"`
	Metric         string `json:"metric,omitempty"`
	MaxItems       int    `json:"max_items,omitempty"`
	IncludeWitness bool   `json:"include_witness,omitempty"`
}

// CurrentSchemaVersion is this implementation's semtrace_version
// (SPEC_FULL.md section 6: "Changing a predicate ... is a breaking
// change and must be accompanied by a new semtrace_version").
const CurrentSchemaVersion = 1
