// Copyright 2025 Certen Protocol

package trace

import (
	"encoding/json"
	"fmt"
)

// DecodeArgs parses a Record's raw args into the op-specific struct named
// by op. Used by the verifier to replay a step without knowing the args
// shape ahead of time (SPEC_FULL.md section 4.6).
func DecodeArgs(op string, raw json.RawMessage) (interface{}, error) {
	switch op {
	case OpSelectUniverse:
		var a ArgsSelectUniverse
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("%w: %s args: %v", ErrParse, op, err)
		}
		return a, nil
	case OpStartElem:
		var a ArgsStartElem
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("%w: %s args: %v", ErrParse, op, err)
		}
		return a, nil
	case OpSetBit:
		var a ArgsSetBit
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("%w: %s args: %v", ErrParse, op, err)
		}
		return a, nil
	case OpFilterWeight:
		var a ArgsFilterWeight
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("%w: %s args: %v", ErrParse, op, err)
		}
		return a, nil
	case OpTopK:
		var a ArgsTopK
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("%w: %s args: %v", ErrParse, op, err)
		}
		return a, nil
	case OpWitnessNearest:
		var a ArgsWitnessNearest
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("%w: %s args: %v", ErrParse, op, err)
		}
		return a, nil
	case OpReturnSet:
		var a ArgsReturnSet
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("%w: %s args: %v", ErrParse, op, err)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("%w: unknown op %q", ErrSchema, op)
	}
}
