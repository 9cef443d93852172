// Copyright 2025 Certen Protocol
//
// The line-oriented proposer grammar (SPEC_FULL.md section 6): a tolerant
// key=value parser accepting several aliases. Per the design note in
// section 9, aliases are a proposer-boundary concern only -- ParseLine
// always returns a RawOp carrying canonical field names; nothing
// downstream of this file ever sees "bit=" or "LOAD".
package trace

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLine parses one line of the proposer's line-oriented op grammar
// into a RawOp with canonical op/field names.
func ParseLine(line string) (RawOp, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return RawOp{}, fmt.Errorf("%w: empty op line", ErrParse)
	}
	fields := strings.Fields(line)
	head := strings.ToUpper(fields[0])
	rest := fields[1:]

	switch head {
	case "LOAD":
		if len(rest) != 1 {
			return RawOp{}, fmt.Errorf("%w: LOAD expects exactly one element argument, got %q", ErrParse, line)
		}
		return RawOp{Op: OpStartElem, Elem: rest[0]}, nil

	case "START_ELEM":
		kv, err := parseKV(rest)
		if err != nil {
			return RawOp{}, err
		}
		elem, err := kv.require("elem")
		if err != nil {
			return RawOp{}, err
		}
		return RawOp{Op: OpStartElem, Elem: elem}, nil

	case "MASK_BIT", "SET_BIT":
		kv, err := parseKV(rest)
		if err != nil {
			return RawOp{}, err
		}
		i, err := kv.requireUintAlias("bit", "i")
		if err != nil {
			return RawOp{}, err
		}
		b, err := kv.requireBoolAlias("val", "b")
		if err != nil {
			return RawOp{}, err
		}
		return RawOp{Op: OpSetBit, I: i, B: b}, nil

	case "SELECT_UNIVERSE":
		kv, err := parseKV(rest)
		if err != nil {
			return RawOp{}, err
		}
		universe, err := kv.require("universe")
		if err != nil {
			return RawOp{}, err
		}
		n, _ := kv.optionalUint("n", 0)
		return RawOp{Op: OpSelectUniverse, Universe: universe, N: uint8(n)}, nil

	case "FILTER_WEIGHT":
		kv, err := parseKV(rest)
		if err != nil {
			return RawOp{}, err
		}
		min, err := kv.requireInt("min")
		if err != nil {
			return RawOp{}, err
		}
		max, err := kv.requireInt("max")
		if err != nil {
			return RawOp{}, err
		}
		return RawOp{Op: OpFilterWeight, Min: min, Max: max}, nil

	case "TOPK":
		kv, err := parseKV(rest)
		if err != nil {
			return RawOp{}, err
		}
		target, err := kv.require("target_elem")
		if err != nil {
			return RawOp{}, err
		}
		k, err := kv.requireInt("k")
		if err != nil {
			return RawOp{}, err
		}
		return RawOp{Op: OpTopK, TargetElem: target, K: k}, nil

	case "WITNESS_NEAREST":
		kv, err := parseKV(rest)
		if err != nil {
			return RawOp{}, err
		}
		target, err := kv.requireAlias("target", "target_elem")
		if err != nil {
			return RawOp{}, err
		}
		metric, ok := kv.optional("metric")
		if !ok {
			metric = MetricAbsDiff
		}
		return RawOp{Op: OpWitnessNearest, TargetElem: target, Metric: metric}, nil

	case "RETURN_SET":
		kv, err := parseKV(rest)
		if err != nil {
			return RawOp{}, err
		}
		maxItems, _ := kv.optionalInt("max_items", 0)
		includeWitness, _ := kv.optionalBool("include_witness", false)
		return RawOp{Op: OpReturnSet, MaxItems: maxItems, IncludeWitness: includeWitness}, nil

	default:
		return RawOp{}, fmt.Errorf("%w: unknown op %q", ErrSchema, fields[0])
	}
}

// kvSet is a parsed set of key=value tokens from one line.
type kvSet map[string]string

func parseKV(fields []string) (kvSet, error) {
	out := make(kvSet, len(fields))
	for _, f := range fields {
		parts := strings.SplitN(f, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: malformed key=value token %q", ErrParse, f)
		}
		out[strings.ToLower(parts[0])] = parts[1]
	}
	return out, nil
}

func (kv kvSet) optional(key string) (string, bool) {
	v, ok := kv[key]
	return v, ok
}

func (kv kvSet) require(key string) (string, error) {
	v, ok := kv[key]
	if !ok {
		return "", fmt.Errorf("%w: missing required key %q", ErrParse, key)
	}
	return v, nil
}

func (kv kvSet) requireAlias(primary, secondary string) (string, error) {
	if v, ok := kv[primary]; ok {
		return v, nil
	}
	if v, ok := kv[secondary]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: missing required key %q (or %q)", ErrParse, primary, secondary)
}

func (kv kvSet) requireInt(key string) (int, error) {
	v, err := kv.require(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: key %q value %q is not an integer", ErrParse, key, v)
	}
	return n, nil
}

func (kv kvSet) optionalInt(key string, def int) (int, bool) {
	v, ok := kv[key]
	if !ok {
		return def, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, false
	}
	return n, true
}

func (kv kvSet) requireUintAlias(primary, secondary string) (uint, error) {
	v, err := kv.requireAlias(primary, secondary)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: value %q is not a non-negative integer", ErrParse, v)
	}
	return uint(n), nil
}

func (kv kvSet) optionalUint(key string, def uint) (uint, bool) {
	v, ok := kv[key]
	if !ok {
		return def, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return def, false
	}
	return uint(n), true
}

func (kv kvSet) requireBoolAlias(primary, secondary string) (bool, error) {
	v, err := kv.requireAlias(primary, secondary)
	if err != nil {
		return false, err
	}
	return parseBool(v)
}

func (kv kvSet) optionalBool(key string, def bool) (bool, bool) {
	v, ok := kv[key]
	if !ok {
		return def, false
	}
	b, err := parseBool(v)
	if err != nil {
		return def, false
	}
	return b, true
}

// parseBool accepts 0|1|true|false|TRUE|FALSE (SPEC_FULL.md section 6).
func parseBool(v string) (bool, error) {
	switch v {
	case "0", "false", "FALSE":
		return false, nil
	case "1", "true", "TRUE":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q is not a recognized boolean", ErrParse, v)
	}
}
