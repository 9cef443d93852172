// Copyright 2025 Certen Protocol
//
// Canonical JSON encoding for the digest preimage. Adapted from
// pkg/commitment's RFC8785-flavored CanonicalizeJSON: that encoder sorts
// every object's keys alphabetically, which is exactly wrong for the
// top-level {pre, op, args, post} object -- the wire contract (SPEC_FULL.md
// section 4.5) fixes that key order regardless of alphabetization. This
// package keeps the teacher's "recursively canonicalize, then sort map
// keys" approach for nested values (including the op-specific args
// sub-object, which has no key-order contract of its own) but encodes the
// four top-level keys in the mandated order with a dedicated type instead
// of a map.
package trace

import (
	"bytes"
	"encoding/json"
	"sort"
)

// canonicalizeValue recursively sorts map keys; arrays retain order. This
// is pkg/commitment.canonicalizeValue, unchanged in behavior.
func canonicalizeValue(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make(map[string]interface{}, len(vv))
		for _, k := range keys {
			ordered[k] = canonicalizeValue(vv[k])
		}
		return ordered
	case []interface{}:
		out := make([]interface{}, len(vv))
		for i, e := range vv {
			out[i] = canonicalizeValue(e)
		}
		return out
	default:
		return vv
	}
}

// canonicalizeArgs marshals an arbitrary args value and re-encodes it with
// alphabetically sorted keys and no extraneous whitespace, for embedding
// as the "args" field of a digest preimage.
func canonicalizeArgs(args interface{}) (json.RawMessage, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	canon, err := json.Marshal(canonicalizeValue(v))
	if err != nil {
		return nil, err
	}
	return compact(canon)
}

// compact strips any whitespace json.Marshal might have introduced (it
// normally introduces none, but this guards the wire contract explicitly
// rather than relying on an implementation detail of encoding/json).
func compact(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// digestPreimage is the fixed-key-order object hashed into each step
// digest: {pre, op, args, post}. Field order here is Go struct field
// order, which encoding/json always preserves for structs (unlike maps),
// so this type -- not a map -- is what makes the key order a compile-time
// guarantee rather than a convention.
type digestPreimage struct {
	Pre  json.RawMessage `json:"pre"`
	Op   string          `json:"op"`
	Args json.RawMessage `json:"args"`
	Post json.RawMessage `json:"post"`
}

// EncodeStepPreimage produces the exact byte sequence hashed for a step's
// step_digest: canonical JSON with keys in the fixed order pre, op, args,
// post, and no extraneous whitespace. prevChainHex and postSetDigestHex
// are already hex-encoded by the caller (SPEC_FULL.md section 3: "hex(prev_chain)").
func EncodeStepPreimage(prevChainHex string, op string, args interface{}, postSetDigestHex string) ([]byte, error) {
	argsCanon, err := canonicalizeArgs(args)
	if err != nil {
		return nil, err
	}
	preQuoted, err := json.Marshal(prevChainHex)
	if err != nil {
		return nil, err
	}
	postQuoted, err := json.Marshal(postSetDigestHex)
	if err != nil {
		return nil, err
	}
	pre := digestPreimage{
		Pre:  preQuoted,
		Op:   op,
		Args: argsCanon,
		Post: postQuoted,
	}
	raw, err := json.Marshal(pre)
	if err != nil {
		return nil, err
	}
	return compact(raw)
}
