package parser

import (
	"crypto/sha256"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// ---------------------------------------------------------------------------
// Canonical CBOR encoding of syntax trees
// ---------------------------------------------------------------------------

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("parser: cbor encoder: %v", err))
	}
	encMode = em
}

// Encode returns the canonical CBOR encoding of the tree rooted at n,
// without source positions. Structurally equal trees encode to the same
// bytes regardless of where they were parsed from.
func Encode(n Node) ([]byte, error) {
	return encMode.Marshal(tree(reflect.ValueOf(n), false))
}

// EncodeWithSpans is like Encode but keeps every node's source span.
func EncodeWithSpans(n Node) ([]byte, error) {
	return encMode.Marshal(tree(reflect.ValueOf(n), true))
}

// Digest returns a SHA-256 digest of Encode(n). Trees that differ only in
// layout share a digest.
func Digest(n Node) ([32]byte, error) {
	data, err := Encode(n)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// Diagnose renders the encoding of n in CBOR diagnostic notation.
func Diagnose(n Node) (string, error) {
	data, err := Encode(n)
	if err != nil {
		return "", err
	}
	return cbor.Diagnose(data)
}

// tree converts an AST value into plain maps, slices and scalars. Node
// structs become maps with their type name under the "@" key.
func tree(v reflect.Value, spans bool) any {
	switch v.Kind() {
	case reflect.Invalid:
		return nil

	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return tree(v.Elem(), spans)

	case reflect.Slice:
		out := make([]any, v.Len())
		for i := range out {
			out[i] = tree(v.Index(i), spans)
		}
		return out

	case reflect.Struct:
		t := v.Type()
		if t == constantType {
			c := v.Interface().(Constant)
			m := map[string]any{"@": "Constant", "Value": fmt.Sprint(c.Value)}
			if spans {
				m["Span"] = spanTree(c.SpanVal)
			}
			return m
		}
		m := map[string]any{"@": t.Name()}
		for i := 0; i < v.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if f.Type == reflect.TypeOf(Span{}) {
				if spans {
					m["Span"] = spanTree(v.Field(i).Interface().(Span))
				}
				continue
			}
			m[f.Name] = tree(v.Field(i), spans)
		}
		return m

	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.String:
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}

func spanTree(s Span) []int {
	return []int{s.Start.Line, s.Start.Column, s.End.Line, s.End.Column}
}
