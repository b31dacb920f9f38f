package lang

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON implements json.Marshaler for Scope.
func (s Scope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToNative())
}

// MarshalYAML implements yaml.InterfaceMarshaler for Scope.
func (s Scope) MarshalYAML() (any, error) {
	return s.ToNative(), nil
}

// ToNative converts the scope to plain Go values suitable for encoding.
//
// Each function declaration becomes {"func": name, "body": [...]} and each
// chain becomes {"chain": [...]}, whose elements are {"call": [words...]}
// or {"op": token}.
func (s Scope) ToNative() []any {
	result := make([]any, 0, len(s))

	for _, expr := range s {
		if expr == nil {
			continue
		}

		result = append(result, expr.ToNative())
	}

	return result
}

// ToNative converts the expression to plain Go values suitable for encoding.
func (e *Expr) ToNative() map[string]any {
	switch e.Type {
	case ExprFunc:
		if e.Func == nil {
			return map[string]any{"func": nil}
		}

		return map[string]any{
			"func": e.Func.Identifier,
			"body": e.Func.Body.ToNative(),
		}

	default:
		return map[string]any{"chain": e.Chain.ToNative()}
	}
}

// ToNative converts the chain to plain Go values suitable for encoding.
func (c Chain) ToNative() []any {
	result := make([]any, 0, len(c))

	for _, elem := range c {
		switch elem.Type {
		case ElemCall:
			words := make([]any, len(elem.Call))
			for i, w := range elem.Call {
				words[i] = w
			}

			result = append(result, map[string]any{"call": words})

		case ElemOp:
			result = append(result, map[string]any{"op": elem.Op.String()})
		}
	}

	return result
}

// FromNative reconstructs a scope from the values produced by
// [Scope.ToNative], such as a decoded JSON or YAML document.
func FromNative(v any) (Scope, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, ErrInvalidFormat.Wrap(fmt.Errorf("scope: expected list, got %T", v))
	}

	scope := make(Scope, 0, len(list))

	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, ErrInvalidFormat.Wrap(fmt.Errorf("scope[%d]: expected object, got %T", i, item))
		}

		switch {
		case m["func"] != nil:
			name, ok := m["func"].(string)
			if !ok {
				return nil, ErrInvalidFormat.Wrap(fmt.Errorf("scope[%d]: func name must be a string", i))
			}

			body, err := FromNative(orEmpty(m["body"]))
			if err != nil {
				return nil, err
			}

			scope = append(scope, &Expr{Type: ExprFunc, Func: &Func{Identifier: name, Body: body}})

		case m["chain"] != nil:
			chain, err := chainFromNative(m["chain"])
			if err != nil {
				return nil, err
			}

			scope = append(scope, &Expr{Type: ExprChain, Chain: chain})

		default:
			return nil, ErrInvalidFormat.Wrap(fmt.Errorf("scope[%d]: expected \"func\" or \"chain\"", i))
		}
	}

	return scope, nil
}

func chainFromNative(v any) (Chain, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, ErrInvalidFormat.Wrap(fmt.Errorf("chain: expected list, got %T", v))
	}

	chain := make(Chain, 0, len(list))

	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, ErrInvalidFormat.Wrap(fmt.Errorf("chain[%d]: expected object, got %T", i, item))
		}

		if words, ok := m["call"].([]any); ok {
			call := make(Call, len(words))
			for j, w := range words {
				call[j] = fmt.Sprint(w)
			}

			chain = append(chain, ChainElem{Type: ElemCall, Call: call})

			continue
		}

		tok, _ := m["op"].(string)

		op, ok := ParseOperator(tok)
		if !ok {
			return nil, ErrInvalidFormat.Wrap(fmt.Errorf("chain[%d]: expected \"call\" or \"op\"", i))
		}

		chain = append(chain, ChainElem{Type: ElemOp, Op: op})
	}

	return chain, nil
}

func orEmpty(v any) any {
	if v == nil {
		return []any{}
	}

	return v
}
