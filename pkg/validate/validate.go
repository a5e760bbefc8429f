// Package validate checks request and command input against struct tags.
//
// Rules (comma-separated in the `validate` tag):
//
//	required        field must not be zero/empty
//	nullable        if empty, skip the remaining rules for this field
//	plain           no '|' and no line breaks (safe for the record files)
//	alpha_dash      letters, digits, hyphens, underscores
//	min=N           string: min char length | number: min value
//	max=N           string: max char length | number: max value
//	gte=N           number >= N
//	lte=N           number <= N
//	in=a,b,c        value must be one of the listed items
//	regex=pattern   value must match (avoid commas in pattern)
//
// Rules apply to every element of a slice of strings. Example:
//
//	type CheckoutInput struct {
//	    OrderType string   `json:"order_type" validate:"required,in=pickup,delivery"`
//	    Address   string   `json:"address"    validate:"nullable,plain,max=200"`
//	    Toppings  []string `json:"toppings"   validate:"max=10"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Errors maps a field's json name to its first failing rule's message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := e.Fields()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = e[k]
	}
	return strings.Join(parts, " ")
}

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Struct validates the exported fields of v that carry a `validate` tag and
// recurses into nested structs and slices of structs. Nested fields are named
// parent.index.child. It returns nil when everything passes.
func Struct(v any) Errors {
	errs := Errors{}
	walk(reflect.ValueOf(v), "", errs)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func walk(rv reflect.Value, prefix string, errs Errors) {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		value := rv.Field(i)
		name := prefix + jsonFieldName(field)

		if tag := field.Tag.Get("validate"); tag != "" {
			checkField(name, splitRules(tag), value, errs)
		}

		switch value.Kind() {
		case reflect.Struct, reflect.Ptr:
			walk(value, name+".", errs)
		case reflect.Slice:
			for j := 0; j < value.Len(); j++ {
				walk(value.Index(j), fmt.Sprintf("%s.%d.", name, j), errs)
			}
		}
	}
}

func checkField(name string, rules []string, value reflect.Value, errs Errors) {
	if hasRule(rules, "nullable") && isEmpty(value) {
		return
	}
	for _, rule := range rules {
		if rule == "nullable" {
			continue
		}
		if msg := applyRule(rule, name, value); msg != "" {
			errs[name] = msg
			return
		}
		// Element rules for []string.
		if value.Kind() == reflect.Slice && value.Type().Elem().Kind() == reflect.String && elementRule(rule) {
			for j := 0; j < value.Len(); j++ {
				if msg := applyRule(rule, fmt.Sprintf("%s.%d", name, j), value.Index(j)); msg != "" {
					errs[name] = msg
					return
				}
			}
		}
	}
}

func elementRule(rule string) bool {
	key, _, _ := strings.Cut(rule, "=")
	switch key {
	case "plain", "alpha_dash", "in", "regex":
		return true
	}
	return false
}

// ─── Core dispatcher ──────────────────────────────────────────────────────────

func applyRule(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")
	isSlice := v.Kind() == reflect.Slice

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "plain":
		if !isSlice && strings.ContainsAny(raw(v), "|\r\n") {
			return fmt.Sprintf("The %s must not contain '|' or line breaks.", field)
		}

	case "alpha_dash":
		if isSlice {
			return ""
		}
		for _, c := range raw(v) {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
				return fmt.Sprintf("The %s field may only contain letters, numbers, dashes, and underscores.", field)
			}
		}

	case "min":
		n := mustParseFloat(param)
		switch {
		case isNumericKind(v):
			if toFloat(v) < n {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		case isSlice:
			if float64(v.Len()) < n {
				return fmt.Sprintf("The %s must have at least %s items.", field, param)
			}
		default:
			if float64(len([]rune(raw(v)))) < n {
				return fmt.Sprintf("The %s must be at least %s characters.", field, param)
			}
		}
	case "max":
		n := mustParseFloat(param)
		switch {
		case isNumericKind(v):
			if toFloat(v) > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		case isSlice:
			if float64(v.Len()) > n {
				return fmt.Sprintf("The %s must not have more than %s items.", field, param)
			}
		default:
			if float64(len([]rune(raw(v)))) > n {
				return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
			}
		}
	case "gte":
		if toFloat(v) < mustParseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lte":
		if toFloat(v) > mustParseFloat(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}

	case "in":
		if isSlice {
			return ""
		}
		s := raw(v)
		for _, a := range strings.Split(param, ",") {
			if s == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)

	case "regex":
		if isSlice {
			return ""
		}
		re, err := compile(param)
		if err != nil {
			return fmt.Sprintf("The %s has an invalid validation pattern.", field)
		}
		if !re.MatchString(raw(v)) {
			return fmt.Sprintf("The %s format is invalid.", field)
		}
	}
	return ""
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

var (
	reCache   = map[string]*regexp.Regexp{}
	knownRule = []string{
		"required", "nullable", "plain", "alpha_dash",
		"min=", "max=", "gte=", "lte=", "in=", "regex=",
	}
)

func compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := reCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	reCache[pattern] = re
	return re, nil
}

func raw(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(raw(v), 64)
	return f
}

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

// splitRules splits a tag on commas, keeping the values of in= together:
// "required,in=pickup,delivery,max=10" → ["required" "in=pickup,delivery" "max=10"].
func splitRules(tag string) []string {
	var rules []string
	var current strings.Builder
	inList := false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]
		if ch != ',' {
			current.WriteByte(ch)
			if !inList && strings.HasSuffix(current.String(), "in=") && current.Len() == 3 {
				inList = true
			}
			continue
		}
		if inList && !startsRule(tag[i+1:]) {
			current.WriteByte(ch)
			continue
		}
		rules = append(rules, current.String())
		current.Reset()
		inList = false
	}
	if current.Len() > 0 {
		rules = append(rules, current.String())
	}
	return rules
}

func startsRule(s string) bool {
	for _, k := range knownRule {
		if strings.HasPrefix(s, k) {
			return true
		}
	}
	return false
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
