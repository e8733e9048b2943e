// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// FlagsFromParams creates a [pflag.FlagSet] with flags bound to the tagged
// fields of params. params must be a pointer to a struct. Panics on
// invalid input (programming error, not runtime data).
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags registers pflag entries for each tagged field in params.
// params must be a pointer to a struct.
//
// # Struct tags
//
//   - flag:"name" or flag:"name,n": the long flag name and optional
//     single-character shorthand. Fields without a flag tag are skipped.
//   - desc:"help text": the flag's help description.
//   - default:"value": the default, parsed the same way the flag value
//     would be on the command line. Omitted means the zero value.
//
// Supported field types are string, bool, int, [time.Duration] and
// []string. Embedded structs are bound recursively, which is how the
// shared account flags and [JSONOutput] reach every command.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindStructFields(value.Elem(), flagSet)
}

func bindStructFields(structValue reflect.Value, flagSet *pflag.FlagSet) error {
	structType := structValue.Type()

	for i := range structType.NumField() {
		field := structType.Field(i)
		fieldValue := structValue.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindStructFields(fieldValue, flagSet); err != nil {
				return fmt.Errorf("embedded %s: %w", field.Name, err)
			}
			continue
		}

		flagTag := field.Tag.Get("flag")
		if flagTag == "" {
			continue
		}
		if !fieldValue.CanAddr() || !field.IsExported() {
			return fmt.Errorf("field %s: not settable", field.Name)
		}

		name, shorthand, _ := strings.Cut(flagTag, ",")
		if err := bindField(fieldValue.Addr().Interface(), flagSet, name, shorthand, field.Tag.Get("desc")); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}

		if defaultString, ok := field.Tag.Lookup("default"); ok {
			flag := flagSet.Lookup(name)
			if slice, isSlice := fieldValue.Addr().Interface().(*[]string); isSlice {
				// A slice flag's Set appends after its first call, so
				// the default is assigned directly.
				*slice = strings.Split(defaultString, ",")
				flag.DefValue = "[" + defaultString + "]"
				continue
			}
			if err := flag.Value.Set(defaultString); err != nil {
				return fmt.Errorf("default for --%s: %w", name, err)
			}
			flag.DefValue = flag.Value.String()
		}
	}

	return nil
}

// bindField registers target with its zero value as the default.
func bindField(target any, flagSet *pflag.FlagSet, name, shorthand, description string) error {
	switch target := target.(type) {
	case *string:
		flagSet.StringVarP(target, name, shorthand, "", description)
	case *bool:
		flagSet.BoolVarP(target, name, shorthand, false, description)
	case *int:
		flagSet.IntVarP(target, name, shorthand, 0, description)
	case *time.Duration:
		flagSet.DurationVarP(target, name, shorthand, 0, description)
	case *[]string:
		flagSet.StringSliceVarP(target, name, shorthand, nil, description)
	default:
		return fmt.Errorf("unsupported type %T for flag --%s", target, name)
	}
	return nil
}
