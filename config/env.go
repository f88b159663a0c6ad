// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

var (
	errExpectedPointerToStruct = errors.New("rlf/config: expected a pointer to a struct")
	errUnsupportedFieldType    = errors.New("rlf/config: unsupported field type")
)

// readEnv populates spec (a pointer to a RuntimeConfig or nested struct)
// from environment variables named by each field's `env:"NAME[,overwrite]"`
// tag, adapted from the teacher's own reflective env-var binder: no
// external struct-tag library exists in the pack to ground one on, so this
// stays hand-rolled, the way the teacher does it.
func readEnv(spec any) error {
	structValue := reflect.ValueOf(spec)
	if structValue.Kind() != reflect.Ptr {
		return fmt.Errorf("%w, got %s", errExpectedPointerToStruct, structValue.Kind())
	}

	structValue = structValue.Elem()
	if structValue.Kind() != reflect.Struct {
		return fmt.Errorf("%w, got a pointer to %s", errExpectedPointerToStruct, structValue.Kind())
	}

	structType := structValue.Type()

	for i := range structValue.NumField() {
		field := structValue.Field(i)
		fieldType := structType.Field(i)

		tag := fieldType.Tag.Get("env")
		if tag == "" {
			if field.Kind() == reflect.Struct {
				if err := readEnv(field.Addr().Interface()); err != nil {
					return err
				}
			}

			continue
		}

		parts := strings.Split(tag, ",")
		envVarName := parts[0]
		overwrite := slices.Contains(parts[1:], "overwrite")

		envValue, exists := os.LookupEnv(envVarName)
		if !exists || !field.CanSet() {
			continue
		}

		if !overwrite && !isZero(field) {
			continue
		}

		if err := setFieldValue(field, fieldType, envVarName, envValue); err != nil {
			return err
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, fieldType reflect.StructField, envVarName, envValue string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(envValue)

	case reflect.Int:
		n, err := strconv.Atoi(envValue)
		if err != nil {
			return fmt.Errorf("parsing %s from env var %s (%q): %w", fieldType.Name, envVarName, envValue, err)
		}

		field.SetInt(int64(n))

	case reflect.Bool:
		b, err := strconv.ParseBool(envValue)
		if err != nil {
			return fmt.Errorf("parsing %s from env var %s (%q): %w", fieldType.Name, envVarName, envValue, err)
		}

		field.SetBool(b)

	default:
		return fmt.Errorf("%w for field %s: %s", errUnsupportedFieldType, fieldType.Name, field.Kind())
	}

	return nil
}

func isZero(value reflect.Value) bool {
	switch value.Kind() {
	case reflect.String:
		return value.Len() == 0
	case reflect.Bool:
		return !value.Bool()
	case reflect.Int:
		return value.Int() == 0
	default:
		return false
	}
}
