package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ============================================================
// Wizard configuration
// ============================================================

type WizardConfig struct {
	Fields         Schema `json:"fields"`
	DefaultWidth   string `json:"defaultWidth,omitempty"`
	DefaultHeight  string `json:"defaultHeight,omitempty"`
	ItemFormElName string `json:"itemFormElName,omitempty"`
}

// UnmarshalJSON accepts defaultWidth/defaultHeight as strings or numbers.
func (c *WizardConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		Fields         Schema          `json:"fields"`
		DefaultWidth   json.RawMessage `json:"defaultWidth"`
		DefaultHeight  json.RawMessage `json:"defaultHeight"`
		ItemFormElName string          `json:"itemFormElName"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Fields = raw.Fields
	c.ItemFormElName = raw.ItemFormElName
	c.DefaultWidth = scalarString(raw.DefaultWidth)
	c.DefaultHeight = scalarString(raw.DefaultHeight)
	return nil
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FieldConfig struct {
	Type        string   `json:"type"`
	Title       string   `json:"title,omitempty"`
	Default     *string  `json:"default"`
	DisplayCond string   `json:"displayCond,omitempty"`
	UseAsName   bool     `json:"useAsName,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

func (f *FieldConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type        string          `json:"type"`
		Title       string          `json:"title"`
		Default     json.RawMessage `json:"default"`
		DisplayCond string          `json:"displayCond"`
		UseAsName   json.RawMessage `json:"useAsName"`
		Options     json.RawMessage `json:"options"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Type = raw.Type
	f.Title = raw.Title
	f.DisplayCond = raw.DisplayCond
	f.UseAsName = truthyName(raw.UseAsName)
	f.Default = nil
	if len(raw.Default) > 0 && !bytes.Equal(bytes.TrimSpace(raw.Default), []byte("null")) {
		s := scalarString(raw.Default)
		f.Default = &s
	}
	f.Options = nil
	if len(raw.Options) > 0 && !bytes.Equal(bytes.TrimSpace(raw.Options), []byte("null")) {
		opts, err := decodeOptions(raw.Options)
		if err != nil {
			return fmt.Errorf("options: %w", err)
		}
		f.Options = opts
	}
	return nil
}

// ============================================================
// Schema (ordered field map)
// ============================================================

type SchemaField struct {
	Name   string
	Config FieldConfig
}

// Schema keeps the declaration order of the JSON "fields" object.
type Schema []SchemaField

// Lookup returns the config of the named field.
func (s Schema) Lookup(name string) (FieldConfig, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Config, true
		}
	}
	return FieldConfig{}, false
}

func (s Schema) Names() []string {
	out := make([]string, 0, len(s))
	for _, f := range s {
		out = append(out, f.Name)
	}
	return out
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	out := Schema{}
	err := walkObject(data, func(key string, value json.RawMessage) error {
		var cfg FieldConfig
		if err := json.Unmarshal(value, &cfg); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		for i := range out {
			if out[i].Name == key {
				out[i].Config = cfg
				return nil
			}
		}
		out = append(out, SchemaField{Name: key, Config: cfg})
		return nil
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

func (s Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Config)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ============================================================
// Helpers
// ============================================================

// walkObject visits the members of a JSON object in document order.
// A JSON null or an empty array is treated as an empty object.
func walkObject(data []byte, fn func(key string, value json.RawMessage) error) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("[]")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key")
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

// decodeOptions reads select options from {"value": "label", ...}.
func decodeOptions(data []byte) ([]Option, error) {
	var opts []Option
	err := walkObject(data, func(key string, value json.RawMessage) error {
		opts = append(opts, Option{Value: key, Label: scalarString(value)})
		return nil
	})
	return opts, err
}

// scalarString renders a JSON scalar as a plain string. Strings are unquoted,
// numbers and booleans keep their literal text, null and absent give "".
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func truthyName(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	case float64:
		return t == 1
	}
	return false
}

// ParseDimension parses defaultWidth/defaultHeight. ok is false for empty,
// non-numeric, non-finite or non-positive input.
func ParseDimension(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}
