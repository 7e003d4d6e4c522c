package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Optional wrappers distinguish "field absent" from "field set to null"
// in PATCH-style payloads. Set is true whenever the key was present.

type OptionalUUID struct {
	Value *uuid.UUID
	Set   bool
}

func (o OptionalUUID) IsZero() bool {
	return !o.Set
}

func (o *OptionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		if raw == "" {
			o.Value = nil
			return nil
		}

		parsed, err := uuid.Parse(raw)
		if err != nil {
			return err
		}

		o.Value = &parsed
		return nil
	}

	var parsed uuid.UUID
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}

	o.Value = &parsed
	return nil
}

type OptionalTime struct {
	Value *time.Time
	Set   bool
}

func (o OptionalTime) IsZero() bool {
	return !o.Set
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var parsed time.Time
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	o.Value = &parsed
	return nil
}

type OptionalFloat64 struct {
	Value *float64
	Set   bool
}

func (o OptionalFloat64) IsZero() bool {
	return !o.Set
}

func (o *OptionalFloat64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var parsed float64
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	o.Value = &parsed
	return nil
}

type OptionalInt struct {
	Value *int
	Set   bool
}

func (o OptionalInt) IsZero() bool {
	return !o.Set
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var parsed int
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	o.Value = &parsed
	return nil
}
